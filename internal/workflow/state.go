// Package workflow defines the persisted guided-setup state record, the
// JSON file store backing pause/resume, and the SQLite history index.
package workflow

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StepCount is the length of the guided setup sequence.
const StepCount = 10

// Step indices, in the fixed order the wizard runs them.
const (
	StepMarket = iota
	StepAssetType
	StepTargetReturn
	StepRiskLevel
	StepTotalCapital
	StepPerTradeCapital
	StepBroker
	StepRiskLimits
	StepReporting
	StepConfirm
)

// Run statuses as stored in the history index.
const (
	StatusInProgress = "in-progress"
	StatusComplete   = "complete"
)

// State is the persisted record of a guided setup run. It is created on
// workflow start, mutated in place as steps complete, and written to disk
// after every step so a run can be paused and resumed.
type State struct {
	ID             string     `json:"id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CurrentStep    int        `json:"current_step"`
	CompletedSteps []int      `json:"completed_steps"`
	Selections     Selections `json:"selections"`
}

// Selections holds the user-supplied fields. A field is only set once its
// step has run; Validate enforces that.
type Selections struct {
	Market          string      `json:"market,omitempty"`
	AssetType       string      `json:"asset_type,omitempty"`
	TargetReturnPct float64     `json:"target_return_pct,omitempty"`
	RiskLevel       string      `json:"risk_level,omitempty"`
	TotalCapital    float64     `json:"total_capital,omitempty"`
	PerTradeCapital float64     `json:"per_trade_capital,omitempty"`
	Broker          string      `json:"broker,omitempty"`
	RiskLimits      *RiskLimits `json:"risk_limits,omitempty"`
	Reporting       *Reporting  `json:"reporting,omitempty"`
	Confirmed       bool        `json:"confirmed,omitempty"`
}

// RiskLimits are the hard limits applied to the strategy.
type RiskLimits struct {
	MaxDrawdownPct   float64 `json:"max_drawdown_pct"`
	StopLossPct      float64 `json:"stop_loss_pct"`
	MaxOpenPositions int     `json:"max_open_positions"`
}

// Reporting holds the reporting preferences.
type Reporting struct {
	Frequency string `json:"frequency"` // daily|weekly|monthly
	Channel   string `json:"channel"`   // console|email
	Email     string `json:"email,omitempty"`
}

// New creates a fresh state at step 0 with a generated identifier.
func New() *State {
	now := time.Now().UTC()
	return &State{
		ID:             uuid.NewString(),
		CreatedAt:      now,
		UpdatedAt:      now,
		CurrentStep:    0,
		CompletedSteps: []int{},
	}
}

// CompleteStep marks step as done and advances the cursor. Steps must
// complete in order, one at a time.
func (s *State) CompleteStep(step int) error {
	if s.IsComplete() {
		return fmt.Errorf("workflow %s already complete", s.ID)
	}
	if step != s.CurrentStep {
		return fmt.Errorf("step %d completed out of order (current step %d)", step, s.CurrentStep)
	}
	s.CompletedSteps = append(s.CompletedSteps, step)
	s.CurrentStep++
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// HasCompleted reports whether the given step index is done.
func (s *State) HasCompleted(step int) bool {
	for _, done := range s.CompletedSteps {
		if done == step {
			return true
		}
	}
	return false
}

// IsComplete reports whether every step has run.
func (s *State) IsComplete() bool {
	return s.CurrentStep >= StepCount
}

// Status returns the run status string used by the history index.
func (s *State) Status() string {
	if s.IsComplete() {
		return StatusComplete
	}
	return StatusInProgress
}

// Validate checks the structural invariants of the record:
// the cursor equals the number of completed steps, completed steps form the
// linear prefix 0..cursor-1, and no selection is set before its step ran.
func (s *State) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("workflow id must not be empty")
	}
	if s.CurrentStep < 0 || s.CurrentStep > StepCount {
		return fmt.Errorf("current_step %d out of range [0,%d]", s.CurrentStep, StepCount)
	}
	if len(s.CompletedSteps) != s.CurrentStep {
		return fmt.Errorf("current_step %d does not match %d completed steps",
			s.CurrentStep, len(s.CompletedSteps))
	}
	for i, step := range s.CompletedSteps {
		if step != i {
			return fmt.Errorf("completed_steps[%d] = %d, want %d (steps complete in order)", i, step, i)
		}
	}

	fields := []struct {
		step int
		set  bool
		name string
	}{
		{StepMarket, s.Selections.Market != "", "market"},
		{StepAssetType, s.Selections.AssetType != "", "asset_type"},
		{StepTargetReturn, s.Selections.TargetReturnPct != 0, "target_return_pct"},
		{StepRiskLevel, s.Selections.RiskLevel != "", "risk_level"},
		{StepTotalCapital, s.Selections.TotalCapital != 0, "total_capital"},
		{StepPerTradeCapital, s.Selections.PerTradeCapital != 0, "per_trade_capital"},
		{StepBroker, s.Selections.Broker != "", "broker"},
		{StepRiskLimits, s.Selections.RiskLimits != nil, "risk_limits"},
		{StepReporting, s.Selections.Reporting != nil, "reporting"},
		{StepConfirm, s.Selections.Confirmed, "confirmed"},
	}
	for _, f := range fields {
		if f.set && !s.HasCompleted(f.step) {
			return fmt.Errorf("field %s set before step %d completed", f.name, f.step)
		}
	}
	return nil
}
