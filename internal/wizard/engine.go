package wizard

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"quantpilot/internal/logging"
	"quantpilot/internal/workflow"
)

// ErrPaused signals that a run stopped before completion and was saved.
// The caller reports where to resume; it is not a failure.
var ErrPaused = errors.New("workflow paused")

// Engine drives the step sequence over a workflow state, saving after every
// completed step so the run survives interruption.
type Engine struct {
	prompter *Prompter
	out      io.Writer
	store    *workflow.Store
	history  *workflow.History // optional
	steps    []Step
	log      *zap.Logger
}

// NewEngine builds an engine reading answers from in and writing prompts to
// out. history may be nil.
func NewEngine(in io.Reader, out io.Writer, store *workflow.Store, history *workflow.History) *Engine {
	return &Engine{
		prompter: NewPrompter(in, out),
		out:      out,
		store:    store,
		history:  history,
		steps:    Steps(),
		log:      logging.Named("wizard"),
	}
}

// Start creates a fresh workflow, persists it, and runs the sequence.
func (e *Engine) Start() (*workflow.State, error) {
	st := workflow.New()
	if err := e.save(st); err != nil {
		return nil, err
	}
	e.log.Info("workflow started", zap.String("id", st.ID))
	return e.run(st)
}

// Resume continues a paused workflow from its saved cursor.
func (e *Engine) Resume(st *workflow.State) (*workflow.State, error) {
	if st.IsComplete() {
		return st, fmt.Errorf("workflow %s is already complete", st.ID)
	}
	e.log.Info("workflow resumed", zap.String("id", st.ID), zap.Int("step", st.CurrentStep))
	return e.run(st)
}

func (e *Engine) run(st *workflow.State) (*workflow.State, error) {
	for !st.IsComplete() {
		step := e.steps[st.CurrentStep]
		fmt.Fprintf(e.out, "\nStep %d of %d: %s\n", st.CurrentStep+1, len(e.steps), step.Title)

		if err := step.Run(e.prompter, st); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, ErrPaused) {
				if saveErr := e.save(st); saveErr != nil {
					return st, saveErr
				}
				e.log.Info("workflow paused",
					zap.String("id", st.ID), zap.Int("step", st.CurrentStep))
				return st, ErrPaused
			}
			return st, fmt.Errorf("step %s failed: %w", step.Name, err)
		}

		if err := st.CompleteStep(st.CurrentStep); err != nil {
			return st, err
		}
		if err := e.save(st); err != nil {
			return st, err
		}
	}

	fmt.Fprintf(e.out, "\nSetup complete. Workflow %s saved.\n", st.ID)
	e.log.Info("workflow complete", zap.String("id", st.ID))
	return st, nil
}

func (e *Engine) save(st *workflow.State) error {
	if err := e.store.Save(st); err != nil {
		return err
	}
	if e.history != nil {
		if err := e.history.Record(st); err != nil {
			// The JSON state is the source of truth; a stale index row is
			// tolerable.
			e.log.Warn("failed to update history index", zap.Error(err))
		}
	}
	return nil
}
