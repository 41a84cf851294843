package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// completedState builds a fully populated run for round-trip tests.
func completedState(t *testing.T) *State {
	t.Helper()
	s := New()
	s.Selections = Selections{}
	for i := 0; i < StepCount; i++ {
		switch i {
		case StepMarket:
			s.Selections.Market = "crypto"
		case StepAssetType:
			s.Selections.AssetType = "spot"
		case StepTargetReturn:
			s.Selections.TargetReturnPct = 25
		case StepRiskLevel:
			s.Selections.RiskLevel = "balanced"
		case StepTotalCapital:
			s.Selections.TotalCapital = 10000
		case StepPerTradeCapital:
			s.Selections.PerTradeCapital = 500
		case StepBroker:
			s.Selections.Broker = "paper"
		case StepRiskLimits:
			s.Selections.RiskLimits = &RiskLimits{MaxDrawdownPct: 20, StopLossPct: 5, MaxOpenPositions: 10}
		case StepReporting:
			s.Selections.Reporting = &Reporting{Frequency: "weekly", Channel: "email", Email: "trader@example.com"}
		case StepConfirm:
			s.Selections.Confirmed = true
		}
		if err := s.CompleteStep(i); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store failed: %v", err)
	}

	s := completedState(t)
	if err := store.Save(s); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load(s.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if diff := cmp.Diff(s, loaded); diff != "" {
		t.Fatalf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestLoadMissingReturnsNotFound(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store failed: %v", err)
	}
	if _, err := store.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveRejectsInvalidState(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store failed: %v", err)
	}
	s := New()
	s.Selections.Market = "crypto" // step 0 never completed
	if err := store.Save(s); err == nil {
		t.Fatalf("expected save of invalid state to fail")
	}
}

func TestListNewestFirst(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store failed: %v", err)
	}

	old := New()
	old.CreatedAt = time.Now().UTC().Add(-time.Hour)
	recent := New()
	for _, s := range []*State{old, recent} {
		if err := store.Save(s); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	states, err := store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("expected 2 states, got %d", len(states))
	}
	if states[0].ID != recent.ID {
		t.Fatalf("expected newest first, got %s", states[0].ID)
	}
}

func TestLatestIncompleteSkipsCompleteRuns(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store failed: %v", err)
	}

	done := completedState(t)
	if err := store.Save(done); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := store.LatestIncomplete(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound with only complete runs, got %v", err)
	}

	open := New()
	if err := store.Save(open); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := store.LatestIncomplete()
	if err != nil {
		t.Fatalf("latest incomplete failed: %v", err)
	}
	if got.ID != open.ID {
		t.Fatalf("expected %s, got %s", open.ID, got.ID)
	}
}

func TestDelete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store failed: %v", err)
	}
	s := New()
	if err := store.Save(s); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Delete(s.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Load(s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}
