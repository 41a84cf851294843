package menu

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func noopActions() Actions {
	noop := func() error { return nil }
	return Actions{
		Status:   noop,
		NewSetup: noop,
		Resume:   noop,
		List:     noop,
		Train:    noop,
		Backtest: noop,
		DocCheck: noop,
	}
}

func TestFixedOptionSet(t *testing.T) {
	m, err := New(strings.NewReader(""), &bytes.Buffer{}, noopActions())
	if err != nil {
		t.Fatalf("new menu failed: %v", err)
	}

	want := []string{"1", "2", "3", "4", "5", "6", "0"}
	got := m.Keys()
	if len(got) != len(want) {
		t.Fatalf("expected %d keys, got %v", len(want), got)
	}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("expected key %s at position %d, got %s", k, i, got[i])
		}
		opt, ok := m.Handler(k)
		if !ok {
			t.Fatalf("missing handler for key %s", k)
		}
		if opt.Run == nil {
			t.Fatalf("nil handler for key %s", k)
		}
	}
}

func TestNewRejectsNilHandler(t *testing.T) {
	a := noopActions()
	a.Backtest = nil
	if _, err := New(strings.NewReader(""), &bytes.Buffer{}, a); err == nil {
		t.Fatalf("expected error for nil handler")
	}
}

func TestRunDispatchesAndQuits(t *testing.T) {
	called := false
	a := noopActions()
	a.NewSetup = func() error {
		called = true
		return nil
	}

	var out bytes.Buffer
	m, err := New(strings.NewReader("1\nq\n"), &out, a)
	if err != nil {
		t.Fatalf("new menu failed: %v", err)
	}
	if err := m.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !called {
		t.Fatalf("expected NewSetup handler to run")
	}
}

func TestRunReportsUnknownOption(t *testing.T) {
	var out bytes.Buffer
	m, err := New(strings.NewReader("x\nq\n"), &out, noopActions())
	if err != nil {
		t.Fatalf("new menu failed: %v", err)
	}
	if err := m.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Unknown option") {
		t.Fatalf("expected unknown-option message, got %q", out.String())
	}
}

func TestRunSurvivesHandlerError(t *testing.T) {
	a := noopActions()
	a.Train = func() error { return errors.New("quant service unreachable") }

	var out bytes.Buffer
	m, err := New(strings.NewReader("4\nq\n"), &out, a)
	if err != nil {
		t.Fatalf("new menu failed: %v", err)
	}
	if err := m.Run(); err != nil {
		t.Fatalf("run should not fail on handler error: %v", err)
	}
	if !strings.Contains(out.String(), "unreachable") {
		t.Fatalf("expected handler error in output, got %q", out.String())
	}
}

func TestRunQuitsOnEOF(t *testing.T) {
	var out bytes.Buffer
	m, err := New(strings.NewReader(""), &out, noopActions())
	if err != nil {
		t.Fatalf("new menu failed: %v", err)
	}
	if err := m.Run(); err != nil {
		t.Fatalf("expected clean return on EOF, got %v", err)
	}
}
