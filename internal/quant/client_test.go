package quant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quantpilot/internal/workflow"
)

func completedState(t *testing.T) *workflow.State {
	t.Helper()
	s := workflow.New()
	for i := 0; i < workflow.StepCount; i++ {
		switch i {
		case workflow.StepMarket:
			s.Selections.Market = "us-stocks"
		case workflow.StepAssetType:
			s.Selections.AssetType = "etf"
		case workflow.StepTargetReturn:
			s.Selections.TargetReturnPct = 12
		case workflow.StepRiskLevel:
			s.Selections.RiskLevel = "conservative"
		case workflow.StepTotalCapital:
			s.Selections.TotalCapital = 50000
		case workflow.StepPerTradeCapital:
			s.Selections.PerTradeCapital = 1000
		case workflow.StepBroker:
			s.Selections.Broker = "alpaca"
		case workflow.StepRiskLimits:
			s.Selections.RiskLimits = &workflow.RiskLimits{MaxDrawdownPct: 10, StopLossPct: 2, MaxOpenPositions: 5}
		case workflow.StepReporting:
			s.Selections.Reporting = &workflow.Reporting{Frequency: "daily", Channel: "console"}
		case workflow.StepConfirm:
			s.Selections.Confirmed = true
		}
		if err := s.CompleteStep(i); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}
	return s
}

func TestTrainModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models/train" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req TrainRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Market != "us-stocks" {
			t.Errorf("unexpected market %s", req.Market)
		}
		json.NewEncoder(w).Encode(TrainResponse{JobID: "job-1", Status: "queued"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	treq, err := TrainRequestFrom(completedState(t))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := c.TrainModel(context.Background(), treq)
	if err != nil {
		t.Fatalf("train failed: %v", err)
	}
	if resp.JobID != "job-1" || resp.Status != "queued" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestRunBacktest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(BacktestResult{TotalReturnPct: 8.5, MaxDrawdownPct: 4.2, SharpeRatio: 1.3, Trades: 42})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	breq, err := BacktestRequestFrom(completedState(t))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	res, err := c.RunBacktest(context.Background(), breq)
	if err != nil {
		t.Fatalf("backtest failed: %v", err)
	}
	if res.Trades != 42 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model type unsupported", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	treq, _ := TrainRequestFrom(completedState(t))
	if _, err := c.TrainModel(context.Background(), treq); err == nil {
		t.Fatalf("expected error for 400 response")
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("health failed: %v", err)
	}
}

func TestBacktestRequestRequiresCompleteRun(t *testing.T) {
	st := workflow.New()
	if _, err := BacktestRequestFrom(st); err == nil {
		t.Fatalf("expected error for incomplete workflow")
	}
}

func TestTrainRequestRequiresEarlySteps(t *testing.T) {
	st := workflow.New()
	if _, err := TrainRequestFrom(st); err == nil {
		t.Fatalf("expected error for missing selections")
	}
}
