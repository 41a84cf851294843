// Package quant is the REST boundary to the external quantitative
// framework that owns data retrieval, model training, optimization and
// backtesting. QuantPilot only submits jobs and reads results.
package quant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"quantpilot/internal/logging"
	"quantpilot/internal/workflow"
)

// Client calls the quant service.
type Client struct {
	baseURL string
	hc      *http.Client
	log     *zap.Logger
}

// NewClient builds a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
		log:     logging.Named("quant"),
	}
}

// TrainRequest submits a model training job for a configured workflow.
type TrainRequest struct {
	WorkflowID      string  `json:"workflow_id"`
	Market          string  `json:"market"`
	AssetType       string  `json:"asset_type"`
	RiskLevel       string  `json:"risk_level"`
	TargetReturnPct float64 `json:"target_return_pct"`
}

// TrainResponse is the accepted training job.
type TrainResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// BacktestRequest submits a backtest for a configured workflow.
type BacktestRequest struct {
	WorkflowID       string  `json:"workflow_id"`
	Market           string  `json:"market"`
	AssetType        string  `json:"asset_type"`
	Broker           string  `json:"broker"`
	TotalCapital     float64 `json:"total_capital"`
	PerTradeCapital  float64 `json:"per_trade_capital"`
	MaxDrawdownPct   float64 `json:"max_drawdown_pct"`
	StopLossPct      float64 `json:"stop_loss_pct"`
	MaxOpenPositions int     `json:"max_open_positions"`
}

// BacktestResult is the backtest summary returned by the framework.
type BacktestResult struct {
	TotalReturnPct float64 `json:"total_return_pct"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
	Trades         int     `json:"trades"`
}

// TrainRequestFrom builds a training request from a workflow state. The
// run must have completed the steps the request draws from.
func TrainRequestFrom(st *workflow.State) (TrainRequest, error) {
	sel := st.Selections
	if sel.Market == "" || sel.AssetType == "" || sel.RiskLevel == "" {
		return TrainRequest{}, fmt.Errorf("workflow %s has not completed the market, asset type and risk steps", st.ID)
	}
	return TrainRequest{
		WorkflowID:      st.ID,
		Market:          sel.Market,
		AssetType:       sel.AssetType,
		RiskLevel:       sel.RiskLevel,
		TargetReturnPct: sel.TargetReturnPct,
	}, nil
}

// BacktestRequestFrom builds a backtest request from a completed workflow.
func BacktestRequestFrom(st *workflow.State) (BacktestRequest, error) {
	if !st.IsComplete() {
		return BacktestRequest{}, fmt.Errorf("workflow %s is not complete (step %d of %d)",
			st.ID, st.CurrentStep, workflow.StepCount)
	}
	sel := st.Selections
	return BacktestRequest{
		WorkflowID:       st.ID,
		Market:           sel.Market,
		AssetType:        sel.AssetType,
		Broker:           sel.Broker,
		TotalCapital:     sel.TotalCapital,
		PerTradeCapital:  sel.PerTradeCapital,
		MaxDrawdownPct:   sel.RiskLimits.MaxDrawdownPct,
		StopLossPct:      sel.RiskLimits.StopLossPct,
		MaxOpenPositions: sel.RiskLimits.MaxOpenPositions,
	}, nil
}

// Health checks that the quant service is reachable.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("quant service unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("quant service unhealthy: %s", resp.Status)
	}
	return nil
}

// TrainModel submits a training job.
func (c *Client) TrainModel(ctx context.Context, treq TrainRequest) (*TrainResponse, error) {
	var out TrainResponse
	if err := c.post(ctx, "/v1/models/train", treq, &out); err != nil {
		return nil, err
	}
	c.log.Info("training job submitted",
		zap.String("workflow", treq.WorkflowID), zap.String("job", out.JobID))
	return &out, nil
}

// RunBacktest runs a backtest and returns its summary.
func (c *Client) RunBacktest(ctx context.Context, breq BacktestRequest) (*BacktestResult, error) {
	var out BacktestResult
	if err := c.post(ctx, "/v1/backtests", breq, &out); err != nil {
		return nil, err
	}
	c.log.Info("backtest finished",
		zap.String("workflow", breq.WorkflowID), zap.Int("trades", out.Trades))
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("quant request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("quant service returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
