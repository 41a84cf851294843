package wizard

import (
	"fmt"
	"strings"

	"quantpilot/internal/workflow"
)

// Step is one stage of the guided setup. Run prompts for the step's value,
// validates it, and writes it into the state; it does not advance the
// cursor, the engine does that after a successful run.
type Step struct {
	Name  string
	Title string
	Run   func(p *Prompter, st *workflow.State) error
}

var markets = []string{"us-stocks", "crypto", "forex", "cn-stocks"}

var assetTypes = map[string][]string{
	"us-stocks": {"stocks", "etf", "options"},
	"crypto":    {"spot", "perpetual"},
	"forex":     {"majors", "minors"},
	"cn-stocks": {"a-shares", "etf"},
}

var riskLevels = []string{"conservative", "balanced", "aggressive"}

var reportFrequencies = []string{"daily", "weekly", "monthly"}

var reportChannels = []string{"console", "email"}

// brokersFor returns the brokers offered for a market. The paper broker is
// always available.
func brokersFor(market string) []string {
	if market == "crypto" {
		return []string{"paper", "binance", "okx"}
	}
	return []string{"paper", "interactive-brokers", "alpaca"}
}

// Steps returns the fixed ten-step sequence. The slice order matches the
// workflow.Step* indices.
func Steps() []Step {
	return []Step{
		{Name: "market", Title: "Market", Run: runMarket},
		{Name: "asset_type", Title: "Asset Type", Run: runAssetType},
		{Name: "target_return", Title: "Target Return", Run: runTargetReturn},
		{Name: "risk_level", Title: "Risk Level", Run: runRiskLevel},
		{Name: "total_capital", Title: "Total Capital", Run: runTotalCapital},
		{Name: "per_trade_capital", Title: "Per-Trade Capital", Run: runPerTradeCapital},
		{Name: "broker", Title: "Broker", Run: runBroker},
		{Name: "risk_limits", Title: "Risk Limits", Run: runRiskLimits},
		{Name: "reporting", Title: "Reporting", Run: runReporting},
		{Name: "confirm", Title: "Confirm", Run: runConfirm},
	}
}

func runMarket(p *Prompter, st *workflow.State) error {
	v, err := p.AskChoice("Which market do you want to trade?", markets)
	if err != nil {
		return err
	}
	st.Selections.Market = v
	return nil
}

func runAssetType(p *Prompter, st *workflow.State) error {
	opts, ok := assetTypes[st.Selections.Market]
	if !ok {
		return fmt.Errorf("no asset types for market %q", st.Selections.Market)
	}
	v, err := p.AskChoice("Which asset type?", opts)
	if err != nil {
		return err
	}
	st.Selections.AssetType = v
	return nil
}

func runTargetReturn(p *Prompter, st *workflow.State) error {
	v, err := p.AskFloat("Target annual return in percent", 1, 500)
	if err != nil {
		return err
	}
	st.Selections.TargetReturnPct = v
	return nil
}

func runRiskLevel(p *Prompter, st *workflow.State) error {
	v, err := p.AskChoice("How much risk are you comfortable with?", riskLevels)
	if err != nil {
		return err
	}
	st.Selections.RiskLevel = v
	return nil
}

func runTotalCapital(p *Prompter, st *workflow.State) error {
	v, err := p.AskFloat("Total capital to allocate", 1, 1e12)
	if err != nil {
		return err
	}
	st.Selections.TotalCapital = v
	return nil
}

func runPerTradeCapital(p *Prompter, st *workflow.State) error {
	// Cannot exceed the total committed in the previous step.
	v, err := p.AskFloat(
		fmt.Sprintf("Capital per trade (at most %g)", st.Selections.TotalCapital),
		0.01, st.Selections.TotalCapital)
	if err != nil {
		return err
	}
	st.Selections.PerTradeCapital = v
	return nil
}

func runBroker(p *Prompter, st *workflow.State) error {
	v, err := p.AskChoice("Which broker should execute orders?", brokersFor(st.Selections.Market))
	if err != nil {
		return err
	}
	st.Selections.Broker = v
	return nil
}

func runRiskLimits(p *Prompter, st *workflow.State) error {
	drawdown, err := p.AskFloat("Maximum drawdown in percent", 1, 100)
	if err != nil {
		return err
	}
	stopLoss, err := p.AskFloat("Stop-loss per position in percent", 0.1, 50)
	if err != nil {
		return err
	}
	maxOpen, err := p.AskInt("Maximum open positions", 1, 100)
	if err != nil {
		return err
	}
	st.Selections.RiskLimits = &workflow.RiskLimits{
		MaxDrawdownPct:   drawdown,
		StopLossPct:      stopLoss,
		MaxOpenPositions: maxOpen,
	}
	return nil
}

func runReporting(p *Prompter, st *workflow.State) error {
	freq, err := p.AskChoice("How often do you want reports?", reportFrequencies)
	if err != nil {
		return err
	}
	channel, err := p.AskChoice("Where should reports go?", reportChannels)
	if err != nil {
		return err
	}
	r := &workflow.Reporting{Frequency: freq, Channel: channel}
	if channel == "email" {
		for {
			addr, err := p.Ask("Email address")
			if err != nil {
				return err
			}
			if strings.Contains(addr, "@") {
				r.Email = addr
				break
			}
			p.printf("That does not look like an email address.\n")
		}
	}
	st.Selections.Reporting = r
	return nil
}

func runConfirm(p *Prompter, st *workflow.State) error {
	p.printf("%s\n", renderSummary(st))
	ok, err := p.Confirm("Save this configuration?")
	if err != nil {
		return err
	}
	if !ok {
		// Leaves the run resumable at the confirm step.
		return ErrPaused
	}
	st.Selections.Confirmed = true
	return nil
}
