package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"quantpilot/internal/workflow"
)

// summaryMarkdown builds the confirmation summary for a run.
func summaryMarkdown(st *workflow.State) string {
	sel := st.Selections
	var b strings.Builder

	b.WriteString("# Configuration Summary\n\n")
	fmt.Fprintf(&b, "- **Market**: %s\n", sel.Market)
	fmt.Fprintf(&b, "- **Asset type**: %s\n", sel.AssetType)
	fmt.Fprintf(&b, "- **Target annual return**: %g%%\n", sel.TargetReturnPct)
	fmt.Fprintf(&b, "- **Risk level**: %s\n", sel.RiskLevel)
	fmt.Fprintf(&b, "- **Total capital**: %g\n", sel.TotalCapital)
	fmt.Fprintf(&b, "- **Per-trade capital**: %g\n", sel.PerTradeCapital)
	fmt.Fprintf(&b, "- **Broker**: %s\n", sel.Broker)
	if rl := sel.RiskLimits; rl != nil {
		fmt.Fprintf(&b, "- **Max drawdown**: %g%%\n", rl.MaxDrawdownPct)
		fmt.Fprintf(&b, "- **Stop-loss**: %g%%\n", rl.StopLossPct)
		fmt.Fprintf(&b, "- **Max open positions**: %d\n", rl.MaxOpenPositions)
	}
	if r := sel.Reporting; r != nil {
		fmt.Fprintf(&b, "- **Reports**: %s via %s", r.Frequency, r.Channel)
		if r.Email != "" {
			fmt.Fprintf(&b, " (%s)", r.Email)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderSummary renders the summary as terminal markdown, falling back to
// the raw markdown when no renderer is available (e.g. dumb terminals).
func renderSummary(st *workflow.State) string {
	md := summaryMarkdown(st)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
