// Package menu implements the interactive main menu: single-character
// selections dispatching to feature handlers.
package menu

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"quantpilot/internal/logging"
)

// Actions are the feature handlers behind the menu keys. Every handler
// must be non-nil.
type Actions struct {
	Status   func() error
	NewSetup func() error
	Resume   func() error
	List     func() error
	Train    func() error
	Backtest func() error
	DocCheck func() error
}

// Option is one selectable entry.
type Option struct {
	Key   string
	Label string
	Run   func() error
}

// Menu reads selections and dispatches to handlers until the user quits.
type Menu struct {
	in      *bufio.Reader
	out     io.Writer
	options []Option
	byKey   map[string]Option
	log     *zap.Logger
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	keyStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	faintStyle = lipgloss.NewStyle().Faint(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// New builds the menu over the fixed option set. An existing *bufio.Reader
// is reused so the menu and the wizard can share one buffered stdin.
func New(in io.Reader, out io.Writer, a Actions) (*Menu, error) {
	options := []Option{
		{Key: "1", Label: "New guided setup", Run: a.NewSetup},
		{Key: "2", Label: "Resume workflow", Run: a.Resume},
		{Key: "3", Label: "List workflows", Run: a.List},
		{Key: "4", Label: "Train model", Run: a.Train},
		{Key: "5", Label: "Run backtest", Run: a.Backtest},
		{Key: "6", Label: "Check documentation", Run: a.DocCheck},
		{Key: "0", Label: "Status", Run: a.Status},
	}
	byKey := make(map[string]Option, len(options))
	for _, opt := range options {
		if opt.Run == nil {
			return nil, fmt.Errorf("menu option %s has no handler", opt.Key)
		}
		byKey[opt.Key] = opt
	}

	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &Menu{
		in:      br,
		out:     out,
		options: options,
		byKey:   byKey,
		log:     logging.Named("menu"),
	}, nil
}

// Keys returns the selectable option keys in display order.
func (m *Menu) Keys() []string {
	keys := make([]string, 0, len(m.options))
	for _, opt := range m.options {
		keys = append(keys, opt.Key)
	}
	return keys
}

// Handler returns the option registered for a key.
func (m *Menu) Handler(key string) (Option, bool) {
	opt, ok := m.byKey[key]
	return opt, ok
}

// Run shows the menu loop until the user quits or input ends. Handler
// errors are reported and the menu continues.
func (m *Menu) Run() error {
	fmt.Fprintln(m.out, titleStyle.Render("QuantPilot"))
	fmt.Fprintln(m.out, faintStyle.Render("Guided setup for quantitative trading strategies"))

	for {
		m.render()
		fmt.Fprint(m.out, "Select an option: ")

		line, err := m.in.ReadString('\n')
		line = strings.ToLower(strings.TrimSpace(line))
		if err != nil && line == "" {
			// Input closed; treat like quit.
			fmt.Fprintln(m.out)
			return nil
		}

		switch line {
		case "q", "quit", "exit":
			fmt.Fprintln(m.out, "Bye.")
			return nil
		case "h", "help":
			m.help()
			continue
		case "":
			continue
		}

		opt, ok := m.byKey[line]
		if !ok {
			fmt.Fprintf(m.out, "%s\n", errStyle.Render(fmt.Sprintf("Unknown option %q. Press h for help.", line)))
			continue
		}

		if err := opt.Run(); err != nil {
			m.log.Warn("menu action failed", zap.String("key", opt.Key), zap.Error(err))
			fmt.Fprintf(m.out, "%s\n", errStyle.Render(err.Error()))
		}
	}
}

func (m *Menu) render() {
	fmt.Fprintln(m.out)
	for _, opt := range m.options {
		fmt.Fprintf(m.out, "  %s  %s\n", keyStyle.Render(opt.Key), opt.Label)
	}
	fmt.Fprintf(m.out, "  %s  Help\n", keyStyle.Render("h"))
	fmt.Fprintf(m.out, "  %s  Quit\n", keyStyle.Render("q"))
	fmt.Fprintln(m.out)
}

func (m *Menu) help() {
	fmt.Fprintln(m.out, `
The guided setup walks you through ten steps (market, asset type, target
return, risk level, capital, broker, risk limits, reporting, confirm) and
saves progress after every step. A paused run resumes where it stopped.

Training and backtesting are submitted to the configured quant service
using the most recent completed workflow.`)
}
