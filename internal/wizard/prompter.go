// Package wizard implements the ten-step guided setup: a linear sequence of
// prompts that validates input, persists the workflow state after every
// step, and resumes a paused run from its saved cursor.
package wizard

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Prompter handles line-oriented prompt/validate/re-prompt interaction.
// Input and output are injected so the wizard runs equally against a
// terminal, a canned answer script, or a test.
type Prompter struct {
	r *bufio.Reader
	w io.Writer

	// deferred read error from a line that still carried data
	err error
}

// NewPrompter wraps the given reader and writer. An existing *bufio.Reader
// is reused so the prompter can share a buffered stream with the menu
// without stealing buffered bytes.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Prompter{r: br, w: w}
}

func (p *Prompter) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

// readLine returns the next trimmed input line. A trailing unterminated
// line before EOF still counts as an answer; its read error is held back
// and returned by the following call.
func (p *Prompter) readLine() (string, error) {
	if p.err != nil {
		err := p.err
		p.err = nil
		return "", err
	}
	line, err := p.r.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil {
		if line == "" {
			return "", err
		}
		p.err = err
	}
	return line, nil
}

// Ask prompts until a non-empty answer is given.
func (p *Prompter) Ask(prompt string) (string, error) {
	for {
		p.printf("%s: ", prompt)
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
		p.printf("A value is required.\n")
	}
}

// AskChoice displays a numbered option list and prompts until the answer is
// a valid number or matches an option name.
func (p *Prompter) AskChoice(prompt string, options []string) (string, error) {
	for {
		p.printf("%s\n", prompt)
		for i, opt := range options {
			p.printf("  %d) %s\n", i+1, opt)
		}
		p.printf("Choice [1-%d]: ", len(options))

		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		for _, opt := range options {
			if strings.EqualFold(line, opt) {
				return opt, nil
			}
		}
		p.printf("Invalid choice %q.\n", line)
	}
}

// AskFloat prompts until the answer is a number within [min, max].
func (p *Prompter) AskFloat(prompt string, min, max float64) (float64, error) {
	for {
		p.printf("%s: ", prompt)
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			// NaN compares false against any bound and would otherwise slip
			// through the range check into the JSON state.
			p.printf("Please enter a number.\n")
			continue
		}
		if v < min || v > max {
			p.printf("Value must be between %g and %g.\n", min, max)
			continue
		}
		return v, nil
	}
}

// AskInt prompts until the answer is an integer within [min, max].
func (p *Prompter) AskInt(prompt string, min, max int) (int, error) {
	for {
		p.printf("%s: ", prompt)
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(line)
		if err != nil {
			p.printf("Please enter a whole number.\n")
			continue
		}
		if v < min || v > max {
			p.printf("Value must be between %d and %d.\n", min, max)
			continue
		}
		return v, nil
	}
}

// Confirm prompts until the answer is yes or no.
func (p *Prompter) Confirm(prompt string) (bool, error) {
	for {
		p.printf("%s (y/n): ", prompt)
		line, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		p.printf("Please answer y or n.\n")
	}
}
