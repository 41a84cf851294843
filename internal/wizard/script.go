package wizard

import (
	"io"
	"strings"
)

// Script builds an input stream from canned answers, one per prompt. Used
// by demos and tests to drive the wizard without a terminal; when the
// answers run out the engine sees EOF and pauses the run.
func Script(answers ...string) io.Reader {
	if len(answers) == 0 {
		return strings.NewReader("")
	}
	return strings.NewReader(strings.Join(answers, "\n") + "\n")
}
