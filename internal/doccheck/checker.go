// Package doccheck verifies documentation completeness: required section
// headers must be present, fenced code blocks must meet a minimum count,
// and the Chinese/English word ratio must stay under a maximum.
package doccheck

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Requirements are the thresholds a markdown file must satisfy.
type Requirements struct {
	Sections      []string // required heading texts, matched case-insensitively
	MinCodeBlocks int      // minimum fenced code blocks
	MaxCJKRatio   float64  // maximum Chinese share of words; 0 disables
}

// Report is the per-file check result. A file passes when Failures is empty.
type Report struct {
	Path            string
	Headings        []string
	MissingSections []string
	CodeBlocks      int
	CJKRatio        float64
	Failures        []string
}

// Passed reports whether the file met every requirement.
func (r Report) Passed() bool {
	return len(r.Failures) == 0
}

// CheckFile reads and analyzes one markdown file.
func CheckFile(path string, req Requirements) (Report, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Analyze(path, src, req), nil
}

// Analyze checks markdown source against the requirements.
func Analyze(path string, src []byte, req Requirements) Report {
	rep := Report{Path: path}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Heading:
			rep.Headings = append(rep.Headings, headingText(v, src))
		case *ast.FencedCodeBlock:
			rep.CodeBlocks++
		}
		return ast.WalkContinue, nil
	})

	for _, section := range req.Sections {
		if !hasSection(rep.Headings, section) {
			rep.MissingSections = append(rep.MissingSections, section)
			rep.Failures = append(rep.Failures, fmt.Sprintf("missing section %q", section))
		}
	}

	if rep.CodeBlocks < req.MinCodeBlocks {
		rep.Failures = append(rep.Failures,
			fmt.Sprintf("%d code blocks, want at least %d", rep.CodeBlocks, req.MinCodeBlocks))
	}

	rep.CJKRatio = cjkRatio(src)
	if req.MaxCJKRatio > 0 && rep.CJKRatio > req.MaxCJKRatio {
		rep.Failures = append(rep.Failures,
			fmt.Sprintf("Chinese word ratio %.2f exceeds %.2f", rep.CJKRatio, req.MaxCJKRatio))
	}

	return rep
}

// headingText concatenates the plain text children of a heading.
func headingText(h *ast.Heading, src []byte) string {
	var sb strings.Builder
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(src))
		}
	}
	return strings.TrimSpace(sb.String())
}

// hasSection matches a required section against the collected headings,
// case-insensitively, allowing the heading to carry extra text.
func hasSection(headings []string, section string) bool {
	want := strings.ToLower(strings.TrimSpace(section))
	for _, h := range headings {
		if strings.Contains(strings.ToLower(h), want) {
			return true
		}
	}
	return false
}

// cjkRatio returns the share of Chinese characters among Chinese characters
// plus English words. Each Han rune counts as one word.
func cjkRatio(src []byte) float64 {
	var han, words int
	inWord := false
	for _, r := range string(src) {
		switch {
		case unicode.Is(unicode.Han, r):
			han++
			inWord = false
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			if !inWord {
				words++
				inWord = true
			}
		default:
			inWord = false
		}
	}
	total := han + words
	if total == 0 {
		return 0
	}
	return float64(han) / float64(total)
}
