package doccheck

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const passingDoc = "# Overview\n\nA short overview in English.\n\n" +
	"## Usage\n\n```go\nfmt.Println(\"hi\")\n```\n\n" +
	"## Configuration\n\n```yaml\napp:\n  name: x\n```\n"

func baseRequirements() Requirements {
	return Requirements{
		Sections:      []string{"Overview", "Usage", "Configuration"},
		MinCodeBlocks: 2,
		MaxCJKRatio:   0.3,
	}
}

func TestAnalyzePassingDocument(t *testing.T) {
	rep := Analyze("doc.md", []byte(passingDoc), baseRequirements())
	if !rep.Passed() {
		t.Fatalf("expected pass, failures: %v", rep.Failures)
	}
	if rep.CodeBlocks != 2 {
		t.Fatalf("expected 2 code blocks, got %d", rep.CodeBlocks)
	}
	if len(rep.Headings) != 3 {
		t.Fatalf("expected 3 headings, got %v", rep.Headings)
	}
}

func TestAnalyzeDetectsMissingSection(t *testing.T) {
	src := "# Overview\n\n```go\nx := 1\n```\n\n```go\ny := 2\n```\n"
	rep := Analyze("doc.md", []byte(src), baseRequirements())
	if rep.Passed() {
		t.Fatalf("expected failure for missing sections")
	}
	if len(rep.MissingSections) != 2 {
		t.Fatalf("expected 2 missing sections, got %v", rep.MissingSections)
	}
}

func TestAnalyzeSectionMatchIsLenient(t *testing.T) {
	src := "## 1. overview of the system\n\nok\n"
	rep := Analyze("doc.md", []byte(src), Requirements{Sections: []string{"Overview"}})
	if !rep.Passed() {
		t.Fatalf("expected lenient heading match, failures: %v", rep.Failures)
	}
}

func TestAnalyzeCountsOnlyFencedBlocks(t *testing.T) {
	src := "# Overview\n\n    indented code\n\n```sh\nls\n```\n"
	rep := Analyze("doc.md", []byte(src), Requirements{MinCodeBlocks: 1})
	if rep.CodeBlocks != 1 {
		t.Fatalf("expected 1 fenced block, got %d", rep.CodeBlocks)
	}
}

func TestAnalyzeCJKRatio(t *testing.T) {
	// Four Han characters, one English word.
	src := "# Overview\n\n配置说明 here\n"
	rep := Analyze("doc.md", []byte(src), Requirements{MaxCJKRatio: 0.2})
	if rep.Passed() {
		t.Fatalf("expected CJK ratio failure, ratio %.2f", rep.CJKRatio)
	}
	if rep.CJKRatio < 0.5 {
		t.Fatalf("expected ratio above 0.5, got %.2f", rep.CJKRatio)
	}
}

func TestAnalyzeCJKRatioDisabled(t *testing.T) {
	src := "# Overview\n\n全中文文档\n"
	rep := Analyze("doc.md", []byte(src), Requirements{})
	if !rep.Passed() {
		t.Fatalf("expected pass with ratio check disabled, failures: %v", rep.Failures)
	}
}

func TestCheckMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.md")
	bad := filepath.Join(dir, "bad.md")
	if err := os.WriteFile(good, []byte(passingDoc), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(bad, []byte("# Notes\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	reports, err := Check(context.Background(), []string{good, bad}, baseRequirements(), 2)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if !reports[0].Passed() {
		t.Fatalf("expected %s to pass: %v", good, reports[0].Failures)
	}
	if reports[1].Passed() {
		t.Fatalf("expected %s to fail", bad)
	}
	if Passed(reports) {
		t.Fatalf("expected overall failure")
	}
}

func TestCheckMissingFileFails(t *testing.T) {
	_, err := Check(context.Background(),
		[]string{filepath.Join(t.TempDir(), "absent.md")}, Requirements{}, 0)
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}
