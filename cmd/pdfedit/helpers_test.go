package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	pdfedit "github.com/alnah/go-pdfedit"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake pipeline stages
// ---------------------------------------------------------------------------

type stubExtractor struct{}

func (stubExtractor) ToMarkup(_ context.Context, sourcePath string) (string, error) {
	return "<html><body><p>" + filepath.Base(sourcePath) + "</p></body></html>", nil
}

type stubRenderer struct{}

func (stubRenderer) FromMarkup(_ context.Context, markupPath string) ([]byte, error) {
	if _, err := os.Stat(markupPath); err != nil {
		return nil, err
	}
	return onePagePDF(), nil
}

func (stubRenderer) Close() error { return nil }

type stubGenerator struct {
	err error

	mu      sync.Mutex
	prompts []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	return "```html\n<html><body><p>edited</p></body></html>\n```", nil
}

func (g *stubGenerator) calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment
// ---------------------------------------------------------------------------

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	gen    *stubGenerator
}

var fixedNow = time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)

// newTestEnv returns an environment whose pipelines never touch a browser,
// an external tool or a model server.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	var stdout, stderr bytes.Buffer
	gen := &stubGenerator{}
	return &testEnv{
		Environment: &Environment{
			Now:    func() time.Time { return fixedNow },
			Stdout: &stdout,
			Stderr: &stderr,
			PipelineOptions: []pdfedit.Option{
				pdfedit.WithExtractor(stubExtractor{}),
				pdfedit.WithRenderer(stubRenderer{}),
				pdfedit.WithGenerator(gen),
				pdfedit.WithTempDir(t.TempDir()),
			},
		},
		stdout: &stdout,
		stderr: &stderr,
		gen:    gen,
	}
}

// writeFile creates name under dir with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// writeConfig writes a YAML config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "pdfedit.yaml", content)
}

// onePagePDF returns a one-page PDF with a correct cross-reference table.
func onePagePDF() []byte {
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>",
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, obj := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return b.Bytes()
}
