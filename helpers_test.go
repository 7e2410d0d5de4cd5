package pdfedit

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeExtractor struct {
	markup string
	err    error

	mu     sync.Mutex
	called []string
}

func (f *fakeExtractor) ToMarkup(ctx context.Context, sourcePath string) (string, error) {
	f.mu.Lock()
	f.called = append(f.called, sourcePath)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if f.markup == "" {
		return "<html><body><p>" + sourcePath + "</p></body></html>", nil
	}
	return f.markup, nil
}

type fakeRenderer struct {
	data []byte
	err  error

	mu       sync.Mutex
	paths    []string
	rendered []string // markup read from disk at render time
	closed   atomic.Int32
}

func (f *fakeRenderer) FromMarkup(ctx context.Context, markupPath string) ([]byte, error) {
	content, readErr := os.ReadFile(markupPath)

	f.mu.Lock()
	f.paths = append(f.paths, markupPath)
	f.rendered = append(f.rendered, string(content))
	f.mu.Unlock()

	if readErr != nil {
		return nil, readErr
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.data != nil {
		return f.data, nil
	}
	return minimalPDF(), nil
}

func (f *fakeRenderer) Close() error {
	f.closed.Add(1)
	return nil
}

type fakeGenerator struct {
	completion string
	err        error
	block      chan struct{} // when set, Generate waits on it (or ctx)
	started    chan struct{} // closed on first call when set

	mu      sync.Mutex
	prompts []string
	once    sync.Once
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.started != nil {
		f.once.Do(func() { close(f.started) })
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	if f.completion == "" {
		return "<html><body><p>edited</p></body></html>", nil
	}
	return f.completion, nil
}

func (f *fakeGenerator) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// minimalPDF returns a one-page PDF with a correct cross-reference table.
func minimalPDF() []byte {
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

// newTestPipeline builds a Pipeline with fakes and a private temp dir.
func newTestPipeline(t *testing.T, opts ...Option) (*Pipeline, string) {
	t.Helper()

	tmp := t.TempDir()
	base := []Option{
		WithExtractor(&fakeExtractor{}),
		WithRenderer(&fakeRenderer{}),
		WithGenerator(&fakeGenerator{}),
		WithTempDir(tmp),
	}
	p, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p, tmp
}

// hookRecorder captures every hook call.
type hookRecorder struct {
	mu        sync.Mutex
	progress  []float64
	statuses  []string
	completed []string
	errors    []string
}

func (h *hookRecorder) hooks() Hooks {
	return Hooks{
		OnProgress: func(p float64) {
			h.mu.Lock()
			h.progress = append(h.progress, p)
			h.mu.Unlock()
		},
		OnStatus: func(s string) {
			h.mu.Lock()
			h.statuses = append(h.statuses, s)
			h.mu.Unlock()
		},
		OnComplete: func(path string) {
			h.mu.Lock()
			h.completed = append(h.completed, path)
			h.mu.Unlock()
		},
		OnError: func(msg string) {
			h.mu.Lock()
			h.errors = append(h.errors, msg)
			h.mu.Unlock()
		},
	}
}

// assertDirEmpty fails if dir has any entry left.
func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	if len(entries) != 0 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("%s not empty: %v", dir, names)
	}
}
