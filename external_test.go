package pdfedit

// Notes:
// - pdftohtml and wkhtmltopdf are replaced by a fake CommandRunner; argument
//   lists, diagnostics and error mapping are what is tested here.
// - Real *exec.ExitError values are covered in runner_unix_test.go; here a
//   plain error stands in for a failed exit.

import (
	"context"
	"errors"
	"os"
	"slices"
	"strings"
	"sync"
	"testing"
)

type fakeRunner struct {
	stdout []byte
	stderr string
	err    error
	// write, when set, is written to the last argument (wkhtmltopdf output).
	write []byte

	mu    sync.Mutex
	calls [][]string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()

	if f.write != nil && len(args) > 0 {
		if err := os.WriteFile(args[len(args)-1], f.write, 0o600); err != nil {
			return nil, "", err
		}
	}
	return f.stdout, f.stderr, f.err
}

// ---------------------------------------------------------------------------
// TestPopplerExtractor - pdftohtml
// ---------------------------------------------------------------------------

func TestPopplerExtractor_Args(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{stdout: []byte(`<html><body><p>Hello</p></body></html>`)}
	e := &popplerExtractor{bin: "pdftohtml", runner: runner}

	got, err := e.ToMarkup(context.Background(), "/docs/exam.pdf")
	if err != nil {
		t.Fatalf("ToMarkup() error = %v", err)
	}
	if !strings.Contains(got, "<p>Hello</p>") {
		t.Errorf("ToMarkup() = %q", got)
	}

	want := []string{"pdftohtml", "-s", "-i", "-noframes", "-enc", "UTF-8", "-stdout", "/docs/exam.pdf"}
	if len(runner.calls) != 1 || !slices.Equal(runner.calls[0], want) {
		t.Errorf("calls = %v, want [%v]", runner.calls, want)
	}
}

func TestPopplerExtractor_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		runner   *fakeRunner
		wantErr  error
		wantDiag string
	}{
		{
			name:     "tool failure carries stderr",
			runner:   &fakeRunner{stderr: "Syntax Error: Couldn't read xref table\n", err: errors.New("exit status 1")},
			wantErr:  ErrConversion,
			wantDiag: "Syntax Error: Couldn't read xref table",
		},
		{
			name:    "tool missing",
			runner:  &fakeRunner{err: ErrToolNotFound},
			wantErr: ErrToolNotFound,
		},
		{
			name:     "empty output",
			runner:   &fakeRunner{},
			wantErr:  ErrConversion,
			wantDiag: "tool produced no output",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := &popplerExtractor{bin: "pdftohtml", runner: tt.runner}
			_, err := e.ToMarkup(context.Background(), "x.pdf")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}

			var cerr *ConversionError
			if !errors.As(err, &cerr) {
				t.Fatalf("error %T is not *ConversionError", err)
			}
			if cerr.Tool != "pdftohtml" || cerr.Direction != DirectionToMarkup {
				t.Errorf("ConversionError = %+v", cerr)
			}
			if cerr.Diagnostic != tt.wantDiag {
				t.Errorf("Diagnostic = %q, want %q", cerr.Diagnostic, tt.wantDiag)
			}
		})
	}
}

func TestPopplerExtractor_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := &popplerExtractor{bin: "pdftohtml", runner: &fakeRunner{err: context.Canceled}}
	_, err := e.ToMarkup(ctx, "x.pdf")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	var cerr *ConversionError
	if errors.As(err, &cerr) {
		t.Error("cancellation reported as conversion failure")
	}
}

// ---------------------------------------------------------------------------
// TestWkhtmlRenderer - wkhtmltopdf
// ---------------------------------------------------------------------------

func TestWkhtmlRenderer_Render(t *testing.T) {
	t.Parallel()

	in := writeSource(t, "output.html", []byte("<html><body>x</body></html>"))

	runner := &fakeRunner{write: minimalPDF()}
	r := &wkhtmlRenderer{bin: "wkhtmltopdf", runner: runner}

	data, err := r.FromMarkup(context.Background(), in)
	if err != nil {
		t.Fatalf("FromMarkup() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Errorf("data = %q", data)
	}

	call := runner.calls[0]
	wantPrefix := []string{"wkhtmltopdf", "--enable-local-file-access", "--disable-smart-shrinking", "--disable-javascript", "--encoding", "UTF-8", in}
	if !slices.Equal(call[:len(wantPrefix)], wantPrefix) {
		t.Errorf("args = %v, want prefix %v", call, wantPrefix)
	}

	scratch := call[len(call)-1]
	if _, err := os.Stat(scratch); !os.IsNotExist(err) {
		t.Errorf("scratch file %s not removed", scratch)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestWkhtmlRenderer_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		runner   *fakeRunner
		wantErr  error
		wantDiag string
	}{
		{
			name:     "tool failure",
			runner:   &fakeRunner{stderr: "Exit with code 1 due to network error: ContentNotFoundError", err: errors.New("exit status 1")},
			wantErr:  ErrConversion,
			wantDiag: "Exit with code 1 due to network error: ContentNotFoundError",
		},
		{
			name:    "empty output",
			runner:  &fakeRunner{},
			wantErr: ErrInvalidOutput,
		},
		{
			name:    "tool missing",
			runner:  &fakeRunner{err: ErrToolNotFound},
			wantErr: ErrToolNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := writeSource(t, "output.html", []byte("<html></html>"))
			r := &wkhtmlRenderer{bin: "wkhtmltopdf", runner: tt.runner}

			_, err := r.FromMarkup(context.Background(), in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			var cerr *ConversionError
			if !errors.As(err, &cerr) || cerr.Direction != DirectionFromMarkup {
				t.Fatalf("error = %#v, want from-markup ConversionError", err)
			}
			if tt.wantDiag != "" && cerr.Diagnostic != tt.wantDiag {
				t.Errorf("Diagnostic = %q, want %q", cerr.Diagnostic, tt.wantDiag)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNewConverter - Strategy wiring
// ---------------------------------------------------------------------------

func TestNewConverter(t *testing.T) {
	t.Parallel()

	t.Run("structural", func(t *testing.T) {
		t.Parallel()

		conv, err := NewConverter(StrategyStructural, "<html><body></body></html>", Tools{}, nil, 0)
		if err != nil {
			t.Fatalf("NewConverter() error = %v", err)
		}
		defer conv.Close()

		src := conv.Extractor.(*sourceExtractor)
		if _, ok := src.pdf.(*structuralExtractor); !ok {
			t.Errorf("pdf extractor = %T", src.pdf)
		}
		cr, ok := conv.Renderer.(*chromeRenderer)
		if !ok {
			t.Fatalf("renderer = %T", conv.Renderer)
		}
		if cr.timeout != DefaultRenderTimeout {
			t.Errorf("timeout = %v, want %v", cr.timeout, DefaultRenderTimeout)
		}
	})

	t.Run("external with custom tools", func(t *testing.T) {
		t.Parallel()

		runner := &fakeRunner{}
		conv, err := NewConverter(StrategyExternal, "", Tools{PDFToHTML: "/opt/poppler/pdftohtml"}, runner, 0)
		if err != nil {
			t.Fatalf("NewConverter() error = %v", err)
		}

		src := conv.Extractor.(*sourceExtractor)
		pe, ok := src.pdf.(*popplerExtractor)
		if !ok || pe.bin != "/opt/poppler/pdftohtml" || pe.runner != runner {
			t.Errorf("pdf extractor = %#v", src.pdf)
		}
		wr, ok := conv.Renderer.(*wkhtmlRenderer)
		if !ok || wr.bin != "wkhtmltopdf" {
			t.Errorf("renderer = %#v", conv.Renderer)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		if _, err := NewConverter("ocr", "", Tools{}, nil, 0); !errors.Is(err, ErrInvalidStrategy) {
			t.Errorf("error = %v, want ErrInvalidStrategy", err)
		}
	})
}
