package pdfedit

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-pdfedit/internal/process"
)

// chromeToolName identifies the browser renderer in diagnostics.
const chromeToolName = "chrome"

// PDF page dimensions in inches (US Letter format).
const (
	paperWidthInches  = 8.5
	paperHeightInches = 11
	marginInches      = 0.5
)

// chromeRenderer prints markup files to PDF with headless Chrome via go-rod.
// Rod downloads Chromium on first run if none is found. The browser is
// started on first use and reused until Close.
type chromeRenderer struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

func newChromeRenderer(timeout time.Duration) *chromeRenderer {
	return &chromeRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *chromeRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.launcher = l
	r.browser = browser
	return nil
}

// Close releases browser resources. The browser's process group is killed
// so renderer helpers do not outlive it.
func (r *chromeRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		if pid := r.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// FromMarkup opens a local HTML file with JavaScript disabled and prints it
// to PDF.
func (r *chromeRenderer) FromMarkup(ctx context.Context, markupPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pageURL, err := fileURL(markupPath)
	if err != nil {
		return nil, &ArtifactError{Op: "read", Path: markupPath, Err: err}
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, conversionError(DirectionFromMarkup, chromeToolName, "", err)
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, conversionError(DirectionFromMarkup, chromeToolName, err.Error(), ErrPageCreate)
	}
	defer page.Close()

	if err := (proto.EmulationSetScriptExecutionDisabled{Value: true}).Call(page); err != nil {
		return nil, conversionError(DirectionFromMarkup, chromeToolName, err.Error(), ErrPageCreate)
	}

	// Wait for page to load with timeout from context or default
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	page = page.Context(ctx).Timeout(timeout)
	if err := page.Navigate(pageURL); err != nil {
		return nil, r.pageError(ctx, ErrPageLoad, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, r.pageError(ctx, ErrPageLoad, err)
	}

	reader, err := page.PDF(buildPDFOptions())
	if err != nil {
		return nil, r.pageError(ctx, ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, r.pageError(ctx, ErrPDFGeneration, fmt.Errorf("reading PDF stream: %w", err))
	}

	return pdfBuf, nil
}

// pageError prefers the context error so cancellation is not reported as a
// rendering failure.
func (r *chromeRenderer) pageError(ctx context.Context, sentinel, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return conversionError(DirectionFromMarkup, chromeToolName, err.Error(), sentinel)
}

// buildPDFOptions returns US Letter output with uniform margins and
// backgrounds, so inline background colors survive.
func buildPDFOptions() *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	}
}

// fileURL converts a local path to an absolute file:// URL.
func fileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	if filepath.VolumeName(abs) != "" {
		u.Path = "/" + u.Path
	}
	return u.String(), nil
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
