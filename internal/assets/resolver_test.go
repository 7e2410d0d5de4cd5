package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestAssetResolver - Custom-first fallback
// ---------------------------------------------------------------------------

func TestNewAssetResolver(t *testing.T) {
	t.Parallel()

	r, err := NewAssetResolver("")
	if err != nil {
		t.Fatalf("NewAssetResolver(\"\") error = %v", err)
	}
	if r.HasCustomLoader() {
		t.Error("empty base path should not configure a custom loader")
	}

	if _, err := NewAssetResolver("/nonexistent/abc123xyz"); !errors.Is(err, ErrInvalidBasePath) {
		t.Errorf("error = %v, want ErrInvalidBasePath", err)
	}
}

func TestAssetResolver_CustomOverridesEmbedded(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeAsset(t, base, "rules", "default.txt", "Custom rules.")

	r, err := NewAssetResolver(base)
	if err != nil {
		t.Fatal(err)
	}
	if !r.HasCustomLoader() {
		t.Fatal("expected custom loader")
	}

	got, err := r.LoadRules(DefaultRulesName)
	if err != nil {
		t.Fatalf("LoadRules() error = %v", err)
	}
	if got != "Custom rules." {
		t.Errorf("LoadRules() = %q, want custom content", got)
	}
}

func TestAssetResolver_FallsBackWhenMissing(t *testing.T) {
	t.Parallel()

	r, err := NewAssetResolver(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	shell, err := r.LoadShell(BlankShellName)
	if err != nil {
		t.Fatalf("LoadShell() error = %v", err)
	}
	if shell != "<html><body></body></html>" {
		t.Errorf("LoadShell() = %q, want embedded shell", shell)
	}

	rules, err := r.LoadRules(DefaultRulesName)
	if err != nil {
		t.Fatalf("LoadRules() error = %v", err)
	}
	if !strings.Contains(rules, "Answer: ...") {
		t.Error("expected embedded default rules")
	}
}

func TestAssetResolver_NoFallbackOnReadErrors(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "rules"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(base, "rules", "default.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := NewAssetResolver(base)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.LoadRules(DefaultRulesName); !errors.Is(err, ErrEmptyAsset) {
		t.Errorf("error = %v, want ErrEmptyAsset without fallback", err)
	}
}
