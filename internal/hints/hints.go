// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"runtime"
	"strings"

	"github.com/alnah/go-pdfedit/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	hints = append(hints, "or use --strategy external (wkhtmltopdf)")

	return formatHints(hints)
}

// ForToolNotFound returns install hints for a missing conversion binary.
func ForToolNotFound(tool string) string {
	var pkg string
	switch tool {
	case "pdftohtml":
		pkg = "poppler-utils"
	case "wkhtmltopdf":
		pkg = "wkhtmltopdf"
	default:
		return format("install " + tool + " and make sure it is on PATH")
	}

	switch runtime.GOOS {
	case "darwin":
		if pkg == "poppler-utils" {
			pkg = "poppler"
		}
		return format("brew install " + pkg)
	case "windows":
		return format("install " + pkg + " and add its bin directory to PATH")
	default:
		return format("apt install " + pkg + " (or your distribution's equivalent)")
	}
}

// ForModelUnreachable returns hints when the text-generation endpoint refuses connections.
func ForModelUnreachable(endpoint string) string {
	hint := "start the local model server"
	if endpoint != "" {
		hint += " listening at " + endpoint
	}
	return format(hint + ", or set --endpoint / PDFEDIT_ENDPOINT")
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("large documents take longer to generate, use --timeout (e.g. --timeout 20m)")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-pdfedit/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-pdfedit") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForUnsupportedSource lists the accepted input formats.
func ForUnsupportedSource() string {
	return format("supported inputs: PDF, HTML, Markdown, plain text")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
