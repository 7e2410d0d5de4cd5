package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	pdfedit "github.com/alnah/go-pdfedit"
	"github.com/alnah/go-pdfedit/internal/config"
	"github.com/alnah/go-pdfedit/internal/fileutil"
)

// endpointCheckTimeout bounds the model endpoint probe.
const endpointCheckTimeout = 2 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Strategy string     `json:"strategy"`
	Chrome   chromeInfo `json:"chrome"`
	Tools    []toolInfo `json:"tools"`
	Model    modelInfo  `json:"model"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// toolInfo holds the lookup result for one external converter binary.
type toolInfo struct {
	Name  string `json:"name"`
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// modelInfo holds the model endpoint probe result.
type modelInfo struct {
	Endpoint   string `json:"endpoint"`
	Reachable  bool   `json:"reachable"`
	StatusCode int    `json:"status_code,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad usage.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	f, err := parseDoctorFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	cfg, cfgName, err := loadConfig(f.config, loadEnvConfig())
	if err != nil {
		fmt.Fprintln(env.Stderr, withHint(err, "", cfgName))
		return exitCodeFor(err)
	}

	result := runDoctor(ctx, cfg)

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, cfg *config.Config) *doctorResult {
	result := &doctorResult{
		Status:   "ready",
		Strategy: strings.ToLower(cfg.Converter.Strategy),
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}
	external := result.Strategy == string(pdfedit.StrategyExternal)

	checkChrome(result, !external)
	checkTools(result, cfg, external)
	checkModel(ctx, result, cfg.Model.Endpoint)
	checkEnvironment(result)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkChrome detects Chrome/Chromium. A missing browser is an error only
// when the structural strategy needs it.
func checkChrome(result *doctorResult, required bool) {
	report := func(msg string) {
		if required {
			result.Errors = append(result.Errors, msg)
		} else {
			result.Warnings = append(result.Warnings, msg)
		}
	}

	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			report("Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		report(fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- browser path from rod lookup or ROD_BROWSER_BIN
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkTools looks up the external converter binaries. Missing tools are
// errors only for the external strategy.
func checkTools(result *doctorResult, cfg *config.Config, required bool) {
	for _, name := range []string{cfg.Converter.PDFToHTML, cfg.Converter.WKHTMLToPDF} {
		info := toolInfo{Name: name}
		if path, err := exec.LookPath(name); err == nil {
			info.Found = true
			info.Path = path
		} else {
			msg := fmt.Sprintf("%s not found on PATH", name)
			if required {
				result.Errors = append(result.Errors, msg)
			} else {
				result.Warnings = append(result.Warnings, msg+" (needed for --strategy external)")
			}
		}
		result.Tools = append(result.Tools, info)
	}
}

// checkModel probes the model server's models list. Any HTTP response
// counts as reachable; an unreachable server is a warning because
// extraction works without it.
func checkModel(ctx context.Context, result *doctorResult, endpoint string) {
	result.Model.Endpoint = endpoint

	ctx, cancel := context.WithTimeout(ctx, endpointCheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, modelsURL(endpoint), nil)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid model endpoint %q: %v", endpoint, err))
		return
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Model endpoint %s not reachable. Start the model server or set PDFEDIT_ENDPOINT", endpoint))
		return
	}
	_ = resp.Body.Close()

	result.Model.Reachable = true
	result.Model.StatusCode = resp.StatusCode
	if resp.StatusCode >= http.StatusBadRequest {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Model endpoint answered %s", resp.Status))
	}
}

// modelsURL turns a chat completions URL into the server's models list URL.
func modelsURL(endpoint string) string {
	if base, ok := strings.CutSuffix(strings.TrimRight(endpoint, "/"), "/chat/completions"); ok {
		return base + "/models"
	}
	return endpoint
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" && result.Chrome.Found {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("PDFEDIT_CONTAINER") == "1" {
		return true, "PDFEDIT_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory accepts run artifacts.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	_, cleanup, err := fileutil.WriteTempFile(tmpDir, "<!DOCTYPE html>", "html")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	cleanup()
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "pdfedit doctor")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Strategy: %s\n", r.Strategy)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [--] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "External tools")
	for _, t := range r.Tools {
		if t.Found {
			fmt.Fprintf(w, "  [OK] %s: %s\n", t.Name, t.Path)
		} else {
			fmt.Fprintf(w, "  [--] %s: not found\n", t.Name)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Model")
	if r.Model.Reachable {
		fmt.Fprintf(w, "  [OK] %s (HTTP %d)\n", r.Model.Endpoint, r.Model.StatusCode)
	} else {
		fmt.Fprintf(w, "  [--] %s: unreachable\n", r.Model.Endpoint)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
