package main

// Notes:
// - GenerateCompletion: we test that shell scripts are generated with expected
//   content markers. We do not run them in the target shell.
// - getCommands: flags come from the real FlagSets, so a flag added to a
//   command shows up in completion without extra wiring.

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGenerateCompletion_SupportedShells - Shell completion script generation
// ---------------------------------------------------------------------------

func TestGenerateCompletion_SupportedShells(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		shell        Shell
		wantContains []string
	}{
		{
			name:  "bash",
			shell: ShellBash,
			wantContains: []string{
				"_pdfedit()",
				"complete -F _pdfedit pdfedit",
				"edit extract history doctor version help completion",
				"--strategy) COMPREPLY=($(compgen -W \"structural external\"",
				"--out-dir) COMPREPLY=($(compgen -d",
				"--context-file",
				"--no-journal",
			},
		},
		{
			name:  "zsh",
			shell: ShellZsh,
			wantContains: []string{
				"#compdef pdfedit",
				"_describe 'command' commands",
				"_arguments",
				"'--format[",
				":format:(html markdown)",
				"*:source:_files -g",
				"_values 'shell' bash zsh fish",
			},
		},
		{
			name:  "fish",
			shell: ShellFish,
			wantContains: []string{
				"complete -c pdfedit -f",
				"__fish_use_subcommand' -a edit",
				"'__fish_seen_subcommand_from history' -l limit -s n",
				"-l out-dir",
				"__fish_complete_directories",
				"-x -a 'bash zsh fish'",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion(%s) error = %v", tt.shell, err)
			}
			out := buf.String()
			for _, want := range tt.wantContains {
				if !strings.Contains(out, want) {
					t.Errorf("%s script missing %q", tt.shell, want)
				}
			}
		})
	}
}

func TestGenerateCompletion_Stable(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	if err := GenerateCompletion(&a, ShellBash); err != nil {
		t.Fatal(err)
	}
	if err := GenerateCompletion(&b, ShellBash); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("bash script differs between runs")
	}
}

// ---------------------------------------------------------------------------
// TestGenerateCompletion_UnsupportedShell - Error handling
// ---------------------------------------------------------------------------

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()

	for _, shell := range []Shell{"powershell", "", "tcsh"} {
		var buf bytes.Buffer
		err := GenerateCompletion(&buf, shell)
		if !errors.Is(err, ErrUnsupportedShell) {
			t.Errorf("GenerateCompletion(%q) error = %v, want ErrUnsupportedShell", shell, err)
		}
		if buf.Len() != 0 {
			t.Errorf("GenerateCompletion(%q) wrote %d bytes", shell, buf.Len())
		}
	}
}

// ---------------------------------------------------------------------------
// TestGetCommands - Command registry
// ---------------------------------------------------------------------------

func TestGetCommands(t *testing.T) {
	t.Parallel()

	cmds := getCommands()
	byName := make(map[string]commandDef, len(cmds))
	for _, c := range cmds {
		if c.Desc == "" {
			t.Errorf("command %q has no description", c.Name)
		}
		byName[c.Name] = c
	}

	wantFlags := map[string][]string{
		"edit":    {"output", "out-dir", "context", "context-file", "strategy", "endpoint", "workers", "no-journal", "config", "quiet"},
		"extract": {"output", "format", "strategy"},
		"history": {"limit", "json"},
		"doctor":  {"config", "json"},
	}
	for cmd, flags := range wantFlags {
		c, ok := byName[cmd]
		if !ok {
			t.Errorf("command %q missing", cmd)
			continue
		}
		have := map[string]bool{}
		for _, f := range c.Flags {
			have[f.Long] = true
		}
		for _, f := range flags {
			if !have[f] {
				t.Errorf("%s: flag --%s missing", cmd, f)
			}
		}
	}

	if !byName["edit"].TakesSources || byName["history"].TakesSources {
		t.Error("TakesSources wrong for edit or history")
	}
}
