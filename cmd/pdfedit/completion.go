package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// sourceGlobs are the file patterns offered for source arguments.
var sourceGlobs = []string{"*.pdf", "*.html", "*.htm", "*.md", "*.markdown", "*.txt"}

// completionMeta holds completion-specific metadata for flags.
// Flag names and descriptions come from the FlagSets.
type completionMeta struct {
	Values   []string // enum values
	FileGlob []string // file glob patterns
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"strategy":     {Values: []string{"structural", "external"}},
	"format":       {Values: []string{formatHTML, formatMarkdown}},
	"log-format":   {Values: []string{logFormatText, logFormatJSON}},
	"config":       {FileGlob: []string{"*.yaml", "*.yml"}},
	"context-file": {FileGlob: []string{"*.txt", "*.md"}},
	"rules":        {FileGlob: []string{"*.txt"}},
	"output":       {FileGlob: []string{"*.pdf"}},
	"out-dir":      {IsDir: true},
	"asset-path":   {IsDir: true},
}

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long  string
	Short string
	Desc  string
	Bool  bool
	Meta  completionMeta
}

// commandDef describes a command for completion.
type commandDef struct {
	Name         string
	Desc         string
	Flags        []flagDef
	TakesSources bool
}

// flagsOf extracts flag definitions from a FlagSet, enriched with
// flagCompletionMeta.
func flagsOf(fs *flag.FlagSet) []flagDef {
	var defs []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		defs = append(defs, flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
			Bool:  f.Value.Type() == "bool",
			Meta:  flagCompletionMeta[f.Name],
		})
	})
	return defs
}

// getCommands returns the command registry for completion.
func getCommands() []commandDef {
	return []commandDef{
		{Name: "edit", Desc: "Edit a document with the model and render a PDF", Flags: flagsOf(buildEditFlagSet(&editFlags{})), TakesSources: true},
		{Name: "extract", Desc: "Convert a source to HTML or Markdown", Flags: flagsOf(buildExtractFlagSet(&extractFlags{})), TakesSources: true},
		{Name: "history", Desc: "List recent runs", Flags: flagsOf(buildHistoryFlagSet(&historyFlags{}))},
		{Name: "doctor", Desc: "Check browser, tools and model server", Flags: flagsOf(buildDoctorFlagSet(&doctorFlags{}))},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
		{Name: "completion", Desc: "Generate shell completion script"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	bw := bufio.NewWriter(w)
	switch shell {
	case ShellBash:
		writeBash(bw, getCommands())
	case ShellZsh:
		writeZsh(bw, getCommands())
	case ShellFish:
		writeFish(bw, getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
	return bw.Flush()
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func writeBash(w io.Writer, cmds []commandDef) {
	fmt.Fprintln(w, "# bash completion for pdfedit")
	fmt.Fprintln(w, "_pdfedit() {")
	fmt.Fprintln(w, `    local cur prev cmd`)
	fmt.Fprintln(w, `    cur="${COMP_WORDS[COMP_CWORD]}"`)
	fmt.Fprintln(w, `    prev="${COMP_WORDS[COMP_CWORD-1]}"`)
	fmt.Fprintln(w, `    cmd="${COMP_WORDS[1]}"`)
	fmt.Fprintln(w)
	fmt.Fprintln(w, `    if [[ ${COMP_CWORD} -eq 1 ]]; then`)
	fmt.Fprintf(w, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", commandNames(cmds))
	fmt.Fprintln(w, "        return")
	fmt.Fprintln(w, "    fi")
	fmt.Fprintln(w)
	fmt.Fprintln(w, `    case "$prev" in`)
	for name, meta := range sortedMeta() {
		switch {
		case len(meta.Values) > 0:
			fmt.Fprintf(w, "        --%s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", name, strings.Join(meta.Values, " "))
		case meta.IsDir:
			fmt.Fprintf(w, "        --%s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", name)
		case len(meta.FileGlob) > 0:
			fmt.Fprintf(w, "        --%s) COMPREPLY=($(compgen -f -- \"$cur\")); return ;;\n", name)
		}
	}
	fmt.Fprintln(w, "    esac")
	fmt.Fprintln(w)
	fmt.Fprintln(w, `    case "$cmd" in`)
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		var opts []string
		for _, f := range c.Flags {
			opts = append(opts, "--"+f.Long)
			if f.Short != "" {
				opts = append(opts, "-"+f.Short)
			}
		}
		fmt.Fprintf(w, "        %s)\n", c.Name)
		fmt.Fprintln(w, `            if [[ "$cur" == -* ]]; then`)
		fmt.Fprintf(w, "                COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(opts, " "))
		if c.TakesSources {
			fmt.Fprintln(w, "            else")
			fmt.Fprintln(w, `                COMPREPLY=($(compgen -f -- "$cur"))`)
		}
		fmt.Fprintln(w, "            fi")
		fmt.Fprintln(w, "            ;;")
	}
	fmt.Fprintln(w, "        help)")
	fmt.Fprintf(w, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", commandNames(cmds))
	fmt.Fprintln(w, "            ;;")
	fmt.Fprintln(w, "        completion)")
	fmt.Fprintln(w, `            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))`)
	fmt.Fprintln(w, "            ;;")
	fmt.Fprintln(w, "    esac")
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w, "complete -F _pdfedit pdfedit")
}

func writeZsh(w io.Writer, cmds []commandDef) {
	fmt.Fprintln(w, "#compdef pdfedit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "_pdfedit() {")
	fmt.Fprintln(w, "    local -a commands")
	fmt.Fprintln(w, "    commands=(")
	for _, c := range cmds {
		fmt.Fprintf(w, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	fmt.Fprintln(w, "    )")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "    if (( CURRENT == 2 )); then")
	fmt.Fprintln(w, "        _describe 'command' commands")
	fmt.Fprintln(w, "        return")
	fmt.Fprintln(w, "    fi")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "    case ${words[2]} in")
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(w, "        %s)\n", c.Name)
		fmt.Fprintln(w, "            _arguments \\")
		for _, f := range c.Flags {
			fmt.Fprintf(w, "                '--%s[%s]%s' \\\n", f.Long, zshEscape(f.Desc), zshAction(f))
		}
		if c.TakesSources {
			fmt.Fprintf(w, "                '*:source:_files -g \"%s\"'\n", strings.Join(sourceGlobs, " "))
		} else {
			fmt.Fprintln(w, "                && return")
		}
		fmt.Fprintln(w, "            ;;")
	}
	fmt.Fprintln(w, "        completion)")
	fmt.Fprintln(w, "            _values 'shell' bash zsh fish")
	fmt.Fprintln(w, "            ;;")
	fmt.Fprintln(w, "    esac")
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w)
	fmt.Fprintln(w, `_pdfedit "$@"`)
}

func zshAction(f flagDef) string {
	switch {
	case f.Bool:
		return ""
	case len(f.Meta.Values) > 0:
		return fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Meta.Values, " "))
	case f.Meta.IsDir:
		return ":directory:_files -/"
	case len(f.Meta.FileGlob) > 0:
		return fmt.Sprintf(":file:_files -g \"%s\"", strings.Join(f.Meta.FileGlob, " "))
	default:
		return ":" + f.Long + ":"
	}
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

func writeFish(w io.Writer, cmds []commandDef) {
	fmt.Fprintln(w, "# fish completion for pdfedit")
	fmt.Fprintln(w, "complete -c pdfedit -f")
	for _, c := range cmds {
		fmt.Fprintf(w, "complete -c pdfedit -n '__fish_use_subcommand' -a %s -d %s\n", c.Name, fishQuote(c.Desc))
	}
	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_seen_subcommand_from %s'", c.Name)
		if c.TakesSources {
			fmt.Fprintf(w, "complete -c pdfedit -n %s -F\n", cond)
		}
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c pdfedit -n %s -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch {
			case f.Bool:
			case len(f.Meta.Values) > 0:
				line += " -x -a " + fishQuote(strings.Join(f.Meta.Values, " "))
			case f.Meta.IsDir:
				line += " -x -a '(__fish_complete_directories)'"
			default:
				line += " -r -F"
			}
			fmt.Fprintf(w, "%s -d %s\n", line, fishQuote(f.Desc))
		}
	}
	fmt.Fprintln(w, "complete -c pdfedit -n '__fish_seen_subcommand_from completion' -x -a 'bash zsh fish'")
}

func fishQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// sortedMeta yields flagCompletionMeta in name order so scripts are stable.
func sortedMeta() func(yield func(string, completionMeta) bool) {
	return func(yield func(string, completionMeta) bool) {
		names := make([]string, 0, len(flagCompletionMeta))
		for name := range flagCompletionMeta {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			if !yield(name, flagCompletionMeta[name]) {
				return
			}
		}
	}
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfedit completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(pdfedit completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(pdfedit completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    pdfedit completion fish > ~/.config/fish/completions/pdfedit.fish")
}
