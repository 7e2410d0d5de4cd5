package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfedit <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  edit        Edit a document with the model and render a PDF")
	fmt.Fprintln(w, "  extract     Convert a source to HTML or Markdown")
	fmt.Fprintln(w, "  history     List recent runs")
	fmt.Fprintln(w, "  doctor      Check browser, tools and model server")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'pdfedit help <command>' for details on a specific command.")
}

// printCommonUsage prints flags shared by edit, extract and history.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "      --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
	fmt.Fprintln(w, "      --log-format <s>      Log format: text, json")
}

// printEditUsage prints usage for the edit command.
func printEditUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfedit edit [source...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a source to HTML, ask the model to edit it, and render the")
	fmt.Fprintln(w, "result to PDF. Without a source the model writes a new document.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  source    PDF, HTML, Markdown or text file (optional)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output PDF (default: output.defaultName)")
	fmt.Fprintln(w, "      --out-dir <dir>       Output directory, required for several sources")
	fmt.Fprintln(w, "  -c, --context <text>      Editing instructions")
	fmt.Fprintln(w, "      --context-file <path> Read editing instructions from a file")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel pipelines for batches (0 = auto)")
	fmt.Fprintln(w, "      --no-journal          Do not record this run")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Conversion:")
	fmt.Fprintln(w, "      --strategy <s>        structural (Chrome) or external (poppler, wkhtmltopdf)")
	fmt.Fprintln(w, "      --rules <name|path>   Rule set sent ahead of every prompt")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory overriding rules/ and shells/")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Model:")
	fmt.Fprintln(w, "      --endpoint <url>      Chat completions URL")
	fmt.Fprintln(w, "      --model <name>        Model identifier")
	fmt.Fprintln(w, "      --temperature <f>     Sampling temperature (0-2)")
	fmt.Fprintln(w, "      --max-tokens <n>      Completion token limit")
	fmt.Fprintln(w, "      --timeout <d>         Request timeout (e.g. 5m)")
	fmt.Fprintln(w, "      --retries <n>         Retries after a failed request (0-10)")
	fmt.Fprintln(w)
	printCommonUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output names may contain {date} or {date:FORMAT}.")
	fmt.Fprintln(w, "Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, HH, mm, ss. Presets: iso, compact, european, stamp.")
}

// printExtractUsage prints usage for the extract command.
func printExtractUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfedit extract <source> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a source to HTML (or Markdown) without calling the model.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: stdout)")
	fmt.Fprintln(w, "      --format <s>          html or markdown")
	fmt.Fprintln(w, "      --strategy <s>        structural or external")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printHistoryUsage prints usage for the history command.
func printHistoryUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfedit history [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List recent runs from the journal (journal.enabled in config).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -n, --limit <n>           Number of runs to show (default 20)")
	fmt.Fprintln(w, "      --json                Print entries as JSON")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfedit doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, pdftohtml, wkhtmltopdf, the model server and the temp directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --json                Print the report as JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "edit":
		printEditUsage(env.Stdout)
	case "extract":
		printExtractUsage(env.Stdout)
	case "history":
		printHistoryUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: pdfedit version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: pdfedit help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return nil
}
