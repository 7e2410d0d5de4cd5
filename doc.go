// Package pdfedit edits documents through a language model: a source
// document is converted to HTML markup, sent to a text-generation service
// together with fixed rules and a user instruction, and the markup that
// comes back is rendered to PDF.
//
// # Quick Start
//
// Create a pipeline, run it, and close when done:
//
//	p, err := pdfedit.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	res, err := p.Run(ctx, pdfedit.Input{
//	    SourcePath: "exam.pdf",
//	    OutputPath: "answers.pdf",
//	    Context:    "Answer every question below its statement.",
//	}, pdfedit.Hooks{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.OutputPath, res.Pages)
//
// An empty SourcePath starts from a blank document.
//
// # Pipeline Stages
//
//  1. init: run ID and a private temp directory
//  2. convert-in: source to markup (PDF, HTML, Markdown or plain text)
//  3. stage-input: markup written to input.html and read back
//  4. build-prompt: rules, user context and markup joined
//  5. model-call: chat completion request
//  6. stage-output: completion cleaned, sanitized and written to output.html
//  7. convert-out: output.html rendered, validated and written atomically
//  8. cleanup: every artifact removed, whatever the outcome
//
// Failures are returned as *PipelineError naming the stage. Use errors.As to
// reach *ConversionError, *ArtifactError or *ModelRequestError underneath.
//
// # Progress
//
// Hooks receive progress fractions that never decrease, status messages, and
// exactly one of OnComplete or OnError per run. Hooks run on the goroutine
// calling Run; hosts with a UI thread forward them.
//
// # Strategies
//
// StrategyStructural (default) parses PDFs in-process and renders with
// headless Chrome through go-rod. StrategyExternal uses the pdftohtml and
// wkhtmltopdf binaries:
//
//	p, err := pdfedit.New(
//	    pdfedit.WithStrategy(pdfedit.StrategyExternal),
//	    pdfedit.WithModelConfig(cfg),
//	    pdfedit.WithRules("./rules.txt"),
//	)
//
// # Parallel Processing
//
// A Pipeline handles one run at a time. For batches, use a PipelinePool:
//
//	pool := pdfedit.NewPipelinePool(pdfedit.ResolvePoolSize(0), opts...)
//	defer pool.Close()
//
//	results := pdfedit.RunBatch(ctx, pool, jobs, nil)
package pdfedit
