package pdfedit

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/go-pdfedit/internal/fileutil"
	"github.com/alnah/go-pdfedit/internal/markup"
	"github.com/alnah/go-pdfedit/internal/prompt"
)

// Artifact names inside a run's temp directory.
const (
	inputArtifact  = "input.html"
	outputArtifact = "output.html"
)

// Permissions for staged markup and the final document.
const (
	artifactPerm = 0o600
	outputPerm   = 0o644
)

// run is the state of one Pipeline.Run call.
type run struct {
	p       *Pipeline
	id      string
	in      Input
	hooks   Hooks
	logger  *slog.Logger
	started time.Time

	output    string
	dir       string
	artifacts []string
	stage     Stage
	progress  float64
	status    string
	pages     int
}

func newRun(p *Pipeline, in Input, hooks Hooks) *run {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return &run{
		p:       p,
		id:      id.String(),
		in:      in,
		hooks:   hooks,
		logger:  p.logger.With("run_id", id.String()),
		started: time.Now(),
	}
}

// execute runs every stage, cleans up, and reports exactly one terminal hook.
func (r *run) execute(ctx context.Context) (*Result, error) {
	r.logger.Info("run started", "source", r.in.SourcePath, "output", r.in.OutputPath, "strategy", r.p.cfg.strategy)

	err := r.stages(ctx)
	failed := r.stage

	r.enterCleanup()
	r.record(ctx, failed, err)

	if err != nil {
		perr := &PipelineError{Stage: failed, Err: err}
		r.logger.Error("run failed", "stage", failed, "status", r.status, "error", err, "duration", time.Since(r.started))
		r.hooks.fail(perr.Error())
		return nil, perr
	}

	r.setProgress(progressDone)
	r.setStatus(StatusDone)
	r.logger.Info("run finished", "output", r.output, "pages", r.pages, "duration", time.Since(r.started))
	r.hooks.complete(r.output)

	return &Result{
		RunID:      r.id,
		OutputPath: r.output,
		Pages:      r.pages,
		Duration:   time.Since(r.started),
	}, nil
}

// stages runs init through convert-out. r.stage names the step in progress
// when an error is returned.
func (r *run) stages(ctx context.Context) error {
	// init
	if err := r.enter(ctx, StageInit); err != nil {
		return err
	}
	r.setProgress(progressStart)
	if r.in.OutputPath == "" {
		return ErrEmptyOutputPath
	}
	r.output = fileutil.EnsureExtension(r.in.OutputPath, ".pdf")
	dir, err := fileutil.MakeTempDir(r.p.cfg.tempDir, "run-*")
	if err != nil {
		return &ArtifactError{Op: "create", Path: r.p.cfg.tempDir, Err: err}
	}
	r.dir = dir

	// convert-in
	if err := r.enter(ctx, StageConvertIn); err != nil {
		return err
	}
	hasSource := r.in.SourcePath != ""
	if hasSource {
		r.setStatus(StatusConverting)
		r.setProgress(progressConverting)
	} else {
		r.setStatus(StatusNewDocument)
		r.setProgress(progressNewDocument)
	}
	doc, err := r.p.extractor.ToMarkup(ctx, r.in.SourcePath)
	if err != nil {
		return err
	}
	if hasSource {
		r.setProgress(progressConverted)
	} else {
		r.setProgress(progressConverting)
	}

	// stage-input
	if err := r.enter(ctx, StageStageInput); err != nil {
		return err
	}
	doc, err = r.stageArtifact(inputArtifact, doc)
	if err != nil {
		return err
	}
	r.setProgress(progressInputStaged)

	// build-prompt
	if err := r.enter(ctx, StageBuildPrompt); err != nil {
		return err
	}
	r.setStatus(StatusPrompt)
	text := prompt.Build(r.p.rules, r.in.Context, doc)
	r.setProgress(progressPromptBuilt)

	// model-call
	if err := r.enter(ctx, StageModelCall); err != nil {
		return err
	}
	r.setStatus(StatusModel)
	r.setProgress(progressAwaitingModel)
	completion, err := r.p.generator.Generate(ctx, text)
	if err != nil {
		return err
	}

	// stage-output
	if err := r.enter(ctx, StageStageOutput); err != nil {
		return err
	}
	generated, err := markup.Clean(completion)
	if err != nil {
		return fmt.Errorf("processing completion: %w", err)
	}
	outPath := filepath.Join(r.dir, outputArtifact)
	if err := r.writeArtifact(outPath, generated); err != nil {
		return err
	}
	r.setProgress(progressOutputStaged)

	// convert-out
	if err := r.enter(ctx, StageConvertOut); err != nil {
		return err
	}
	r.setStatus(StatusRendering)
	r.setProgress(progressRendering)
	pdfBytes, err := r.p.renderer.FromMarkup(ctx, outPath)
	if err != nil {
		return err
	}
	pages, err := VerifyPDF(pdfBytes)
	if err != nil {
		return conversionError(DirectionFromMarkup, "", "", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(r.output, pdfBytes, outputPerm); err != nil {
		return &ArtifactError{Op: "write", Path: r.output, Err: err}
	}
	r.pages = pages

	return nil
}

// enter records the stage and reports cancellation at the boundary.
func (r *run) enter(ctx context.Context, stage Stage) error {
	r.stage = stage
	r.logger.Debug("stage", "stage", stage, "progress", r.progress)
	return ctx.Err()
}

// stageArtifact writes content to a tracked artifact and reads it back, so
// the prompt carries exactly what was persisted.
func (r *run) stageArtifact(name, content string) (string, error) {
	path := filepath.Join(r.dir, name)
	if err := r.writeArtifact(path, content); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path inside the run directory
	if err != nil {
		return "", &ArtifactError{Op: "read", Path: path, Err: err}
	}
	return string(data), nil
}

// writeArtifact tracks path before writing so a partial write is still
// cleaned up.
func (r *run) writeArtifact(path, content string) error {
	r.artifacts = append(r.artifacts, path)
	if err := os.WriteFile(path, []byte(content), artifactPerm); err != nil {
		return &ArtifactError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// enterCleanup removes tracked artifacts and the run directory. Failures
// are logged and never replace the run's outcome.
func (r *run) enterCleanup() {
	r.stage = StageCleanup
	for _, path := range r.artifacts {
		if err := fileutil.RemoveIfExists(path); err != nil {
			r.logger.Warn("removing artifact", "path", path, "error", err)
		}
	}
	r.artifacts = nil

	if r.dir == "" {
		return
	}
	if err := os.RemoveAll(r.dir); err != nil {
		r.logger.Warn("removing run directory", "path", r.dir, "error", err)
	}
}

// record hands the outcome to the recorder, if any.
func (r *run) record(ctx context.Context, stage Stage, err error) {
	if r.p.recorder == nil {
		return
	}
	if err == nil {
		stage = StageCleanup
	}
	rec := RunRecord{
		ID:         r.id,
		StartedAt:  r.started,
		FinishedAt: time.Now(),
		Source:     r.in.SourcePath,
		Output:     r.output,
		Strategy:   r.p.cfg.strategy,
		Stage:      stage,
		Err:        err,
		Pages:      r.pages,
	}
	if rerr := r.p.recorder.Record(context.WithoutCancel(ctx), rec); rerr != nil {
		r.logger.Warn("recording run", "error", rerr)
	}
}

// setProgress reports p unless it would move progress backwards.
func (r *run) setProgress(p float64) {
	if p < r.progress {
		return
	}
	r.progress = p
	r.hooks.progress(p)
}

func (r *run) setStatus(msg string) {
	r.status = msg
	r.hooks.status(msg)
}
