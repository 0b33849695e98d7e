// Package pipeline provides the high-level orchestration for portfolio generation.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/portfolio-builder/internal/blocks"
	"github.com/jonathan/portfolio-builder/internal/ingestion"
	"github.com/jonathan/portfolio-builder/internal/llm"
	"github.com/jonathan/portfolio-builder/internal/observability"
	"github.com/jonathan/portfolio-builder/internal/pipeline/steps"
	"github.com/jonathan/portfolio-builder/internal/site"
)

// State is the position of a run in the pipeline
type State int

const (
	StateIdle State = iota
	StateTextExtracted
	StateAnalyzed
	StateCodeGenerated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTextExtracted:
		return "text_extracted"
	case StateAnalyzed:
		return "analyzed"
	case StateCodeGenerated:
		return "code_generated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText lets State appear by name in JSON
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	State    State  `json:"state"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	// Data is the uploaded document
	Data []byte
	// FormatHint is a MIME type or format name; FileName is the fallback
	FormatHint string
	FileName   string
	// RunID identifies the run; a new one is generated when nil
	RunID uuid.UUID
	// Stages overrides DefaultStages
	Stages     []Stage
	Verbose    bool
	Out        io.Writer
	OnProgress ProgressCallback
}

// Result is the immutable outcome of a successful run
type Result struct {
	RunID      string            `json:"run_id"`
	State      State             `json:"state"`
	Source     *ingestion.Source `json:"source"`
	ResumeText string            `json:"-"`
	Analysis   string            `json:"analysis"`
	RawReply   string            `json:"-"`
	Bundle     site.Bundle       `json:"bundle"`
	Models     map[string]string `json:"models"`
	Duration   time.Duration     `json:"duration"`
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, runID, step string, state State, message string, content any) {
	if opts.OnProgress == nil {
		return
	}
	def, _ := steps.Lookup(step)
	opts.OnProgress(ProgressEvent{
		Step:     step,
		Category: def.Category,
		State:    state,
		Message:  message,
		RunID:    runID,
		Content:  content,
	})
}

// Run executes one pipeline instance: extract text, run each stage on the
// previous output, then pull the html, css and js blocks out of the final reply.
// Any failure is terminal and no partial bundle is returned.
func Run(ctx context.Context, client llm.Client, opts RunOptions) (*Result, error) {
	start := time.Now()

	stages := opts.Stages
	if stages == nil {
		stages = DefaultStages()
	}
	order := stageOrder(stages)
	if err := steps.ValidateOrder(order); err != nil {
		return nil, fmt.Errorf("invalid pipeline: %w", err)
	}

	runID := opts.RunID
	if runID == uuid.Nil {
		runID = uuid.New()
	}
	id := runID.String()

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	printer := observability.NewPrinter(out)
	total := len(order)

	// Step 1: document text. Nothing remote runs on unreadable input.
	source := opts.FileName
	if source == "" {
		source = "upload"
	}
	fmt.Fprintf(out, "Step 1/%d: Extracting résumé text from %s...\n", total, source)
	resumeText, src, err := ingestion.ExtractSource(opts.Data, opts.FormatHint, opts.FileName)
	if err != nil {
		return nil, &StageError{Stage: steps.StepExtractText, Cause: err}
	}
	state := StateTextExtracted
	if opts.Verbose {
		printer.PrintResumeText(resumeText)
	}
	emitProgress(&opts, id, steps.StepExtractText, state,
		fmt.Sprintf("Extracted %d characters of résumé text from %s", src.Characters, src.Format), nil)

	result := &Result{
		RunID:      id,
		Source:     src,
		ResumeText: resumeText,
		Models:     make(map[string]string, len(stages)),
	}

	// Steps 2..n-1: each stage consumes the previous stage's output.
	input := resumeText
	for i, stage := range stages {
		if err := ctx.Err(); err != nil {
			return nil, &StageError{Stage: stage.Name, Cause: err}
		}
		def, _ := steps.Lookup(stage.Name)
		fmt.Fprintf(out, "Step %d/%d: %s...\n", i+2, total, def.Description)

		output, err := stage.Run(ctx, client, input)
		if err != nil {
			return nil, &StageError{Stage: stage.Name, Cause: err}
		}

		result.Models[stage.Name] = client.GetModel(stage.Tier)
		if stage.Name == steps.StepAnalyzeResume {
			result.Analysis = output
			if opts.Verbose {
				printer.PrintAnalysis(output)
			}
		}
		if stage.State > state {
			state = stage.State
		}

		var content any
		if stage.Name == steps.StepAnalyzeResume {
			content = output
		}
		emitProgress(&opts, id, stage.Name, state, fmt.Sprintf("%s complete", def.Description), content)
		input = output
	}
	result.RawReply = input

	// Final step: block extraction. html is mandatory, css and js are not.
	fmt.Fprintf(out, "Step %d/%d: Extracting code blocks...\n", total, total)
	found := blocks.ExtractAll(input, blocks.TagHTML, blocks.TagCSS, blocks.TagJS)
	if found[blocks.TagHTML] == "" {
		return nil, &GenerationIncompleteError{RunID: id, Tag: blocks.TagHTML, ReplyLength: len(input)}
	}

	result.Bundle = site.Bundle{
		HTML: found[blocks.TagHTML],
		CSS:  found[blocks.TagCSS],
		JS:   found[blocks.TagJS],
	}
	result.State = StateCodeGenerated
	result.Duration = time.Since(start)

	if opts.Verbose {
		printer.PrintBundle(&result.Bundle)
	}
	emitProgress(&opts, id, steps.StepExtractBlocks, result.State, "Extracted html, css and js blocks", nil)

	return result, nil
}
