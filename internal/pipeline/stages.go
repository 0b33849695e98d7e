package pipeline

import (
	"context"

	"github.com/jonathan/portfolio-builder/internal/llm"
	"github.com/jonathan/portfolio-builder/internal/pipeline/steps"
	"github.com/jonathan/portfolio-builder/internal/prompts"
)

// StageFunc turns the previous stage's output into this stage's output
type StageFunc func(ctx context.Context, client llm.Client, input string) (string, error)

// Stage is one named text-to-text step between text extraction and block extraction
type Stage struct {
	// Name must be registered in steps.StepRegistry
	Name string
	// State is reached once the stage completes
	State State
	Tier  llm.ModelTier
	Run   StageFunc
}

// AnalyzeStage asks the model to summarize the résumé text
func AnalyzeStage(tier llm.ModelTier) Stage {
	return Stage{
		Name:  steps.StepAnalyzeResume,
		State: StateAnalyzed,
		Tier:  tier,
		Run: func(ctx context.Context, client llm.Client, resumeText string) (string, error) {
			return client.GenerateContent(ctx, prompts.Analysis().Render(resumeText), tier)
		},
	}
}

// GenerateStage asks the model for the website code, seeded with the analysis
func GenerateStage(tier llm.ModelTier) Stage {
	return Stage{
		Name:  steps.StepGenerateCode,
		State: StateCodeGenerated,
		Tier:  tier,
		Run: func(ctx context.Context, client llm.Client, analysis string) (string, error) {
			system, user := prompts.CodeGenerationPrompt().Messages(analysis)
			return client.GenerateChat(ctx, system, user, tier)
		},
	}
}

// DefaultStages returns the analysis and generation stages on the standard tier
func DefaultStages() []Stage {
	return []Stage{
		AnalyzeStage(llm.TierStandard),
		GenerateStage(llm.TierStandard),
	}
}

// stageOrder returns every step name the run will execute, in order
func stageOrder(stages []Stage) []string {
	order := make([]string, 0, len(stages)+2)
	order = append(order, steps.StepExtractText)
	for _, s := range stages {
		order = append(order, s.Name)
	}
	return append(order, steps.StepExtractBlocks)
}
