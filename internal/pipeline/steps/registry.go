// Package steps provides step definitions and dependency validation
// for the portfolio generation pipeline.
package steps

import (
	"fmt"
	"slices"
)

// Step names
const (
	StepExtractText   = "extract_text"
	StepAnalyzeResume = "analyze_resume"
	StepGenerateCode  = "generate_code"
	StepExtractBlocks = "extract_blocks"
)

// Step categories
const (
	CategoryIngestion  = "ingestion"
	CategoryGeneration = "generation"
	CategoryPackaging  = "packaging"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Description  string
	Dependencies []string
	// Remote steps call the language model
	Remote bool
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	StepExtractText: {
		Name:         StepExtractText,
		Category:     CategoryIngestion,
		Description:  "Extracting résumé text",
		Dependencies: []string{},
	},
	StepAnalyzeResume: {
		Name:         StepAnalyzeResume,
		Category:     CategoryGeneration,
		Description:  "Analyzing résumé",
		Dependencies: []string{StepExtractText},
		Remote:       true,
	},
	StepGenerateCode: {
		Name:         StepGenerateCode,
		Category:     CategoryGeneration,
		Description:  "Generating website code",
		Dependencies: []string{StepAnalyzeResume},
		Remote:       true,
	},
	StepExtractBlocks: {
		Name:         StepExtractBlocks,
		Category:     CategoryPackaging,
		Description:  "Extracting code blocks",
		Dependencies: []string{StepGenerateCode},
	},
}

// DefaultOrder is the order the pipeline runs its steps in
var DefaultOrder = []string{StepExtractText, StepAnalyzeResume, StepGenerateCode, StepExtractBlocks}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s has missing dependencies: %v", e.Step, e.MissingDependencies)
}

// Lookup returns the definition of a registered step
func Lookup(stepName string) (StepDefinition, error) {
	def, ok := StepRegistry[stepName]
	if !ok {
		return StepDefinition{}, fmt.Errorf("unknown step: %s", stepName)
	}
	return def, nil
}

// ValidateDependencies checks that every dependency of a step is in completed
func ValidateDependencies(stepName string, completed []string) error {
	def, err := Lookup(stepName)
	if err != nil {
		return err
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if !slices.Contains(completed, dep) {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}
	return nil
}

// ValidateOrder checks that each step appears once and only after its dependencies
func ValidateOrder(order []string) error {
	completed := make([]string, 0, len(order))
	for _, name := range order {
		if slices.Contains(completed, name) {
			return fmt.Errorf("duplicate step: %s", name)
		}
		if err := ValidateDependencies(name, completed); err != nil {
			return err
		}
		completed = append(completed, name)
	}
	return nil
}

// Position returns the 1-based position of a step in DefaultOrder, or 0
func Position(stepName string) int {
	return slices.Index(DefaultOrder, stepName) + 1
}
