package prompts

import (
	"fmt"
	"strings"
	"sync"
)

const portfolioFile = "portfolio.json"

// Slot names used by the portfolio templates
const (
	SlotResumeText = "ResumeText"
	SlotAnalysis   = "Analysis"
)

func placeholder(slot string) string {
	return "{{." + slot + "}}"
}

// Template is an immutable prompt with exactly one named substitution slot.
type Template struct {
	name string
	text string
	slot string
}

// NewTemplate builds a Template, rejecting text that does not contain the
// slot placeholder exactly once.
func NewTemplate(name, text, slot string) (Template, error) {
	if n := strings.Count(text, placeholder(slot)); n != 1 {
		return Template{}, fmt.Errorf("template %q must contain {{.%s}} exactly once, found %d", name, slot, n)
	}
	return Template{name: name, text: text, slot: slot}, nil
}

// Name returns the prompt key the template was loaded from
func (t Template) Name() string { return t.name }

// Slot returns the name of the substitution slot
func (t Template) Slot() string { return t.slot }

// Render substitutes value into the slot.
func (t Template) Render(value string) string {
	return strings.Replace(t.text, placeholder(t.slot), value, 1)
}

// CodeGeneration is the two-message prompt for the code generation step:
// a fixed system instruction and a user message carrying the analysis.
type CodeGeneration struct {
	System string
	User   Template
}

// Messages returns the system and user messages for the given analysis text.
func (c CodeGeneration) Messages(analysis string) (system, user string) {
	return c.System, c.User.Render(analysis)
}

var (
	analysisOnce = sync.OnceValue(func() Template {
		return mustTemplate("analyze-resume", SlotResumeText)
	})
	codeGenerationOnce = sync.OnceValue(func() CodeGeneration {
		return CodeGeneration{
			System: MustGet(portfolioFile, "generate-site-system"),
			User:   mustTemplate("generate-site-user", SlotAnalysis),
		}
	})
)

// Analysis returns the résumé analysis template. Its slot takes the résumé text.
func Analysis() Template {
	return analysisOnce()
}

// CodeGenerationPrompt returns the system and user prompts for website generation.
func CodeGenerationPrompt() CodeGeneration {
	return codeGenerationOnce()
}

func mustTemplate(key, slot string) Template {
	tmpl, err := NewTemplate(key, MustGet(portfolioFile, key), slot)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return tmpl
}
