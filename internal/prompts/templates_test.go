package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisTemplate(t *testing.T) {
	tmpl := Analysis()
	assert.Equal(t, "analyze-resume", tmpl.Name())
	assert.Equal(t, SlotResumeText, tmpl.Slot())

	prompt := tmpl.Render("Jane Doe, Software Engineer")

	assert.Contains(t, prompt, "Resume Analyst")
	assert.Contains(t, prompt, "Full Name & Title")
	assert.Contains(t, prompt, "Suggest a UI Design Theme")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(prompt), "Jane Doe, Software Engineer"))
	assert.NotContains(t, prompt, "{{.ResumeText}}")
}

func TestAnalysisTemplate_RenderIsLiteral(t *testing.T) {
	// values that look like placeholders are inserted verbatim
	prompt := Analysis().Render("uses {{.Analysis}} and $1")
	assert.Contains(t, prompt, "uses {{.Analysis}} and $1")
}

func TestCodeGenerationPrompt(t *testing.T) {
	system, user := CodeGenerationPrompt().Messages("Name: Jane Doe\nTheme: Minimalist Dark Mode")

	assert.Contains(t, system, "Senior Frontend Developer")
	assert.Contains(t, system, "FontAwesome")
	for _, tag := range []string{"html", "css", "js"} {
		assert.Equal(t, 2, strings.Count(system, "--"+tag+"--"), "marker for %s should open and close", tag)
	}

	assert.True(t, strings.HasPrefix(user, "Build the website based on this analysis:\n"))
	assert.Contains(t, user, "Theme: Minimalist Dark Mode")
}

func TestNewTemplate_RequiresExactlyOneSlot(t *testing.T) {
	_, err := NewTemplate("none", "no slot here", "Value")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found 0")

	_, err = NewTemplate("twice", "{{.Value}} and {{.Value}}", "Value")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found 2")

	tmpl, err := NewTemplate("once", "say {{.Value}}", "Value")
	require.NoError(t, err)
	assert.Equal(t, "say hi", tmpl.Render("hi"))
}
