package prompts

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	prompt, err := Get(portfolioFile, "analyze-resume")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Resume Analyst")
}

func TestGet_EveryPortfolioPrompt(t *testing.T) {
	for _, key := range []string{"analyze-resume", "generate-site-system", "generate-site-user"} {
		prompt, err := Get(portfolioFile, key)
		require.NoError(t, err, key)
		assert.NotEmpty(t, prompt, key)
	}
}

func TestGet_InvalidFile(t *testing.T) {
	_, err := Get("nonexistent.json", "some-key")

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Empty(t, notFound.Key)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	_, err := Get(portfolioFile, "nonexistent-key")

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nonexistent-key", notFound.Key)
	assert.Contains(t, err.Error(), "not found")
}

func TestGet_ReturnsSameTextOnRepeatedCalls(t *testing.T) {
	first, err := Get(portfolioFile, "generate-site-system")
	require.NoError(t, err)
	second, err := Get(portfolioFile, "generate-site-system")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMustGet_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}
