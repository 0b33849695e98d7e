package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-builder/internal/ingestion/ingestiontest"
)

func TestComputeHash(t *testing.T) {
	hash1 := computeHash([]byte("test content"))
	hash2 := computeHash([]byte("different content"))

	assert.Len(t, hash1, 64)
	assert.NotEqual(t, hash1, hash2)
	assert.Equal(t, hash1, computeHash([]byte("test content")))
	// sha256 of the empty input
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", computeHash(nil))
}

func TestNewSource(t *testing.T) {
	before := time.Now().UTC().Add(-time.Second)

	src := NewSource([]byte("abc"), FormatPDF, "cv.pdf", "Jé")

	assert.Equal(t, "cv.pdf", src.FileName)
	assert.Equal(t, FormatPDF, src.Format)
	assert.Equal(t, 3, src.Bytes)
	assert.Equal(t, 2, src.Characters)
	assert.Equal(t, computeHash([]byte("abc")), src.Hash)

	ts, err := time.Parse(time.RFC3339, src.Timestamp)
	require.NoError(t, err)
	assert.False(t, ts.Before(before.Truncate(time.Second)))
}

func TestSource_ToJSON(t *testing.T) {
	src := &Source{FileName: "cv.docx", Format: FormatDOCX, Bytes: 10, Hash: "abcd1234", Characters: 4, Timestamp: "2024-01-01T00:00:00Z"}

	jsonBytes, err := src.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(jsonBytes, &decoded))
	assert.Equal(t, "docx", decoded["format"])
	assert.Equal(t, "abcd1234", decoded["hash"])
	assert.Equal(t, "2024-01-01T00:00:00Z", decoded["timestamp"])
}

func TestExtractSource(t *testing.T) {
	data := ingestiontest.DOCX(t, "Jane Doe", "Engineer")

	text, src, err := ExtractSource(data, "", "jane.docx")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe\nEngineer", text)
	assert.Equal(t, FormatDOCX, src.Format)
	assert.Equal(t, len(data), src.Bytes)
	assert.Equal(t, len("Jane Doe\nEngineer"), src.Characters)
}

func TestExtractSource_Errors(t *testing.T) {
	_, src, err := ExtractSource([]byte("x"), "text/plain", "cv.txt")
	var unsupported *UnsupportedFormatError
	assert.ErrorAs(t, err, &unsupported)
	assert.Nil(t, src)

	_, src, err = ExtractSource([]byte("not a pdf"), "pdf", "cv.pdf")
	var extraction *ExtractionError
	assert.ErrorAs(t, err, &extraction)
	assert.Nil(t, src)
}
