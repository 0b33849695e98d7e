package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"
)

// Source describes an ingested résumé document
type Source struct {
	FileName   string `json:"file_name,omitempty"`
	Format     Format `json:"format"`
	Bytes      int    `json:"bytes"`
	Hash       string `json:"hash"`       // SHA256 hex digest of the upload
	Characters int    `json:"characters"` // runes of extracted text
	Timestamp  string `json:"timestamp"`  // RFC3339 format
}

// NewSource records an upload and the text extracted from it
func NewSource(data []byte, format Format, fileName, text string) *Source {
	return &Source{
		FileName:   fileName,
		Format:     format,
		Bytes:      len(data),
		Hash:       computeHash(data),
		Characters: utf8.RuneCountInString(text),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Source to pretty-printed JSON
func (s *Source) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal source to JSON: %w", err)
	}
	return jsonBytes, nil
}

// ExtractSource is Extract that also describes the document it read
func ExtractSource(data []byte, formatHint, fileName string) (string, *Source, error) {
	format, err := DetectFormat(formatHint, fileName, data)
	if err != nil {
		return "", nil, err
	}
	text, err := ExtractFormat(data, format)
	if err != nil {
		return "", nil, err
	}
	return text, NewSource(data, format, fileName, text), nil
}
