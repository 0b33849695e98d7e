// Package prompts holds the prompt text sent to the language model.
// Prompt files are JSON objects mapping a key to its text and are embedded
// at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// NotFoundError reports a prompt file or key that does not exist.
type NotFoundError struct {
	File  string
	Key   string
	Cause error
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("failed to read prompt file %s: %v", e.File, e.Cause)
	}
	return fmt.Sprintf("prompt key %q not found in %s", e.Key, e.File)
}

func (e *NotFoundError) Unwrap() error {
	return e.Cause
}

var (
	filesMu sync.RWMutex
	files   = map[string]map[string]string{}
)

// Get returns the prompt stored under key in an embedded file such as
// "portfolio.json". Empty prompts are rejected along with missing ones.
func Get(filename, key string) (string, error) {
	entries, err := parsed(filename)
	if err != nil {
		return "", err
	}

	text, ok := entries[key]
	if !ok || text == "" {
		return "", &NotFoundError{File: filename, Key: key}
	}
	return text, nil
}

// MustGet is Get for prompts needed at initialization; it panics on error.
func MustGet(filename, key string) string {
	text, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return text
}

// parsed decodes filename once and serves later lookups from memory
func parsed(filename string) (map[string]string, error) {
	filesMu.RLock()
	entries, ok := files[filename]
	filesMu.RUnlock()
	if ok {
		return entries, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, &NotFoundError{File: filename, Cause: err}
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	filesMu.Lock()
	files[filename] = entries
	filesMu.Unlock()
	return entries, nil
}
