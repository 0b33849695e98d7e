// Package ingestion converts uploaded résumé documents into plain text.
package ingestion

import "fmt"

// UnsupportedFormatError is returned when a format hint names neither PDF nor DOCX
type UnsupportedFormatError struct {
	Hint string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Hint == "" {
		return "unsupported format: no format hint given"
	}
	return fmt.Sprintf("unsupported format: %s", e.Hint)
}

// ExtractionError represents a corrupt or unreadable document
type ExtractionError struct {
	Format  Format
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error (%s): %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error (%s): %s", e.Format, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
