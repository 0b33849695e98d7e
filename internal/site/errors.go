package site

import "fmt"

// PackageError represents a failure to write the site files to a zip or directory
type PackageError struct {
	Message string
	Cause   error
}

func (e *PackageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("package error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("package error: %s", e.Message)
}

func (e *PackageError) Unwrap() error {
	return e.Cause
}

// InspectError represents a failure to parse generated HTML
type InspectError struct {
	Message string
	Cause   error
}

func (e *InspectError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("inspect error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("inspect error: %s", e.Message)
}

func (e *InspectError) Unwrap() error {
	return e.Cause
}
