package llm

import "fmt"

// AuthenticationError indicates that no usable credential was supplied
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication error: %s", e.Message)
}

// InvocationError wraps any transport or provider-side failure of a model call.
// The call is never retried.
type InvocationError struct {
	Model   string
	Message string
	Cause   error
}

func (e *InvocationError) Error() string {
	prefix := "invocation error"
	if e.Model != "" {
		prefix = fmt.Sprintf("invocation error (%s)", e.Model)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *InvocationError) Unwrap() error {
	return e.Cause
}
