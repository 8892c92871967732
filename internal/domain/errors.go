package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the four pipeline failure classes. Each structured
// error type below wraps its sentinel so callers can classify failures with
// errors.Is without depending on concrete types.
var (
	// ErrInput indicates malformed prompt text. Fatal, never retried.
	ErrInput = errors.New("invalid prompt input")

	// ErrConfig indicates that online evaluation was requested without a
	// usable provider configuration. Fatal, fails before any network call.
	ErrConfig = errors.New("invalid configuration")

	// ErrNetwork indicates a transport failure or timeout reaching the
	// provider. Recovered by degrading to heuristic-only scoring.
	ErrNetwork = errors.New("provider unreachable")

	// ErrSchema indicates that the provider response failed structural
	// validation after exhausting retries. Recovered by degrading to
	// heuristic-only scoring.
	ErrSchema = errors.New("provider response failed validation")
)

// InputError reports unusable prompt text, such as invalid UTF-8.
type InputError struct {
	// Reason describes what made the input unusable.
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input error: %s", e.Reason)
}

// Unwrap ties the error to ErrInput for errors.Is classification.
func (e *InputError) Unwrap() error { return ErrInput }

// NewInputError creates an InputError with the given reason.
func NewInputError(reason string) *InputError {
	return &InputError{Reason: reason}
}

// ConfigError reports an unusable engine configuration, most commonly a
// missing provider credential when online evaluation was requested.
type ConfigError struct {
	// Field names the configuration field at fault.
	Field string

	// Reason describes why the value is unusable.
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Reason)
}

// Unwrap ties the error to ErrConfig for errors.Is classification.
func (e *ConfigError) Unwrap() error { return ErrConfig }

// NewConfigError creates a ConfigError for the given field.
func NewConfigError(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}

// NetworkError reports a transport failure or timeout from the provider.
// Usage is populated when the transport reported token consumption before
// failing, so partial spend is never lost.
type NetworkError struct {
	// Provider names the provider that was being reached.
	Provider string

	// Usage holds any token consumption reported before the failure.
	Usage Usage

	// Err is the underlying transport error.
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: provider %s: %v", e.Provider, e.Err)
}

// Unwrap returns ErrNetwork and the underlying cause in a multi-error so
// both errors.Is(err, ErrNetwork) and cause inspection work.
func (e *NetworkError) Unwrap() []error { return []error{ErrNetwork, e.Err} }

// NewNetworkError creates a NetworkError wrapping err.
func NewNetworkError(provider string, usage Usage, err error) *NetworkError {
	return &NetworkError{Provider: provider, Usage: usage, Err: err}
}

// SchemaError reports that every attempt to obtain a structurally valid
// response failed. Attempts records how many calls were made; Usage bills
// the tokens spent across all of them.
type SchemaError struct {
	// Attempts is the number of provider calls made before giving up.
	Attempts int

	// Usage holds the token consumption across all attempts.
	Usage Usage

	// Err is the validation error from the final attempt.
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: invalid response after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns ErrSchema and the underlying cause in a multi-error so
// both errors.Is(err, ErrSchema) and cause inspection work.
func (e *SchemaError) Unwrap() []error { return []error{ErrSchema, e.Err} }

// NewSchemaError creates a SchemaError wrapping err.
func NewSchemaError(attempts int, usage Usage, err error) *SchemaError {
	return &SchemaError{Attempts: attempts, Usage: usage, Err: err}
}
