package hal

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrDuplicateNamespace indicates a CURIE prefix was declared twice.
	ErrDuplicateNamespace = errors.New("duplicate namespace")

	// ErrInvalidTemplate indicates a namespace template lacks the {rel} placeholder.
	ErrInvalidTemplate = errors.New("invalid namespace template")

	// ErrDuplicateRel indicates a relation was declared twice with WithRel.
	ErrDuplicateRel = errors.New("duplicate rel declaration")

	// ErrSingletonConflict indicates a singleton relation already holds a link or resource.
	ErrSingletonConflict = errors.New("singleton relation already populated")

	// ErrInvalidRelation indicates an empty or whitespace-containing relation token.
	ErrInvalidRelation = errors.New("invalid relation")

	// ErrUndeclaredNamespace indicates a prefixed relation has no matching namespace.
	ErrUndeclaredNamespace = errors.New("undeclared namespace")

	// ErrNotNamespaced indicates a relation has no prefix separator to expand.
	ErrNotNamespaced = errors.New("relation is not namespaced")

	// ErrUnknownPrefix indicates expansion of a prefix that was never declared.
	ErrUnknownPrefix = errors.New("unknown namespace prefix")

	// ErrMalformedDocument indicates a structurally invalid wire document.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrUnsupportedContentType indicates no codec is registered for a media type.
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrContractUnsatisfied indicates a representation lacks properties required by a type.
	ErrContractUnsatisfied = errors.New("contract unsatisfied")

	// ErrInvalidConfig indicates a configuration value failed validation.
	ErrInvalidConfig = errors.New("invalid config")
)

// RelationError reports a failure tied to a single relation name.
type RelationError struct {
	Err      error  // Underlying sentinel error
	Relation string // Offending relation
}

func (e *RelationError) Error() string {
	return fmt.Sprintf("%s: %q", e.Err.Error(), e.Relation)
}

func (e *RelationError) Unwrap() error {
	return e.Err
}

// NamespaceError reports a CURIE declaration or resolution failure.
type NamespaceError struct {
	Err      error  // Underlying sentinel error
	Prefix   string // Namespace prefix involved, if known
	Relation string // Relation being resolved, if any
}

func (e *NamespaceError) Error() string {
	if e.Relation != "" && e.Prefix != "" {
		return fmt.Sprintf("%s %q (relation %s)", e.Err.Error(), e.Prefix, e.Relation)
	}
	if e.Relation != "" {
		return fmt.Sprintf("%s (relation %s)", e.Err.Error(), e.Relation)
	}
	if e.Prefix != "" {
		return fmt.Sprintf("%s %q", e.Err.Error(), e.Prefix)
	}
	return e.Err.Error()
}

func (e *NamespaceError) Unwrap() error {
	return e.Err
}

// DocumentError represents a wire-level structural violation found while reading.
type DocumentError struct {
	Err    error  // Underlying sentinel error (usually ErrMalformedDocument)
	Format string // Wire format name (json, xml, yaml, msgpack, bson)
	Field  string // Offending field or element path
	Cause  error  // Original error from the decoder, if any
}

func (e *DocumentError) Error() string {
	msg := e.Format + ": " + e.Err.Error()
	if e.Field != "" {
		msg += " at " + e.Field
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the sentinel and the cause, so errors.Is matches
// either ErrMalformedDocument or the model error that rejected the input.
func (e *DocumentError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// CodecError represents a registry lookup or codec failure for a media type.
type CodecError struct {
	Err         error  // Underlying sentinel error
	ContentType string // Requested media type
	Cause       error  // Original error, if any
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %q: %v", e.Err.Error(), e.ContentType, e.Cause)
	}
	return fmt.Sprintf("%s %q", e.Err.Error(), e.ContentType)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// newRelationError creates a RelationError for relation-level failures.
func newRelationError(sentinel error, rel string) error {
	return &RelationError{
		Err:      sentinel,
		Relation: rel,
	}
}

// newNamespaceError creates a NamespaceError for CURIE failures.
func newNamespaceError(sentinel error, prefix, rel string) error {
	return &NamespaceError{
		Err:      sentinel,
		Prefix:   prefix,
		Relation: rel,
	}
}

// Malformed creates a DocumentError wrapping ErrMalformedDocument.
// Codec packages use it to report structural violations.
func Malformed(format, field string, cause error) error {
	return &DocumentError{
		Err:    ErrMalformedDocument,
		Format: format,
		Field:  field,
		Cause:  cause,
	}
}

// newCodecError creates a CodecError for media type failures.
func newCodecError(sentinel error, contentType string, cause error) error {
	return &CodecError{
		Err:         sentinel,
		ContentType: contentType,
		Cause:       cause,
	}
}
