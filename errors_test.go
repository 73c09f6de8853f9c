package hal

import (
	"errors"
	"testing"
)

func TestRelationError(t *testing.T) {
	err := newRelationError(ErrSingletonConflict, "author")
	if !errors.Is(err, ErrSingletonConflict) {
		t.Error("RelationError should unwrap to ErrSingletonConflict")
	}
	if errors.Is(err, ErrDuplicateRel) {
		t.Error("RelationError should not match ErrDuplicateRel")
	}
	if got := err.Error(); got != `singleton relation already populated: "author"` {
		t.Errorf("Error() = %q", got)
	}
}

func TestNamespaceError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "prefix and relation",
			err:  newNamespaceError(ErrUndeclaredNamespace, "td", "td:thing"),
			want: `undeclared namespace "td" (relation td:thing)`,
		},
		{
			name: "relation only",
			err:  newNamespaceError(ErrNotNamespaced, "", "plain"),
			want: `relation is not namespaced (relation plain)`,
		},
		{
			name: "prefix only",
			err:  newNamespaceError(ErrDuplicateNamespace, "ns", ""),
			want: `duplicate namespace "ns"`,
		},
		{
			name: "bare",
			err:  &NamespaceError{Err: ErrInvalidTemplate},
			want: `invalid namespace template`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDocumentError(t *testing.T) {
	cause := newRelationError(ErrInvalidRelation, "")
	err := Malformed("json", "_links.next", cause)

	if !errors.Is(err, ErrMalformedDocument) {
		t.Error("DocumentError should match ErrMalformedDocument")
	}
	if !errors.Is(err, ErrInvalidRelation) {
		t.Error("DocumentError should match its cause")
	}
	want := `json: malformed document at _links.next: invalid relation: ""`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got := Malformed("xml", "", nil).Error(); got != "xml: malformed document" {
		t.Errorf("Error() = %q", got)
	}
}

func TestCodecError(t *testing.T) {
	err := newCodecError(ErrUnsupportedContentType, "text/csv", nil)
	if !errors.Is(err, ErrUnsupportedContentType) {
		t.Error("CodecError should unwrap to ErrUnsupportedContentType")
	}
	if got := err.Error(); got != `unsupported content type "text/csv"` {
		t.Errorf("Error() = %q", got)
	}
	var codecErr *CodecError
	if !errors.As(err, &codecErr) || codecErr.ContentType != "text/csv" {
		t.Error("errors.As should expose the content type")
	}
}
