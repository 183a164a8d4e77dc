package uritemplate

//go:generate go tool errtrace -w .

import (
	"fmt"

	"github.com/ivan-gammel/uritemplate/internal/errorutil"
)

const (
	// ErrMalformedTemplate is returned by parsing when the template syntax is
	// invalid. The wrapped message carries the byte offset of the offending
	// character.
	ErrMalformedTemplate = errorutil.Error("malformed template")

	// ErrUnsupportedValue is returned by expansion and by builder appends when
	// a substitution value is not one of the supported shapes.
	ErrUnsupportedValue = errorutil.Error("unsupported value shape")

	// ErrNotExpanded is returned by URI finalization while unresolved template
	// variables remain.
	ErrNotExpanded = errorutil.Error("template not expanded")

	// ErrInvalidURI is returned when a fully expanded string does not parse as
	// a valid URI.
	ErrInvalidURI = errorutil.Error("invalid URI")

	// ErrOpaqueViolation is reported when a hierarchical operation is invoked
	// on an opaque builder, or an opaque operation on a hierarchical one.
	ErrOpaqueViolation = errorutil.Error("opaque URI violation")

	// ErrFragmentConfigured is reported on an attempt to re-set an already
	// configured prefix or delimiter of a component fragment handle.
	ErrFragmentConfigured = errorutil.Error("fragment already configured")
)

func newMalformedTemplateErr(pos int, format string, args ...any) error {
	return errorutil.NewWrapperError(ErrMalformedTemplate,
		"position %d: %s", pos, fmt.Sprintf(format, args...)) //errtrace:skip
}

func newUnsupportedValueErr(args ...any) error {
	return errorutil.NewWrapperError(ErrUnsupportedValue, args...) //errtrace:skip
}
