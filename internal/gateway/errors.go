package gateway

import (
	"errors"
	"strings"
)

// Sentinel error kinds. Transport failures from the model service are wrapped
// but not translated; the two cases below are produced locally so callers can
// branch on them with errors.Is.
var (
	// ErrNoImage indicates the model answered without an inline image part.
	ErrNoImage = errors.New("no image produced")

	// ErrMalformedOutput indicates the call succeeded but the structured
	// result did not match the expected shape.
	ErrMalformedOutput = errors.New("malformed model output")
)

// invalidCredentialSignature is the message fragment the model service emits
// when the API key no longer resolves to a usable project.
const invalidCredentialSignature = "Requested entity was not found"

// IsInvalidCredential reports whether a transport error means the access
// credential is expired or invalid and must be re-selected.
func IsInvalidCredential(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), invalidCredentialSignature)
}
