package hydrate

import "github.com/vango-dev/hydrate/internal/errors"

// Error is the structured error returned by hydration.
type Error = errors.Error

// Sentinel errors for errors.Is. Matching is by code.
var (
	ErrAlreadyHydrated     = errors.New("E001")
	ErrUnbalancedMarker    = errors.New("E010")
	ErrMultipleRoots       = errors.New("E011")
	ErrNoRoot              = errors.New("E012")
	ErrMarkerLeftOpen      = errors.New("E013")
	ErrMalformedNode       = errors.New("E014")
	ErrElementNotFound     = errors.New("E015")
	ErrNestedInLeaf        = errors.New("E016")
	ErrDigestMismatch      = errors.New("E020")
	ErrIterableShorter     = errors.New("E021")
	ErrIterableLonger      = errors.New("E022")
	ErrShapeMismatch       = errors.New("E023")
	ErrUnexpectedDigest    = errors.New("E024")
	ErrNodeOutsideInstance = errors.New("E030")
)
