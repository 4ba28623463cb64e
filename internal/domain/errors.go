package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to the presentation layer. Branch with errors.Is.
var (
	ErrAuthenticationFailed       = errors.New("authentication failed")
	ErrSecondFactorFailed         = errors.New("second factor rejected")
	ErrInvalidStateTransition     = errors.New("invalid state transition")
	ErrOperationInProgress        = errors.New("operation already in progress")
	ErrNotAuthenticated           = errors.New("not authenticated")
	ErrUnauthorized               = errors.New("unauthorized")
	ErrTradeSubmissionUnreachable = errors.New("trading backend unreachable")
)

// InvalidRiskSettingError reports a risk-settings edit outside its bound.
type InvalidRiskSettingError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *InvalidRiskSettingError) Error() string {
	return fmt.Sprintf("invalid risk setting %s=%v (allowed %v..%v)", e.Field, e.Value, e.Min, e.Max)
}

// InvalidTradeRequestError reports a trade request that failed the local shape
// guard. Always raised before any network call.
type InvalidTradeRequestError struct {
	Reason string
}

func (e *InvalidTradeRequestError) Error() string {
	return "invalid trade request: " + e.Reason
}

// BackendRejectedError carries the backend's rejection detail verbatim. The
// request was well-formed from the client's perspective, so the detail is not
// wrapped or reworded.
type BackendRejectedError struct {
	Detail string
}

func (e *BackendRejectedError) Error() string {
	return e.Detail
}
