// Package model defines the domain models.
package model

import "fmt"

// APIError is the unified error format returned to clients.
// Category drives client-side grouping; Action is a hint for the user.
type APIError struct {
	Code     string
	Message  string
	Category string // auth, validation, content, billing, system
	Action   string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Known error codes.
const (
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodePaymentRequired   = "PAYMENT_REQUIRED"
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeEmailTaken        = "EMAIL_TAKEN"
	ErrCodeInvalidLogin      = "INVALID_CREDENTIALS"
	ErrCodeTrialUsed         = "TRIAL_ALREADY_USED"
	ErrCodeInvalidPlan       = "INVALID_PLAN"
	ErrCodeDuplicateFeed     = "DUPLICATE_FEED"
	ErrCodeInvalidURL        = "INVALID_URL"
	ErrCodeDuplicateSlug     = "DUPLICATE_SLUG"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
)

// NewUnauthorizedError reports a missing or invalid credential.
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Authentication required.",
		Category: "auth",
		Action:   "Log in and retry with a valid token.",
	}
}

// NewForbiddenError reports insufficient role for the operation.
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "You are not allowed to perform this action.",
		Category: "auth",
		Action:   "Contact an administrator if you need access.",
	}
}

// NewPaymentRequiredError reports that the effective subscription status does
// not grant access to a premium feature.
func NewPaymentRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodePaymentRequired,
		Message:  "This feature requires an active trial or premium subscription.",
		Category: "billing",
		Action:   "Start a trial or subscribe to continue.",
	}
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("%s not found: %s", entity, id),
		Category: "content",
		Action:   "Check the identifier and retry.",
	}
}

// NewEmailTakenError reports a registration attempt with a known email.
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "This email address is already registered.",
		Category: "validation",
		Action:   "Log in instead, or use a different email address.",
	}
}

// NewInvalidLoginError reports a failed authentication attempt.
func NewInvalidLoginError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidLogin,
		Message:  "Invalid email or password.",
		Category: "auth",
		Action:   "Check your credentials and retry.",
	}
}

// NewTrialUsedError reports a trial start from a non-free status.
func NewTrialUsedError() *APIError {
	return &APIError{
		Code:     ErrCodeTrialUsed,
		Message:  "Trial already used or an active subscription exists.",
		Category: "billing",
		Action:   "Manage your subscription from the account page.",
	}
}

// NewInvalidPlanError reports an unknown billing plan identifier.
func NewInvalidPlanError(plan string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPlan,
		Message:  fmt.Sprintf("Invalid plan: %s", plan),
		Category: "validation",
		Action:   "Choose either the monthly or the yearly plan.",
	}
}

// NewDuplicateFeedError reports a feed URL that is already registered.
func NewDuplicateFeedError(url string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateFeed,
		Message:  fmt.Sprintf("A feed with this URL is already registered: %s", url),
		Category: "validation",
		Action:   "Edit the existing feed instead of adding a duplicate.",
	}
}

// NewInvalidURLError reports a malformed or disallowed URL.
func NewInvalidURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidURL,
		Message:  fmt.Sprintf("Invalid URL: %s", reason),
		Category: "validation",
		Action:   "Provide an absolute http:// or https:// URL.",
	}
}

// NewDuplicateSlugError reports a guide slug collision.
func NewDuplicateSlugError(slug string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateSlug,
		Message:  fmt.Sprintf("A guide with this slug already exists: %s", slug),
		Category: "validation",
		Action:   "Pick a different slug.",
	}
}

// NewInvalidRequestError reports a request body that failed decoding or
// validation.
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("Invalid request: %s", reason),
		Category: "validation",
		Action:   "Fix the request body and retry.",
	}
}
