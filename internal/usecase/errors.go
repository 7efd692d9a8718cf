package usecase

import "errors"

const (
	CodeInvalidJSON       = "INVALID_JSON"
	CodeInvalidEmail      = "INVALID_EMAIL"
	CodeSuspicious        = "SUSPICIOUS_SUBMISSION"
	CodeDuplicateLead     = "DUPLICATE_LEAD"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeNoBillingCustomer = "NO_BILLING_CUSTOMER"
	CodeMisconfigured     = "MISCONFIGURED"
	CodeDatabaseError     = "DATABASE_ERROR"
	CodeBillingError      = "BILLING_ERROR"
	CodeInvalidEvent      = "INVALID_EVENT"
)

// DomainError is an expected rejection. Message is safe to show to the caller.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is an infrastructure failure. Only Code leaves the process.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ErrorCode extracts the code of a DomainError or TechnicalError, or "" for anything else.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}
