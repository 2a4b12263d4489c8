package model

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeMissingProductID = "MISSING_PRODUCT_ID"
	ErrCodeNegativePrice    = "NEGATIVE_PRICE"
	ErrCodeCouponRejected   = "COUPON_REJECTED"
	ErrCodeInvalidOutcome   = "INVALID_OUTCOME"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// DomainError carries a stable code alongside a user-facing message.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrMissingProductID = NewDomainError(ErrCodeMissingProductID, "Product ID is required")
	ErrNegativePrice    = NewDomainError(ErrCodeNegativePrice, "Product price cannot be negative")
	ErrInvalidOutcome   = NewDomainError(ErrCodeInvalidOutcome, "Payment outcome is required")
)
