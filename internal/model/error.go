package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeInvalidCartItem    = "INVALID_CART_ITEM"
	ErrCodeCartTooLarge       = "CART_TOO_LARGE"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeDiscountNotFound   = "DISCOUNT_NOT_FOUND"
	ErrCodeDiscountInactive   = "DISCOUNT_INACTIVE"
	ErrCodeDiscountExpired    = "DISCOUNT_EXPIRED"
	ErrCodeDiscountExhausted  = "DISCOUNT_EXHAUSTED"
	ErrCodeDiscountCodeExists = "DISCOUNT_CODE_EXISTS"
	ErrCodeBumpNotEligible    = "BUMP_NOT_ELIGIBLE"
	ErrCodeBumpNotFound       = "BUMP_NOT_FOUND"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeInvalidTransition  = "INVALID_STATUS_TRANSITION"
	ErrCodeEmptyCart          = "EMPTY_CART"
	ErrCodeInvalidSignature   = "INVALID_SIGNATURE"
	ErrCodeDuplicateReference = "DUPLICATE_REFERENCE"
	ErrCodePaymentFailed      = "PAYMENT_FAILED"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Domain errors for business logic
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
	ErrInvalidCartItem    = NewDomainError(ErrCodeInvalidCartItem, "Cart item failed schema validation")
	ErrCartTooLarge       = NewDomainError(ErrCodeCartTooLarge, "Cart exceeds the maximum number of line items")
	ErrInvalidQuantity    = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrDiscountNotFound   = NewDomainError(ErrCodeDiscountNotFound, "Discount code does not exist")
	ErrDiscountInactive   = NewDomainError(ErrCodeDiscountInactive, "Discount code is not active")
	ErrDiscountExpired    = NewDomainError(ErrCodeDiscountExpired, "Discount code has expired")
	ErrDiscountExhausted  = NewDomainError(ErrCodeDiscountExhausted, "Discount code has reached its usage limit")
	ErrDiscountCodeExists = NewDomainError(ErrCodeDiscountCodeExists, "A discount with this code already exists")
	ErrBumpNotEligible    = NewDomainError(ErrCodeBumpNotEligible, "Cart total does not qualify for this offer")
	ErrBumpNotFound       = NewDomainError(ErrCodeBumpNotFound, "Order bump does not exist")
	ErrOrderNotFound      = NewDomainError(ErrCodeOrderNotFound, "Order does not exist")
	ErrInvalidTransition  = NewDomainError(ErrCodeInvalidTransition, "Order cannot move to the requested status")
	ErrEmptyCart          = NewDomainError(ErrCodeEmptyCart, "Cart has no items")
	ErrInvalidSignature   = NewDomainError(ErrCodeInvalidSignature, "Webhook signature verification failed")
	ErrDuplicateReference = NewDomainError(ErrCodeDuplicateReference, "An order with this payment reference already exists")
)
