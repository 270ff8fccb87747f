package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeEmptyCart        = "EMPTY_CART"
	ErrCodeInvalidStatus    = "INVALID_STATUS"
	ErrCodeOrderNotFound    = "ORDER_NOT_FOUND"
	ErrCodeDuplicateOrderID = "DUPLICATE_ORDER_ID"
	ErrCodeOrderIDExhausted = "ORDER_ID_EXHAUSTED"
	ErrCodeProductNotFound  = "PRODUCT_NOT_FOUND"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// DomainError is a business-logic error with a stable code.
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
	ErrEmptyCart        = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrInvalidStatus    = NewDomainError(ErrCodeInvalidStatus, "Status must be one of Pending, Confirmed, Shipped, Delivered, Cancelled")
	ErrOrderNotFound    = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrDuplicateOrderID = NewDomainError(ErrCodeDuplicateOrderID, "Order ID already exists")
	ErrOrderIDExhausted = NewDomainError(ErrCodeOrderIDExhausted, "Could not allocate a unique order ID")
	ErrProductNotFound  = NewDomainError(ErrCodeProductNotFound, "Product not found")
)
