package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeEmptyCart          = "EMPTY_CART"
	ErrCodeMissingEmail       = "MISSING_EMAIL"
	ErrCodeMissingVariant     = "MISSING_VARIANT"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeProductUnavailable = "PRODUCT_UNAVAILABLE"
	ErrCodePaymentConfig      = "PAYMENT_CONFIG_INCOMPLETE"
	ErrCodePreferenceFailed   = "PREFERENCE_FAILED"
	ErrCodeInvalidSignature   = "INVALID_SIGNATURE"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// DomainError carries a stable error code alongside the client-facing message.
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

// Common domain errors. Client-facing messages are in the storefront's
// language (pt-BR); the webhook signature error stays in English since its
// consumer is MercadoPago's delivery infrastructure.
var (
	ErrEmptyCart        = NewDomainError(ErrCodeEmptyCart, "O carrinho está vazio")
	ErrMissingEmail     = NewDomainError(ErrCodeMissingEmail, "E-mail do cliente é obrigatório")
	ErrMissingVariant   = NewDomainError(ErrCodeMissingVariant, "Item do carrinho sem variante")
	ErrInvalidQuantity  = NewDomainError(ErrCodeInvalidQuantity, "Quantidade inválida")
	ErrPaymentConfig    = NewDomainError(ErrCodePaymentConfig, "Configuração de pagamento incompleta")
	ErrInvalidSignature = NewDomainError(ErrCodeInvalidSignature, "Invalid signature")
)

// ErrProductNotFound builds the integrity-violation error for a cart item
// whose variant is missing from the authoritative catalog lookup.
func ErrProductNotFound(title string) *DomainError {
	return NewDomainError(
		ErrCodeProductNotFound,
		fmt.Sprintf("Produto %q não encontrado. Atualize seu carrinho e tente novamente.", title),
	)
}

// ErrProductUnavailable builds the error for a variant the catalog reports
// as not available for sale.
func ErrProductUnavailable(title string) *DomainError {
	return NewDomainError(
		ErrCodeProductUnavailable,
		fmt.Sprintf("Produto %q indisponível no momento", title),
	)
}
