package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrDuplicateAccountCode = &AppError{http.StatusConflict, "DUPLICATE_ACCOUNT_CODE", "Account code already exists"}
	ErrAccountInUse         = &AppError{http.StatusConflict, "ACCOUNT_HAS_TRANSACTIONS", "Account has line items and cannot be deleted"}
	ErrInvalidAccountType   = &AppError{http.StatusBadRequest, "INVALID_ACCOUNT_TYPE", "Account type must be asset, liability, equity, revenue, or expense"}
	ErrAccountInactive      = &AppError{http.StatusUnprocessableEntity, "ACCOUNT_INACTIVE", "Account is inactive and cannot be posted to"}
	ErrUnbalancedEntry      = &AppError{http.StatusUnprocessableEntity, "UNBALANCED_ENTRY", "Entry debits and credits do not balance"}
	ErrNoLineItems          = &AppError{http.StatusBadRequest, "NO_LINE_ITEMS", "Entry must have at least one line item"}
	ErrNegativeAmount       = &AppError{http.StatusBadRequest, "NEGATIVE_AMOUNT", "Debit and credit amounts must not be negative"}
	ErrInvalidInvoiceKind   = &AppError{http.StatusBadRequest, "INVALID_INVOICE_KIND", "Invoice kind must be receivable or payable"}
	ErrDuplicateInvoice     = &AppError{http.StatusConflict, "DUPLICATE_INVOICE", "Invoice number already exists"}
	ErrInvoiceNotOpen       = &AppError{http.StatusUnprocessableEntity, "INVOICE_NOT_OPEN", "Invoice is not open"}
	ErrOverpayment          = &AppError{http.StatusUnprocessableEntity, "OVERPAYMENT", "Payment exceeds outstanding balance"}
	ErrInvalidAmount        = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be greater than zero"}
)
