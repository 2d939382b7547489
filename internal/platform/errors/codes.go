// Package errors provides structured error handling with i18n support.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Auth errors
	CodeAuthTokenMissing Code = "AUTH_TOKEN_MISSING"
	CodeAuthTokenExpired Code = "AUTH_TOKEN_EXPIRED"
	CodeAuthRejected     Code = "AUTH_REJECTED"

	// Transport errors
	CodeTransportFailure Code = "TRANSPORT_FAILURE"
	CodeTransportDecode  Code = "TRANSPORT_DECODE"

	// Server-rejected operation errors
	CodeServerRejected Code = "SERVER_REJECTED"
	CodeNotFound       Code = "NOT_FOUND"

	// Query errors
	CodeQueryDisabled Code = "QUERY_DISABLED"
	CodeQueryClosed   Code = "QUERY_CLOSED"

	// Mutation errors
	CodeMutationShapeMismatch Code = "MUTATION_SHAPE_MISMATCH"
	CodeMutationApplyPanic    Code = "MUTATION_APPLY_PANIC"

	// Client configuration errors
	CodeConfigBaseURLMissing Code = "CONFIG_BASE_URL_MISSING"
	CodeConfigTokenMissing   Code = "CONFIG_TOKEN_MISSING"
)

// HTTPStatus maps domain codes to the HTTP status the backend uses for them.
// Codes with no transport meaning map to 500.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeAuthTokenMissing, CodeAuthTokenExpired:
		return http.StatusUnauthorized
	case CodeAuthRejected:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeServerRejected, CodeQueryDisabled, CodeConfigBaseURLMissing, CodeConfigTokenMissing:
		return http.StatusBadRequest
	case CodeTransportFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// CodeForHTTPStatus maps an HTTP response status to the closest domain code.
func CodeForHTTPStatus(status int) Code {
	switch status {
	case http.StatusUnauthorized:
		return CodeAuthTokenExpired
	case http.StatusForbidden:
		return CodeAuthRejected
	case http.StatusNotFound:
		return CodeNotFound
	default:
		if status >= 400 {
			return CodeServerRejected
		}
		return CodeUnknown
	}
}
