package i18n

// Error codes must match internal/platform/errors/codes.go. They are
// duplicated as strings to avoid an import cycle.
const (
	CodeUnknown               = "UNKNOWN"
	CodeAuthTokenMissing      = "AUTH_TOKEN_MISSING"
	CodeAuthTokenExpired      = "AUTH_TOKEN_EXPIRED"
	CodeAuthRejected          = "AUTH_REJECTED"
	CodeTransportFailure      = "TRANSPORT_FAILURE"
	CodeTransportDecode       = "TRANSPORT_DECODE"
	CodeServerRejected        = "SERVER_REJECTED"
	CodeNotFound              = "NOT_FOUND"
	CodeQueryDisabled         = "QUERY_DISABLED"
	CodeQueryClosed           = "QUERY_CLOSED"
	CodeMutationShapeMismatch = "MUTATION_SHAPE_MISMATCH"
	CodeMutationApplyPanic    = "MUTATION_APPLY_PANIC"
	CodeConfigBaseURLMissing  = "CONFIG_BASE_URL_MISSING"
	CodeConfigTokenMissing    = "CONFIG_TOKEN_MISSING"
)

// enUS is the base message catalog.
var enUS = map[Code]string{
	CodeUnknown:               "something went wrong",
	CodeAuthTokenMissing:      "you are not signed in",
	CodeAuthTokenExpired:      "your session has expired, please sign in again",
	CodeAuthRejected:          "you do not have permission to do that",
	CodeTransportFailure:      "could not reach the server",
	CodeTransportDecode:       "the server sent an unreadable response",
	CodeServerRejected:        "{{if .Detail}}{{.Detail}}{{else}}the server rejected the request{{end}}",
	CodeNotFound:              "not found",
	CodeQueryDisabled:         "this view is not ready to load yet",
	CodeQueryClosed:           "this view is no longer active",
	CodeMutationShapeMismatch: "local update skipped: cached data had an unexpected shape",
	CodeMutationApplyPanic:    "local update skipped",
	CodeConfigBaseURLMissing:  "server address is not configured",
	CodeConfigTokenMissing:    "credential is not configured",
}
