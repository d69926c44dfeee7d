package mallclient

import "errors"

var (
	// ErrAlreadyBuilt is returned when a [Builder] is reused after Build.
	ErrAlreadyBuilt = errors.New("builder already built")
	// ErrMonitorRunning is returned when StartMonitor is called twice.
	ErrMonitorRunning = errors.New("expiry monitor already running")
)

// User-facing fallback messages produced by response classification. Server
// detail text replaces them where the contract allows it; for 500s the server
// detail is deliberately not trusted.
const (
	MsgBadRequest         = "bad request parameters"
	MsgInvalidCredentials = "invalid username or password"
	MsgSessionExpired     = "login expired, please sign in again"
	MsgNoPermission       = "permission denied"
	MsgMalformedData      = "malformed request data"
	MsgServerError        = "internal server error"
	MsgRequestFailed      = "request failed, please retry later"
)

// APIError is the only error shape API calls surface for a failed request.
// Status is the HTTP status, or 0 when no response arrived at all. Message is
// human-readable and safe to display; raw transport detail never leaks here.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}
