package webhook

import "fmt"

// AuthError reports a 401 or 403 from the flow endpoint. Both mean the
// endpoint configuration needs attention; retrying will not help.
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("webhook: endpoint rejected call with status %d", e.StatusCode)
}

// TransportError wraps connection, DNS and timeout failures.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("webhook: transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UnexpectedStatusError is any status other than 200, 202, 401 or 403.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string // truncated to bodyPreviewLimit characters
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("webhook: unexpected status %d: %s", e.StatusCode, e.Body)
}
