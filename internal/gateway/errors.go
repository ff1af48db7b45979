package gateway

import "errors"

// ErrUnauthorized signals an HTTP 401 from any authenticated endpoint. The
// contract requires the caller to clear the session and redirect to login.
var ErrUnauthorized = errors.New("session expired or invalid")

// APIError is a business failure: the server answered with success=false and
// a reason meant for the user.
type APIError struct {
	Endpoint string
	Message  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "api request failed"
	}
	return e.Message
}

// AsAPIError unwraps a business failure, nil otherwise.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
