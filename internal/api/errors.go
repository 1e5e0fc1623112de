package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
)

// RequestError reports a failed call: a non-2xx status or a transport
// failure (Status zero). Message is what the user sees.
type RequestError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// AsRequestError unwraps err into a *RequestError when possible.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is a 401 or 403 from the backend.
func IsUnauthorized(err error) bool {
	reqErr, ok := AsRequestError(err)
	return ok && (reqErr.Status == 401 || reqErr.Status == 403)
}

func newRequestError(method, path string, status int, body []byte) *RequestError {
	msg := serverMessage(body)
	if msg == "" {
		msg = fmt.Sprintf("api %s returned status %d", path, status)
	}
	return &RequestError{
		Method:  method,
		Path:    path,
		Status:  status,
		Message: msg,
	}
}

func serverMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, raw := range []json.RawMessage{payload.Message, payload.Error} {
		if text := rawText(raw); text != "" {
			return text
		}
	}
	return ""
}

// rawText accepts a string or a list of strings (validation pipes often
// answer with an array).
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.TrimSpace(strings.Join(list, "; "))
	}
	return ""
}
