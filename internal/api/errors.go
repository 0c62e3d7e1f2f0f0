package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Error is a non-2xx upstream response. Message carries the server's own
// message when it sent one; callers fall back to a generic text otherwise.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("upstream %d", e.Status)
}

// UserMessage is what a view may show the user.
func (e *Error) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return "Đã có lỗi xảy ra, vui lòng thử lại"
}

func errorFromResponse(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Error != "" {
			apiErr.Message = body.Error
		} else {
			apiErr.Message = body.Message
		}
	}
	return apiErr
}

// AsError unwraps err into *Error when the failure came from the upstream.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
