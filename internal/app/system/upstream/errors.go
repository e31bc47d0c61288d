package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"
)

// Messages shown when the API gives nothing more specific.
const (
	GenericMessage = "Operation failed. Please try again."
	TimeoutMessage = "Request timed out. Please try again."
)

// APIError is an auth call failure. Detail is safe to show to the user.
type APIError struct {
	Op      string
	Status  int // 0 when no response was received
	Detail  string
	Timeout bool
	Err     error
}

func (e *APIError) Error() string { return e.Detail }

func (e *APIError) Unwrap() error { return e.Err }

// UserMessage returns the text to show for an auth failure.
func UserMessage(err error) string {
	var ae *APIError
	if errors.As(err, &ae) && ae.Detail != "" {
		return ae.Detail
	}
	return GenericMessage
}

// isTimeout reports whether err came from a deadline, on the context or in
// the transport.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// detailFrom extracts a message from an error body. It understands
// {"detail": "text"} and the list form {"detail": [{"msg": "text"}, ...]}.
// It returns GenericMessage for anything else, including invalid JSON.
func detailFrom(body []byte) string {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return GenericMessage
	}

	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
		return GenericMessage
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(env.Detail, &list); err == nil {
		for _, item := range list {
			if m := strings.TrimSpace(item.Msg); m != "" {
				return m
			}
		}
	}
	return GenericMessage
}
