package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cinefilia/internal/domain"
)

// Error is a non-2xx answer from the API. errors.Is matches it against the
// domain sentinels by status code.
type Error struct {
	Status int
	Title  string
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("cinefilia: %d %s: %s", e.Status, e.Title, e.Detail)
	}
	return fmt.Sprintf("cinefilia: %d %s", e.Status, e.Title)
}

func (e *Error) Is(target error) bool {
	switch target {
	case domain.ErrInvalid:
		return e.Status == http.StatusBadRequest
	case domain.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case domain.ErrForbidden:
		return e.Status == http.StatusForbidden
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrConflict:
		return e.Status == http.StatusConflict
	}
	return false
}

func decodeError(resp *http.Response) error {
	e := &Error{Status: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var p struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(b, &p) == nil {
		if p.Title != "" {
			e.Title = p.Title
		}
		e.Detail = p.Detail
	} else {
		e.Detail = strings.TrimSpace(string(b))
	}
	return e
}

// IsStatus reports whether err is an API error with the given status.
func IsStatus(err error, status int) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == status
}
