// Package alert carries user-facing failure notices from the view-models to
// whatever is presenting them. An Alert is an error, so callers that only
// care about failure can treat it as one.
package alert

import (
	"errors"
	"fmt"
)

// Alert is a blocking notice with a short title and a body line.
type Alert struct {
	Title   string
	Message string
	Err     error
}

func New(title, message string, err error) *Alert {
	return &Alert{Title: title, Message: message, Err: err}
}

func (a *Alert) Error() string {
	if a.Err != nil {
		return fmt.Sprintf("%s: %s: %v", a.Title, a.Message, a.Err)
	}
	return fmt.Sprintf("%s: %s", a.Title, a.Message)
}

func (a *Alert) Unwrap() error {
	return a.Err
}

// From extracts an Alert from err's chain.
func From(err error) (*Alert, bool) {
	var a *Alert
	if errors.As(err, &a) {
		return a, true
	}
	return nil, false
}
