package photo

import "errors"

var (
	ErrNoImage = errors.New("no image selected")
	ErrBusy    = errors.New("analysis already in progress")
)
