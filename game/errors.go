package game

import "errors"

var (
	ErrBadPayload        = errors.New("bad event payload")
	ErrUnknownConnection = errors.New("unknown connection")
)
