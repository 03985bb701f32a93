package util

import "errors"

var (
	ErrEmailRegistered = errors.New("email is already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmptyQuestion   = errors.New("query and board are required")
	ErrUnknownBoard    = errors.New("unknown curriculum board")
)
