package models

import "errors"

var (
	ErrNoFiles        = errors.New("no files found")
	ErrRootUnreadable = errors.New("root directory is unreadable")
)
