package record

import (
	"errors"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrInvalidData      = errors.New("invalid record data")
	ErrRemoteIDConflict = errors.New("record already linked to another remote entity")
)
