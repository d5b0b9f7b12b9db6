package models

import (
	"errors"
	"fmt"
)

// ErrNoData means the inputs were valid but produced no statement
var ErrNoData = errors.New("no valid data found in the uploaded files")

// InputError reports uploads with the wrong shape, e.g. missing files
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Reason
}

// MalformedInputError reports a file lacking a mandatory column
type MalformedInputError struct {
	File   string
	Column string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("%s: required column %q not found", e.File, e.Column)
}

// IsInputError reports whether err is caused by the caller's uploads
func IsInputError(err error) bool {
	var ie *InputError
	var me *MalformedInputError
	return errors.As(err, &ie) || errors.As(err, &me)
}
