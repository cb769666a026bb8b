// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"errors"
	"fmt"
)

// Kind classifies a content error.
type Kind string

const (
	KindMissingFields       Kind = "MissingFields"
	KindMissingPostID       Kind = "MissingPostId"
	KindInvalidSlug         Kind = "InvalidSlug"
	KindInvalidCategoryName Kind = "InvalidCategoryName"
	KindMissingCategory     Kind = "MissingCategory"
	KindMissingReference    Kind = "MissingReference"
	KindInvalidStatus       Kind = "InvalidStatus"
	KindNotFound            Kind = "NotFound"
	KindInUse               Kind = "InUse"
	KindWriteFailed         Kind = "WriteFailed"
)

// Error is returned by every Service operation that fails. Message is safe
// to show to the admin; Err holds the underlying store error, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsValidation reports whether the error was raised before any write.
func (e *Error) IsValidation() bool {
	switch e.Kind {
	case KindNotFound, KindInUse, KindWriteFailed:
		return false
	}
	return true
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// writeFailed passes content errors through and wraps anything else.
func writeFailed(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsError(err); ok {
		return err
	}
	return &Error{Kind: KindWriteFailed, Message: "Could not save changes.", Err: err}
}
