// Package apperr defines the failure kinds returned by the entity stores.
// Absence of an entity is not one of them: lookups report it with a bool.
package apperr

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindForbidden
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind   Kind
	Entity string
	Field  string
	Msg    string
}

var (
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrForbidden  = &Error{Kind: KindForbidden}
	ErrValidation = &Error{Kind: KindValidation}
)

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s %s", e.Entity, e.Kind)
	}
	return e.Kind.String()
}

// Is matches the bare sentinels by kind, so errors.Is(err, ErrConflict)
// holds for every conflict regardless of entity or field.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Entity == "" && t.Field == "" && t.Msg == "" {
		return t.Kind == e.Kind
	}
	return *t == *e
}

func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Msg: entity + " not found"}
}

func Conflict(entity, field string) *Error {
	return &Error{Kind: KindConflict, Entity: entity, Field: field, Msg: field + " already exists"}
}

func Forbidden(entity, msg string) *Error {
	return &Error{Kind: KindForbidden, Entity: entity, Msg: msg}
}

func Validation(entity, field, msg string) *Error {
	return &Error{Kind: KindValidation, Entity: entity, Field: field, Msg: msg}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// FieldOf returns the offending field of a conflict or validation error.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
