package common

import "errors"

// Kind classifies an error for the transport layer. The set is closed: every
// error a service returns either carries one of these kinds or is treated as
// KindUnknown.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindInvalidToken
	KindUnauthenticated
	KindForbidden
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvalidToken:
		return "invalid_token"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

type kinded interface {
	error
	Kind() Kind
}

// Error is a classified error with a message that is safe to show to clients.
type Error struct {
	kind    Kind
	Message string
}

func NewError(kind Kind, message string) *Error {
	return &Error{kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Kind() Kind {
	return e.kind
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	kind, _ := Classify(err)
	return kind
}

// Classify returns the kind of the first classified error in err's chain and
// that error's own message, leaving out any context wrapped around it.
func Classify(err error) (Kind, string) {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind(), k.Error()
	}
	return KindUnknown, ""
}
