package form

import (
	"encoding/json"
	"fmt"
)

// ProblemKind distinguishes a field's validation failure from an
// error the server reported.
type ProblemKind int

const (
	InvalidField ProblemKind = iota
	ServerError
)

func (k ProblemKind) String() string {
	if k == ServerError {
		return "serverError"
	}
	return "invalidField"
}

// Problem is something to show the user next to a form.
type Problem struct {
	Kind ProblemKind

	// FieldKey is only set for InvalidField.
	FieldKey string

	Message string
}

func NewInvalidField(key, msg string) *Problem {
	return &Problem{
		Kind:     InvalidField,
		FieldKey: key,
		Message:  msg,
	}
}

func NewServerError(msg string) Problem {
	return Problem{
		Kind:    ServerError,
		Message: msg,
	}
}

// ServerErrors makes a ServerError Problem for each message.
func ServerErrors(msgs []string) []Problem {
	acc := make([]Problem, 0, len(msgs))
	for _, msg := range msgs {
		acc = append(acc, NewServerError(msg))
	}
	return acc
}

// Blank is the message for a required field without a value.
func Blank(key string) *Problem {
	return NewInvalidField(key, fmt.Sprintf("%s can't be blank", key))
}

// TooShort is the message for a password that isn't long enough.
func TooShort(key string) *Problem {
	return NewInvalidField(key, fmt.Sprintf("password is too short (minimum is %d characters)", MinPasswordLength))
}

// Password checks a required password.  Blank and too short are
// exclusive.
func Password(key, value string) *Problem {
	if value == "" {
		return Blank(key)
	}
	if GraphemeCount(value) < MinPasswordLength {
		return TooShort(key)
	}
	return nil
}

// Required checks that value isn't empty.
func Required(key, value string) *Problem {
	if value == "" {
		return Blank(key)
	}
	return nil
}

func (p Problem) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{
		"kind":    p.Kind.String(),
		"message": p.Message,
	}
	if p.Kind == InvalidField {
		m["field"] = p.FieldKey
	}
	return json.Marshal(m)
}
