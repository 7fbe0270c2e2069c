package errorx

import "fmt"

type Error struct {
	Code    Code
	Message string
}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

func (e Error) Error() string {
	return e.Message
}

// Is matches errors by code only, so a wrapped message does not break
// errors.Is checks at the API boundary.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok {
		return false
	}

	return e.Code == t.Code
}
