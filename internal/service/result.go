package service

// Result is the uniform response envelope of the service layer, used where
// an operation's outcome crosses a presentation boundary (CLI output, UI state).
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Kind    Kind   `json:"kind,omitempty"`
}

// Wrap builds a Result from an operation's return values.
func Wrap[T any](data T, err error) Result[T] {
	return WrapMessage(data, err, "")
}

// WrapMessage is Wrap with a message for the success case.
func WrapMessage[T any](data T, err error, okMessage string) Result[T] {
	if err != nil {
		var zero T
		return Result[T]{
			Success: false,
			Data:    zero,
			Message: MessageOf(err),
			Kind:    KindOf(err),
		}
	}
	return Result[T]{Success: true, Data: data, Message: okMessage}
}
