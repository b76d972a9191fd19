package command

// Response is the envelope returned by every command handler. Success
// carries a message and an arbitrary data payload; failure carries the
// error message only.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewSuccess builds a success envelope.
func NewSuccess(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// NewError builds an error envelope.
func NewError(message string) Response {
	return Response{Success: false, Error: message}
}
