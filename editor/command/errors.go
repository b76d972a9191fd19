package command

// ErrorCode defines error types for command handling
type ErrorCode string

const (
	InvalidParams ErrorCode = "InvalidParams"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}
