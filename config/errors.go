package config

// ErrorCode defines error types for configuration operations
type ErrorCode string

const (
	ReadFailed      ErrorCode = "ReadFailed"
	WriteFailed     ErrorCode = "WriteFailed"
	ParseFailed     ErrorCode = "ParseFailed"
	NoServerEntry   ErrorCode = "NoServerEntry"
	UnknownKey      ErrorCode = "UnknownKey"
	NoConfigDir     ErrorCode = "NoConfigDir"
	InvalidSettings ErrorCode = "InvalidSettings"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}
