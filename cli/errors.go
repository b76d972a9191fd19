package cli

// ErrorCode defines error types for CLI operations
type ErrorCode string

const (
	InvalidArguments  ErrorCode = "InvalidArguments"
	BridgeUnreachable ErrorCode = "BridgeUnreachable"
	InvalidPort       ErrorCode = "InvalidPort"
	InstallFailed     ErrorCode = "InstallFailed"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}
