// Package status models the lifecycle of an external MCP client as seen by
// the bridge: whether it is configured, reachable, and healthy.
package status

// ClientStatus is the closed set of states a configured client can be in.
type ClientStatus string

const (
	NotConfigured      ClientStatus = "not_configured"
	Configured         ClientStatus = "configured"
	Running            ClientStatus = "running"
	Connected          ClientStatus = "connected"
	IncorrectPath      ClientStatus = "incorrect_path"
	CommunicationError ClientStatus = "communication_error"
	NoResponse         ClientStatus = "no_response"
	MissingConfig      ClientStatus = "missing_config"
	UnsupportedOS      ClientStatus = "unsupported_os"
	Error              ClientStatus = "error"
)

// errorPrefix is prepended to the config status string when SetStatus
// receives detail text for the Error state.
const errorPrefix = "Error: "

// DisplayString returns the human-readable form of s.
// Unmapped values render as "Unknown".
func (s ClientStatus) DisplayString() string {
	switch s {
	case NotConfigured:
		return "Not Configured"
	case Configured:
		return "Configured"
	case Running:
		return "Running"
	case Connected:
		return "Connected"
	case IncorrectPath:
		return "Incorrect Path"
	case CommunicationError:
		return "Communication Error"
	case NoResponse:
		return "No Response"
	case MissingConfig:
		return "Missing Config"
	case UnsupportedOS:
		return "Unsupported OS"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// All returns every defined status, in declaration order.
func All() []ClientStatus {
	return []ClientStatus{
		NotConfigured,
		Configured,
		Running,
		Connected,
		IncorrectPath,
		CommunicationError,
		NoResponse,
		MissingConfig,
		UnsupportedOS,
		Error,
	}
}
