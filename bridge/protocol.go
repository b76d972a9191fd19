package bridge

import (
	"encoding/json"

	"github.com/umcp/umcp/editor/command"
)

// Request is one command frame on the wire: a JSON object on a single
// line. Params is opaque to the transport; handlers decide what to do
// with it.
type Request struct {
	ID     string          `json:"id,omitempty"`
	Type   string          `json:"type"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Reply is the response frame: the command envelope plus the echoed
// request id.
type Reply struct {
	ID string `json:"id,omitempty"`
	command.Response
}

// reply pairs an envelope with the request it answers.
func reply(id string, resp command.Response) Reply {
	return Reply{ID: id, Response: resp}
}
