package command

import (
	"encoding/json"

	"github.com/morikuni/failure/v2"

	"github.com/umcp/umcp/editor"
	"github.com/umcp/umcp/log"
	"github.com/umcp/umcp/status"
)

type registerClientParams struct {
	Name string `json:"name"`
}

// HandleRegisterClient records the calling tool in the session's client
// table and marks it connected. The record shows up in snapshots so the
// state surface can report which tools have announced themselves.
func HandleRegisterClient(s *editor.State, params json.RawMessage) (Response, error) {
	var p registerClientParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return Response{}, failure.Translate(err, InvalidParams,
				failure.Message("Malformed register_client parameters"),
			)
		}
	}
	if p.Name == "" {
		return Response{}, failure.New(InvalidParams,
			failure.Message("register_client requires a client name"),
		)
	}

	c := s.Client(p.Name)
	c.SetStatus(status.Connected, "")
	log.Info("Client registered", "client", p.Name)
	return NewSuccess("Client registered", *c), nil
}
