package status

// Client tracks one external tool instance and its configuration state.
// ConfigStatus is derived from Status and must only change through
// SetStatus so the two never drift apart.
type Client struct {
	Name         string       `json:"name"`
	Status       ClientStatus `json:"status"`
	ConfigStatus string       `json:"configStatus"`
}

// NewClient returns a client in the NotConfigured state.
func NewClient(name string) *Client {
	c := &Client{Name: name}
	c.SetStatus(NotConfigured, "")
	return c
}

// SetStatus updates the status and the derived config status string in one
// step. For the Error state a non-empty details string is rendered as
// "Error: <details>"; every other state uses its display string.
func (c *Client) SetStatus(s ClientStatus, details string) {
	c.Status = s
	if s == Error && details != "" {
		c.ConfigStatus = errorPrefix + details
		return
	}
	c.ConfigStatus = s.DisplayString()
}
