package cli

import (
	"strings"
	"testing"

	"github.com/umcp/umcp/bridge"
	"github.com/umcp/umcp/status"
)

func TestPortFlag(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
		want    int
	}{
		{name: "valid", value: "6400", want: 6400},
		{name: "lower bound", value: "1024", want: 1024},
		{name: "privileged", value: "80", wantErr: true},
		{name: "too high", value: "70000", wantErr: true},
		{name: "not a number", value: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f portFlag
			err := f.Set(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Set(%q) succeeded, want error", tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set(%q) error: %v", tt.value, err)
			}
			if !f.IsSet || f.Value != tt.want {
				t.Errorf("Set(%q) = %+v, want value %d", tt.value, f, tt.want)
			}
		})
	}
}

func TestRenderReport_Healthy(t *testing.T) {
	c := status.NewClient("bridge")
	c.SetStatus(status.Connected, "")
	health := &bridge.Health{
		Status:      "healthy",
		RunMode:     "Edit Mode",
		Commands:    []string{"get_state", "manage_editor", "ping"},
		Subscribers: 1,
	}

	report := renderReport(c, health, "127.0.0.1:6400")

	for _, want := range []string{"Connected", "Edit Mode", "manage_editor", "127.0.0.1:6400"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestRenderReport_Unreachable(t *testing.T) {
	c := status.NewClient("bridge")
	c.SetStatus(status.NoResponse, "")

	report := renderReport(c, nil, "127.0.0.1:6400")

	if !strings.Contains(report, "No Response") {
		t.Errorf("report missing client status:\n%s", report)
	}
	if !strings.Contains(report, "unreachable") {
		t.Errorf("report missing unreachable note:\n%s", report)
	}
}
