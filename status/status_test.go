package status

import (
	"strings"
	"testing"
)

func TestDisplayString_AllStates(t *testing.T) {
	for _, s := range All() {
		got := s.DisplayString()
		if got == "" {
			t.Errorf("DisplayString(%s) = empty string", s)
		}
		if got == "Unknown" {
			t.Errorf("DisplayString(%s) fell through to the fallback", s)
		}
	}
}

func TestDisplayString_Unmapped(t *testing.T) {
	if got := ClientStatus("bogus").DisplayString(); got != "Unknown" {
		t.Errorf("DisplayString(bogus) = %q, want %q", got, "Unknown")
	}
}

func TestSetStatus_ErrorWithDetails(t *testing.T) {
	c := NewClient("claude")
	c.SetStatus(Error, "disk full")

	if c.Status != Error {
		t.Errorf("Status = %s, want %s", c.Status, Error)
	}
	if !strings.HasPrefix(c.ConfigStatus, "Error: ") {
		t.Errorf("ConfigStatus = %q, want prefix %q", c.ConfigStatus, "Error: ")
	}
	if !strings.Contains(c.ConfigStatus, "disk full") {
		t.Errorf("ConfigStatus = %q, want it to contain %q", c.ConfigStatus, "disk full")
	}
}

func TestSetStatus_ErrorWithoutDetails(t *testing.T) {
	c := NewClient("claude")
	c.SetStatus(Error, "")

	if c.ConfigStatus != "Error" {
		t.Errorf("ConfigStatus = %q, want %q", c.ConfigStatus, "Error")
	}
}

func TestSetStatus_Connected(t *testing.T) {
	c := NewClient("claude")
	c.SetStatus(Connected, "")

	if c.Status != Connected {
		t.Errorf("Status = %s, want %s", c.Status, Connected)
	}
	if c.ConfigStatus != "Connected" {
		t.Errorf("ConfigStatus = %q, want %q", c.ConfigStatus, "Connected")
	}
}

func TestSetStatus_DetailsIgnoredOutsideError(t *testing.T) {
	c := NewClient("claude")
	c.SetStatus(Running, "leftover detail")

	if c.ConfigStatus != "Running" {
		t.Errorf("ConfigStatus = %q, want %q", c.ConfigStatus, "Running")
	}
}

func TestNewClient_ConfigStatusNeverEmpty(t *testing.T) {
	c := NewClient("cursor")
	if c.ConfigStatus == "" {
		t.Fatal("NewClient left ConfigStatus empty")
	}
	for _, s := range All() {
		c.SetStatus(s, "")
		if c.ConfigStatus == "" {
			t.Errorf("SetStatus(%s) left ConfigStatus empty", s)
		}
	}
}
