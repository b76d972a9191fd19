package editor

// RunMode is the editor's execution mode.
type RunMode string

const (
	// EditMode is the idle editing state.
	EditMode RunMode = "edit"

	// PlayMode is the live simulation state.
	PlayMode RunMode = "play"
)

// DisplayString returns the human-readable form of m.
func (m RunMode) DisplayString() string {
	switch m {
	case EditMode:
		return "Edit Mode"
	case PlayMode:
		return "Play Mode"
	default:
		return "Unknown"
	}
}
