package editor

import (
	"sort"
	"time"

	"github.com/umcp/umcp/status"
)

// Scene is the currently open scene, if any.
type Scene struct {
	Name  string `json:"name"`
	Dirty bool   `json:"dirty"`
}

// State is the editor session the loop owns. Methods must only be called
// from the loop goroutine (inside Do or a deferred callback); Snapshot is
// how other goroutines observe it.
type State struct {
	// loop is set by NewLoop; handlers use it to defer follow-up work.
	loop *Loop

	// refreshHook, when set, receives a snapshot after each refresh so the
	// bridge can update its external state cache. Wired before the loop
	// starts, never changed afterwards.
	refreshHook func(Snapshot)

	runMode RunMode
	context string

	scene *Scene

	// assetGeneration increments on every asset index refresh.
	assetGeneration int

	openWindows   []string
	updateCount   int
	repaintCount  int
	pendingExit   bool
	clients       map[string]*status.Client
	lastUpdatedAt time.Time
}

// NewState returns an edit-mode session with the standard window set open
// and no scene loaded.
func NewState() *State {
	return &State{
		runMode:     EditMode,
		context:     "main",
		openWindows: []string{"Inspector", "Hierarchy", "Scene", "Console"},
		clients:     make(map[string]*status.Client),
	}
}

// Loop returns the loop driving this session. Nil until NewLoop runs.
func (s *State) Loop() *Loop { return s.loop }

// SetRefreshHook installs the external refresh notification. Must be set
// before the loop starts.
func (s *State) SetRefreshHook(fn func(Snapshot)) {
	s.refreshHook = fn
}

// NotifyRefresh pushes a fresh snapshot to the refresh hook, if any.
func (s *State) NotifyRefresh() {
	if s.refreshHook != nil {
		s.refreshHook(s.Snapshot())
	}
}

// RunMode returns the current run mode.
func (s *State) RunMode() RunMode { return s.runMode }

// Context returns the current editor context label.
func (s *State) Context() string { return s.context }

// SetContext sets the editor context label.
func (s *State) SetContext(ctx string) { s.context = ctx }

// EnterPlayMode switches to play mode immediately.
func (s *State) EnterPlayMode() {
	s.runMode = PlayMode
	s.pendingExit = false
	s.touch()
}

// RequestExitPlayMode marks an exit request. The transition itself is
// applied by ApplyPendingTransition on a later tick, never inline, matching
// the host's deferred mode switch.
func (s *State) RequestExitPlayMode() {
	if s.runMode == PlayMode {
		s.pendingExit = true
	}
}

// ApplyPendingTransition lands a requested mode switch. Returns whether a
// transition occurred.
func (s *State) ApplyPendingTransition() bool {
	if !s.pendingExit {
		return false
	}
	s.runMode = EditMode
	s.pendingExit = false
	s.touch()
	return true
}

// OpenScene replaces the active scene with a clean one.
func (s *State) OpenScene(name string) {
	s.scene = &Scene{Name: name}
	s.touch()
}

// Scene returns the active scene, or nil when none is open.
func (s *State) Scene() *Scene { return s.scene }

// MarkSceneDirty marks the active scene modified. No-op without a scene.
func (s *State) MarkSceneDirty() {
	if s.scene != nil {
		s.scene.Dirty = true
		s.touch()
	}
}

// ForceUpdate records a forced editor update tick.
func (s *State) ForceUpdate() {
	s.updateCount++
	s.touch()
}

// RefreshAssets advances the asset index generation.
func (s *State) RefreshAssets() {
	s.assetGeneration++
	s.touch()
}

// RepaintAll records a repaint of every open window.
func (s *State) RepaintAll() {
	s.repaintCount += len(s.openWindows)
	s.touch()
}

// Client returns the tracked client record for name, creating it on first
// use.
func (s *State) Client(name string) *status.Client {
	c, ok := s.clients[name]
	if !ok {
		c = status.NewClient(name)
		s.clients[name] = c
	}
	return c
}

func (s *State) touch() {
	s.lastUpdatedAt = time.Now()
}

// Snapshot is an immutable copy of the session state, safe to hand to
// other goroutines and to serialize onto the state port.
type Snapshot struct {
	RunMode         RunMode         `json:"runMode"`
	Context         string          `json:"context"`
	Scene           *Scene          `json:"scene,omitempty"`
	AssetGeneration int             `json:"assetGeneration"`
	OpenWindows     []string        `json:"openWindows"`
	UpdateCount     int             `json:"updateCount"`
	RepaintCount    int             `json:"repaintCount"`
	PendingExit     bool            `json:"pendingExit"`
	Clients         []status.Client `json:"clients,omitempty"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Snapshot copies the session state. Must run on the loop goroutine like
// every other State method.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		RunMode:         s.runMode,
		Context:         s.context,
		AssetGeneration: s.assetGeneration,
		OpenWindows:     append([]string(nil), s.openWindows...),
		UpdateCount:     s.updateCount,
		RepaintCount:    s.repaintCount,
		PendingExit:     s.pendingExit,
		UpdatedAt:       s.lastUpdatedAt,
	}
	if s.scene != nil {
		sc := *s.scene
		snap.Scene = &sc
	}
	for _, c := range s.clients {
		snap.Clients = append(snap.Clients, *c)
	}
	sort.Slice(snap.Clients, func(i, j int) bool {
		return snap.Clients[i].Name < snap.Clients[j].Name
	})
	return snap
}
