package engine

import (
	"errors"
	"fmt"

	"github.com/san-kum/simscope/internal/input"
	"github.com/san-kum/simscope/internal/trajectory"
)

// Playback scrubs through pre-recorded trajectories instead of
// integrating. Forward steps move the cursor until the last sample and
// then hold there; reverse steps walk it back to zero. The bracket
// keys switch between loaded trajectories.
type Playback struct {
	tracks []*trajectory.Trajectory
	track  int
	cursor int
}

func NewPlayback(tracks []*trajectory.Trajectory) *Playback {
	return &Playback{tracks: tracks}
}

func (m *Playback) Name() string { return "playback" }

func (m *Playback) Setup(p *PhysicsState) error {
	if len(m.tracks) == 0 {
		return errors.New("engine: playback needs at least one trajectory")
	}
	dim := p.Model.StateDim()
	for _, tr := range m.tracks {
		if tr.Len() == 0 {
			return fmt.Errorf("engine: trajectory %s is empty", tr.ID)
		}
		if _, x := tr.At(0); len(x) != dim {
			return fmt.Errorf("engine: trajectory %s has dimension %d, model wants %d", tr.ID, len(x), dim)
		}
	}
	m.track = 0
	m.cursor = 0
	return m.apply(p)
}

func (m *Playback) Teardown(p *PhysicsState) error { return nil }

func (m *Playback) Step(p *PhysicsState) error {
	if m.cursor+1 < m.tracks[m.track].Len() {
		m.cursor++
	}
	return m.apply(p)
}

func (m *Playback) ReverseStep(p *PhysicsState) (bool, error) {
	if m.cursor == 0 {
		return false, nil
	}
	m.cursor--
	return true, m.apply(p)
}

func (m *Playback) PauseStep(p *PhysicsState) error { return nil }

func (m *Playback) Bindings(e *Engine) []input.Binding {
	return []input.Binding{
		input.KeyBinding(input.KeyLeftBracket, "[", "previous trajectory", func() {
			m.cycleTrack(e.phys, -1)
		}),
		input.KeyBinding(input.KeyRightBracket, "]", "next trajectory", func() {
			m.cycleTrack(e.phys, 1)
		}),
	}
}

// cycleTrack runs inside an input handler, so the physics lock is
// already held.
func (m *Playback) cycleTrack(p *PhysicsState, d int) {
	n := len(m.tracks)
	m.track = ((m.track+d)%n + n) % n
	m.cursor = 0
	p.ResetTime()
	m.apply(p)
}

func (m *Playback) apply(p *PhysicsState) error {
	_, x := m.tracks[m.track].At(m.cursor)
	return p.Model.SetState(x)
}
