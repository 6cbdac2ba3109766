package audio

import (
	"github.com/san-kum/simscope/internal/engine"
)

// Tap decorates an engine.Window so every rendered scene also reaches
// the synth. The scene is thread-confined to the render loop, so Feed
// runs without extra locking.
type Tap struct {
	engine.Window
	synth *Synth
}

func NewTap(w engine.Window, s *Synth) *Tap {
	return &Tap{Window: w, synth: s}
}

func (t *Tap) Render(s *engine.Scene) {
	t.Window.Render(s)
	t.synth.Feed(s.Energy, s.State)
}
