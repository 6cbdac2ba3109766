package gui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/simscope/internal/engine"
	"github.com/san-kum/simscope/internal/input"
	"github.com/san-kum/simscope/internal/physics"
)

// worldScale blows model coordinates up to comfortable display units.
// worldCursor divides it back out, so physics only ever sees model
// units.
const worldScale = 4.0

const (
	gridExtent  = 12
	gridSpacing = 2

	trailLen = 160
	// trailBreak drops segments that span a restart or playback jump.
	trailBreak = 3.0
)

var colGrid = rl.NewColor(26, 26, 26, 255)

func v3(p mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(p.X()*worldScale), float32(p.Y()*worldScale), float32(p.Z()*worldScale))
}

func drawGrid() {
	for i := -gridExtent; i <= gridExtent; i += gridSpacing {
		f := float32(i)
		rl.DrawLine3D(rl.NewVector3(f, -gridExtent, -0.05), rl.NewVector3(f, gridExtent, -0.05), colGrid)
		rl.DrawLine3D(rl.NewVector3(-gridExtent, f, -0.05), rl.NewVector3(gridExtent, f, -0.05), colGrid)
	}
}

// pushTrails appends each body's position, one trail per body. Repeats
// while paused are skipped so the tail survives a long pause.
func (w *Window) pushTrails(s *engine.Scene) {
	if len(w.trails) != len(s.Bodies) {
		w.trails = make([][]rl.Vector3, len(s.Bodies))
	}
	for i, b := range s.Bodies {
		p := v3(b.Pos)
		t := w.trails[i]
		if n := len(t); n > 0 && t[n-1] == p {
			continue
		}
		t = append(t, p)
		if len(t) > trailLen {
			t = t[1:]
		}
		w.trails[i] = t
	}
}

func (w *Window) drawTrails() {
	for _, t := range w.trails {
		for i := 1; i < len(t); i++ {
			if rl.Vector3Distance(t[i-1], t[i]) > trailBreak {
				continue
			}
			a := uint8(20 + 120*i/len(t))
			rl.DrawLine3D(t[i-1], t[i], rl.NewColor(110, 110, 110, a))
		}
	}
}

func drawModel(s *engine.Scene) {
	switch s.Model {
	case "pendulum":
		drawPendulum(s)
	case "double_pendulum":
		drawDoublePendulum(s)
	case "spring":
		drawSpring(s)
	case "coupled":
		drawCoupled(s)
	default:
		drawGeneric(s)
	}
}

func drawPendulum(s *engine.Scene) {
	if len(s.Bodies) < 1 {
		return
	}
	origin := rl.NewVector3(0, 0, 0)
	bob := v3(s.Bodies[0].Pos)

	rl.DrawLine3D(origin, bob, rl.Gray)
	rl.DrawSphere(bob, 0.5, rl.White)
	rl.DrawSphere(origin, 0.2, rl.Gray)
}

func drawDoublePendulum(s *engine.Scene) {
	if len(s.Bodies) < 2 {
		return
	}
	origin := rl.NewVector3(0, 0, 0)
	p1 := v3(s.Bodies[0].Pos)
	p2 := v3(s.Bodies[1].Pos)

	rl.DrawLine3D(origin, p1, rl.Gray)
	rl.DrawLine3D(p1, p2, rl.Gray)
	rl.DrawSphere(p1, 0.5, rl.LightGray)
	rl.DrawSphere(p2, 0.5, rl.White)
	rl.DrawSphere(origin, 0.2, rl.Gray)
}

func drawSpring(s *engine.Scene) {
	if len(s.Bodies) < 1 {
		return
	}
	anchor := rl.NewVector3(0, 0, 0)
	mass := v3(s.Bodies[0].Pos)

	rl.DrawLine3D(anchor, mass, rl.White)
	rl.DrawSphere(mass, 0.5, rl.White)
	rl.DrawCube(anchor, 1.2, 0.3, 1.2, rl.Gray)
}

func drawCoupled(s *engine.Scene) {
	if len(s.Bodies) < 2 {
		return
	}
	half := float32(physics.CoupledSeparation / 2 * worldScale)
	pivot1 := rl.NewVector3(-half, 0, 0)
	pivot2 := rl.NewVector3(half, 0, 0)
	p1 := v3(s.Bodies[0].Pos)
	p2 := v3(s.Bodies[1].Pos)

	rl.DrawLine3D(pivot1, p1, rl.Gray)
	rl.DrawLine3D(pivot2, p2, rl.Gray)
	rl.DrawSphere(p1, 0.5, rl.White)
	rl.DrawSphere(p2, 0.5, rl.White)
	rl.DrawLine3D(p1, p2, rl.LightGray)
	rl.DrawSphere(pivot1, 0.2, rl.Gray)
	rl.DrawSphere(pivot2, 0.2, rl.Gray)
}

func drawGeneric(s *engine.Scene) {
	for _, b := range s.Bodies {
		rl.DrawSphere(v3(b.Pos), 0.4, rl.White)
	}
}

// drawPerturb rings the selected body and, while a drag is armed, shows
// the cursor and the pull on the body.
func drawPerturb(s *engine.Scene) {
	zAxis := rl.NewVector3(0, 0, 1)

	if s.Perturb.Selected < len(s.Bodies) {
		sel := v3(s.Bodies[s.Perturb.Selected].Pos)
		rl.DrawCircle3D(sel, 0.8, zAxis, 0, colAccent)
	}
	if !s.Perturb.Active {
		return
	}

	cursor := v3(s.Perturb.Cursor)
	rl.DrawCircle3D(cursor, 0.5, zAxis, 0, rl.NewColor(255, 255, 255, 100))
	rl.DrawCircle3D(cursor, 1.2, zAxis, 0, rl.NewColor(255, 255, 255, 50))

	if s.Perturb.Body < len(s.Bodies) {
		rl.DrawLine3D(v3(s.Bodies[s.Perturb.Body].Pos), cursor, colSelect)
	}
}

func (w *Window) drawHUD(s *engine.Scene) {
	sw := rl.GetScreenWidth()
	sh := rl.GetScreenHeight()

	w.drawText("simscope", 30, 30, 24, colSelect)
	w.drawText(fmt.Sprintf(":: %s / %s", s.Model, s.Mode), 170, 34, 16, colText)

	status, col := "RUNNING", colSelect
	switch {
	case s.UI.Paused:
		status, col = "PAUSED", colTextDim
	case s.UI.Reversed:
		status, col = "REWIND", colAccent
	}
	w.drawText(status, sw-130, 30, 16, col)

	if s.UI.SpeedMode {
		w.drawText(fmt.Sprintf("x%.2g", s.UI.SpeedFactor), sw-130, 52, 16, colAccent)
	}
	if s.Recording {
		w.drawText(fmt.Sprintf("REC %d", s.Recorded), sw-130, 74, 16, rl.Red)
	}

	w.drawText(fmt.Sprintf("sim %8.2fs   clock %8.2fs   E %10.4f", s.Elapsed, s.Target, s.Energy), 30, sh-66, 14, colText)
	w.drawText(fmt.Sprintf("%3.0f fps   %+.2fx realtime", s.UI.RefreshRate, s.UI.RealtimeRate), 30, sh-40, 14, colTextDim)
	w.drawText("[H] KEYS", sw-130, sh-40, 14, colTextDim)
}

// drawHelp dims the scene and prints the active binding table. Column
// width is estimated from the monospace glyph advance at size 16.
func (w *Window) drawHelp(s *engine.Scene) {
	sw := rl.GetScreenWidth()
	sh := rl.GetScreenHeight()
	rl.DrawRectangle(0, 0, int32(sw), int32(sh), rl.NewColor(0, 0, 0, 215))

	w.drawText("key bindings", 60, 50, 24, colSelect)

	table := input.HelpTable(s.Bindings, (sw-120)/9)
	y := 100
	for _, line := range strings.Split(strings.TrimRight(table, "\n"), "\n") {
		w.drawText(line, 60, y, 16, colText)
		y += 22
	}
}

func (w *Window) drawText(text string, x, y, size int, col rl.Color) {
	rl.DrawTextEx(w.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, col)
}
