// Package gui is the raylib front end. It implements engine.Window:
// Poll translates raylib input into engine events and keeps camera
// motion for itself, Render draws the scene the engine composed. All
// methods must run on the thread that opened the window.
package gui

import (
	"errors"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/simscope/internal/config"
	"github.com/san-kum/simscope/internal/engine"
	"github.com/san-kum/simscope/internal/input"
)

// Theme colors, monochrome.
var (
	colBg      = rl.NewColor(10, 10, 10, 255)
	colAccent  = rl.NewColor(180, 180, 180, 255)
	colSelect  = rl.NewColor(255, 255, 255, 255)
	colText    = rl.NewColor(140, 140, 140, 255)
	colTextDim = rl.NewColor(60, 60, 60, 255)
)

type Window struct {
	camera rl.Camera3D
	camPos rl.Vector3
	camTgt rl.Vector3
	font   rl.Font

	trails [][]rl.Vector3

	// dragArm mirrors the engine's perturbation state: a modified press
	// hands the following drag to the engine, release takes it back for
	// the camera.
	dragArm bool

	closed bool
}

// New opens the raylib window. The caller owns the window and must
// Close it, also when construction of anything downstream fails.
func New(cfg *config.Config) (*Window, error) {
	rl.InitWindow(int32(cfg.Window.Width), int32(cfg.Window.Height), cfg.Window.Title)
	if !rl.IsWindowReady() {
		return nil, errors.New("gui: raylib window failed to open")
	}
	rl.SetTargetFPS(int32(cfg.Timing.TargetFPS))
	rl.SetExitKey(0)

	w := &Window{
		camPos: rl.NewVector3(0, -2, 16),
		camTgt: rl.NewVector3(0, -2, 0),
		font:   loadFont(),
	}
	w.camera = rl.NewCamera3D(w.camPos, w.camTgt, rl.NewVector3(0, 1, 0), 45.0, rl.CameraPerspective)
	return w, nil
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// Poll drains raylib's input queues into the sink. Drags go to the
// engine while a perturbation is armed and to the camera otherwise;
// the wheel always zooms. The engine calls this under the physics
// lock, so handlers fired from the sink may touch physics state.
func (w *Window) Poll(sink func(input.Event)) {
	mods := readMods()

	for k := rl.GetKeyPressed(); k != 0; k = rl.GetKeyPressed() {
		sink(input.Event{Kind: input.KeyPress, Key: input.Key(k), Mods: mods})
	}

	const keyPan = 0.15
	if rl.IsKeyDown(rl.KeyUp) {
		w.panCamera(0, keyPan)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		w.panCamera(0, -keyPan)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		w.panCamera(-keyPan, 0)
	}
	if rl.IsKeyDown(rl.KeyRight) {
		w.panCamera(keyPan, 0)
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		w.press(sink, input.ButtonLeft, mods)
	}
	if rl.IsMouseButtonPressed(rl.MouseRightButton) {
		w.press(sink, input.ButtonRight, mods)
	}
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		w.release(sink, input.ButtonLeft, mods)
	}
	if rl.IsMouseButtonReleased(rl.MouseRightButton) {
		w.release(sink, input.ButtonRight, mods)
	}

	delta := rl.GetMouseDelta()
	if delta.X != 0 || delta.Y != 0 {
		held := rl.IsMouseButtonDown(rl.MouseLeftButton) || rl.IsMouseButtonDown(rl.MouseRightButton)
		switch {
		case held && w.dragArm:
			if x, y, ok := w.worldCursor(); ok {
				sink(input.Event{Kind: input.MouseDrag, X: x, Y: y, DX: float64(delta.X), DY: float64(delta.Y)})
			}
		case rl.IsMouseButtonDown(rl.MouseRightButton):
			w.panCamera(-delta.X*0.02, delta.Y*0.02)
		}
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		w.zoomCamera(wheel)
	}
}

func (w *Window) press(sink func(input.Event), btn input.Button, mods input.Mod) {
	x, y, ok := w.worldCursor()
	if !ok {
		return
	}
	if mods&input.ModCtrl != 0 {
		w.dragArm = true
	}
	sink(input.Event{Kind: input.MousePress, Button: btn, Mods: mods, X: x, Y: y})
}

func (w *Window) release(sink func(input.Event), btn input.Button, mods input.Mod) {
	w.dragArm = false
	sink(input.Event{Kind: input.MouseRelease, Button: btn, Mods: mods})
}

func readMods() input.Mod {
	var m input.Mod
	if rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift) {
		m |= input.ModShift
	}
	if rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) {
		m |= input.ModCtrl
	}
	if rl.IsKeyDown(rl.KeyLeftAlt) || rl.IsKeyDown(rl.KeyRightAlt) {
		m |= input.ModAlt
	}
	return m
}

// worldCursor maps the mouse onto the z=0 model plane, in model units.
// Reports false when the ray misses the plane.
func (w *Window) worldCursor() (float64, float64, bool) {
	ray := rl.GetMouseRay(rl.GetMousePosition(), w.camera)
	if ray.Direction.Z == 0 {
		return 0, 0, false
	}
	t := -ray.Position.Z / ray.Direction.Z
	if t <= 0 {
		return 0, 0, false
	}
	x := float64(ray.Position.X+t*ray.Direction.X) / worldScale
	y := float64(ray.Position.Y+t*ray.Direction.Y) / worldScale
	return x, y, true
}

func (w *Window) Render(s *engine.Scene) {
	w.stepCamera()
	w.pushTrails(s)

	rl.BeginDrawing()
	rl.ClearBackground(colBg)

	rl.BeginMode3D(w.camera)
	drawGrid()
	w.drawTrails()
	drawModel(s)
	drawPerturb(s)
	rl.EndMode3D()

	w.drawHUD(s)
	if s.UI.ShowHelp {
		w.drawHelp(s)
	}

	rl.EndDrawing()
}

// panCamera slides both camera targets in the view plane, keeping the
// look direction fixed.
func (w *Window) panCamera(dx, dy float32) {
	w.camPos.X += dx
	w.camPos.Y += dy
	w.camTgt.X += dx
	w.camTgt.Y += dy
}

// stepCamera eases the camera toward its target pose. Input moves the
// targets, not the camera, which gives the motion inertia.
func (w *Window) stepCamera() {
	lerp := 5 * rl.GetFrameTime()
	if lerp > 1 {
		lerp = 1
	}
	w.camera.Position = rl.Vector3Lerp(w.camera.Position, w.camPos, lerp)
	w.camera.Target = rl.Vector3Lerp(w.camera.Target, w.camTgt, lerp)
}

func (w *Window) zoomCamera(wheel float32) {
	zoom := wheel * 1.5
	diff := rl.Vector3Subtract(w.camTgt, w.camPos)
	dist := rl.Vector3Length(diff)
	if dist > 3.0 || zoom < 0 {
		dir := rl.Vector3Normalize(diff)
		w.camPos = rl.Vector3Add(w.camPos, rl.Vector3Scale(dir, zoom))
	}
}

func (w *Window) Size() (int, int) {
	return rl.GetScreenWidth(), rl.GetScreenHeight()
}

func (w *Window) CloseRequested() bool { return rl.WindowShouldClose() }

// CaptureFrame reads back the frame just presented as raw RGBA rows,
// top to bottom.
func (w *Window) CaptureFrame() []byte {
	img := rl.LoadImageFromScreen()
	if img == nil {
		return nil
	}
	defer rl.UnloadImage(img)

	cols := rl.LoadImageColors(img)
	buf := make([]byte, len(cols)*4)
	for i, c := range cols {
		buf[i*4+0] = c.R
		buf[i*4+1] = c.G
		buf[i*4+2] = c.B
		buf[i*4+3] = c.A
	}
	return buf
}

func (w *Window) Close() {
	if w.closed {
		return
	}
	w.closed = true
	rl.CloseWindow()
}
