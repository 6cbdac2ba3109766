package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/simscope/internal/dynamo"
	"github.com/san-kum/simscope/internal/input"
	"github.com/san-kum/simscope/internal/physics"
)

// tuiKeys is display-only: bubbletea delivers the keys, this table
// documents them for the help overlay.
var tuiKeys = []input.Binding{
	{Trigger: "space", Effect: "toggle pause"},
	{Trigger: "b", Effect: "toggle reverse playback"},
	{Trigger: "s", Effect: "toggle speed mode"},
	{Trigger: "=", Effect: "double speed factor"},
	{Trigger: "-", Effect: "halve speed factor"},
	{Trigger: "[", Effect: "step one timestep back, pausing first"},
	{Trigger: "]", Effect: "step one timestep forward, pausing first"},
	{Trigger: "tab", Effect: "select next parameter"},
	{Trigger: "up/down", Effect: "scale the selected parameter"},
	{Trigger: "r", Effect: "restart from initial conditions"},
	{Trigger: "h", Effect: "toggle key help"},
	{Trigger: "q", Effect: "quit"},
}

// project maps world coordinates to sub-pixel canvas coordinates, world
// origin at the canvas center, y up.
func (a *App) project(x, y float64) (int, int) {
	cw, ch := canvasWidth*2, canvasHeight*4
	scale := float64(ch) / 5.0
	return cw/2 + int(x*scale), ch/2 - int(y*scale)
}

func (a *App) draw() {
	a.canvas.Clear()
	bodies := a.model.Bodies()
	switch a.model.Name() {
	case "pendulum":
		a.drawPendulum(bodies)
	case "double_pendulum":
		a.drawDoublePendulum(bodies)
	case "spring":
		a.drawSpring(bodies)
	case "coupled":
		a.drawCoupled(bodies)
	default:
		for _, b := range bodies {
			x, y := a.project(b.Pos.X(), b.Pos.Y())
			a.canvas.Mark(x, y, 1)
		}
	}
}

func (a *App) drawPendulum(bodies []physics.Body) {
	if len(bodies) < 1 {
		return
	}
	ox, oy := a.project(0, 0)
	bx, by := a.project(bodies[0].Pos.X(), bodies[0].Pos.Y())
	a.pushTrail(bx, by, 100)
	a.drawTrail()
	a.canvas.Set(ox, oy)
	a.canvas.Line(ox, oy, bx, by)
	a.canvas.Mark(bx, by, 1)
}

func (a *App) drawDoublePendulum(bodies []physics.Body) {
	if len(bodies) < 2 {
		return
	}
	ox, oy := a.project(0, 0)
	b1x, b1y := a.project(bodies[0].Pos.X(), bodies[0].Pos.Y())
	b2x, b2y := a.project(bodies[1].Pos.X(), bodies[1].Pos.Y())
	a.pushTrail(b2x, b2y, 200)
	a.drawTrail()
	a.canvas.Set(ox, oy)
	a.canvas.Line(ox, oy, b1x, b1y)
	a.canvas.Mark(b1x, b1y, 1)
	a.canvas.Line(b1x, b1y, b2x, b2y)
	a.canvas.Mark(b2x, b2y, 1)
}

func (a *App) drawSpring(bodies []physics.Body) {
	if len(bodies) < 1 {
		return
	}
	ox, oy := a.project(0, 0)
	mx, my := a.project(bodies[0].Pos.X(), bodies[0].Pos.Y())
	a.pushTrail(mx, my, 150)
	a.drawTrail()
	a.canvas.Mark(ox, oy, 1)
	a.canvas.Line(ox, oy, mx, my)
	a.canvas.Mark(mx, my, 2)
}

func (a *App) drawCoupled(bodies []physics.Body) {
	if len(bodies) < 2 {
		return
	}
	half := physics.CoupledSeparation / 2
	p1x, p1y := a.project(-half, 0)
	p2x, p2y := a.project(half, 0)
	b1x, b1y := a.project(bodies[0].Pos.X(), bodies[0].Pos.Y())
	b2x, b2y := a.project(bodies[1].Pos.X(), bodies[1].Pos.Y())
	a.canvas.Set(p1x, p1y)
	a.canvas.Set(p2x, p2y)
	a.canvas.Line(p1x, p1y, b1x, b1y)
	a.canvas.Line(p2x, p2y, b2x, b2y)
	a.canvas.Line(b1x, b1y, b2x, b2y)
	a.canvas.Mark(b1x, b1y, 1)
	a.canvas.Mark(b2x, b2y, 1)
}

func (a *App) pushTrail(x, y, max int) {
	a.trail = append(a.trail, point{x, y})
	if len(a.trail) > max {
		a.trail = a.trail[1:]
	}
}

func (a *App) drawTrail() {
	for _, p := range a.trail {
		a.canvas.Set(p.x, p.y)
	}
}

func (a *App) status() string {
	switch {
	case a.paused:
		return "PAUSED"
	case a.reversed:
		return "REWIND"
	default:
		return "RUNNING"
	}
}

func (a *App) View() string {
	canvasView := canvasStyle.Render(a.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(a.model.Name())) + "\n")
	s.WriteString(a.status() + "\n\n")

	if len(a.energy) > 1 {
		chart := asciigraph.Plot(a.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("sim") + valueStyle.Render(fmt.Sprintf("%.2fs", a.elapsed)) + "\n")
	s.WriteString(labelStyle.Render("clock") + valueStyle.Render(fmt.Sprintf("%.2fs", a.timer.Elapsed())) + "\n")
	s.WriteString(labelStyle.Render("energy") + valueStyle.Render(fmt.Sprintf("%.3f", a.model.Energy())) + "\n")
	s.WriteString(labelStyle.Render("rate") + valueStyle.Render(fmt.Sprintf("%+.2fx", a.timer.Rate())) + "\n")
	s.WriteString(labelStyle.Render("history") + valueStyle.Render(fmt.Sprintf("%d/%d", a.history.Len(), a.history.Cap())) + "\n")

	s.WriteString("\nPARAMETERS\n")
	a.writeParams(&s)

	s.WriteString(hintStyle.Render("space:pause  b:reverse  s/=/-:speed\n[ ]:step  r:restart  h:keys  q:quit"))

	statsView := statsStyle.Render(s.String())
	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if a.showHelp {
		return hintStyle.Render(input.HelpTable(tuiKeys, 64)) + "\n" + main
	}
	return main
}

func (a *App) writeParams(s *strings.Builder) {
	c, ok := a.model.(dynamo.Configurable)
	if !ok || len(a.paramKeys) == 0 {
		s.WriteString(labelStyle.Render("  (none)") + "\n")
		return
	}
	params := c.GetParams()
	for i, k := range a.paramKeys {
		line := fmt.Sprintf("%-10s %8.3f", k, params[k])
		if i == a.paramSel {
			s.WriteString(selectStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}
}
