package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/simscope/internal/analysis"
	"github.com/san-kum/simscope/internal/audio"
	"github.com/san-kum/simscope/internal/config"
	"github.com/san-kum/simscope/internal/control"
	"github.com/san-kum/simscope/internal/dynamo"
	"github.com/san-kum/simscope/internal/engine"
	"github.com/san-kum/simscope/internal/export"
	"github.com/san-kum/simscope/internal/gui"
	"github.com/san-kum/simscope/internal/input"
	"github.com/san-kum/simscope/internal/physics"
	"github.com/san-kum/simscope/internal/trajectory"
	"github.com/san-kum/simscope/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	params     []string
	initState  []float64
	speed      float64
	paused     bool
	controller string
	kp         float64
	ki         float64
	kd         float64
	target     float64
	playback   []string
	recordPath string
	withAudio  bool
	duration   float64
	// Plot views and axes
	spectrum bool
	phase    bool
	svgPath  string
	xAxis    int
	yAxis    int
)

// main registers the simscope commands and executes the root command.
// With no subcommand it opens the windowed viewer on the default model.
func main() {
	rootCmd := &cobra.Command{
		Use:   "simscope",
		Short: "interactive physics viewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, nil)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".simscope", "saved run directory")

	viewCmd := &cobra.Command{
		Use:   "view [model]",
		Short: "open the windowed viewer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runView,
	}
	viewCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	viewCmd.Flags().StringVar(&preset, "preset", "", "named starting conditions")
	viewCmd.Flags().StringArrayVar(&params, "param", nil, "model parameter override (name=value)")
	viewCmd.Flags().Float64SliceVar(&initState, "init", nil, "initial state vector")
	viewCmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeedFactor, "speed-mode factor")
	viewCmd.Flags().BoolVar(&paused, "paused", false, "start paused")
	viewCmd.Flags().StringVar(&controller, "controller", "", "controller for the controlled mode (none, pid)")
	viewCmd.Flags().Float64Var(&kp, "kp", 10.0, "pid kp")
	viewCmd.Flags().Float64Var(&ki, "ki", 0.1, "pid ki")
	viewCmd.Flags().Float64Var(&kd, "kd", 5.0, "pid kd")
	viewCmd.Flags().Float64Var(&target, "target", 0.0, "pid target")
	viewCmd.Flags().StringSliceVar(&playback, "playback", nil, "saved run ids to scrub")
	viewCmd.Flags().StringVar(&recordPath, "record", "", "record video to this path from the start")
	viewCmd.Flags().BoolVar(&withAudio, "audio", false, "sonify the simulation")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "open the terminal viewer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "named starting conditions")
	liveCmd.Flags().StringArrayVar(&params, "param", nil, "model parameter override (name=value)")
	liveCmd.Flags().Float64SliceVar(&initState, "init", nil, "initial state vector")
	liveCmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeedFactor, "speed-mode factor")
	liveCmd.Flags().BoolVar(&paused, "paused", false, "start paused")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "integrate without a window and save the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "named starting conditions")
	runCmd.Flags().StringArrayVar(&params, "param", nil, "model parameter override (name=value)")
	runCmd.Flags().Float64SliceVar(&initState, "init", nil, "initial state vector")
	runCmd.Flags().Float64Var(&duration, "time", 10.0, "simulated seconds")
	runCmd.Flags().StringVar(&controller, "controller", "", "controller (none, pid)")
	runCmd.Flags().Float64Var(&kp, "kp", 10.0, "pid kp")
	runCmd.Flags().Float64Var(&ki, "ki", 0.1, "pid ki")
	runCmd.Flags().Float64Var(&kd, "kd", 5.0, "pid kd")
	runCmd.Flags().Float64Var(&target, "target", 0.0, "pid target")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().BoolVar(&spectrum, "spectrum", false, "plot the power spectrum instead of the time series")
	plotCmd.Flags().BoolVar(&phase, "phase", false, "plot a phase portrait instead of the time series")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the phase portrait as svg to this path")
	plotCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for the spectrum and the phase x axis")
	plotCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for the phase y axis")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list models",
		RunE:  listModels,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets(args[0])
			if len(names) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, name := range names {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "print the viewer key bindings",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print(input.HelpTable(engine.HelpBindings(), 72))
		},
	}

	rootCmd.AddCommand(viewCmd, liveCmd, runCmd, runsCmd, plotCmd, modelsCmd, presetsCmd, keysCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig resolves the effective configuration: defaults, then the
// config file, then the preset, then individual flags. Flags only win
// when actually set, so a config file keeps its say over flag defaults.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.Default()

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Model.Name = args[0]
	}

	if preset != "" {
		p, err := config.GetPreset(cfg.Model.Name, preset)
		if err != nil {
			return nil, err
		}
		cfg.Model.InitState = p.InitState
		for k, v := range p.Params {
			if cfg.Model.Params == nil {
				cfg.Model.Params = make(map[string]float64)
			}
			cfg.Model.Params[k] = v
		}
	}

	for _, p := range params {
		name, val, err := parseParam(p)
		if err != nil {
			return nil, err
		}
		if cfg.Model.Params == nil {
			cfg.Model.Params = make(map[string]float64)
		}
		cfg.Model.Params[name] = val
	}

	if len(initState) > 0 {
		cfg.Model.InitState = initState
	}
	if cmd.Flags().Changed("speed") {
		cfg.Timing.SpeedFactor = speed
	}
	if cmd.Flags().Changed("paused") {
		cfg.Timing.StartPaused = paused
	}
	if cmd.Flags().Changed("controller") {
		cfg.Model.Controller = controller
	}
	if cmd.Flags().Changed("record") {
		cfg.Record.Path = recordPath
	}
	if cmd.Flags().Changed("audio") {
		cfg.Audio.Enabled = withAudio
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseParam(s string) (string, float64, error) {
	name, val, ok := strings.Cut(s, "=")
	if !ok {
		return "", 0, fmt.Errorf("invalid --param %q, want name=value", s)
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid --param value %q: %w", val, err)
	}
	return name, f, nil
}

// buildModel constructs the configured model and applies its parameter
// overrides and initial conditions.
func buildModel(cfg *config.Config) (physics.Model, error) {
	m, err := physics.New(cfg.Model.Name)
	if err != nil {
		return nil, err
	}

	if len(cfg.Model.Params) > 0 {
		c, ok := m.(dynamo.Configurable)
		if !ok {
			return nil, fmt.Errorf("model %s has no tunable parameters", cfg.Model.Name)
		}
		for _, name := range sortedKeys(cfg.Model.Params) {
			if err := c.SetParam(name, cfg.Model.Params[name]); err != nil {
				return nil, err
			}
		}
	}

	if len(cfg.Model.InitState) > 0 {
		if err := m.SetInitial(dynamo.State(cfg.Model.InitState)); err != nil {
			return nil, fmt.Errorf("initial state for %s: %w", cfg.Model.Name, err)
		}
	}
	return m, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func buildController(name string, m physics.Model) (control.Controller, error) {
	switch name {
	case "", "none":
		return control.NewNone(m.ControlDim()), nil
	case "pid":
		return control.NewPID(kp, ki, kd, target), nil
	default:
		return nil, fmt.Errorf("unknown controller: %s (available: none, pid)", name)
	}
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}
	return log
}

func runView(cmd *cobra.Command, args []string) error {
	var tracks []*trajectory.Trajectory
	if len(playback) > 0 {
		st := trajectory.NewStore(dataDir)
		for _, id := range playback {
			tr, err := st.Load(id)
			if err != nil {
				return fmt.Errorf("load run %s: %w", id, err)
			}
			tracks = append(tracks, tr)
		}
	}

	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	// Scrubbing a saved run means viewing that run's model unless one
	// was named explicitly.
	if len(tracks) > 0 && len(args) == 0 {
		cfg.Model.Name = tracks[0].Model
	}

	m, err := buildModel(cfg)
	if err != nil {
		return err
	}

	modes := make([]engine.Mode, 0, 3)
	if len(tracks) > 0 {
		modes = append(modes, engine.NewPlayback(tracks))
	}
	modes = append(modes, engine.NewPassive(cfg.Timing.HistorySteps))
	if name := cfg.Model.Controller; name != "" && name != "none" {
		ctrl, err := buildController(name, m)
		if err != nil {
			return err
		}
		modes = append(modes, engine.NewControlled(ctrl, cfg.Timing.HistorySteps))
	}

	log := newLogger()

	window, err := gui.New(cfg)
	if err != nil {
		return err
	}

	var sink engine.Window = window
	if cfg.Audio.Enabled {
		synth := audio.New(log)
		if err := synth.Start(); err != nil {
			log.WithError(err).Warn("audio unavailable")
		} else {
			defer synth.Stop()
			sink = audio.NewTap(window, synth)
		}
	}

	eng, err := engine.New(log, cfg, m, sink, modes)
	if err != nil {
		return err
	}
	if recordPath != "" {
		eng.ToggleRecording()
	}
	return eng.Run()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	m, err := buildModel(cfg)
	if err != nil {
		return err
	}
	return tui.Run(m, cfg)
}

// runHeadless integrates the configured model without opening a window
// and saves the trajectory for plot and playback.
func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	m, err := buildModel(cfg)
	if err != nil {
		return err
	}
	ctrl, err := buildController(cfg.Model.Controller, m)
	if err != nil {
		return err
	}

	if duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", duration)
	}

	tr := &trajectory.Trajectory{Model: m.Name(), Dt: m.Timestep()}
	steps := int(duration / m.Timestep())
	for i := 0; i < steps; i++ {
		tr.Append(m.Time(), m.State())
		if err := m.Step(ctrl.Compute(m.State(), m.Time())); err != nil {
			return err
		}
	}
	tr.Append(m.Time(), m.State())

	runID, err := trajectory.NewStore(dataDir).Save(tr)
	if err != nil {
		return err
	}

	fmt.Printf("saved run %s (%d samples, %.1fs simulated)\n", runID, tr.Len(), m.Time())
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := trajectory.NewStore(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no saved runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tRECORDED\tSAMPLES\tDT")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\n",
			r.ID,
			r.Model,
			r.Recorded.Format("2006-01-02 15:04:05"),
			r.Samples,
			r.Dt,
		)
	}
	return w.Flush()
}

func listModels(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATE\tCONTROL\tDT\tBODIES\tPRESETS")
	for _, name := range physics.List() {
		m, err := physics.New(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.4fs\t%d\t%s\n",
			name,
			m.StateDim(),
			m.ControlDim(),
			m.Timestep(),
			len(m.Bodies()),
			strings.Join(config.ListPresets(name), ","),
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	tr, err := trajectory.NewStore(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	if tr.Len() == 0 {
		return fmt.Errorf("run %s has no samples", args[0])
	}

	fmt.Printf("run: %s\n", tr.ID)
	fmt.Printf("model: %s\n", tr.Model)
	fmt.Printf("samples: %d\n\n", tr.Len())

	switch {
	case spectrum:
		return plotSpectrum(tr)
	case phase:
		return plotPhase(tr)
	default:
		return plotSeries(tr)
	}
}

const maxSeriesPlots = 6

func plotSeries(tr *trajectory.Trajectory) error {
	dim := len(tr.States[0])
	if dim > maxSeriesPlots {
		dim = maxSeriesPlots
	}
	labels := stateLabels(tr.Model, dim)

	for i := 0; i < dim; i++ {
		graph := asciigraph.Plot(column(tr, i),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(labels[i]),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func plotSpectrum(tr *trajectory.Trajectory) error {
	dim := len(tr.States[0])
	if xAxis < 0 || xAxis >= dim {
		return fmt.Errorf("x-axis %d out of range for state dimension %d", xAxis, dim)
	}

	ps := analysis.PowerSpectrum(column(tr, xAxis))
	if len(ps) < 8 {
		return fmt.Errorf("run %s is too short for a spectrum", tr.ID)
	}

	label := stateLabels(tr.Model, dim)[xAxis]
	graph := asciigraph.Plot(ps[:len(ps)/4],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", label)),
	)
	fmt.Println(graph)
	fmt.Println()

	if hz := analysis.Dominant(ps, tr.Dt); hz > 0 {
		fmt.Printf("dominant frequency: %.3f hz (period %.3f s)\n", hz, 1/hz)
	}
	return nil
}

// plotPhase draws one state variable against another on a braille
// canvas, with a small margin around the data bounds.
func plotPhase(tr *trajectory.Trajectory) error {
	dim := len(tr.States[0])
	if xAxis < 0 || xAxis >= dim || yAxis < 0 || yAxis >= dim {
		return fmt.Errorf("axes x%d/x%d out of range for state dimension %d", xAxis, yAxis, dim)
	}

	xs := column(tr, xAxis)
	ys := column(tr, yAxis)

	minX, maxX := bounds(xs)
	minY, maxY := bounds(ys)
	spanX := maxX - minX
	spanY := maxY - minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}
	minX -= spanX * 0.05
	minY -= spanY * 0.05
	spanX *= 1.1
	spanY *= 1.1

	const w, h = 60, 20
	canvas := tui.NewCanvas(w, h)
	pw, ph := w*2-1, h*4-1
	for i := range xs {
		px := int((xs[i] - minX) / spanX * float64(pw))
		py := ph - int((ys[i]-minY)/spanY*float64(ph))
		canvas.Set(px, py)
	}

	labels := stateLabels(tr.Model, dim)
	fmt.Printf("phase portrait: %s vs %s\n\n", labels[xAxis], labels[yAxis])
	fmt.Print(canvas.String())
	fmt.Printf("\n%s in [%.3f, %.3f], %s in [%.3f, %.3f]\n",
		labels[xAxis], minX, minX+spanX, labels[yAxis], minY, minY+spanY)

	if svgPath != "" {
		if err := os.WriteFile(svgPath, []byte(export.PhaseSVG(xs, ys, 800, 600)), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	return nil
}

func column(tr *trajectory.Trajectory, idx int) []float64 {
	out := make([]float64, tr.Len())
	for i, x := range tr.States {
		if idx < len(x) {
			out[i] = x[idx]
		}
	}
	return out
}

func bounds(vals []float64) (float64, float64) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// stateLabels names the state variables of the bundled models for plot
// captions, falling back to indexed names.
func stateLabels(model string, dim int) []string {
	var names []string
	switch model {
	case "pendulum":
		names = []string{"theta", "omega"}
	case "double_pendulum", "coupled":
		names = []string{"theta1", "theta2", "omega1", "omega2"}
	case "spring":
		names = []string{"x", "y", "vx", "vy"}
	}

	out := make([]string, dim)
	for i := range out {
		if i < len(names) {
			out[i] = names[i]
		} else {
			out[i] = fmt.Sprintf("x%d", i)
		}
	}
	return out
}
