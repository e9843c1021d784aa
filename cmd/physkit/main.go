package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/devfmo/physkit/internal/export"
	"github.com/devfmo/physkit/internal/metrics"
	"github.com/devfmo/physkit/internal/scene"
	"github.com/devfmo/physkit/internal/tui"
	"github.com/devfmo/physkit/internal/vec"
	"github.com/devfmo/physkit/internal/viz"
	"github.com/devfmo/physkit/internal/web"
)

var (
	dataDir   string
	duration  float64
	stepSize  float64
	fps       float64
	timeScale float64
	svgPath   string
	addr      string
	withStats bool
	preset    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "physkit",
		Short: "2d physics demo toolkit",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".physkit", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless and save the trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().Float64Var(&duration, "time", 10, "simulated duration in seconds")
	runCmd.Flags().Float64Var(&stepSize, "dt", 0, "sub-step size in ms (0 keeps the scene's)")
	runCmd.Flags().Float64Var(&fps, "fps", 0, "frame rate (0 keeps the scene's)")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write a trail rendering to this path")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "watch a scene live in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&timeScale, "speed", 1, "initial time scale")

	serveCmd := &cobra.Command{
		Use:   "serve [scene]",
		Short: "stream a scene to a browser canvas",
		Args:  cobra.ExactArgs(1),
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "localhost:8473", "listen address")
	serveCmd.Flags().BoolVar(&withStats, "statsview", false, "expose a runtime profiling dashboard")

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a scene file to edit",
		Args:  cobra.ExactArgs(1),
		RunE:  initScene,
	}
	initCmd.Flags().StringVar(&preset, "preset", "orbit", "preset to start from")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, initCmd, listCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadScene resolves the argument as a preset name first, then as a YAML
// path.
func loadScene(arg string) (*scene.Scene, error) {
	if s, err := scene.Preset(arg); err == nil {
		return s, nil
	}
	return scene.Load(arg)
}

func runScene(cmd *cobra.Command, args []string) error {
	s, err := loadScene(args[0])
	if err != nil {
		return err
	}
	if stepSize > 0 {
		s.StepSize = stepSize
	}
	if fps > 0 {
		s.FPS = fps
	}

	world, err := s.Build()
	if err != nil {
		return err
	}

	observers := []metrics.Metric{
		metrics.NewKineticDrift(),
		metrics.NewMomentum(),
		metrics.NewAngularMomentum(),
	}

	it := world.Integrator
	frameDelta := 1000 / s.FPS
	durationMS := duration * 1000

	samples := make([]export.Sample, 0, int(durationMS/frameDelta)+1)
	energy := make([]float64, 0, cap(samples))
	trails := make([][]vec.Vec2, len(world.Bodies))

	record := func() {
		for _, m := range observers {
			m.Observe(world.Bodies, it.Time())
		}
		samples = append(samples, export.Snapshot(it.Time(), world.Bodies))
		energy = append(energy, it.KineticEnergy())
		for i, b := range world.Bodies {
			trails[i] = append(trails[i], b.Pos)
		}
	}

	record()
	for it.Time() < durationMS {
		it.Step(frameDelta)
		record()
	}

	results := make(map[string]float64, len(observers))
	for _, m := range observers {
		results[m.Name()] = m.Value()
	}

	store := export.NewStore(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(export.RunMetadata{
		Scene:    s.Name,
		StepSize: s.StepSize,
		Duration: durationMS,
		Bodies:   len(world.Bodies),
		Dropped:  it.DroppedTime(),
		Metrics:  results,
	}, samples)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "run\t%s\n", runID)
	fmt.Fprintf(w, "frames\t%d\n", len(samples)-1)
	fmt.Fprintf(w, "sim time\t%.2fs\n", it.Time()/1000)
	fmt.Fprintf(w, "dropped\t%.0fms\n", it.DroppedTime())
	for _, m := range observers {
		fmt.Fprintf(w, "%s\t%.6g\n", m.Name(), results[m.Name()])
	}
	w.Flush()

	if len(energy) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(energy,
			asciigraph.Height(8), asciigraph.Width(64), asciigraph.Caption("kinetic energy")))
	}

	if svgPath != "" {
		if err := writeTrailSVG(svgPath, trails); err != nil {
			return err
		}
		fmt.Printf("\ntrails written to %s\n", svgPath)
	}
	return nil
}

// writeTrailSVG draws every body's full trajectory onto one canvas.
func writeTrailSVG(path string, trails [][]vec.Vec2) error {
	min := vec.New(-1, -1)
	max := vec.New(1, 1)
	first := true
	for _, trail := range trails {
		for _, p := range trail {
			if first {
				min, max = p, p
				first = false
				continue
			}
			if p.X < min.X {
				min.X = p.X
			}
			if p.Y < min.Y {
				min.Y = p.Y
			}
			if p.X > max.X {
				max.X = p.X
			}
			if p.Y > max.Y {
				max.Y = p.Y
			}
		}
	}
	if max.X-min.X < 1 {
		min.X--
		max.X++
	}
	if max.Y-min.Y < 1 {
		min.Y--
		max.Y++
	}

	canvas := viz.NewCanvas(120, 48)
	vp := viz.Viewport{Min: min, Max: max}
	for _, trail := range trails {
		viz.PlotTrail(canvas, vp, trail)
	}
	return export.WriteSVG(path, canvas, 2)
}

func runLive(cmd *cobra.Command, args []string) error {
	s, err := loadScene(args[0])
	if err != nil {
		return err
	}
	if timeScale > 0 {
		s.TimeScale = timeScale
	}
	return tui.Run(s)
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := loadScene(args[0])
	if err != nil {
		return err
	}

	if withStats {
		viewer.SetConfiguration(viewer.WithAddr("localhost:18066"))
		mgr := statsview.New()
		go mgr.Start()
	}

	srv, err := web.NewServer(s)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(addr)
}

func initScene(cmd *cobra.Command, args []string) error {
	s, err := scene.Preset(preset)
	if err != nil {
		return err
	}
	if err := scene.Save(args[0], s); err != nil {
		return err
	}
	fmt.Printf("wrote %s scene to %s\n", s.Name, args[0])
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := export.NewStore(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tBODIES\tDURATION\tDROPPED\tWHEN")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1fs\t%.0fms\t%s\n",
			r.ID, r.Scene, r.Bodies, r.Duration/1000, r.Dropped,
			r.Timestamp.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
