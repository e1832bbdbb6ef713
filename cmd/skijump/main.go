package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/skijump/internal/config"
	"github.com/san-kum/skijump/internal/dynamo"
	"github.com/san-kum/skijump/internal/export"
	"github.com/san-kum/skijump/internal/jump"
	"github.com/san-kum/skijump/internal/logging"
	"github.com/san-kum/skijump/internal/optim"
	"github.com/san-kum/skijump/internal/storage"
	"github.com/san-kum/skijump/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	profileDir string

	configFile string
	preset     string

	slopeAngle   float64
	startPos     float64
	approachLen  float64
	takeoffAngle float64
	fallHeight   float64
	skierParams  []string

	increment float64
	noSave    bool
	asJSON    bool

	axes    []string
	workers int

	outFile string
	svgFile string

	profiler interface{ Stop() }
)

// main registers the commands and exits with status 1 on error. Infeasible
// designs exit with status 2.
func main() {
	rootCmd := &cobra.Command{
		Use:           "skijump",
		Short:         "equivalent fall height ski jump designer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(verbose)
			if err != nil {
				return err
			}
			logging.Set(log)
			if profileDir != "" {
				profiler = profile.Start(profile.CPUProfile, profile.ProfilePath(profileDir), profile.Quiet)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if profiler != nil {
				profiler.Stop()
			}
			_ = logging.L().Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".skijump", "design archive directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&profileDir, "profile", "", "write a cpu profile to this directory")

	designCmd := &cobra.Command{
		Use:   "design",
		Short: "design a jump for a target fall height",
		RunE:  runDesign,
	}
	addDesignFlags(designCmd)
	designCmd.Flags().BoolVar(&noSave, "no-save", false, "do not archive the design")
	designCmd.Flags().BoolVar(&asJSON, "json", false, "print the design as json")

	efhCmd := &cobra.Command{
		Use:   "efh",
		Short: "design a jump and evaluate the fall height along its landing",
		RunE:  runEFH,
	}
	addDesignFlags(efhCmd)
	efhCmd.Flags().Float64Var(&increment, "increment", 0, "spacing of evaluated landing points [m]")

	sweepCmd := &cobra.Command{
		Use:     "sweep",
		Short:   "grid search for the feasible design with the least snow",
		Example: "  skijump sweep --preset small --axis fall_height=0.5:1.5:0.25 --axis takeoff_angle=15,20,25",
		RunE:    runSweep,
	}
	addDesignFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&axes, "axis", nil, "swept parameter, name=lo:hi:step or name=v1,v2")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel designs (default: cpu count)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived designs",
		RunE:  listDesigns,
	}

	showCmd := &cobra.Command{
		Use:   "show [design_id]",
		Short: "show an archived design",
		Args:  cobra.ExactArgs(1),
		RunE:  showDesign,
	}

	exportCmd := &cobra.Command{
		Use:   "export [design_id]",
		Short: "export an archived design as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportDesign,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&svgFile, "svg", "", "also draw the side view to this svg file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list design presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSLOPE\tSTART\tAPPROACH\tTAKEOFF\tFALL")
			for _, name := range config.ListPresets() {
				d := config.Presets[name]
				fmt.Fprintf(w, "%s\t%.1f°\t%.1fm\t%.1fm\t%.1f°\t%.2fm\n",
					name, d.SlopeAngle, d.StartPos, d.ApproachLen, d.TakeoffAngle, d.FallHeight)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(designCmd, efhCmd, sweepCmd, listCmd, showCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, dynamo.ErrInfeasible) {
			fmt.Fprintln(os.Stderr, viz.Status(err))
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addDesignFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file (yaml or hjson)")
	f.StringVar(&preset, "preset", "", "start from a named preset")
	f.Float64Var(&slopeAngle, "slope", config.DefaultSlopeAngle, "parent slope angle [deg]")
	f.Float64Var(&startPos, "start", config.DefaultStartPos, "approach start along the slope [m]")
	f.Float64Var(&approachLen, "approach", config.DefaultApproachLen, "approach length [m]")
	f.Float64Var(&takeoffAngle, "takeoff", config.DefaultTakeoffAngle, "takeoff ramp angle [deg]")
	f.Float64Var(&fallHeight, "fall-height", config.DefaultFallHeight, "equivalent fall height [m]")
	f.StringArrayVar(&skierParams, "skier", nil, "skier parameter override, name=value (e.g. drag_coeff=0.9)")
}

// resolveConfig layers preset, config file and explicitly set flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("slope") {
		cfg.Design.SlopeAngle = slopeAngle
	}
	if flags.Changed("start") {
		cfg.Design.StartPos = startPos
	}
	if flags.Changed("approach") {
		cfg.Design.ApproachLen = approachLen
	}
	if flags.Changed("takeoff") {
		cfg.Design.TakeoffAngle = takeoffAngle
	}
	if flags.Changed("fall-height") {
		cfg.Design.FallHeight = fallHeight
	}
	for _, kv := range skierParams {
		name, val, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid skier parameter %q, want name=value", kv)
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("skier parameter %s: %w", name, err)
		}
		if err := cfg.SetSkierParam(name, v); err != nil {
			return nil, err
		}
	}
	if flags.Lookup("increment") != nil && flags.Changed("increment") {
		cfg.Solver.EFHIncrement = increment
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func makeDesign(cmd *cobra.Command) (*config.Config, *jump.Design, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := signalContext()
	defer cancel()

	d, err := jump.MakeJump(ctx, cfg.Params(), cfg.JumpOptions())
	if err != nil {
		return cfg, nil, err
	}
	return cfg, d, nil
}

func runDesign(cmd *cobra.Command, args []string) error {
	_, d, err := makeDesign(cmd)
	if err != nil {
		return err
	}

	rec := storage.RecordOf(preset, d)
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.SaveRecord(rec)
		if err != nil {
			return err
		}
		logging.L().Info("design archived", zap.String("id", id), zap.String("dir", dataDir))
	}

	if asJSON {
		return storage.ExportJSON(os.Stdout, rec)
	}

	fmt.Println(viz.Status(nil))
	if rec.Meta.ID != "" {
		fmt.Println(viz.Subtle.Render("design id: " + rec.Meta.ID))
	}
	fmt.Println(outputsSummary(d.Params, d.Outputs))
	fmt.Print(viz.Sketch(designSeries(rec), 72, 14))
	return nil
}

func runEFH(cmd *cobra.Command, args []string) error {
	cfg, d, err := makeDesign(cmd)
	if err != nil {
		return err
	}

	efh, err := d.LandingEFH(nil, cfg.Solver.EFHIncrement)
	if err != nil {
		return err
	}

	fmt.Print(viz.EFHChart(efh.X, efh.Height, d.Params.FallHeight, 60, 10))
	fmt.Println()
	fmt.Println(viz.Subtle.Render("efh ") + viz.SparklineChart(efh.Height, 60))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "X [m]\tEFH [m]\tTAKEOFF SPEED [m/s]\t")
	for i := range efh.X {
		fmt.Fprintf(w, "%.2f\t%.3f\t%.2f\t\n", efh.X[i], efh.Height[i], efh.TakeoffSpeed[i])
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(axes) == 0 {
		return fmt.Errorf("at least one --axis is required")
	}

	parsed := make([]optim.Axis, 0, len(axes))
	for _, a := range axes {
		axis, err := optim.ParseAxis(a)
		if err != nil {
			return err
		}
		parsed = append(parsed, axis)
	}

	g := optim.NewGridSearch(cfg.Params(), parsed, cfg.JumpOptions())
	g.SetWorkers(workers)
	fmt.Printf("sweeping %d designs...\n", g.Size())

	ctx, cancel := signalContext()
	defer cancel()

	res, err := g.Search(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLOPE\tSTART\tAPPROACH\tTAKEOFF\tFALL\tSNOW [m²]\tSTATUS")
	for _, pt := range res.Points {
		p := pt.Params
		status, snow := "ok", fmt.Sprintf("%.1f", pt.Outputs.SnowBudget)
		if !pt.Feasible() {
			status, snow = pt.Err.Error(), "-"
		}
		fmt.Fprintf(w, "%.1f\t%.1f\t%.1f\t%.1f\t%.2f\t%s\t%s\n",
			p.SlopeAngle, p.StartPos, p.ApproachLen, p.TakeoffAngle, p.FallHeight, snow, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d of %d designs infeasible\n", res.Infeasible, len(res.Points))
	if res.Best == nil {
		return dynamo.Infeasible("no feasible design in the grid")
	}
	fmt.Println(outputsSummary(res.Best.Params, res.Best.Outputs))
	return nil
}

func listDesigns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	designs, err := st.List()
	if err != nil {
		return err
	}

	if len(designs) == 0 {
		fmt.Println("no designs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tSLOPE\tTAKEOFF\tFALL\tSNOW [m²]")
	for _, d := range designs {
		name := d.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f°\t%.1f°\t%.2fm\t%.1f\n",
			d.ID,
			name,
			d.Timestamp.Format("2006-01-02 15:04:05"),
			d.Params.SlopeAngle,
			d.Params.TakeoffAngle,
			d.Params.FallHeight,
			d.Outputs.SnowBudget,
		)
	}
	return w.Flush()
}

func showDesign(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	rec, err := st.LoadRecord(args[0])
	if err != nil {
		return err
	}

	fmt.Println(outputsSummary(rec.Meta.Params, rec.Meta.Outputs))
	fmt.Print(viz.Sketch(designSeries(rec), 72, 14))
	fmt.Println(viz.Separator(72))
	fmt.Print(viz.SeriesChart(flightSpeed(rec), "flight speed [m/s]", 60, 6))
	return nil
}

func exportDesign(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	rec, err := st.LoadRecord(args[0])
	if err != nil {
		return err
	}
	if svgFile != "" {
		svg := export.SideView(designSeries(rec), 1200)
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return err
		}
	}
	if outFile != "" {
		if err := storage.ExportFile(outFile, rec); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", outFile)
		return nil
	}
	return storage.ExportJSON(os.Stdout, rec)
}
