package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/combustlab/internal/config"
	"github.com/san-kum/combustlab/internal/logging"
	"github.com/san-kum/combustlab/internal/mixture"
	"github.com/san-kum/combustlab/internal/storage"
	"github.com/san-kum/combustlab/internal/testmatrix"
	"github.com/san-kum/combustlab/internal/units"
	"github.com/san-kum/combustlab/internal/viz"
)

func generateMatrix(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log)
	defer func() { _ = logger.Sync() }()

	tm, err := testmatrix.New(cfg.Params(), testmatrix.WithLogger(logger))
	if err != nil {
		return err
	}

	start := time.Now()
	reps, err := tm.GenerateTestMatrices()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st, err := storage.NewStore(cfg.Store.Kind, cfg.Store.Path, storage.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() { _ = storage.CloseIfSupported(st) }()
	if err := st.Init(ctx); err != nil {
		return err
	}
	if err := tm.Save(ctx, st); err != nil {
		return err
	}
	logger.Info("saved test matrix",
		logging.String("matrix_id", tm.ID()),
		logging.String("store", cfg.Store.Kind),
		logging.String("path", cfg.Store.Path),
		logging.Duration("elapsed", time.Since(start)),
	)

	// keep stdout clean when the matrix itself is going there
	var out io.Writer = os.Stdout
	if cfg.Store.Kind == "json" && (cfg.Store.Path == "" || cfg.Store.Path == "-") {
		out = os.Stderr
	}
	fmt.Fprintln(out, viz.SummaryLine(tm.Summary()))
	if show {
		theme := viz.GetTheme(themeName)
		for i, rep := range reps {
			fmt.Fprintf(out, "\nreplicate %d\n", i+1)
			fmt.Fprintln(out, viz.ConditionTable(rep, theme))
		}
	}
	return nil
}

func newMixture(phi, fraction float64) (*mixture.Mixture, error) {
	opts := []mixture.Option{mixture.WithEquivalence(phi)}
	if fraction > 0 {
		opts = append(opts, mixture.WithDiluent(diluent, fraction))
	}
	return mixture.New(fuel, oxidizer, opts...)
}

func showMixture(cmd *cobra.Command, args []string) error {
	m, err := newMixture(phi, mixDiluentFrc)
	if err != nil {
		return err
	}
	p := units.Q(pressure, pressureUnit)
	t := units.Q(temperature, tempUnit)

	state, err := m.State(t, p)
	if err != nil {
		return err
	}
	mass, err := m.GetMass()
	if err != nil {
		return err
	}
	partial, err := m.GetPressures(p)
	if err != nil {
		return err
	}

	ctx := context.Background()
	flame, err := mixture.CalculateLaminarFlameSpeed(ctx, m, t, p)
	if err != nil {
		return err
	}
	sound, err := mixture.CalculateEqSoundSpeed(ctx, m, t, p)
	if err != nil {
		return err
	}

	summary := viz.MixtureSummary{
		Fuel:             m.Fuel(),
		Oxidizer:         m.Oxidizer(),
		Equivalence:      m.Equivalence(),
		Temperature:      state.Temperature,
		Pressure:         state.Pressure,
		MoleFractions:    m.MoleFractions(),
		MassFractions:    mass,
		PartialPressures: partial,
		FlameSpeed:       flame,
		SoundSpeed:       sound,
	}
	if d := m.Diluted(); d != nil {
		summary.Diluent = d.Species
	}
	fmt.Print(viz.MixtureReport(summary, viz.GetTheme(themeName)))
	return nil
}

func sweepFlameSpeed(cmd *cobra.Command, args []string) error {
	if steps < 2 {
		return fmt.Errorf("steps must be at least 2, got %d", steps)
	}
	if phiFrom <= 0 || phiTo <= phiFrom {
		return fmt.Errorf("need 0 < from < to, got %g and %g", phiFrom, phiTo)
	}
	p := units.Q(pressure, pressureUnit)
	t := units.Q(temperature, tempUnit)

	ctx := context.Background()
	phis := make([]float64, steps)
	speeds := make([]float64, steps)
	for i := range phis {
		phis[i] = phiFrom + (phiTo-phiFrom)*float64(i)/float64(steps-1)
		m, err := newMixture(phis[i], mixDiluentFrc)
		if err != nil {
			return err
		}
		speeds[i], err = mixture.CalculateLaminarFlameSpeed(ctx, m, t, p)
		if err != nil {
			return err
		}
	}

	fmt.Printf("%s/%s laminar flame speed at %s, %s\n\n", fuel, oxidizer, t, p)
	fmt.Println(viz.SweepPlot(phis, speeds, plotWidth, plotHeight))
	return nil
}

// openCatalog opens the configured store for reading. Flags win over
// COMBUSTLAB_STORE_* settings.
func openCatalog(cmd *cobra.Command) (storage.Store, storage.Catalog, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, nil, err
	}
	kind, path := cfg.Store.Kind, cfg.Store.Path
	if cmd.Flags().Changed("store") {
		kind = storeKind
	}
	if cmd.Flags().Changed("data") {
		path = dataDir
	}

	st, err := storage.NewStore(kind, path)
	if err != nil {
		return nil, nil, err
	}
	cat, ok := st.(storage.Catalog)
	if !ok {
		return nil, nil, fmt.Errorf("%s store cannot read matrices back", kind)
	}
	if err := st.Init(cmd.Context()); err != nil {
		return nil, nil, err
	}
	return st, cat, nil
}

func listMatrices(cmd *cobra.Command, args []string) error {
	st, cat, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = storage.CloseIfSupported(st) }()

	matrices, err := cat.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(matrices) == 0 {
		fmt.Println("no matrices found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFUEL\tOXID\tDIL\tCOND\tREPS\tSEED\tCREATED")
	for _, m := range matrices {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			m.ID,
			m.Fuel,
			m.Oxidizer,
			m.Diluent,
			m.NumConditions,
			m.NumReplicates,
			m.Seed,
			m.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		)
	}
	return w.Flush()
}

func loadReplicates(ctx context.Context, cat storage.Catalog, id string) (*storage.Metadata, [][]testmatrix.Condition, error) {
	meta, err := cat.Load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	reps := make([][]testmatrix.Condition, meta.NumReplicates)
	for i := range reps {
		reps[i], err = cat.LoadReplicate(ctx, id, i+1)
		if err != nil {
			return nil, nil, err
		}
	}
	return meta, reps, nil
}

func viewMatrix(cmd *cobra.Command, args []string) error {
	st, cat, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = storage.CloseIfSupported(st) }()

	ctx := cmd.Context()
	id := args[0]
	theme := viz.GetTheme(themeName)

	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("replicate must be a number: %w", err)
		}
		rep, err := cat.LoadReplicate(ctx, id, n)
		if err != nil {
			return err
		}
		fmt.Println(viz.ConditionTable(rep, theme))
		return nil
	}

	meta, reps, err := loadReplicates(ctx, cat, id)
	if err != nil {
		return err
	}
	p := tea.NewProgram(viz.NewBrowser(meta.Summary, reps).WithTheme(theme), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func exportMatrix(cmd *cobra.Command, args []string) error {
	st, cat, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = storage.CloseIfSupported(st) }()

	ctx := cmd.Context()
	meta, reps, err := loadReplicates(ctx, cat, args[0])
	if err != nil {
		return err
	}
	snap := testmatrix.Snapshot{
		ID:         meta.ID,
		CreatedAt:  meta.CreatedAt,
		Summary:    meta.Summary,
		Replicates: reps,
	}
	return storage.NewJSONStore(outPath).WriteMatrix(ctx, snap)
}
