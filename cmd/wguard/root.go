package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lcalzada-xor/wguard/internal/adapters/fingerprint"
	"github.com/lcalzada-xor/wguard/internal/adapters/storage"
	"github.com/lcalzada-xor/wguard/internal/config"
	"github.com/lcalzada-xor/wguard/internal/core/ports"
	"github.com/lcalzada-xor/wguard/internal/core/services/change"
	"github.com/lcalzada-xor/wguard/internal/core/services/session"
	"github.com/lcalzada-xor/wguard/internal/core/services/threat"
	"github.com/lcalzada-xor/wguard/internal/geo"
	"github.com/lcalzada-xor/wguard/internal/telemetry"
)

// app holds the wiring shared by every command.
type app struct {
	configPath string
	cfg        *config.Config

	store    *storage.FileScanStore
	db       *storage.SQLiteStore
	resolver *fingerprint.Resolver
	ui       *ui

	shutdownTracer func(context.Context) error
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:   "wguard",
		Short: "Wi-Fi scan threat and change analysis",
		Long: `wguard tags the networks of a Wi-Fi scan with heuristic threat indicators,
keeps a bounded scan history and reports security-relevant changes across scans
(downgrades, channel shifts, new BSSIDs for known SSIDs, networks that follow you).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return telemetry.WriteTextfile(a.cfg.MetricsFile)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Path to YAML config file")
	pf.String("data-dir", "", "Directory for the scan store, OUI cache and database")
	pf.String("store", "", "Path to the scan history JSON file")
	pf.Int("max-records", 0, "Maximum number of scan records kept")
	pf.String("db", "", "Path to SQLite database")
	pf.String("oui-cache", "", "Path to the OUI cache file")
	pf.Float64("lat", 0, "Static latitude stamped on scans without GPS")
	pf.Float64("lng", 0, "Static longitude stamped on scans without GPS")
	pf.Bool("debug", false, "Enable verbose debug logging")
	pf.Bool("trace", false, "Print OpenTelemetry spans to stderr")
	pf.String("metrics-file", "", "Write Prometheus metrics to this textfile on exit")

	root.AddCommand(
		scanCmd(a),
		historyCmd(a),
		changesCmd(a),
		importCmd(a),
		ouiCmd(a),
		pinCmd(a),
		cellsCmd(a),
		reportCmd(a),
	)
	return root, a
}

// setup loads configuration, installs logging and tracing and builds the stores.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Resolve(); err != nil {
		return err
	}
	a.cfg = cfg

	// Setup Structured Logging
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if cfg.Trace {
		shutdown, err := telemetry.InitTracer(cmd.ErrOrStderr(), version)
		if err != nil {
			slog.Error("Failed to init tracer", "error", err)
		} else {
			a.shutdownTracer = shutdown
		}
	}
	telemetry.InitMetrics()

	a.ui = newUI(cmd.OutOrStdout())
	a.store = storage.NewFileScanStore(cfg.StorePath, cfg.MaxRecords)
	a.resolver = fingerprint.NewResolver(cfg.OUICachePath)

	slog.Debug("Configuration loaded",
		"store", cfg.StorePath,
		"db", cfg.DBPath,
		"oui_cache", cfg.OUICachePath,
		"max_records", cfg.MaxRecords,
	)
	return nil
}

// applyFlags overlays the persistent flags the user actually set.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error
	set := func(name string, apply func()) {
		if err == nil && flags.Changed(name) {
			apply()
		}
	}

	set("data-dir", func() { cfg.DataDir, err = flags.GetString("data-dir") })
	set("store", func() { cfg.StorePath, err = flags.GetString("store") })
	set("max-records", func() { cfg.MaxRecords, err = flags.GetInt("max-records") })
	set("db", func() { cfg.DBPath, err = flags.GetString("db") })
	set("oui-cache", func() { cfg.OUICachePath, err = flags.GetString("oui-cache") })
	set("lat", func() { cfg.Latitude, err = flags.GetFloat64("lat") })
	set("lng", func() { cfg.Longitude, err = flags.GetFloat64("lng") })
	set("debug", func() { cfg.Debug, err = flags.GetBool("debug") })
	set("trace", func() { cfg.Trace, err = flags.GetBool("trace") })
	set("metrics-file", func() { cfg.MetricsFile, err = flags.GetString("metrics-file") })
	if err != nil {
		return fmt.Errorf("read flags: %w", err)
	}
	return nil
}

// sqlite opens the database on first use.
func (a *app) sqlite() (*storage.SQLiteStore, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := storage.NewSQLiteStore(a.cfg.DBPath)
	if err != nil {
		return nil, err
	}
	a.db = db
	return db, nil
}

// newSession builds the scan session service. cells may be nil.
func (a *app) newSession(cells ports.CellTowerStore) *session.Service {
	opts := []session.Option{}
	if cells != nil {
		opts = append(opts, session.WithCellStore(cells))
	}
	if a.cfg.HasLocation() {
		opts = append(opts, session.WithLocation(geo.NewStaticProvider(a.cfg.Latitude, a.cfg.Longitude)))
	}
	return session.NewService(
		a.store,
		threat.NewAnalyzer(a.cfg.ThreatConfig(), ports.SystemClock{}),
		change.NewAnalyzer(a.cfg.ChangeConfig()),
		opts...,
	)
}

// pinnedSet returns the pinned BSSIDs, or nil when the database is unavailable.
func (a *app) pinnedSet(ctx context.Context) map[string]struct{} {
	db, err := a.sqlite()
	if err != nil {
		slog.Warn("Pinned networks unavailable", "error", err)
		return nil
	}
	pins, err := db.ListPinned(ctx)
	if err != nil {
		slog.Warn("Pinned networks unavailable", "error", err)
		return nil
	}
	set := make(map[string]struct{}, len(pins))
	for _, p := range pins {
		set[p.BSSID] = struct{}{}
	}
	return set
}

func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}
	if a.shutdownTracer != nil {
		if err := a.shutdownTracer(context.Background()); err != nil {
			slog.Error("Failed to shutdown tracer", "error", err)
		}
	}
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
