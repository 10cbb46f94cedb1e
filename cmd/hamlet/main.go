package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"hamlet/adapters/catalog"
	"hamlet/adapters/export"
	"hamlet/adapters/postgres"
	"hamlet/domain/seismicity"
	"hamlet/internal"
	"hamlet/internal/bins"
	"hamlet/internal/config"
	"hamlet/internal/engine"
	"hamlet/internal/report"
	"hamlet/internal/rng"
	"hamlet/internal/server"
	"hamlet/ports"
)

func main() {
	// Env file is optional; real env vars win either way.
	godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "hamlet",
		Short: "Evaluate seismic source models against observed earthquake catalogs",
	}

	rootCmd.AddCommand(newRunCmd(), newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <config.yaml>",
		Short: "Run the configured evaluations and write outputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			return runEvaluation(cmd.Context(), cfg)
		},
	}
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve <report-dir>",
		Short: "Serve generated reports for local viewing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			internal.DefaultLogger.Info("serving %s on %s", args[0], addr)
			return server.Serve(addr, args[0])
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func runEvaluation(ctx context.Context, cfg *config.Config) error {
	log := internal.DefaultLogger

	var rngf ports.RNG
	if cfg.Run.RandSeed != 0 {
		rngf = rng.NewSeeded(cfg.Run.RandSeed)
	} else {
		rngf = rng.NewFromClock()
	}

	col, err := loadInputs(ctx, cfg, log)
	if err != nil {
		return err
	}

	eng := engine.New(cfg, rngf, log)
	if err := eng.LoadBins(col); err != nil {
		return err
	}
	if err := eng.Score(ctx); err != nil {
		return err
	}
	if err := writeOutputs(ctx, cfg, eng, log); err != nil {
		return err
	}
	return eng.MarkReported()
}

func loadInputs(ctx context.Context, cfg *config.Config, log *internal.Logger) (col *bins.Collection, err error) {
	binning, err := seismicity.NewMagBinning(cfg.Bins.MinMag, cfg.Bins.MaxMag, cfg.Bins.BinWidth)
	if err != nil {
		return nil, err
	}

	log.Info("loading ruptures from %s", cfg.Input.RuptureFile)
	rupSrc := &catalog.RuptureFile{Path: cfg.Input.RuptureFile}
	ruptures, err := rupSrc.Ruptures(ctx)
	if err != nil {
		return nil, err
	}

	log.Info("loading observed catalog from %s", cfg.Input.CatalogFile)
	eqSrc := &catalog.EarthquakeFile{Path: cfg.Input.CatalogFile}
	observed, err := eqSrc.Earthquakes(ctx)
	if err != nil {
		return nil, err
	}

	var prospective []ports.BinnedEarthquake
	if cfg.HasProspective() {
		log.Info("loading prospective catalog from %s", cfg.Input.ProspectiveCatalogFile)
		proSrc := &catalog.EarthquakeFile{Path: cfg.Input.ProspectiveCatalogFile}
		if prospective, err = proSrc.Earthquakes(ctx); err != nil {
			return nil, err
		}
	}

	return catalog.AssembleBins(binning, ruptures, observed, prospective, log)
}

func writeOutputs(ctx context.Context, cfg *config.Config, eng *engine.Engine, log *internal.Logger) error {
	col := eng.Collection()

	if cfg.Output.BinFile != "" {
		log.Info("writing bin table to %s", cfg.Output.BinFile)
		if err := export.WriteBinTable(cfg.Output.BinFile, col); err != nil {
			return err
		}
	}

	if cfg.Tests.ModelMFD.OutFile != "" && eng.MFDComparison() != nil {
		log.Info("writing MFD comparison to %s", cfg.Tests.ModelMFD.OutFile)
		if err := export.WriteMFDComparison(cfg.Tests.ModelMFD.OutFile, eng.MFDComparison()); err != nil {
			return err
		}
	}

	if cfg.Output.DatabaseURL != "" {
		log.Info("persisting results")
		db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Output.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		repo := postgres.NewResultRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := repo.SaveRun(ctx, eng.RunRecord()); err != nil {
			return err
		}
	}

	if cfg.Report.HTMLFile != "" {
		log.Info("writing report to %s", cfg.Report.HTMLFile)
		summary, err := report.Describe(col.LogLikes())
		if err != nil {
			return err
		}
		data := report.Data{
			Title:   cfg.Report.Title,
			RunID:   eng.RunID(),
			Method:  cfg.Tests.Likelihood.Method,
			NumBins: col.Len(),
			LogLike: summary,
			MFD:     eng.MFDComparison(),
		}
		if err := report.WriteHTML(cfg.Report.HTMLFile, data); err != nil {
			return err
		}
	}
	return nil
}
