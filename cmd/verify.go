package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"coverage-miner/internal/database"
	"coverage-miner/internal/repository"
	"coverage-miner/internal/service"
)

const (
	lookupCSV    = "csv"
	lookupSQLite = "sqlite"
)

func newVerifyCmd(opts *rootOptions) *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "verify PREDICTIONS_CSV OUTPUT_DIR",
		Short: "rebuild mined repositories with predicted methods and report test integrity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()
			return a.verify(cmd, source, args[0], args[1])
		},
	}
	cmd.Flags().StringVar(&source, "source", lookupCSV, "where to look up mined methods (csv, sqlite)")
	return cmd
}

func (a *app) verify(cmd *cobra.Command, source, predictionsCSV, outputDir string) error {
	lookup, closeLookup, err := a.traceLookup(source)
	if err != nil {
		return err
	}
	defer closeLookup()

	store, err := a.archiveStore()
	if err != nil {
		return err
	}
	verifier := service.NewVerifierService(a.cfg, store, a.buildAdapter(), a.logger)
	evaluation := service.NewEvaluationService(verifier, lookup, a.metrics, a.logger)

	a.startMetrics()
	report, err := evaluation.VerifyPredictions(cmd.Context(), predictionsCSV, outputDir)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), report.Format())
	return nil
}

func (a *app) traceLookup(source string) (repository.TraceLookup, func(), error) {
	switch source {
	case lookupCSV:
		lookup, err := repository.LoadCSVTraceLookup(a.cfg.Paths.ResourcesDir)
		if err != nil {
			return nil, nil, err
		}
		return lookup, func() {}, nil
	case lookupSQLite:
		dbManager := database.NewSQLiteManager(&a.cfg.Database, a.logger)
		if err := dbManager.Initialize(); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database manager: %w", err)
		}
		ledger := repository.NewSQLiteLedger(dbManager, a.logger)
		return ledger, func() {
			if err := ledger.Close(); err != nil {
				a.logger.Error("failed to close database: %v", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown lookup source %q, expected %s or %s", source, lookupCSV, lookupSQLite)
	}
}
