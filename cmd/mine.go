package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"coverage-miner/internal/archive"
	"coverage-miner/internal/buildsys"
	"coverage-miner/internal/database"
	"coverage-miner/internal/model"
	"coverage-miner/internal/repository"
	"coverage-miner/internal/scanner"
	"coverage-miner/internal/service"
	"coverage-miner/internal/vcs"
)

func newMineCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mine INPUT_CSV",
		Short: "clone, build and harvest covered methods of every repository in INPUT_CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()
			return a.mine(cmd, args[0])
		},
	}
}

func (a *app) mine(cmd *cobra.Command, inputCSV string) error {
	ledger, err := a.ledger()
	if err != nil {
		return err
	}
	defer func() {
		if err := ledger.Close(); err != nil {
			a.logger.Error("failed to close ledgers: %v", err)
		}
	}()

	store, err := a.archiveStore()
	if err != nil {
		return err
	}

	cloner := vcs.NewCloner(vcs.Options{
		Host:            a.cfg.Git.Host,
		Token:           a.cfg.Git.Token,
		Timeout:         a.cfg.Git.CloneTimeout.Duration,
		ClonesPerMinute: a.cfg.Git.ClonesPerMinute,
	}, a.logger)
	adapter := a.buildAdapter()

	miningService, err := service.NewMiningService(a.cfg, cloner, adapter, store, ledger, model.NewSequence(0), a.metrics, a.logger)
	if err != nil {
		return err
	}

	a.startMetrics()
	report, err := miningService.MineAll(cmd.Context(), inputCSV)
	if report != nil {
		printMiningReport(cmd, report)
	}
	return err
}

// ledger always writes the CSV files and mirrors them into SQLite when the database is enabled.
func (a *app) ledger() (repository.Ledger, error) {
	ledgers := []repository.Ledger{repository.NewCSVLedger(a.cfg.Paths.ResourcesDir, a.logger)}
	if a.cfg.Database.Enabled {
		dbManager := database.NewSQLiteManager(&a.cfg.Database, a.logger)
		if err := dbManager.Initialize(); err != nil {
			return nil, fmt.Errorf("failed to initialize database manager: %w", err)
		}
		ledgers = append(ledgers, repository.NewSQLiteLedger(dbManager, a.logger))
	}
	return repository.NewMultiLedger(ledgers...), nil
}

func (a *app) archiveStore() (archive.Store, error) {
	sc := scanner.NewFileScanner(a.logger, a.cfg.Archive.IgnorePatterns...)
	local := archive.NewLocalStore(a.cfg.Paths.ResourcesDir, sc, a.logger)

	s3 := a.cfg.Archive.S3
	if !s3.Enabled {
		return local, nil
	}
	remote, err := archive.NewS3Store(archive.S3Config{
		Endpoint:  s3.Endpoint,
		Region:    s3.Region,
		AccessKey: s3.AccessKey,
		SecretKey: s3.SecretKey,
		Bucket:    s3.Bucket,
		Prefix:    s3.Prefix,
		UseSSL:    s3.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize archive mirror: %w", err)
	}
	a.logger.Info("mirroring archives to bucket %s", s3.Bucket)
	return archive.NewMirroredStore(local, remote, a.logger), nil
}

func (a *app) buildAdapter() *buildsys.Adapter {
	builder := buildsys.NewBuilder(buildsys.Executables{
		Maven:  a.cfg.Build.Maven,
		Gradle: a.cfg.Build.Gradle,
	}, a.logger)
	return buildsys.NewAdapter(scanner.NewFileScanner(a.logger), builder, a.cfg.Build.Timeout.Duration, a.logger)
}

func printMiningReport(cmd *cobra.Command, report *service.MiningReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Mined %d repositories: %d succeeded, %d methods harvested\n",
		report.Repositories, report.Succeeded, report.Methods)

	statuses := make([]string, 0, len(report.ByStatus))
	for status := range report.ByStatus {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		fmt.Fprintf(out, "\t%-16s %d\n", status, report.ByStatus[status])
	}
}
