package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"coverage-miner/internal/config"
	"coverage-miner/internal/metrics"
	"coverage-miner/internal/service"
	"coverage-miner/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	root := newRootCmd()

	for _, flag := range []string{"config", "loglevel", "metrics-addr"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}

	mine, _, err := root.Find([]string{"mine"})
	require.NoError(t, err)
	assert.Equal(t, "mine", mine.Name())

	verify, _, err := root.Find([]string{"verify"})
	require.NoError(t, err)
	assert.Equal(t, "csv", verify.Flags().Lookup("source").DefValue)

	root.SetArgs([]string{"verify", "only-one-arg"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	assert.Error(t, root.Execute())
}

func newTestApp(t *testing.T) *app {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Paths.ResourcesDir = t.TempDir()
	cfg.Database = *config.DefaultDatabaseConfig(cfg.Paths.ResourcesDir)
	return &app{cfg: cfg, logger: logger.NewNopLogger(), metrics: metrics.New()}
}

func TestTraceLookupSources(t *testing.T) {
	a := newTestApp(t)

	_, _, err := a.traceLookup("parquet")
	assert.Error(t, err)

	// csv needs the ledgers of a previous mining run
	_, _, err = a.traceLookup(lookupCSV)
	assert.Error(t, err)

	ledger, err := a.ledger()
	require.NoError(t, err)
	require.NoError(t, ledger.Reset())
	require.NoError(t, ledger.Close())

	lookup, closeLookup, err := a.traceLookup(lookupCSV)
	require.NoError(t, err)
	assert.NotNil(t, lookup)
	closeLookup()

	lookup, closeLookup, err = a.traceLookup(lookupSQLite)
	require.NoError(t, err)
	assert.NotNil(t, lookup)
	closeLookup()
	assert.FileExists(t, filepath.Join(a.cfg.Paths.ResourcesDir, "miner.db"))
}

func TestArchiveStoreRejectsIncompleteMirror(t *testing.T) {
	a := newTestApp(t)
	a.cfg.Archive.S3.Enabled = true
	a.cfg.Archive.S3.Endpoint = "localhost:9000"
	a.cfg.Archive.S3.Bucket = "archives"

	_, err := a.archiveStore()
	assert.Error(t, err, "credentials are required")

	a.cfg.Archive.S3.Enabled = false
	_, err = a.archiveStore()
	assert.NoError(t, err)
}

func TestPrintMiningReport(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	printMiningReport(cmd, &service.MiningReport{
		Repositories: 3,
		Succeeded:    1,
		Methods:      12,
		ByStatus:     map[string]int{"success": 1, "clone_timeout": 2},
	})
	assert.Equal(t, "Mined 3 repositories: 1 succeeded, 12 methods harvested\n"+
		"\tclone_timeout    2\n"+
		"\tsuccess          1\n", out.String())
}
