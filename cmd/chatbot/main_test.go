package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katakuxiko/agentchat/internal/config"
	"github.com/katakuxiko/agentchat/internal/store"
)

func setEnv(t *testing.T, dbPath string) {
	t.Helper()
	t.Setenv("ENV", "test")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SALES_DB_DRIVER", "sqlite3")
	t.Setenv("SALES_DB_PATH", dbPath)
	t.Setenv("SALES_DB_DSN", "")
	t.Setenv("CHUNK_SIZE", "")
	t.Setenv("CHUNK_OVERLAP", "")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInitDB_CreatesSalesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.db")
	setEnv(t, path)

	out, err := run(t, "init-db")
	require.NoError(t, err)
	require.Contains(t, out, "inserted 5 sales records")

	// running it twice resets to the same state
	_, err = run(t, "init-db")
	require.NoError(t, err)

	db, err := store.OpenSalesDB(context.Background(), store.DriverSQLite, store.SQLiteDSN(path, true))
	require.NoError(t, err)
	defer db.Close()
	res, err := db.Query(context.Background(), "SELECT COUNT(*) FROM regions")
	require.NoError(t, err)
	require.Equal(t, "4", res.Rows[0][0])
	res, err = db.Query(context.Background(), "SELECT COUNT(*) FROM sales")
	require.NoError(t, err)
	require.Equal(t, "5", res.Rows[0][0], "the printed count is the sales rows")
}

func TestInitDB_InvalidConfig(t *testing.T) {
	setEnv(t, filepath.Join(t.TempDir(), "sales.db"))
	t.Setenv("SALES_DB_DRIVER", "mysql")

	_, err := run(t, "init-db")
	require.ErrorContains(t, err, "SALES_DB_DRIVER")
}

func TestAsk_RequiresQuestion(t *testing.T) {
	_, err := run(t, "ask")
	require.Error(t, err)
}

func TestAsk_FailsWithoutSalesDatabase(t *testing.T) {
	setEnv(t, filepath.Join(t.TempDir(), "missing.db"))

	_, err := run(t, "ask", "what", "were", "total", "sales?")
	require.ErrorContains(t, err, "run init-db first")
}

func TestSalesDSN(t *testing.T) {
	cfg := &config.Config{SalesDBPath: "sales.db"}
	require.Equal(t, "file:sales.db?mode=ro&_foreign_keys=on", salesDSN(cfg, true))
	require.Equal(t, "file:sales.db?_foreign_keys=on", salesDSN(cfg, false))

	cfg.SalesDBDSN = "postgres://localhost/sales"
	require.Equal(t, "postgres://localhost/sales", salesDSN(cfg, true))
}
