package config

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, cnf Configuration) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "sitefix*.json")
	require.NoError(t, err)
	require.NoError(t, json.NewEncoder(f).Encode(&cnf))
	require.NoError(t, f.Close())
	return f.Name()
}

func TestInitConfig_FromFile(t *testing.T) {
	path := writeTempConfig(t, Configuration{
		ProjectName: "Test Sitefix",
		DataSource:  DataSourceConfig{Dns: "postgres://localhost:5432/sitefix"},
	})

	err := InitConfig(path)
	require.NoError(t, err)

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "Test Sitefix", cnf.ProjectName)
	assert.Equal(t, DEFAULT_PORT, cnf.Server.Port)
	assert.Equal(t, DEFAULT_POLL_INTERVAL_SEC, cnf.Worker.PollIntervalSec)
	assert.Equal(t, DEFAULT_CLAIM_BATCH_SIZE, cnf.Worker.ClaimBatchSize)
}

func TestInitConfig_MissingDataSource(t *testing.T) {
	path := writeTempConfig(t, Configuration{ProjectName: "Test Sitefix"})

	err := InitConfig(path)
	assert.Error(t, err)
}

func TestInitConfig_TickLockRequiresRedis(t *testing.T) {
	path := writeTempConfig(t, Configuration{
		DataSource: DataSourceConfig{Dns: "postgres://localhost:5432/sitefix"},
		Worker:     WorkerConfig{TickLock: true},
	})

	err := InitConfig(path)
	assert.Error(t, err)
}

func TestInitConfig_EnvOverride(t *testing.T) {
	t.Setenv("SITEFIX_SERVER_PORT", "6011")
	path := writeTempConfig(t, Configuration{
		DataSource: DataSourceConfig{Dns: "postgres://localhost:5432/sitefix"},
	})

	err := InitConfig(path)
	require.NoError(t, err)

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "6011", cnf.Server.Port)
}

func TestMockConfig(t *testing.T) {
	MockConfig(&Configuration{
		DataSource: DataSourceConfig{Dns: "postgres://localhost:5432/sitefix"},
		Worker:     WorkerConfig{PollIntervalSec: 1, ClaimBatchSize: 5},
	})

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, 1, cnf.Worker.PollIntervalSec)
	assert.Equal(t, 5, cnf.Worker.ClaimBatchSize)
}
