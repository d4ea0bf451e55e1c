package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, k := range []string{"APP_ENV", "HTTP_ADDR", "PORT", "DATASET_SOURCE", "REDIS_ADDR", "CACHE_TTL_SECONDS", "SUBMIT_RPS"} {
		t.Setenv(k, "")
	}

	c := Load()
	assert.Equal(t, "prod", c.AppEnv)
	assert.Equal(t, ":8000", c.HTTPAddr)
	assert.Equal(t, "csv", c.DatasetSource)
	assert.Equal(t, "data/reviews.csv", c.DatasetPath)
	assert.Empty(t, c.RedisAddr)
	assert.Equal(t, 5*time.Minute, c.CacheTTL)
	assert.Equal(t, 50.0, c.SubmitRPS)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "9090")
	t.Setenv("DATASET_SOURCE", "MySQL")
	t.Setenv("LOAD_WORKERS", "not-a-number")
	t.Setenv("SUBMIT_RPS", "2.5")

	c := Load()
	assert.Equal(t, ":9090", c.HTTPAddr)
	assert.Equal(t, "mysql", c.DatasetSource)
	assert.Equal(t, 8, c.LoadWorkers)
	assert.Equal(t, 2.5, c.SubmitRPS)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REDIS_ADDR=cache:6379\nAPP_ENV=dev\n"), 0o600))
	t.Setenv("APP_ENV", "staging")
	t.Setenv("REDIS_ADDR", "")
	require.NoError(t, os.Unsetenv("REDIS_ADDR"))

	c := Load()
	assert.Equal(t, "cache:6379", c.RedisAddr, ".env fills unset keys")
	assert.Equal(t, "staging", c.AppEnv, "real environment wins over .env")
	require.NoError(t, os.Unsetenv("REDIS_ADDR"))
}
