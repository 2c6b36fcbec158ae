package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092 , ,b:9092"))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("POS_TEST_STR", "value")
	t.Setenv("POS_TEST_INT", "42")
	t.Setenv("POS_TEST_BAD_INT", "x")

	assert.Equal(t, "value", EnvDefault("POS_TEST_STR", "def"))
	assert.Equal(t, "def", EnvDefault("POS_TEST_MISSING", "def"))
	assert.Equal(t, 42, EnvIntDefault("POS_TEST_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("POS_TEST_BAD_INT", 1))
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("POS_DB_PATH=/tmp/from-file.db\nKAFKA_BROKERS=k1:9092,k2:9092\nPASSWORD_PEPPER=from-file\n"), 0o600))

	t.Setenv("LOG_LEVEL", "warn")
	os.Unsetenv("POS_DB_PATH")
	os.Unsetenv("KAFKA_BROKERS")
	unsetPepper(t)
	t.Cleanup(func() {
		os.Unsetenv("POS_DB_PATH")
		os.Unsetenv("KAFKA_BROKERS")
		os.Unsetenv("PASSWORD_PEPPER")
	})

	cfg := Load(envFile)

	assert.Equal(t, "/tmp/from-file.db", cfg.DBPath)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "pos_events", cfg.EventsTopic)
	assert.Equal(t, 10, cfg.DefaultPageSize)
	assert.Equal(t, "from-file", cfg.PasswordPepper)
	require.NoError(t, cfg.Validate())
}

func unsetPepper(t *testing.T) {
	t.Helper()
	t.Setenv("PASSWORD_PEPPER", "")
	os.Unsetenv("PASSWORD_PEPPER")
}

func TestLoad_PepperHasNoDefault(t *testing.T) {
	unsetPepper(t)

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Empty(t, cfg.PasswordPepper)
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PASSWORD_PEPPER")
}

func TestValidate(t *testing.T) {
	cfg := Config{DBPath: "x.db", PasswordPepper: "p"}
	require.NoError(t, cfg.Validate())

	cfg.DBPath = ""
	assert.Error(t, cfg.Validate())

	cfg = Config{DBPath: "x.db", PasswordPepper: "p", KafkaBrokers: []string{"k:9092"}}
	assert.Error(t, cfg.Validate())
}
