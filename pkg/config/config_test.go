package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Resolve("")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 3306, cfg.DB.Port)
	assert.Equal(t, "root", cfg.DB.User)
	assert.Equal(t, "", cfg.DB.Password)
	assert.Equal(t, "ops_portfolio", cfg.DB.Database)
	assert.Equal(t, "./output", cfg.OutputDir)
}

func TestResolveEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "warehouse.internal")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_USER", "analytics_ro")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("DB_NAME", "ecommerce")
	t.Setenv("OUTPUT_DIR", "/tmp/exports")

	cfg, err := Resolve("")
	require.NoError(t, err)

	assert.Equal(t, "warehouse.internal", cfg.DB.Host)
	assert.Equal(t, 3307, cfg.DB.Port)
	assert.Equal(t, "analytics_ro", cfg.DB.User)
	assert.Equal(t, "s3cret", cfg.DB.Password)
	assert.Equal(t, "ecommerce", cfg.DB.Database)
	assert.Equal(t, "/tmp/exports", cfg.OutputDir)
}

func TestResolveBadPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PORT", "not-a-port")

	_, err := Resolve("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PORT")
}

func TestResolveProfile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	profile := `
db:
  host: mysql.profile
  port: 13306
  user: profile_user
  password: ${PROFILE_SECRET}
  database: profile_db
output_dir: /data/out
`
	require.NoError(t, os.WriteFile(path, []byte(profile), 0o644))
	t.Setenv("PROFILE_SECRET", "from-env-substitution")

	t.Run("profile fills in values", func(t *testing.T) {
		cfg, err := Resolve(path)
		require.NoError(t, err)

		assert.Equal(t, "mysql.profile", cfg.DB.Host)
		assert.Equal(t, 13306, cfg.DB.Port)
		assert.Equal(t, "profile_user", cfg.DB.User)
		assert.Equal(t, "from-env-substitution", cfg.DB.Password)
		assert.Equal(t, "profile_db", cfg.DB.Database)
		assert.Equal(t, "/data/out", cfg.OutputDir)
	})

	t.Run("environment wins over profile", func(t *testing.T) {
		t.Setenv("DB_HOST", "env.wins")

		cfg, err := Resolve(path)
		require.NoError(t, err)
		assert.Equal(t, "env.wins", cfg.DB.Host)
		assert.Equal(t, 13306, cfg.DB.Port)
	})

	t.Run("missing profile file errors", func(t *testing.T) {
		_, err := Resolve(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("empty password is a violation", func(t *testing.T) {
		cfg := &Config{
			DB:        DBConfig{Host: "h", Port: 3306, User: "u", Database: "d"},
			OutputDir: "./out",
		}

		violations := cfg.Validate()
		require.Len(t, violations, 1)
		assert.Equal(t, "DB_PASSWORD", violations[0].Field)
	})

	t.Run("all violations reported at once", func(t *testing.T) {
		cfg := &Config{DB: DBConfig{Port: -1}}

		violations := cfg.Validate()
		assert.Len(t, violations, 5)
	})

	t.Run("valid config has none", func(t *testing.T) {
		cfg := &Config{
			DB:        DBConfig{Host: "h", Port: 3306, User: "u", Password: "p", Database: "d"},
			OutputDir: "./out",
		}
		assert.Empty(t, cfg.Validate())
		assert.NoError(t, Err(cfg.Validate()))
	})
}

func TestErr(t *testing.T) {
	err := Err([]Violation{{Field: "DB_PASSWORD", Message: "password is empty"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "OUTPUT_DIR"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}
