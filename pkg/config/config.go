// Package config resolves the pipeline configuration from the process
// environment, with an optional YAML profile file underneath. Resolution
// precedence is: built-in defaults < profile file < environment variables.
//
// Components never read the environment directly; the resolved Config is
// constructed once at process entry and passed down explicitly.
package config

import (
	"strconv"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Joao-andradee/mysql-python-powerbi-Ecommerce-Performance-Analytics/pkg/etlerrors"
)

// Environment variable names recognized by the resolver.
const (
	EnvDBHost     = "DB_HOST"
	EnvDBPort     = "DB_PORT"
	EnvDBUser     = "DB_USER"
	EnvDBPassword = "DB_PASSWORD"
	EnvDBName     = "DB_NAME"
	EnvOutputDir  = "OUTPUT_DIR"
)

// Built-in defaults, applied for every value except the password.
const (
	DefaultHost      = "localhost"
	DefaultPort      = 3306
	DefaultUser      = "root"
	DefaultDatabase  = "ops_portfolio"
	DefaultOutputDir = "./output"
)

// DBConfig holds the database connection parameters.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// Config is the resolved, read-only configuration for one pipeline run.
type Config struct {
	DB        DBConfig `yaml:"db"`
	OutputDir string   `yaml:"output_dir"`
}

// Resolve builds a Config from the environment, optionally layering a YAML
// profile file between the built-in defaults and the environment. A
// non-numeric port is a fatal configuration error; everything else defers
// to Validate.
func Resolve(profilePath string) (*Config, error) {
	v := viper.New()
	v.SetDefault(EnvDBHost, DefaultHost)
	v.SetDefault(EnvDBPort, strconv.Itoa(DefaultPort))
	v.SetDefault(EnvDBUser, DefaultUser)
	v.SetDefault(EnvDBPassword, "")
	v.SetDefault(EnvDBName, DefaultDatabase)
	v.SetDefault(EnvOutputDir, DefaultOutputDir)

	if profilePath != "" {
		profile, err := LoadProfile(profilePath)
		if err != nil {
			return nil, etlerrors.Wrap(err, etlerrors.ErrorTypeConfig, "failed to load profile").
				WithDetail("path", profilePath)
		}
		profile.applyDefaults(v)
	}

	// Environment wins over profile and defaults.
	v.AutomaticEnv()

	portRaw := v.GetString(EnvDBPort)
	port, err := strconv.Atoi(portRaw)
	if err != nil {
		return nil, etlerrors.Wrap(err, etlerrors.ErrorTypeConfig, "DB_PORT is not a number").
			WithDetail("value", portRaw)
	}

	return &Config{
		DB: DBConfig{
			Host:     v.GetString(EnvDBHost),
			Port:     port,
			User:     v.GetString(EnvDBUser),
			Password: v.GetString(EnvDBPassword),
			Database: v.GetString(EnvDBName),
		},
		OutputDir: v.GetString(EnvOutputDir),
	}, nil
}

// Violation describes a single failed configuration constraint.
type Violation struct {
	Field   string
	Message string
}

// Validate checks the configuration and returns every violated constraint,
// so the operator sees all problems in one run instead of one per restart.
// An empty slice means the configuration is usable.
func (c *Config) Validate() []Violation {
	var violations []Violation

	if c.DB.Password == "" {
		violations = append(violations, Violation{
			Field:   EnvDBPassword,
			Message: "password is empty; set DB_PASSWORD or check your .env file",
		})
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		violations = append(violations, Violation{
			Field:   EnvDBPort,
			Message: "port must be between 1 and 65535",
		})
	}
	if c.DB.Host == "" {
		violations = append(violations, Violation{
			Field:   EnvDBHost,
			Message: "host is empty",
		})
	}
	if c.DB.Database == "" {
		violations = append(violations, Violation{
			Field:   EnvDBName,
			Message: "database name is empty",
		})
	}
	if c.OutputDir == "" {
		violations = append(violations, Violation{
			Field:   EnvOutputDir,
			Message: "output directory is empty",
		})
	}

	return violations
}

// Err converts a non-empty violation list into a single configuration
// error carrying each violation as a detail. Returns nil for an empty list.
func Err(violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}
	err := etlerrors.New(etlerrors.ErrorTypeConfig, "invalid configuration")
	for _, v := range violations {
		err = err.WithDetail(v.Field, v.Message)
	}
	return err
}

// Fields returns the non-secret resolved values for operator visibility.
// The password is never logged.
func (c *Config) Fields() []zap.Field {
	return []zap.Field{
		zap.String("host", c.DB.Host),
		zap.Int("port", c.DB.Port),
		zap.String("user", c.DB.User),
		zap.String("database", c.DB.Database),
		zap.String("output_dir", c.OutputDir),
	}
}
