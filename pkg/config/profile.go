package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Profile is an optional YAML file carrying the same settings as the
// environment variables. Environment values always win over the profile.
//
// Example:
//
//	db:
//	  host: mysql.internal
//	  port: 3306
//	  user: analytics_ro
//	  database: ops_portfolio
//	output_dir: /var/lib/analytics/exports
type Profile struct {
	DB struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
	} `yaml:"db"`
	OutputDir string `yaml:"output_dir"`
}

// LoadProfile reads a YAML profile file. ${VAR_NAME} references inside the
// file are substituted from the environment before parsing, so secrets can
// stay out of the file itself.
func LoadProfile(filePath string) (*Profile, error) {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: path is operator-supplied
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	content := substituteEnvVars(string(data))

	var profile Profile
	if err := yaml.Unmarshal([]byte(content), &profile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &profile, nil
}

// applyDefaults registers the profile's non-empty values as defaults on v,
// keeping the environment as the top layer of precedence.
func (p *Profile) applyDefaults(v *viper.Viper) {
	if p.DB.Host != "" {
		v.SetDefault(EnvDBHost, p.DB.Host)
	}
	if p.DB.Port != 0 {
		v.SetDefault(EnvDBPort, strconv.Itoa(p.DB.Port))
	}
	if p.DB.User != "" {
		v.SetDefault(EnvDBUser, p.DB.User)
	}
	if p.DB.Password != "" {
		v.SetDefault(EnvDBPassword, p.DB.Password)
	}
	if p.DB.Database != "" {
		v.SetDefault(EnvDBName, p.DB.Database)
	}
	if p.OutputDir != "" {
		v.SetDefault(EnvOutputDir, p.OutputDir)
	}
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		envValue := os.Getenv(varName)
		content = content[:start] + envValue + content[end+1:]
	}
	return content
}
