package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
)

type Database struct {
	Driver string
	DSN    string
}

type Output struct {
	Indent bool
}

type Config struct {
	Database Database
	Output   Output
}

func Default() Config {
	return Config{
		Database: Database{Driver: DriverPgx},
		Output:   Output{Indent: true},
	}
}

// Load reads joinery.yaml from path (a file or a directory) and applies
// JOINERY_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	if path == "" || isDir(path) {
		v.SetConfigName("joinery")
		v.AddConfigPath(orDot(path))
	} else {
		v.SetConfigFile(path)
	}
	v.SetEnvPrefix("JOINERY")
	v.AutomaticEnv()
	_ = v.BindEnv("database.driver", "JOINERY_DATABASE_DRIVER")
	_ = v.BindEnv("database.dsn", "JOINERY_DATABASE_DSN")
	_ = v.BindEnv("output.indent", "JOINERY_OUTPUT_INDENT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || !isDir(orDot(path)) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if v.IsSet("database.driver") {
		cfg.Database.Driver = v.GetString("database.driver")
	}
	if v.IsSet("database.dsn") {
		cfg.Database.DSN = v.GetString("database.dsn")
	}
	if v.IsSet("output.indent") {
		cfg.Output.Indent = v.GetBool("output.indent")
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverPgx:
		return nil
	}
	return fmt.Errorf("unknown database driver %q: expected %q or %q", c.Database.Driver, DriverPostgres, DriverPgx)
}

func isDir(path string) bool {
	fi, err := os.Stat(orDot(path))
	return err == nil && fi.IsDir()
}

func orDot(path string) string {
	if path == "" {
		return "."
	}
	return path
}
