package main

const (
	defaultLogFile       = "logs/server.log"
	defaultDBPath        = "processed.db"
	defaultOutputDir     = "output"
	defaultAPIAddr       = "127.0.0.1:3000"
	defaultSlowRequestMS = 50
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	LogFile        string `mapstructure:"log-file"`
	IncludeRotated bool   `mapstructure:"include-rotated"`
	DBPath         string `mapstructure:"db-path"`
	OutputDir      string `mapstructure:"output-dir"`
	KBPath         string `mapstructure:"kb-path"`
	JSONPath       string `mapstructure:"json-path"`
	SlowRequestMS  int    `mapstructure:"slow-request-ms"`
	APIEnabled     bool   `mapstructure:"api-enabled"`
	APIAddr        string `mapstructure:"api-addr"`
	LogLevel       string `mapstructure:"log-level"`
	VerboseLogFile string `mapstructure:"verbose-log-file"`
	ConfigPath     string `mapstructure:"-"` // not from config file
}
