/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bytedreamer/DotNetFrameworkMCP/global"
)

// Config provides access to application configuration
type Config struct {
	configPath string      // resolved path to config file
	data       *configData // parsed configuration
	firstRun   bool        // true if config was just created
}

// configData holds the parsed configuration (internal)
type configData struct {
	Version              int       `json:"version" yaml:"version"`
	BaseDir              string    `json:"base_dir,omitempty" yaml:"base_dir,omitempty"`
	DefaultConfiguration string    `json:"default_configuration,omitempty" yaml:"default_configuration,omitempty"`
	DefaultPlatform      string    `json:"default_platform,omitempty" yaml:"default_platform,omitempty"`
	BuildTimeoutSeconds  int       `json:"build_timeout_seconds,omitempty" yaml:"build_timeout_seconds,omitempty"`
	TestTimeoutSeconds   int       `json:"test_timeout_seconds,omitempty" yaml:"test_timeout_seconds,omitempty"`
	PreferredVSVersion   string    `json:"preferred_vs_version,omitempty" yaml:"preferred_vs_version,omitempty"`
	UseDotnetCLI         bool      `json:"use_dotnet_cli,omitempty" yaml:"use_dotnet_cli,omitempty"`
	DotnetCLIPath        string    `json:"dotnet_cli_path,omitempty" yaml:"dotnet_cli_path,omitempty"`
	RestoreByDefault     *bool     `json:"restore_by_default,omitempty" yaml:"restore_by_default,omitempty"`
	MaxOutputBytes       int       `json:"max_output_bytes,omitempty" yaml:"max_output_bytes,omitempty"`
	HistoryFile          *string   `json:"history_file,omitempty" yaml:"history_file,omitempty"`
	Transport            Transport `json:"transport,omitempty" yaml:"transport,omitempty"`
	Logging              Logging   `json:"logging" yaml:"logging"`
}

// Transport represents the wire transport configuration
type Transport struct {
	Mode   string `json:"mode,omitempty" yaml:"mode,omitempty"`     // "stdio" (default) or "tcp"
	Listen string `json:"listen,omitempty" yaml:"listen,omitempty"` // TCP listen address
}

// Logging represents logging configuration
type Logging struct {
	File  string `json:"file" yaml:"file"`
	Level string `json:"level" yaml:"level"`
}

// Option is a functional option for configuring Config
type Option func(*Config)

// New creates a new Config instance with optional configuration
func New(opts ...Option) *Config {
	c := &Config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithConfigPath sets an explicit config file path
func WithConfigPath(path string) Option {
	return func(c *Config) {
		c.configPath = path
	}
}

// Load loads and validates configuration from file.
// If the config file doesn't exist it is created with defaults;
// directories are only created where files actually get written.
func (c *Config) Load() error {
	configPath, err := c.resolveConfigPath()
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	c.configPath = configPath

	if !global.FileExists(configPath) {
		c.firstRun = true
		if err := c.setupDefaultConfig(configPath); err != nil {
			return fmt.Errorf("failed to create default config at %s: %w", configPath, err)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg, err := parseConfig(configPath, data)
	if err != nil {
		return err
	}
	c.data = cfg

	if err := c.resolveBaseDir(); err != nil {
		return err
	}

	if err := c.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// parseConfig parses config bytes as YAML or JSON depending on the file
// extension. JSON goes through a strict pass first so unknown fields are
// reported without rejecting the file.
func parseConfig(path string, data []byte) (*configData, error) {
	var cfg configData

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		return &cfg, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: config file %s: %v\n", path, err)
			// Re-parse without strict mode to still load the config
			if err := json.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		} else {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	return &cfg, nil
}

// setupDefaultConfig writes a default config file
func (c *Config) setupDefaultConfig(configPath string) error {
	def := configData{
		Version:              1,
		DefaultConfiguration: global.DefaultConfiguration,
		DefaultPlatform:      global.DefaultPlatform,
		BuildTimeoutSeconds:  global.DefaultBuildTimeout,
		TestTimeoutSeconds:   global.DefaultTestTimeout,
		PreferredVSVersion:   global.DefaultPreferredVSYear,
		DotnetCLIPath:        global.DefaultDotnetCLIPath,
		MaxOutputBytes:       global.DefaultMaxOutputBytes,
		Transport:            Transport{Mode: global.TransportStdio},
		Logging: Logging{
			File:  filepath.Join(global.DefaultBaseDir, "server.log"),
			Level: global.LogLevelInfo,
		},
	}

	content, err := json.MarshalIndent(&def, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}
	content = append(content, '\n')

	return global.AtomicWrite(configPath, content)
}

// resolveConfigPath determines the config file path using precedence rules
func (c *Config) resolveConfigPath() (string, error) {
	// 1. Explicit path (from WithConfigPath option)
	if c.configPath != "" {
		return resolveToAbsolute(c.configPath)
	}

	// 2. Environment variable
	if envPath := os.Getenv(global.ConfigEnvVar); envPath != "" {
		return resolveToAbsolute(envPath)
	}

	// 3. Default: base_dir/config.json
	baseDir := expandHomePath(global.DefaultBaseDir)
	return filepath.Join(baseDir, global.DefaultConfigFileName), nil
}

// resolveBaseDir resolves and validates the base_dir from config
func (c *Config) resolveBaseDir() error {
	if c.data.BaseDir == "" {
		c.data.BaseDir = expandHomePath(global.DefaultBaseDir)
		return nil
	}

	resolved := expandHomePath(c.data.BaseDir)
	if !filepath.IsAbs(resolved) {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: base_dir '%s' is not absolute, using default '%s'\n",
			c.data.BaseDir, global.DefaultBaseDir)
		resolved = expandHomePath(global.DefaultBaseDir)
	}

	c.data.BaseDir = resolved
	return nil
}

// resolveToAbsolute converts a path to absolute, expanding ~/ if needed
func resolveToAbsolute(path string) (string, error) {
	expanded := expandHomePath(path)
	if filepath.IsAbs(expanded) {
		return expanded, nil
	}
	return filepath.Abs(expanded)
}

// resolvePath resolves a path relative to base_dir
func (c *Config) resolvePath(path string) string {
	if path == "" {
		return ""
	}

	expanded := expandHomePath(path)
	if filepath.IsAbs(expanded) {
		return expanded
	}

	return filepath.Join(c.data.BaseDir, expanded)
}

// expandHomePath expands ~/ to the user's home directory
func expandHomePath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		// Can't determine home dir, return path as-is
		return path
	}

	return filepath.Join(home, path[2:])
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.data.Version != 1 {
		if c.data.Version < 1 {
			return fmt.Errorf("config version %d is too old (expected 1)", c.data.Version)
		}
		return fmt.Errorf("config version %d is newer than supported (expected 1)", c.data.Version)
	}

	if _, err := global.ValidateTimeout(c.data.BuildTimeoutSeconds, global.DefaultBuildTimeout); err != nil {
		return fmt.Errorf("build_timeout_seconds: %w", err)
	}
	if _, err := global.ValidateTimeout(c.data.TestTimeoutSeconds, global.DefaultTestTimeout); err != nil {
		return fmt.Errorf("test_timeout_seconds: %w", err)
	}

	if c.data.MaxOutputBytes != 0 && c.data.MaxOutputBytes < global.MinOutputBytes {
		return fmt.Errorf("max_output_bytes must be at least %d", global.MinOutputBytes)
	}

	switch c.data.Transport.Mode {
	case "", global.TransportStdio, global.TransportTCP:
	default:
		return fmt.Errorf("transport mode must be %q or %q, got %q",
			global.TransportStdio, global.TransportTCP, c.data.Transport.Mode)
	}

	return nil
}

// ConfigPath returns the resolved config file path
//
//goland:noinspection GoNameStartsWithPackageName
func (c *Config) ConfigPath() string {
	return c.configPath
}

// IsFirstRun returns true if the config file was just created
func (c *Config) IsFirstRun() bool {
	return c.firstRun
}

// BaseDir returns the resolved base directory
func (c *Config) BaseDir() string {
	return c.data.BaseDir
}

// DefaultConfiguration returns the build configuration used when a
// request doesn't name one
func (c *Config) DefaultConfiguration() string {
	if c.data.DefaultConfiguration == "" {
		return global.DefaultConfiguration
	}
	return c.data.DefaultConfiguration
}

// DefaultPlatform returns the build platform used when a request
// doesn't name one
func (c *Config) DefaultPlatform() string {
	if c.data.DefaultPlatform == "" {
		return global.DefaultPlatform
	}
	return c.data.DefaultPlatform
}

// BuildTimeout returns the per-build subprocess timeout
func (c *Config) BuildTimeout() time.Duration {
	t, _ := global.ValidateTimeout(c.data.BuildTimeoutSeconds, global.DefaultBuildTimeout)
	return time.Duration(t) * time.Second
}

// TestTimeout returns the per-test-run subprocess timeout
func (c *Config) TestTimeout() time.Duration {
	t, _ := global.ValidateTimeout(c.data.TestTimeoutSeconds, global.DefaultTestTimeout)
	return time.Duration(t) * time.Second
}

// PreferredVSVersion returns the Visual Studio version hint for
// toolchain discovery
func (c *Config) PreferredVSVersion() string {
	if c.data.PreferredVSVersion == "" {
		return global.DefaultPreferredVSYear
	}
	return c.data.PreferredVSVersion
}

// UseDotnetCLI reports whether the dotnet CLI strategy is selected
// instead of MSBuild/vstest
func (c *Config) UseDotnetCLI() bool {
	return c.data.UseDotnetCLI
}

// DotnetCLIPath returns the dotnet executable path
func (c *Config) DotnetCLIPath() string {
	if c.data.DotnetCLIPath == "" {
		return global.DefaultDotnetCLIPath
	}
	return c.data.DotnetCLIPath
}

// RestoreByDefault reports whether builds restore packages when the
// request doesn't say
func (c *Config) RestoreByDefault() bool {
	if c.data.RestoreByDefault == nil {
		return true
	}
	return *c.data.RestoreByDefault
}

// MaxOutputBytes returns the raw-output truncation budget
func (c *Config) MaxOutputBytes() int {
	if c.data.MaxOutputBytes == 0 {
		return global.DefaultMaxOutputBytes
	}
	return c.data.MaxOutputBytes
}

// HistoryPath returns the resolved run-history file path, or "" when
// history recording is disabled
func (c *Config) HistoryPath() string {
	if c.data.HistoryFile == nil {
		return filepath.Join(c.data.BaseDir, global.DefaultHistoryName)
	}
	if *c.data.HistoryFile == "" {
		return ""
	}
	return c.resolvePath(*c.data.HistoryFile)
}

// TransportMode returns the configured wire transport mode
func (c *Config) TransportMode() string {
	if c.data.Transport.Mode == "" {
		return global.TransportStdio
	}
	return c.data.Transport.Mode
}

// ListenAddress returns the TCP listen address
func (c *Config) ListenAddress() string {
	if c.data.Transport.Listen == "" {
		return global.DefaultListenAddress
	}
	return c.data.Transport.Listen
}

// SetTransport overrides the transport configuration (command line flags)
func (c *Config) SetTransport(mode, listen string) {
	if mode != "" {
		c.data.Transport.Mode = mode
	}
	if listen != "" {
		c.data.Transport.Listen = listen
	}
}

// LogFile returns the log file path
func (c *Config) LogFile() string {
	return c.resolvePath(c.data.Logging.File)
}

// LogLevel returns the configured log level
func (c *Config) LogLevel() string {
	if c.data.Logging.Level == "" {
		return global.LogLevelInfo
	}
	return c.data.Logging.Level
}
