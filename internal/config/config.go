package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"

	"github.com/gravitrone/registry-console/internal/api"
)

// EnvPrefix prefixes every environment override, e.g. REGISTRY_TOKEN.
const EnvPrefix = "registry"

// Config holds CLI configuration stored at ~/.registry/config.
type Config struct {
	APIURL     string        `yaml:"api_url,omitempty"`
	Token      string        `yaml:"token"`
	Email      string        `yaml:"email,omitempty"`
	Store      string        `yaml:"store,omitempty"`
	StatePath  string        `yaml:"state_path,omitempty"`
	RedisAddr  string        `yaml:"redis_addr,omitempty"`
	SQLitePath string        `yaml:"sqlite_path,omitempty"`
	LogFormat  string        `yaml:"log_format,omitempty"`
	LogLevel   string        `yaml:"log_level,omitempty"`
	LogFile    string        `yaml:"log_file,omitempty"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
	VimKeys    bool          `yaml:"vim_keys"`
}

// overrides are read from the environment. Only non-empty values win
// over the file.
type overrides struct {
	APIURL     string        `envconfig:"API_URL"`
	Token      string        `envconfig:"TOKEN"`
	Store      string        `envconfig:"STORE"`
	StatePath  string        `envconfig:"STATE_PATH"`
	RedisAddr  string        `envconfig:"REDIS_ADDR"`
	SQLitePath string        `envconfig:"SQLITE_PATH"`
	LogFormat  string        `envconfig:"LOG_FORMAT"`
	LogLevel   string        `envconfig:"LOG_LEVEL"`
	LogFile    string        `envconfig:"LOG_FILE"`
	Timeout    time.Duration `envconfig:"TIMEOUT"`
}

// Dir returns the directory holding config, state and logs.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".registry")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config")
}

// Load reads and parses the config file, applies environment overrides
// and defaults. Returns error if missing, insecure or without a token.
func Load() (*Config, error) {
	cfg, err := read(Path())
	if err != nil {
		return nil, err
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	if cfg.Token == "" {
		return nil, goerr.New("config missing token")
	}
	return cfg, nil
}

// LoadOptional is Load for commands that work without a session: a
// missing file yields defaults and no token is required.
func LoadOptional() (*Config, error) {
	cfg, err := read(Path())
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = &Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func read(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, goerr.Wrap(err, "config not found", goerr.V("path", path))
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, goerr.New("config permissions too open (want 0600)",
			goerr.V("path", path), goerr.V("perm", perm.String()))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "read config", goerr.V("path", path))
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "parse config", goerr.V("path", path))
	}
	return &cfg, nil
}

func (c *Config) finish() error {
	var env overrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return goerr.Wrap(err, "read environment overrides")
	}
	c.applyOverrides(env)
	c.applyDefaults()
	return nil
}

func (c *Config) applyOverrides(env overrides) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.APIURL, env.APIURL)
	set(&c.Token, env.Token)
	set(&c.Store, env.Store)
	set(&c.StatePath, env.StatePath)
	set(&c.RedisAddr, env.RedisAddr)
	set(&c.SQLitePath, env.SQLitePath)
	set(&c.LogFormat, env.LogFormat)
	set(&c.LogLevel, env.LogLevel)
	set(&c.LogFile, env.LogFile)
	if env.Timeout > 0 {
		c.Timeout = env.Timeout
	}
}

func (c *Config) applyDefaults() {
	if c.APIURL == "" {
		c.APIURL = api.DefaultBaseURL
	}
	if c.Store == "" {
		c.Store = "file"
	}
	if c.StatePath == "" {
		c.StatePath = filepath.Join(Dir(), "state")
	}
	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join(Dir(), "registry.db")
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(Dir(), "registry.log")
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return goerr.Wrap(err, "create config dir", goerr.V("path", dir))
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return goerr.Wrap(err, "marshal config")
	}

	return os.WriteFile(path, data, 0600)
}
