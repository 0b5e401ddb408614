package config

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/palanikalyan/K-MATO/internal/kmerr"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "kmato.json"

	// DefaultAPIURL is the default backend base URL.
	DefaultAPIURL = "http://localhost:8080/api"

	// DefaultWSURL is the default live-update websocket URL.
	DefaultWSURL = "ws://localhost:8080/ws/orders"

	// DefaultStorageDriver is the default local storage backend.
	DefaultStorageDriver = "file"
)

// Config is the complete kmato.json configuration.
type Config struct {
	// APIURL is the backend base URL, including the /api prefix.
	APIURL string `json:"apiUrl,omitempty"`

	// WSURL is the websocket URL for live order updates.
	WSURL string `json:"wsUrl,omitempty"`

	// Storage configures where tokens, the profile and the cart persist.
	Storage StorageConfig `json:"storage,omitempty"`

	// Fees configures checkout pricing.
	Fees FeesConfig `json:"fees,omitempty"`

	// RequestTimeout bounds each API call, e.g. "15s".
	RequestTimeout string `json:"requestTimeout,omitempty"`

	// configPath stores the path the config was loaded from.
	configPath string
}

// StorageConfig selects and locates the local storage backend.
type StorageConfig struct {
	// Driver is one of "memory", "file" or "sqlite".
	Driver string `json:"driver,omitempty"`

	// Path is the file or database path for the file and sqlite drivers.
	Path string `json:"path,omitempty"`
}

// FeesConfig overrides the default checkout fees.
type FeesConfig struct {
	DeliveryFee *float64 `json:"deliveryFee,omitempty"`
	PlatformFee *float64 `json:"platformFee,omitempty"`
	TaxRate     *float64 `json:"taxRate,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		APIURL: DefaultAPIURL,
		WSURL:  DefaultWSURL,
		Storage: StorageConfig{
			Driver: DefaultStorageDriver,
			Path:   defaultStoragePath(),
		},
		RequestTimeout: "15s",
	}
}

func defaultStoragePath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "kmato", "state.json")
}

// Load reads configuration from the specified directory. A missing file is
// not an error: defaults apply, adjusted by KMATO_* environment variables.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	cfg := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, kmerr.New("KM5001").Wrap(err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, kmerr.New("KM5001").
				WithDetail("Failed to parse " + path + ": " + err.Error()).
				WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
		}
		cfg.configPath = path
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return Load(wd)
}

// applyEnv lets KMATO_* variables override whatever the file said.
func (c *Config) applyEnv() {
	if v := os.Getenv("KMATO_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("KMATO_WS_URL"); v != "" {
		c.WSURL = v
	}
	if v := os.Getenv("KMATO_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("KMATO_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("KMATO_REQUEST_TIMEOUT"); v != "" {
		c.RequestTimeout = v
	}
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.WSURL == "" {
		c.WSURL = DefaultWSURL
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DefaultStorageDriver
	}
	if c.Storage.Path == "" {
		c.Storage.Path = defaultStoragePath()
	}
	if c.RequestTimeout == "" {
		c.RequestTimeout = "15s"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if u, err := url.Parse(c.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		return kmerr.New("KM5002").
			WithDetail("apiUrl " + strconv.Quote(c.APIURL) + " is not an absolute URL")
	}
	u, err := url.Parse(c.WSURL)
	if err != nil || u.Host == "" {
		return kmerr.New("KM5002").
			WithDetail("wsUrl " + strconv.Quote(c.WSURL) + " is not an absolute URL")
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return kmerr.New("KM5002").
			WithDetail("wsUrl must use the ws or wss scheme, got " + strconv.Quote(u.Scheme))
	}

	switch c.Storage.Driver {
	case "memory", "file", "sqlite":
	default:
		return kmerr.New("KM5002").
			WithDetail("storage.driver must be memory, file or sqlite, got " + strconv.Quote(c.Storage.Driver)).
			WithSuggestion("Set storage.driver in " + ConfigFileName + " or KMATO_STORAGE_DRIVER")
	}
	if c.Storage.Driver != "memory" && c.Storage.Path == "" {
		return kmerr.New("KM5002").
			WithDetail("storage.path is required for the " + c.Storage.Driver + " driver")
	}

	if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
		return kmerr.New("KM5002").
			WithDetail("requestTimeout " + strconv.Quote(c.RequestTimeout) + " is not a duration")
	}
	return nil
}

// Timeout returns the parsed request timeout.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// Path returns the path the config was loaded from, or "" when defaults were
// used.
func (c *Config) Path() string {
	return c.configPath
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return kmerr.New("KM5001").WithDetail("no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return kmerr.New("KM5001").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return kmerr.New("KM5001").Wrap(err)
	}
	c.configPath = path
	return nil
}
