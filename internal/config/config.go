package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/simprofile/internal/model"
)

// Default configuration values.
const (
	// DefaultBaseURL is the site that serves the REST API.
	DefaultBaseURL = "https://websim.com"

	// DefaultTimeout bounds each API request. Listing endpoints answer
	// quickly; 30 seconds leaves room for a slow stats request.
	DefaultTimeout = 30 * time.Second

	// DefaultPageSize of 0 lets the API choose its own page size.
	DefaultPageSize = 0

	// DefaultStatsConcurrency of 0 requests the stats of every project at
	// once, as the profile page does.
	DefaultStatsConcurrency = 0

	// DefaultBatchConcurrency is the number of profiles loaded at once when
	// several usernames are given.
	DefaultBatchConcurrency = 4

	// DefaultFormat is the report format used when none is given.
	DefaultFormat = "text"

	// AppName is the application name used for XDG directory paths.
	AppName = "simprofile"

	// DefaultUserAgent identifies simprofile in HTTP requests.
	DefaultUserAgent = "simprofile/1.0 (+https://github.com/nao1215/simprofile)"

	// DefaultMaxBodySize limits the response body read per request.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// maxPageSize is the largest page the API serves.
	maxPageSize = 100
)

// Config holds all configuration options for simprofile.
// It is populated from defaults, the .simprofile file, the environment and
// CLI flags, in that order, and passed through the application rather
// than kept in global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., APIConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// BaseURL is the scheme and host of the REST API.
	BaseURL string

	// APIToken authenticates write actions such as tipping.
	// Reading profiles never needs it.
	APIToken string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	ProxyAddress string

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// Cookie is an optional Cookie header sent with every request.
	Cookie string

	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string

	// Timeout is the timeout of each HTTP request.
	Timeout time.Duration

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// PageSize is the number of items requested per page; 0 lets the API
	// decide.
	PageSize int

	// StatsConcurrency bounds the concurrent stats requests of one profile;
	// 0 means unbounded.
	StatsConcurrency int

	// BatchConcurrency is the number of profiles loaded at once.
	BatchConcurrency int

	// Format is the report format: text, markdown or json.
	Format string

	// ReportFile is the output file path for the report.
	// When empty, the report is written to stdout.
	ReportFile string

	// Sort is the initial order of the project grid.
	Sort model.SortState

	// Limit caps the number of projects shown in text reports; 0 shows all.
	Limit int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// Progress prints every stats result as it arrives.
	Progress bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// Profiles holds the per-user settings loaded from the config file.
	Profiles *File

	// DBDir is the directory of the snapshot database.
	// Defaults to the XDG data directory (~/.local/share/simprofile on Linux).
	DBDir string

	// SaveToDB saves a snapshot of every loaded profile.
	SaveToDB bool

	// Usernames are the profiles to load.
	Usernames []string

	// DefaultUser is the profile used when a command is given no username.
	DefaultUser string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, base URL).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		BaseURL:          DefaultBaseURL,
		UserAgent:        DefaultUserAgent,
		Timeout:          DefaultTimeout,
		MaxBodySize:      DefaultMaxBodySize,
		PageSize:         DefaultPageSize,
		StatsConcurrency: DefaultStatsConcurrency,
		BatchConcurrency: DefaultBatchConcurrency,
		Format:           DefaultFormat,
		Sort:             model.DefaultSortState(),
		DBDir:            XDGDataDir(),
		SaveToDB:         true,
	}
}

// XDGDataDir returns the XDG data directory for simprofile.
// On Linux: ~/.local/share/simprofile
// On macOS: ~/Library/Application Support/simprofile
// On Windows: %LOCALAPPDATA%\simprofile
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for simprofile.
// On Linux: ~/.config/simprofile
// On macOS: ~/Library/Application Support/simprofile
// On Windows: %APPDATA%\simprofile
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first error found, since fixing one error often makes
// others irrelevant.
func (c *Config) Validate() error {
	if len(c.Usernames) == 0 {
		return ErrNoUsername
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.PageSize < 0 || c.PageSize > maxPageSize {
		return ErrInvalidPageSize
	}

	if c.StatsConcurrency < 0 {
		return ErrInvalidStatsConcurrency
	}

	if c.BatchConcurrency <= 0 {
		return ErrInvalidBatchConcurrency
	}

	switch c.Format {
	case "text", "markdown", "json":
	default:
		return ErrInvalidFormat
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
