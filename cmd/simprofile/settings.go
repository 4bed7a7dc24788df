package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/simprofile/internal/api"
	"github.com/nao1215/simprofile/internal/config"
	"github.com/nao1215/simprofile/internal/identity"
	"github.com/nao1215/simprofile/internal/log"
)

// addConnectionFlags adds the flags of commands that talk to the API.
func addConnectionFlags(cmd *cobra.Command) {
	cmd.Flags().String("base-url", "",
		"API base URL (default: "+config.DefaultBaseURL+")")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout of each API request")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address for API requests (host:port)")
	cmd.Flags().Int("page-size", config.DefaultPageSize,
		"Items requested per page (0 lets the API decide, max 100)")
}

// addFormatFlag adds the report format flag.
func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Output format: text, markdown or json")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// loadConfig builds the configuration of a command from the defaults, the
// configuration file, the environment and the command flags, in that order.
func loadConfig(cmd *cobra.Command, usernames []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Usernames = usernames
	cfg.Verbose = getVerboseFlag(cmd)

	var configPath string
	if cmd.Flags().Lookup("config") != nil {
		var err error
		if configPath, err = cmd.Flags().GetString("config"); err != nil {
			return nil, err
		}
	}
	cfg.ConfigFilePath = configPath

	// An explicitly given config file must exist; the default locations
	// are optional.
	if path := config.FindConfigFile(configPath); path != "" {
		f, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		cfg.ApplyFile(f)
	} else if configPath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
	}

	env, err := config.LoadEnv(config.DefaultEnvFile)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(env)
	if len(cfg.Usernames) == 0 && cfg.DefaultUser != "" {
		cfg.Usernames = []string{cfg.DefaultUser}
	}

	if err := applyConnectionFlags(cmd, cfg); err != nil {
		return nil, err
	}

	if cmd.Flags().Lookup("format") != nil {
		if cfg.Format, err = cmd.Flags().GetString("format"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// profileOwner resolves the user a single-profile command acts on: the
// argument when given, otherwise SIMPROFILE_USER.
func profileOwner(cfg *config.Config, args []string) identity.Resolver {
	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	return identity.First(identity.Static(arg), identity.Static(cfg.DefaultUser))
}

// applyConnectionFlags overrides the config with the connection flags the
// user set explicitly.
func applyConnectionFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Lookup("base-url") == nil {
		return nil
	}

	var err error
	if flags.Changed("base-url") {
		if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
			return err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return err
		}
	}
	if flags.Changed("page-size") {
		if cfg.PageSize, err = flags.GetInt("page-size"); err != nil {
			return err
		}
	}
	return nil
}

// newLogger creates the secure logger every command logs through.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	jsonLogs, err := cmd.Flags().GetBool("log-json")
	if err == nil && jsonLogs {
		return log.NewSecureJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return log.NewSecureLogger(cmd.ErrOrStderr(), verbose)
}

// newClient creates the API client for one profile.
// Headers and cookie from the profile's config entry override the global ones.
func newClient(cfg *config.Config, pc config.ProfileConfig, logger *slog.Logger) (*api.Client, error) {
	headers := maps.Clone(cfg.Headers)
	if len(pc.Headers) > 0 {
		if headers == nil {
			headers = make(map[string]string, len(pc.Headers))
		}
		maps.Copy(headers, pc.Headers)
	}

	cookie := cfg.Cookie
	if pc.Cookie != "" {
		cookie = pc.Cookie
	}

	opts := []api.Option{
		api.WithTimeout(cfg.Timeout),
		api.WithUserAgent(cfg.UserAgent),
		api.WithToken(cfg.APIToken),
		api.WithCookie(cookie),
		api.WithHeaders(headers),
		api.WithMaxBodySize(cfg.MaxBodySize),
		api.WithLogger(logger),
	}
	if cfg.ProxyAddress != "" {
		opts = append(opts, api.WithProxy(cfg.ProxyAddress))
	}

	client, err := api.NewClient(cfg.BaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return client, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
// In-flight walks stop and keep what they fetched so far.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// openOutput returns the report destination: the file at path, or stdout
// when path is empty. The returned function closes the file.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports may contain data shared with an authenticated session, so
	// only the owner can read them.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
