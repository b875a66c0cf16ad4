package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robofuse/qbitctl/internal/config"
	"github.com/robofuse/qbitctl/internal/logger"
	"github.com/robofuse/qbitctl/pkg/qbittorrent"
)

const version = "1.0"

// globalFlags override values from the configuration file
type globalFlags struct {
	configPath string
	logLevel   string
	host       string
	username   string
	password   string
	rateLimit  string
}

var flags globalFlags

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "qbitctl",
		Short: "Command line client for the qBittorrent WebUI API",
		Long: `qbitctl talks to a qBittorrent daemon through its WebUI API.
It logs in, lists torrents and uploads .torrent files, keeping every
request under the configured rate limit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to config file (json, yaml or toml)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	pf.StringVar(&flags.host, "host", "", "WebUI URL, e.g. http://localhost:8080")
	pf.StringVarP(&flags.username, "username", "u", "", "WebUI username")
	pf.StringVarP(&flags.password, "password", "p", "", "WebUI password (or QBITCTL_PASSWORD)")
	pf.StringVar(&flags.rateLimit, "rate-limit", "", "Request rate limit, e.g. 10/10s or 60/minute")

	rootCmd.AddCommand(
		newLoginCmd(),
		newListCmd(),
		newAddCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "qbitctl v%s\n", version)
		},
	}
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check that the credentials are accepted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}

			if err := login(cmd.Context(), client); err != nil {
				return err
			}
			defer logout(cmd.Context(), client)

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s as %s\n", client.Host, client.Username)
			return nil
		},
	}
}

// loadConfig reads the configuration file, or falls back to the defaults when
// none exists and no path was given, then applies the global flags and validates.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	switch {
	case err == nil:
	case flags.configPath == "" && errors.Is(err, config.ErrNotFound):
		cfg = config.Default()
	default:
		return nil, err
	}

	if flags.host != "" {
		cfg.Host = flags.host
	}
	if flags.username != "" {
		cfg.Username = flags.username
	}
	if flags.password != "" {
		cfg.Password = flags.password
	} else if env := os.Getenv("QBITCTL_PASSWORD"); env != "" && cfg.Password == "" {
		cfg.Password = env
	}
	if flags.rateLimit != "" {
		cfg.RateLimit = flags.rateLimit
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads the configuration, configures logging and creates the client
func setup() (*config.Config, *qbittorrent.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading config")
	}

	logger.SetLogLevel(cfg.LogLevel)
	switch {
	case cfg.LogDir != "":
		logger.SetLogPath(cfg.LogDir)
	case cfg.Path != "":
		logger.SetLogPath(cfg.Path)
	default:
		logger.DisableFileLogging()
	}

	log := logger.Default()
	log.Debug().
		Str("host", cfg.Host).
		Str("rate_limit", fmt.Sprintf("%d/%s", cfg.RateLimitCount, cfg.RateWindow())).
		Msg("Configuration loaded")

	clientLog := logger.New("qbittorrent")
	options := cfg.Options()
	options.Logger = &clientLog
	if options.UserAgent == "" {
		options.UserAgent = "qbitctl/" + version
	}

	client, err := qbittorrent.New(options)
	if err != nil {
		return nil, nil, err
	}
	return cfg, client, nil
}

// login opens a session, turning a rejected login into an error
func login(ctx context.Context, client *qbittorrent.Client) error {
	status, err := client.Login(ctx)
	if err != nil {
		return err
	}
	if !status.IsSuccess() {
		return errors.Errorf("login to %s rejected: %s", client.Host, status)
	}
	return nil
}

// logout ends the session; failures are only logged
func logout(ctx context.Context, client *qbittorrent.Client) {
	log := logger.Default()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	resp, err := client.Logout(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("Logout failed")
		return
	}
	if _, err := resp.GetResult("logout"); err != nil {
		log.Debug().Err(err).Msg("Logout failed")
	}
}

// describeError adds the error kind to API errors for log output
func describeError(log zerolog.Logger, err error, msg string) {
	event := log.Error().Err(err)
	if kind := qbittorrent.GetErrorKind(err); kind != "" {
		event = event.Str("kind", string(kind))
	}
	event.Msg(msg)
}
