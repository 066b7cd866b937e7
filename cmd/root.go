package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"beatfetch/beatsaver"
	"beatfetch/internal"
	"beatfetch/utils"
)

var (
	baseURL  string
	songsDir string
	timeout  time.Duration
	proxyURL string
	quiet    bool
	debug    bool
	logLevel string
	logFile  string
	config   *internal.Config
)

var rootCmd = &cobra.Command{
	Use:     "beatfetch",
	Short:   "Fetch beatmaps from BeatSaver",
	Version: "v1.0.0",
	Long: `beatfetch looks up, searches and downloads custom Beat Saber maps from
BeatSaver. Downloaded maps are extracted into the custom levels folder as
"{key} ({song} - {level author})".

Examples:
  beatfetch map 1a2b
  beatfetch search "camellia" -p 1
  beatfetch download 1a2b --songs-dir "/games/Beat Saber/Beat Saber_Data/CustomLevels"
  beatfetch cover 1a2b -o cover.jpg

Environment Variables (also read from .env):
  BEATSAVER_BASE_URL          Service base URL
  BEATSAVER_SONGS_DIR         Custom levels folder
  BEATSAVER_DOWNLOAD_TIMEOUT  Archive and cover timeout in seconds
  BEATSAVER_METADATA_TIMEOUT  JSON request timeout in seconds
  BEATSAVER_PROXY             Proxy URL
  BEATSAVER_LOG_LEVEL         debug, info, warn or error`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfiguration(); err != nil {
			return fmt.Errorf("configuration error: %v", err)
		}

		if err := internal.InitLogger(config); err != nil {
			return fmt.Errorf("failed to initialize logger: %v", err)
		}

		internal.LogDebug("Configuration loaded: base=%s, songs=%s, download_timeout=%v, metadata_timeout=%v",
			config.BaseURL, config.CustomLevelsPath, config.DownloadTimeout, config.MetadataTimeout)
		return nil
	},
}

// loadConfiguration merges defaults, .env, environment and CLI flags, in
// increasing priority
func loadConfiguration() error {
	if err := internal.LoadDotEnv(); err != nil {
		return err
	}

	config = internal.DefaultConfig()
	config.LoadFromEnv()

	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if songsDir != "" {
		config.CustomLevelsPath = songsDir
	}
	if timeout > 0 {
		config.DownloadTimeout = timeout
	}
	if proxyURL != "" {
		config.ProxyURL = proxyURL
	}

	if debug {
		config.EnableDebug = true
		config.LogLevel = "debug"
	}
	if quiet {
		config.QuietMode = true
	}
	if logLevel != "" {
		config.LogLevel = logLevel
	}
	if logFile != "" {
		config.LogFile = logFile
	}

	return config.ValidateConfig()
}

// newClient builds a BeatSaver client from the loaded configuration
func newClient() (*beatsaver.Client, error) {
	logger := internal.GetLogger()

	transport, err := utils.NewHTTPClientWithConfig(&utils.HTTPClientConfig{
		Timeout:   config.MetadataTimeout,
		ProxyURL:  config.ProxyURL,
		UserAgent: config.UserAgent,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	internal.LogDebug("Requests identify as %s", transport.GetUserAgent())

	return beatsaver.NewClient(beatsaver.SettingsFromConfig(config),
		beatsaver.WithTransport(transport),
		beatsaver.WithLevelsPath(utils.LevelsDirectory(config.CustomLevelsPath)),
		beatsaver.WithLogger(logger),
	)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			internal.LogInfo("Received signal %v, shutting down", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&baseURL, "base-url", "", "BeatSaver base URL (env: BEATSAVER_BASE_URL)")
	flags.StringVar(&songsDir, "songs-dir", "", "Custom levels folder (env: BEATSAVER_SONGS_DIR)")
	flags.DurationVar(&timeout, "timeout", 0, "Archive and cover download timeout (env: BEATSAVER_DOWNLOAD_TIMEOUT) (default 64s)")
	flags.StringVar(&proxyURL, "proxy", "", "HTTP/SOCKS proxy URL (env: BEATSAVER_PROXY)")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress progress bars and summaries")

	flags.BoolVarP(&debug, "debug", "d", false, "Enable debug logging with file and line information (env: BEATSAVER_DEBUG)")
	flags.StringVar(&logLevel, "log-level", "", "Set log level (debug, info, warn, error) (env: BEATSAVER_LOG_LEVEL)")
	flags.StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr (env: BEATSAVER_LOG_FILE)")

	rootCmd.AddCommand(mapCmd, hashCmd, searchCmd, downloadCmd, coverCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
