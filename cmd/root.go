package cmd

import (
	"context"
	"fmt"
	u "net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tanq16/chessdl/internal/emit"
	"github.com/tanq16/chessdl/internal/output"
	"github.com/tanq16/chessdl/internal/scheduler"
	"github.com/tanq16/chessdl/internal/utils"
)

var (
	timeout          time.Duration
	kaTimeout        time.Duration
	userAgent        string
	proxyURL         string
	proxyUsername    string
	proxyPassword    string
	headers          []string
	requestDelay     time.Duration
	awsProfile       string
	debug            bool
	globalHTTPConfig utils.HTTPClientConfig
)

var ChessdlVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "chessdl",
	Short:   "Download your Lichess or Chess.com game history as a PGN archive",
	Version: ChessdlVersion,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debug {
			utils.InitLogger(true, os.Stderr)
		} else {
			logFile, err := os.OpenFile(utils.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err != nil {
				return fmt.Errorf("error opening log file: %v", err)
			}
			utils.InitLogger(false, logFile)
		}
		if userAgent == "randomize" {
			userAgent = utils.GetRandomUserAgent()
		}
		// Check if proxy URL contains auth
		parsedProxy, err := u.Parse(proxyURL)
		if err == nil && parsedProxy.User != nil && proxyUsername == "" {
			proxyUsername = parsedProxy.User.Username()
			if password, set := parsedProxy.User.Password(); set {
				proxyPassword = password
			}
			parsedProxy.User = nil
			proxyURL = parsedProxy.String()
		}
		globalHTTPConfig = utils.HTTPClientConfig{
			Timeout:       timeout,
			KATimeout:     kaTimeout,
			ProxyURL:      proxyURL,
			ProxyUsername: proxyUsername,
			ProxyPassword: proxyPassword,
			UserAgent:     userAgent,
			Headers:       utils.ParseHeaderArgs(headers),
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 5*time.Minute, "Per-request timeout (eg. 30s, 5m)")
	rootCmd.PersistentFlags().DurationVarP(&kaTimeout, "keep-alive-timeout", "k", 90*time.Second, "Keep-alive timeout for client (eg. 10s, 1m, 80s)")
	rootCmd.PersistentFlags().StringVarP(&userAgent, "user-agent", "a", utils.ToolUserAgent, "User agent ('randomize' picks a browser one)")
	rootCmd.PersistentFlags().StringVarP(&proxyURL, "proxy", "p", "", "HTTP/HTTPS proxy URL (e.g., proxy.example.com:8080)")
	rootCmd.PersistentFlags().StringVar(&proxyUsername, "proxy-username", "", "Proxy username (if not provided in proxy URL)")
	rootCmd.PersistentFlags().StringVar(&proxyPassword, "proxy-password", "", "Proxy password (if not provided in proxy URL)")
	rootCmd.PersistentFlags().StringArrayVarP(&headers, "header", "H", []string{}, "Custom headers (like 'X-Trace: 1'); can be specified multiple times")
	rootCmd.PersistentFlags().DurationVar(&requestDelay, "delay", utils.DefaultRequestDelay, "Delay between monthly archive requests")
	rootCmd.PersistentFlags().StringVar(&awsProfile, "profile", "", "AWS profile for s3:// outputs")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")

	rootCmd.AddCommand(newLichessCmd())
	rootCmd.AddCommand(newChessComCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newCleanCmd())
}

// runJobs executes jobs one session at a time; Ctrl-C cancels the active one.
func runJobs(jobs []scheduler.Job) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	orchestrator := scheduler.New(scheduler.Config{
		HTTPClientConfig: globalHTTPConfig,
		Delay:            requestDelay,
	})
	newEmitter := func(outputPath string) (emit.Emitter, error) {
		return emit.New(outputPath, awsProfile)
	}
	failures := orchestrator.RunJobs(ctx, jobs, newEmitter, output.NewManager())
	if failures > 0 {
		log.Error().Str("op", "cmd/root").Msgf("%d download(s) failed", failures)
		os.Exit(1)
	}
}
