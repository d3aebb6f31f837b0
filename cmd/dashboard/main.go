// Command dashboard shows the portfolio analytics in a terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"portfolio/api/client"
	"portfolio/api/dashboard"
	"portfolio/api/utils"
)

var (
	apiURL   string
	period   string
	interval time.Duration
	once     bool
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show portfolio analytics",
	Long: `Poll the collector API and render the analytics dashboard.

Commands while running:
  hour|day|week|month|year  switch period
  r                         retry now
  q                         quit`,
	SilenceUsage: true,
	RunE:         runDashboard,
}

func init() {
	rootCmd.Flags().StringVar(&apiURL, "api-url", envOr("API_URL", client.DefaultBaseURL), "collector base URL")
	rootCmd.Flags().StringVar(&period, "period", utils.DefaultPeriod, "initial period (hour|day|week|month|year)")
	rootCmd.Flags().DurationVar(&interval, "interval", dashboard.DefaultInterval, "refresh interval")
	rootCmd.Flags().BoolVar(&once, "once", false, "render a single refresh and exit")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log fetch errors to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if !utils.IsValidPeriod(period) {
		return fmt.Errorf("unknown period %q", period)
	}

	level := zerolog.Disabled
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()

	api := client.New(apiURL, logger)
	poller := dashboard.NewPoller(api, period, interval, logger)
	out := cmd.OutOrStdout()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if once {
		err := poller.Refresh(ctx)
		fmt.Fprint(out, dashboard.Render(poller.Snapshot(), time.Now()))
		return err
	}

	poller.OnUpdate(func(s dashboard.Snapshot) {
		fmt.Fprint(out, "\033[H\033[2J")
		fmt.Fprint(out, dashboard.Render(s, time.Now()))
		fmt.Fprintln(out, "[hour|day|week|month|year] period  [r] retry  [q] quit")
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go readCommands(cmd.InOrStdin(), poller, cancel, logger)

	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// readCommands applies stdin commands until q or EOF.
func readCommands(in io.Reader, p *dashboard.Poller, quit context.CancelFunc, logger zerolog.Logger) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		switch line := strings.ToLower(strings.TrimSpace(scanner.Text())); line {
		case "":
		case "q", "quit":
			quit()
			return
		case "r", "retry":
			p.Retry()
		default:
			if err := p.SetPeriod(line); err != nil {
				logger.Warn().Err(err).Msg("ignored command")
			}
		}
	}
}
