package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hbn2020/arc/arc"
	"github.com/hbn2020/arc/examples/counter"
	"github.com/hbn2020/arc/examples/counter/config"
)

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log level %q: %w", level, err)
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(lvl).With().Timestamp().Str("app", "arcdemo").Logger(), nil
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	root := &cobra.Command{
		Use:           "arcdemo",
		Short:         "Run the arc counter example application",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}

			log, err := newLogger(cfg.Log.Level)
			if err != nil {
				return err
			}

			return runDemo(cmd, cfg, log)
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "path to a TOML config file (optional)")
	root.Flags().StringVar(&logLevel, "log-level", "", "log level override: debug|info|warn|error")
	return root
}

func runDemo(cmd *cobra.Command, cfg config.Config, log zerolog.Logger) error {
	a := arc.Boot(counter.Setup(cfg, log), arc.WithLogger(log))

	done := arc.OnEvent(a, func(e counter.TargetReached) {
		log.Info().Int("count", e.Count).Msg("achievement unlocked")
	})
	defer done.Cancel()

	log.Info().Int("start", cfg.Counter.Start).Int("target", cfg.Counter.Target).
		Msg("counting up")

	for {
		unlocked, err := arc.Ask(a, counter.UnlockedQuery{})
		if err != nil {
			return err
		}
		if unlocked {
			break
		}
		if err := arc.Exec(a, &counter.IncrementCommand{Amount: 1}); err != nil {
			return err
		}
	}

	final, err := arc.Ask(a, counter.CountQuery{})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "final count: %d\n", final)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "arcdemo:", err)
		os.Exit(1)
	}
}
