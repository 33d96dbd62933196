package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tbxark/offerwizard"
	"github.com/tbxark/offerwizard/config"
	"github.com/tbxark/offerwizard/form"
	"github.com/tbxark/offerwizard/offer"
	"github.com/tbxark/offerwizard/wizard"
	"gopkg.in/yaml.v3"
)

type options struct {
	configPath  string
	prefillPath string
	strategy    string
	seed        uint64
	debug       bool
}

func main() {
	if err := NewRoot().Execute(); err != nil {
		os.Exit(1)
	}
}

func NewRoot() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "offers",
		Short:        "Build three event offers for an exhibitor",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("config") {
				if _, err := os.Stat(opts.configPath); errors.Is(err, fs.ErrNotExist) {
					opts.configPath = ""
				}
			}
			return startApp(cmd.Context(), opts)
		},
	}
	root.Flags().StringVarP(&opts.configPath, "config", "c", "config.json", "path to a JSON or YAML config file")
	root.Flags().StringVar(&opts.prefillPath, "prefill", "", "YAML or JSON file with initial form values")
	root.Flags().StringVar(&opts.strategy, "strategy", "", "generation strategy: local, remote or tool")
	root.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for keyword selection in the local strategy (0 picks the first keyword)")
	root.Flags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	return root
}

func startApp(ctx context.Context, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		slog.SetLogLoggerLevel(slog.LevelWarn)
	}

	conf, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.strategy != "" {
		if err := conf.OverrideStrategy(opts.strategy); err != nil {
			return err
		}
	}

	var localOpts []offer.LocalOption
	if opts.seed != 0 {
		localOpts = append(localOpts, offer.WithKeywordSelector(offer.SeededKeywordSelector(opts.seed)))
	}
	generator, err := offerwizard.NewGenerator(ctx, conf, localOpts...)
	if err != nil {
		return err
	}

	session := wizard.NewSession(generator)
	if opts.prefillPath != "" {
		initial, err := loadPrefill(opts.prefillPath)
		if err != nil {
			return err
		}
		if err := session.Prefill(initial); err != nil {
			return fmt.Errorf("prefill form: %w", err)
		}
	}

	runner := NewRunner(newSurveyDriver(os.Stdout), session, systemClipboard{}, newTerminalNotifier(os.Stderr))
	return runner.Run(ctx)
}

// loadPrefill reads initial form values. YAML is a superset of JSON, so one
// decoder covers both.
func loadPrefill(path string) (form.Data, error) {
	var data form.Data
	file, err := os.ReadFile(path)
	if err != nil {
		return data, fmt.Errorf("read prefill: %w", err)
	}
	if err := yaml.Unmarshal(file, &data); err != nil {
		return data, fmt.Errorf("decode prefill %s: %w", path, err)
	}
	return data, nil
}
