package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/edumentor"
	"github.com/hupe1980/edumentor/config"
	"github.com/hupe1980/edumentor/knowledge"
	"github.com/hupe1980/edumentor/logging"
	"github.com/hupe1980/edumentor/model"
	"github.com/hupe1980/edumentor/model/anthropic"
	"github.com/hupe1980/edumentor/model/openai"
	"github.com/hupe1980/edumentor/observability"
	"github.com/hupe1980/edumentor/store"
)

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           "edumentor",
		Short:         "Personalized AI tutoring from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file")

	cmd.AddCommand(
		newAskCmd(&configFile),
		newChatCmd(&configFile),
		newServeCmd(&configFile),
	)
	return cmd
}

// app bundles everything a subcommand needs, plus the resources to close on exit.
type app struct {
	mentor *edumentor.EduMentor
	cfg    *config.Config
	logger *logging.EduLogger
	closer io.Closer
}

func (a *app) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

// buildApp resolves configuration and assembles the system.
func buildApp(configFile string) (*app, error) {
	cfg, err := config.Load(viper.New(), configFile)
	if err != nil {
		return nil, err
	}

	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, false)

	client, err := buildClient(cfg)
	if err != nil {
		return nil, err
	}
	client = model.NewLoggedClient(client, logger.WithComponent("model"), cfg.Provider)

	var (
		records store.RecordStore
		closer  io.Closer
	)
	switch cfg.Backend {
	case "none", "":
	case "file":
		records, err = store.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("init file store: %w", err)
		}
	case "sqlite":
		sqlStore, err := store.NewSQLiteStore(filepath.Join(cfg.DataDir, "edumentor.db"))
		if err != nil {
			return nil, fmt.Errorf("init sqlite store: %w", err)
		}
		records = sqlStore
		closer = sqlStore
	default:
		return nil, fmt.Errorf("unknown backend %q (want none, file or sqlite)", cfg.Backend)
	}

	var persister observability.TracePersister
	if cfg.Backend != "none" && cfg.Backend != "" {
		persister, err = observability.NewFileTracePersister(filepath.Join(cfg.DataDir, "traces"))
		if err != nil {
			return nil, fmt.Errorf("init trace persister: %w", err)
		}
	}

	mentor := edumentor.New(client, func(o *edumentor.Options) {
		o.Model = cfg.Model
		o.ClassifierModel = cfg.ClassifierModel
		o.CallTimeout = cfg.CallTimeout
		o.HistoryCap = cfg.HistoryCap
		o.MessageCap = cfg.MessageCap
		o.CompactionThreshold = cfg.CompactionThreshold
		o.Records = records
		o.TracePersister = persister
		o.Knowledge = knowledge.NewBase()
		o.Logger = logger
	})

	return &app{mentor: mentor, cfg: cfg, logger: logger, closer: closer}, nil
}

func buildClient(cfg *config.Config) (model.Client, error) {
	switch cfg.Provider {
	case "mock":
		return model.NewMockClient(), nil
	case "anthropic":
		return anthropic.New(func(o *anthropic.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
		}), nil
	case "openai":
		return openai.New(func(o *openai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want mock, anthropic or openai)", cfg.Provider)
	}
}
