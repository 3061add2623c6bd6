package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/suykerbuyk/examnotes/internal/check"
	"github.com/suykerbuyk/examnotes/internal/config"
	"github.com/suykerbuyk/examnotes/internal/llm"
	"github.com/suykerbuyk/examnotes/internal/logger"
	"github.com/suykerbuyk/examnotes/internal/pipeline"
	"github.com/suykerbuyk/examnotes/internal/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

type flags struct {
	configPath string
	model      string
	baseURL    string
	logLevel   string
	addr       string
}

func main() {
	os.Exit(execute())
}

func execute() int {
	var (
		f    flags
		code int
	)

	root := &cobra.Command{
		Use:   "examnotes",
		Short: "Turn study content into structured exam notes",
		Long: `examnotes reads one JSON request from stdin:

  {"content": "...", "exam_type": "midterm|final|viva", "depth": "short|medium|detailed"}

and writes one JSON object to stdout, either the generated notes or
{"error": "..."}. The exit code is 0 on success and 1 on any failure.

Configuration: ~/.config/examnotes/config.toml
Environment:   MODEL_NAME, OPENAI_BASE_URL, OPENROUTER_API_KEY`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Existing environment wins over .env entries.
			_ = godotenv.Load()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			code = runGenerate(cmd, f)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&f.configPath, "config", "", "path to config.toml")
	root.PersistentFlags().StringVar(&f.model, "model", "", "model identifier (overrides MODEL_NAME)")
	root.PersistentFlags().StringVar(&f.baseURL, "base-url", "", "chat-completions base URL (overrides OPENAI_BASE_URL)")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Read a request from stdin and print notes to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			code = runGenerate(cmd, f)
			return nil
		},
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /api/notes over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(f)
		},
	}
	serve.Flags().StringVar(&f.addr, "addr", "", "listen address (overrides server.addr)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default config.toml if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.WriteDefault()
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created: %s\n", path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "exists: %s\n", path)
			}
			return nil
		},
	})

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate config and environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			report := check.Run(cfg, f.configPath)
			fmt.Fprint(cmd.OutOrStdout(), report.Format())
			if report.HasFailures() {
				code = 1
			}
			return nil
		},
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "examnotes %s\n", Version)
		},
	}

	root.AddCommand(generate, serve, configCmd, checkCmd, version)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "examnotes: %v\n", err)
		return 1
	}
	return code
}

func loadConfig(f flags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}
	if f.model != "" {
		cfg.LLM.Model = f.model
	}
	if f.baseURL != "" {
		cfg.LLM.BaseURL = f.baseURL
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	return cfg, cfg.Validate()
}

func buildDriver(cfg config.Config, log *logger.Logger) *pipeline.Driver {
	client := llm.New(cfg.LLMClientConfig(), log)
	return pipeline.New(client, pipeline.Options{
		Model: cfg.LLM.Model,
		Retry: pipeline.RetryOn(cfg.RetryKinds()...),
	}, log)
}

// runGenerate never fails through cobra: every outcome, config errors
// included, is reported as a JSON object on stdout.
func runGenerate(cmd *cobra.Command, f flags) int {
	cfg, err := loadConfig(f)
	if err != nil {
		_ = json.NewEncoder(cmd.OutOrStdout()).Encode(pipeline.ErrorBody{Error: "Configuration error: " + err.Error()})
		return 1
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	return buildDriver(cfg, log).Run(context.Background(), cmd.InOrStdin(), cmd.OutOrStdout())
}

func runServe(f flags) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if f.addr != "" {
		addr = f.addr
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := server.New(buildDriver(cfg, log), server.Options{
		APIKeyConfigured: cfg.APIKey != "",
		RequestTimeout:   cfg.RequestTimeout(),
	}, log)

	log.Info("starting server", "addr", addr, "model", cfg.LLM.Model)
	return srv.Routes().Run(addr)
}
