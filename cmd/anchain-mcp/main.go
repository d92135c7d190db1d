// Command anchain-mcp serves the AnChain.AI Data API as MCP tools over stdio,
// or over streamable HTTP with --remote.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"anchain-mcp/internal/anchain"
	"anchain-mcp/internal/config"
	"anchain-mcp/internal/server"
	"anchain-mcp/internal/tools"
	"anchain-mcp/internal/zlog"
)

var version = "dev"

type options struct {
	configPath string
	apiKey     string
	baseURL    string
	remote     bool
	host       string
	port       int
	logLevel   string
	logFile    string
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "anchain-mcp",
		Short:         "AnChain.AI MCP server for AML compliance and crypto screening",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "path to a TOML config file")
	f.StringVarP(&opts.apiKey, "ANCHAIN_APIKEY", "k", "", "API key for stdio server (default $ANCHAIN_APIKEY)")
	f.StringVar(&opts.baseURL, "base-url", "", "AnChain.AI API base URL")
	f.BoolVar(&opts.remote, "remote", false, "run in remote mode (streamable HTTP)")
	f.BoolVar(&opts.remote, "rm", false, "alias for --remote")
	f.StringVar(&opts.host, "host", "", "host for remote mcp server (default 127.0.0.1)")
	f.IntVar(&opts.port, "port", 0, "port for remote mcp server (default 8002)")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&opts.logFile, "log-file", "", "also write logs to this rotating file")
	_ = f.MarkHidden("rm")
	return cmd
}

// loadConfig layers explicitly set flags over the file and environment.
func loadConfig(cmd *cobra.Command, opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	f := cmd.Flags()
	if f.Changed("ANCHAIN_APIKEY") {
		cfg.APIKey = opts.apiKey
	}
	if f.Changed("base-url") {
		cfg.BaseURL = opts.baseURL
	}
	if f.Changed("remote") || f.Changed("rm") {
		cfg.Remote = opts.remote
	}
	if f.Changed("host") {
		cfg.Host = opts.host
	}
	if f.Changed("port") {
		cfg.Port = opts.port
	}
	if f.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if f.Changed("log-file") {
		cfg.LogFile = opts.logFile
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg config.Config) error {
	flush, err := zlog.Init(zlog.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer flush()

	anchain.UserAgent = "anchain-mcp/" + version
	client := anchain.New(cfg.BaseURL, cfg.APIKey, &http.Client{})
	registry, err := tools.NewRegistry(client, cfg.RequestTimeout.Duration, tools.Catalog())
	if err != nil {
		return err
	}
	srv := server.New(cfg, registry, version)

	zlog.Info("starting anchain-mcp",
		zap.String("version", version),
		zap.Bool("remote", cfg.Remote),
		zap.String("base_url", cfg.BaseURL),
	)
	if cfg.Remote {
		if cfg.Token == "" {
			zlog.Warn("ANCHAIN_MCP_TOKEN not set; remote endpoints are open")
		}
		return srv.ListenAndServe(ctx)
	}
	return srv.ServeStdio(ctx, os.Stdin, os.Stdout)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "anchain-mcp:", err)
		stop()
		os.Exit(1)
	}
}
