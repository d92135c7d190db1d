package main

import (
	"errors"
	"testing"

	"anchain-mcp/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ANCHAIN_APIKEY", "ANCHAIN_BASE_URL", "ANCHAIN_HOST", "ANCHAIN_PORT", "ANCHAIN_MCP_TOKEN", "ANCHAIN_TIMEOUT"} {
		t.Setenv(k, "")
	}
}

func TestMissingAPIKeyFailsBeforeServing(t *testing.T) {
	clearEnv(t)
	cmd := newRootCmd()
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANCHAIN_APIKEY", "env-key")
	t.Setenv("ANCHAIN_PORT", "9000")

	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"-k", "flag-key", "--rm", "--host", "0.0.0.0"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	opts := options{}
	opts.apiKey, _ = cmd.Flags().GetString("ANCHAIN_APIKEY")
	opts.remote, _ = cmd.Flags().GetBool("rm")
	opts.host, _ = cmd.Flags().GetString("host")

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.APIKey != "flag-key" || !cfg.Remote || cfg.Host != "0.0.0.0" {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if cfg.Port != 9000 {
		t.Fatalf("env port should survive unset flag, got %d", cfg.Port)
	}
}

func TestRemoteModeRunsWithoutKey(t *testing.T) {
	clearEnv(t)
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--remote"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if _, err := loadConfig(cmd, options{remote: true}); err != nil {
		t.Fatalf("remote mode should not require a key: %v", err)
	}
}
