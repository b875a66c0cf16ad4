package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/robofuse/qbitctl/internal/config"
	"github.com/robofuse/qbitctl/internal/logger"
	"github.com/robofuse/qbitctl/pkg/qbittorrent"
)

func parseListFlags(t *testing.T, lf *listFlags, args ...string) (qbittorrent.FilterOptions, error) {
	t.Helper()
	cmd := &cobra.Command{Use: "list"}
	lf.bind(cmd)
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return lf.options(cmd)
}

func addUpload(t *testing.T, cfg *config.Config, path string, args ...string) qbittorrent.TorrentUpload {
	t.Helper()
	var af addFlags
	cmd := &cobra.Command{Use: "add"}
	af.bind(cmd)
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return af.upload(cmd, cfg, path)
}

func TestListOptions_OnlyChangedFlags(t *testing.T) {
	var lf listFlags
	filters, err := parseListFlags(t, &lf, "--limit", "20", "--category", "")
	if err != nil {
		t.Fatalf("options: %v", err)
	}

	if got := filters.Values().Encode(); got != "category=&limit=20" {
		t.Fatalf("expected category=&limit=20, got %q", got)
	}
}

func TestListOptions_UnknownFilter(t *testing.T) {
	var lf listFlags
	if _, err := parseListFlags(t, &lf, "--filter", "sleeping"); err == nil {
		t.Fatalf("expected error for unknown filter")
	}
}

func TestAddUpload_ConfigDefaultsAndOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.DefaultCategory = "inbox"
	cfg.DefaultSavePath = "/downloads"

	upload := addUpload(t, cfg, "/tmp/ubuntu.torrent", "--paused", "--save-path", "/data")
	if upload.Category == nil || *upload.Category != "inbox" {
		t.Fatalf("expected default category, got %v", upload.Category)
	}
	if upload.SavePath == nil || *upload.SavePath != "/data" {
		t.Fatalf("expected save path override, got %v", upload.SavePath)
	}
	if upload.Paused == nil || !*upload.Paused {
		t.Fatalf("expected paused to be set")
	}
	if upload.SkipChecking != nil || upload.Tags != nil {
		t.Fatalf("expected unset flags to stay nil: %+v", upload)
	}
}

func TestAddUpload_AutoCategory(t *testing.T) {
	cfg := config.Default()
	cfg.DefaultCategory = "inbox"

	upload := addUpload(t, cfg, "Breaking.Bad.S02E05.720p.torrent", "--auto-category")
	if upload.Category == nil || *upload.Category != "series" {
		t.Fatalf("expected series category, got %v", upload.Category)
	}
}

func TestPrintTorrents(t *testing.T) {
	var out bytes.Buffer
	printTorrents(&out, []qbittorrent.Torrent{{
		Hash:     "8c212779b4abde7c6bc608063a0d008b7e40ce32",
		Name:     "The.Matrix.1999.1080p",
		State:    qbittorrent.StateUploading,
		Progress: 1,
		Category: "movies",
		Tags:     "hd, classic",
	}}, true)

	text := out.String()
	for _, want := range []string{"8c212779", "uploading", "100.0%", "hd,classic", "The Matrix (1999) [movie]"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out.String() != "qbitctl v"+version+"\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func withFlags(t *testing.T, f globalFlags) {
	t.Helper()
	saved := flags
	flags = f
	t.Cleanup(func() { flags = saved })
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qbitctl.yaml")
	if err := os.WriteFile(path, []byte("host: localhost:8080\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	withFlags(t, globalFlags{configPath: path, username: "admin", rateLimit: "5/minute"})

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Host != "localhost:8080" || cfg.Username != "admin" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.RateLimitCount != 5 || cfg.RateLimitDuration != 60 {
		t.Fatalf("expected 5/minute, got %d/%d", cfg.RateLimitCount, cfg.RateLimitDuration)
	}
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	withFlags(t, globalFlags{username: "admin"})

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Host != config.Default().Host || cfg.Username != "admin" {
		t.Fatalf("expected defaults plus flags, got %+v", cfg)
	}

	withFlags(t, globalFlags{configPath: filepath.Join(dir, "missing.yaml"), username: "admin"})
	if _, err := loadConfig(); err == nil {
		t.Fatalf("expected error for a missing explicit config file")
	}
}

func TestSetup_LogsNextToConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qbitctl.yaml")
	if err := os.WriteFile(path, []byte("host: localhost:8080\nusername: admin\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	withFlags(t, globalFlags{configPath: path})
	t.Cleanup(func() { logger.SetLogPath("") })

	cfg, client, err := setup()
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if client.Host != "http://localhost:8080" {
		t.Fatalf("unexpected host %q", client.Host)
	}
	if want := filepath.Join(cfg.Path, "logs", "qbitctl.log"); logger.GetLogPath() != want {
		t.Fatalf("expected log file %s, got %s", want, logger.GetLogPath())
	}
}
