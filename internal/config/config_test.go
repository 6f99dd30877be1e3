package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFrom_Missing(t *testing.T) {
	cfg, info, err := LoadFrom(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if info.FileFound || info.PortSpecified {
		t.Fatalf("unexpected info: %+v", info)
	}
	def := DefaultConfig()
	if cfg.Server.Port != def.Server.Port || cfg.Data.DefaultFile != "datafile.xlsx" || cfg.Dashboard.HistogramBins != 30 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFrom_File(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9000

[data]
default_file = "/srv/recruit.xlsx"
max_upload_mb = 5

[dashboard]
histogram_bins = 12
`)
	cfg, info, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !info.FileFound || !info.PortSpecified {
		t.Fatalf("unexpected info: %+v", info)
	}
	if cfg.Server.Port != 9000 || cfg.Dashboard.HistogramBins != 12 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.DefaultFilePath() != "/srv/recruit.xlsx" {
		t.Fatalf("DefaultFilePath = %s", cfg.DefaultFilePath())
	}
	if cfg.MaxUploadBytes() != 5<<20 {
		t.Fatalf("MaxUploadBytes = %d", cfg.MaxUploadBytes())
	}
	// 未配置的字段保持默认
	if cfg.Export.SheetName != "Filtered Data" || !cfg.Data.ImportLog {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadFrom_PortNotSpecified(t *testing.T) {
	path := writeConfig(t, "[server]\ndev_mode = true\n")
	cfg, info, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if info.PortSpecified {
		t.Fatalf("port should not be marked specified")
	}
	if !cfg.Server.DevMode {
		t.Fatalf("dev_mode not applied")
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	path := writeConfig(t, "[server\nport = ")
	if _, _, err := LoadFrom(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	t.Setenv(EnvPort, "7001")
	t.Setenv(EnvDataFile, "/tmp/other.xlsx")
	t.Setenv(EnvDevMode, "true")

	cfg, info, err := LoadFrom(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.Port != 7001 || !info.PortSpecified {
		t.Fatalf("port override failed: %d %+v", cfg.Server.Port, info)
	}
	if cfg.Data.DefaultFile != "/tmp/other.xlsx" || !cfg.Server.DevMode {
		t.Fatalf("env override failed: %+v", cfg)
	}
}

func TestDefaultFilePath_Relative(t *testing.T) {
	cfg := DefaultConfig()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if got := cfg.DefaultFilePath(); got != filepath.Join(wd, "datafile.xlsx") {
		t.Fatalf("DefaultFilePath = %s", got)
	}

	cfg.Data.DefaultFile = ""
	if cfg.DefaultFilePath() != "" {
		t.Fatalf("empty default file should stay empty")
	}
}
