package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// 环境变量（可写在 .env 中）
const (
	EnvPort     = "RECRUITDASH_PORT"
	EnvDataDir  = "RECRUITDASH_DATA_DIR"
	EnvDataFile = "RECRUITDASH_DATA_FILE"
	EnvDevMode  = "RECRUITDASH_DEV"
)

// ConfigFileName 配置文件名
const ConfigFileName = "config.toml"

// AppConfig 应用配置
type AppConfig struct {
	Server    ServerConfig    `toml:"server"`
	Data      DataConfig      `toml:"data"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Export    ExportConfig    `toml:"export"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int    `toml:"port"`
	DevMode     bool   `toml:"dev_mode"`
	FrontendURL string `toml:"frontend_url"`
	OpenBrowser bool   `toml:"open_browser"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir     string `toml:"data_dir"`
	DefaultFile string `toml:"default_file"`
	MaxUploadMB int    `toml:"max_upload_mb"`
	ImportLog   bool   `toml:"import_log"`
}

// DashboardConfig 仪表盘配置
type DashboardConfig struct {
	HistogramBins int `toml:"histogram_bins"`
}

// ExportConfig 导出配置
type ExportConfig struct {
	SheetName string `toml:"sheet_name"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        8501,
			DevMode:     false,
			FrontendURL: "http://localhost:5173",
			OpenBrowser: true,
		},
		Data: DataConfig{
			DataDir:     "data",
			DefaultFile: "datafile.xlsx",
			MaxUploadMB: 50,
			ImportLog:   true,
		},
		Dashboard: DashboardConfig{
			HistogramBins: 30,
		},
		Export: ExportConfig{
			SheetName: "Filtered Data",
		},
	}
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultConfigPath 可执行文件同目录下的 config.toml
func DefaultConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, ConfigFileName)
}

// LoadFrom 从指定路径加载配置；文件不存在时使用默认配置。随后应用环境变量覆盖
func LoadFrom(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: path}
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.FileFound = true
		info.PortSpecified = isPortSpecified(data)
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, info, err
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	if applyEnv(cfg) {
		info.PortSpecified = true
	}
	return cfg, info, nil
}

// Load 从可执行文件同目录的 config.toml 加载配置
func Load() (*AppConfig, LoadConfigInfo, error) {
	return LoadFrom(DefaultConfigPath())
}

// applyEnv 环境变量覆盖，返回是否覆盖了端口
func applyEnv(cfg *AppConfig) (portSet bool) {
	if v := os.Getenv(EnvPort); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.Server.Port = p
			portSet = true
		}
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.Data.DataDir = v
	}
	if v := os.Getenv(EnvDataFile); v != "" {
		cfg.Data.DefaultFile = v
	}
	if v := os.Getenv(EnvDevMode); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Server.DevMode = b
		}
	}
	return portSet
}

func isPortSpecified(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}
	server, ok := raw["server"].(map[string]any)
	if !ok {
		return false
	}
	_, ok = server["port"]
	return ok
}

// resolve 相对路径基于 baseDir
func resolve(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

// DataDir 数据目录绝对路径（相对路径基于可执行文件目录）
func (c *AppConfig) DataDir() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return resolve(exeDir, c.Data.DataDir)
}

// DefaultFilePath 默认数据文件路径：相对路径基于工作目录（与启动位置一致）
func (c *AppConfig) DefaultFilePath() string {
	if c.Data.DefaultFile == "" {
		return ""
	}
	if filepath.IsAbs(c.Data.DefaultFile) {
		return c.Data.DefaultFile
	}
	wd, err := os.Getwd()
	if err != nil {
		return c.Data.DefaultFile
	}
	return filepath.Join(wd, c.Data.DefaultFile)
}

// MaxUploadBytes 上传大小上限
func (c *AppConfig) MaxUploadBytes() int64 {
	if c.Data.MaxUploadMB <= 0 {
		return 50 << 20
	}
	return int64(c.Data.MaxUploadMB) << 20
}

// EnsureDataDir 确保数据目录存在
func EnsureDataDir(cfg *AppConfig) (string, error) {
	dir := cfg.DataDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
