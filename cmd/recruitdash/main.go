package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/config"
	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/server"
	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/service/excel"
	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/util"
)

var (
	port       = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	devMode    = flag.Bool("dev", false, "开发模式")
	dataFile   = flag.String("data", "", "默认数据文件 (覆盖配置文件)")
	configPath = flag.String("config", "", "配置文件路径 (默认为可执行文件同目录下的 config.toml)")
)

func main() {
	flag.Parse()

	// .env 可选
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("读取 .env 失败: %v", err)
	}

	fmt.Println("==========================================")
	fmt.Println("  Recruitment Analytics Dashboard")
	fmt.Println("==========================================")

	path := *configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, info, err := config.LoadFrom(path)
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataFile != "" {
		cfg.Data.DefaultFile = *dataFile
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("初始化服务失败: %v", err)
	}
	defer srv.Close()

	if ds, err := srv.Preload(); err != nil {
		if errors.Is(err, excel.ErrNoData) {
			fmt.Printf("未找到默认数据文件 %s，等待上传\n", cfg.DefaultFilePath())
		} else {
			log.Printf("默认数据文件无法解析: %v", err)
		}
	} else {
		fmt.Printf("数据文件: %s (%d 行)\n", ds.Name, ds.Table.Len())
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	if cfg.Server.DevMode {
		fmt.Printf("开发模式: 前端 %s，API %s/api\n", cfg.Server.FrontendURL, url)
	} else if cfg.Server.OpenBrowser {
		fmt.Printf("正在打开浏览器: %s\n", url+"/api/status")
		if err := util.OpenBrowserWithFallback(url + "/api/status"); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
}
