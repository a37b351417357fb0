package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/mesa-next/internal/app"
	"github.com/mesa-next/internal/config"
	"github.com/mesa-next/internal/logger"
	"github.com/mesa-next/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiDim    = "\033[2m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
)

func main() {
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	printStartupBanner()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if cfg.Server.Mode == "release" {
		if isWeakSecret(cfg.JWT.SecretKey) {
			stdLog.Fatalf("JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
	} else if isWeakSecret(cfg.JWT.SecretKey) {
		stdLog.Printf("警告: JWT secret 过弱或仍为默认值，建议在生产环境中更换")
	}

	// 初始化数据库（权限策略与 gorm 存储共用）
	if err := models.InitDB(cfg.Database); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Server.Mode == "release" && cfg.SuperAdmin.Password == "" {
		stdLog.Printf("警告: 未配置 super_admin.password，已跳过超级管理员初始化")
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiYellow + "███╗   ███╗███████╗███████╗ █████╗ " + ansiReset)
	fmt.Println(ansiYellow + "████╗ ████║██╔════╝██╔════╝██╔══██╗" + ansiReset)
	fmt.Println(ansiYellow + "██╔████╔██║█████╗  ███████╗███████║" + ansiReset)
	fmt.Println(ansiYellow + "██║╚██╔╝██║██╔══╝  ╚════██║██╔══██║" + ansiReset)
	fmt.Println(ansiYellow + "██║ ╚═╝ ██║███████╗███████║██║  ██║" + ansiReset)
	fmt.Println(ansiYellow + "╚═╝     ╚═╝╚══════╝╚══════╝╚═╝  ╚═╝" + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "Mesa API: menús digitales y pedidos" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}
