package main

import (
	"flag"
	"log"
	"strings"

	"budget/config"
	"budget/database"
	"budget/middleware"
	"budget/router"
	"budget/service"

	"github.com/joho/godotenv"
)

//go:generate swag init -g main.go -o docs

// @title 预算分析 API
// @version 1.0
// @description 个人预算分析服务：收支记录、类别预算上限、健康分与 AI 建议
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("预算分析服务 v1.0.0")
		return
	}

	// .env 可选，用于本地开发
	if err := godotenv.Load(); err == nil {
		log.Println("已加载 .env")
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		// 自动添加冒号前缀
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("命令行指定端口: %s", port)
	}

	// 打印配置信息
	config.PrintConfig()

	// 初始化数据库
	if err := database.Init(cfg); err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	// 初始化 JWT
	middleware.InitJWT(cfg)

	// 超支告警，连接失败时降级为不发送
	alerts, err := service.NewAlertPublisher(cfg.AMQP)
	if err != nil {
		log.Printf("预算告警初始化失败，已禁用: %v", err)
		alerts = service.NoopAlertPublisher{}
	}
	defer alerts.Close()

	// 设置路由
	r := router.SetupRouter(cfg, alerts)

	// 启动服务器
	log.Printf("==========================================")
	log.Printf("  预算分析服务已启动")
	log.Printf("==========================================")
	log.Printf("  Swagger:  http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  API接口:  http://localhost%s/api/v1/", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Printf("服务器启动失败: %v", err)
	}
}
