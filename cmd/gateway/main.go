package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"

	"gateway.example/filter-gateway/internal/auth"
	"gateway.example/filter-gateway/internal/config"
	"gateway.example/filter-gateway/internal/core"
	"gateway.example/filter-gateway/internal/database"
	"gateway.example/filter-gateway/internal/repository"
	"gateway.example/filter-gateway/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	// --- 1. 加载配置 ---
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("致命错误: 加载配置失败: %v", err)
	}

	// --- 2. 初始化日志器 ---
	appLogger, err := logger.New(logger.WithOptions(cfg.Logger))
	if err != nil {
		log.Fatalf("致命错误: 初始化日志器失败: %v", err)
	}
	ctx := context.Background()
	appLogger.Info(ctx, "[启动] 配置加载成功", "config", *configPath)

	// --- 3. 选择用户存储 ---
	// 配置了 DSN 则连接 MySQL，否则退化为内存存储（适合本地开发）
	var userRepo repository.UserRepository
	if cfg.Database.DSN != "" {
		db, err := database.NewConnection(cfg.Database.DSN)
		if err != nil {
			appLogger.Fatal(ctx, "[启动] 连接数据库失败", "error", err)
		}
		if cfg.Database.AutoMigrate {
			if err := database.AutoMigrate(db); err != nil {
				appLogger.Fatal(ctx, "[启动] 数据库迁移失败", "error", err)
			}
			appLogger.Info(ctx, "[启动] 数据库迁移完成")
		}
		userRepo = repository.NewGormUserRepository(db)
	} else {
		appLogger.Warn(ctx, "[启动] 未配置数据库 DSN，使用内存用户存储")
		userRepo = repository.NewMemoryUserRepository()
	}

	// --- 4. 依赖注入：认证层与网关层 ---
	authService := auth.NewService(userRepo, cfg.JWT.SecretKey, cfg.JWT.DurationMinutes, cfg.JWT.Issuer)
	authHandler := auth.NewHandler(authService, appLogger)

	gw, err := core.NewGateway(cfg, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "[启动] 创建网关失败", "error", err)
	}

	admin := core.NewAdminHandler(gw.Container(), gw.Breakers(), gw.Health(), appLogger)

	// --- 5. 组装路由 ---
	// 认证端点由网关本机处理，其余流量交给过滤器链与反向代理
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		authHandler.Register(w, r)
	})
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		authHandler.Login(w, r)
	})
	admin.Register(mux)
	mux.Handle("/", gw)

	handler := logger.Middleware(appLogger)(mux)

	// --- 6. 启动 HTTP 服务器并等待停止信号 ---
	srv := core.NewServer(cfg.Server.Port, handler, appLogger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal(ctx, "[启动] 服务器启动失败", "error", err)
		}
	}()

	srv.GracefulShutdown(gw.Shutdown)
}
