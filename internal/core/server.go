package core

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gateway.example/filter-gateway/pkg/logger"
)

// Server 封装了 http.Server，提供启动与优雅关闭。
type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

// NewServer 创建HTTP服务器，port 形如 "8080"。
func NewServer(port string, handler http.Handler, log logger.Logger) *Server {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return &Server{
		httpServer: srv,
		logger:     log,
	}
}

// Start 启动服务器，阻塞直到服务器退出。
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "[服务器] 启动中", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown 按给定context关闭服务器。
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "[服务器] 正在关闭")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error(ctx, "[服务器] 强制关闭", "error", err)
		return err
	}

	s.logger.Info(ctx, "[服务器] 已优雅关闭")
	return nil
}

// GracefulShutdown 阻塞等待停止信号，收到后先排空HTTP连接，
// 再执行cleanup释放网关持有的其他资源。
func (s *Server) GracefulShutdown(cleanup func()) {
	quit := make(chan os.Signal, 1)
	// 监听 SIGINT (Ctrl+C) 和 SIGTERM (kill 命令)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.logger.Info(context.Background(), "[服务器] 收到停止信号，开始优雅关闭")

	// 赋予服务器一些时间来完成正在处理的请求
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error(ctx, "[服务器] 强制关闭", "error", err)
	}

	if cleanup != nil {
		cleanup()
	}
	s.logger.Info(context.Background(), "[服务器] 已优雅关闭")
}
