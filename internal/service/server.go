package service

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server appneruf-data 的 HTTP 服务
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

func NewServer(addr string, handler http.Handler, logger *zap.Logger) *Server {
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return &Server{httpServer: s, logger: logger}
}

func (s *Server) Addr() string { return s.httpServer.Addr }

// Start 阻塞直到 Stop；正常关闭时返回 http.ErrServerClosed
func (s *Server) Start() error {
	s.logger.Info("Starting appneruf-data HTTP server", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Stop 等待在途请求完成，超出 ctx 期限则强制关闭
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping appneruf-data HTTP server")
	return s.httpServer.Shutdown(ctx)
}
