package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/milan604/netservice/pkg/logger"
)

// NewEngine creates a Gin engine with request id, access logging and optional
// diagnostics routes.
func NewEngine(opts ...EngineOption) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	var opt engineOptions
	for _, o := range opts {
		o(&opt)
	}

	logMgr := opt.logger
	if logMgr == nil {
		logMgr = logger.NewNop()
	}

	engine.Use(requestID(), accessLog(logMgr))
	if opt.recovery {
		engine.Use(recovery(logMgr))
	}

	if opt.gatherer != nil {
		path := opt.metricsPath
		if path == "" {
			path = "/metrics"
		}
		engine.GET(path, gin.WrapH(promhttp.HandlerFor(opt.gatherer, promhttp.HandlerOpts{})))
	}
	if opt.health != nil {
		engine.GET("/healthz", func(c *gin.Context) {
			c.JSON(http.StatusOK, opt.health())
		})
	}

	return engine
}

// Server serves an engine until Shutdown.
type Server struct {
	srv    *http.Server
	logger logger.LogManager
}

// shutdownTimeout bounds how long Shutdown waits for in-flight requests.
const shutdownTimeout = 15 * time.Second

// New returns a Server for engine on addr. A nil logger discards output.
func New(engine *gin.Engine, addr string, l logger.LogManager) *Server {
	if l == nil {
		l = logger.NewNop()
	}
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
		logger: l,
	}
}

// Serve listens on the configured address and blocks until Shutdown.
func (s *Server) Serve() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		s.logger.ErrorF("listen on %s: %v", s.srv.Addr, err)
		return err
	}
	return s.ServeListener(ln)
}

// ServeListener serves on ln and blocks until Shutdown.
func (s *Server) ServeListener(ln net.Listener) error {
	s.logger.InfoF("diagnostics listening on %s", ln.Addr())
	if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		s.logger.ErrorF("diagnostics serve: %v", err)
		return err
	}
	return nil
}

// Shutdown stops the server gracefully, bounded by the shutdown timeout.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.ErrorF("diagnostics shutdown: %v", err)
		return err
	}
	s.logger.InfoF("diagnostics stopped")
	return nil
}
