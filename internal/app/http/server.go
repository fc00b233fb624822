package httpEngine

import (
	"context"
	"net/http"
	"time"

	"github.com/deepak-shinde14/wellness-platform-backend/configs"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/logics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	e *echo.Echo
}

func initRequestLoggerConfig() *middleware.RequestLoggerConfig {
	return &middleware.RequestLoggerConfig{
		// Health checks are noise, keep them out of the request log.
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/"
		},
		HandleError: true,

		LogLatency:      true,
		LogRemoteIP:     true,
		LogMethod:       true,
		LogURI:          true,
		LogRoutePath:    true,
		LogRequestID:    true,
		LogUserAgent:    true,
		LogStatus:       true,
		LogError:        true,
		LogResponseSize: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("remote_ip", v.RemoteIP),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.String("route", v.RoutePath),
				zap.String("user_agent", v.UserAgent),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
				zap.Int64("response_size", v.ResponseSize),
			}

			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				configs.Logger.Error("Request log with error", fields...)
				return nil
			}

			configs.Logger.Info("Request log", fields...)
			return nil
		},
	}
}

// NewServer instantiates Echo, wires the middleware chain, and registers
// routes.
func NewServer(notifier *logics.Notifier) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     configs.Configs.Service.AllowOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(*initRequestLoggerConfig()))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}))

	RegisterRoutes(e, notifier)

	return &Server{e: e}
}

// Start runs the Echo server on the configured listen address.
func (s *Server) Start() error {
	addr := configs.Configs.Service.ListenAddress
	if addr == "" {
		addr = ":5000"
	}
	return s.e.Start(addr)
}

// Echo exposes the underlying engine for tests.
func (s *Server) Echo() *echo.Echo {
	return s.e
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.e.Shutdown(shutdownCtx)
}
