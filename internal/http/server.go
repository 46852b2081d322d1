// Package http provides the HTTP server wiring the order and payment APIs.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ordersHTTP "github.com/souqdz/marketplace/internal/orders/http"
	paymentsHTTP "github.com/souqdz/marketplace/internal/payments/http"
)

// Server represents the API HTTP server.
type Server struct {
	db             *sql.DB
	server         *http.Server
	logger         *slog.Logger
	orderHandler   *ordersHTTP.OrderHandler
	paymentHandler *paymentsHTTP.PaymentHandler
	corsMiddleware gin.HandlerFunc
}

// NewServer creates a new HTTP server. Handlers may be nil, in which case
// only the health endpoints are registered.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
	orderHandler *ordersHTTP.OrderHandler,
	paymentHandler *paymentsHTTP.PaymentHandler,
	corsMiddleware gin.HandlerFunc,
) *Server {
	return &Server{
		db:             db,
		logger:         logger,
		orderHandler:   orderHandler,
		paymentHandler: paymentHandler,
		corsMiddleware: corsMiddleware,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// setupRouter builds the Gin engine with middleware and all routes.
func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if s.corsMiddleware != nil {
		router.Use(s.corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	if s.orderHandler != nil {
		orders := v1.Group("/orders")
		orders.POST("", s.orderHandler.CreateHandler)
		orders.GET("", s.orderHandler.ListHandler)
		orders.GET("/:orderID", s.orderHandler.GetHandler)
		orders.PATCH("/:orderID", s.orderHandler.UpdateHandler)
		orders.DELETE("/:orderID", s.orderHandler.DeleteHandler)
		orders.POST("/:orderID/confirm", s.orderHandler.ConfirmHandler)
		orders.POST("/:orderID/ship", s.orderHandler.ShipHandler)
		orders.POST("/:orderID/deliver", s.orderHandler.DeliverHandler)
		orders.POST("/:orderID/return", s.orderHandler.RequestReturnHandler)
	}

	if s.paymentHandler != nil {
		payments := v1.Group("/payments")
		payments.POST("/release-escrow", s.paymentHandler.ReleaseEscrowHandler)
		payments.POST("/:orderID/initiate", s.paymentHandler.InitiateHandler)
		payments.GET("/:orderID/checkout", s.paymentHandler.FakeCheckoutHandler)
		payments.POST("/:orderID/submit", s.paymentHandler.SubmitHandler)
		payments.GET("/:orderID/status", s.paymentHandler.StatusHandler)
	}

	return router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can reach its dependencies.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	if s.db == nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}

// GetHandler returns the configured router, building it on first use.
// Exposed so tests can drive the server through httptest.
func (s *Server) GetHandler() http.Handler {
	if s.server.Handler == nil {
		s.server.Handler = s.setupRouter()
	}
	return s.server.Handler
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.GetHandler()

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
