package main

import (
	"flag"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shareit/pkg/circuitbreaker"
	"shareit/pkg/config"
	"shareit/pkg/logging"
	"shareit/pkg/metrics"
)

const userIDHeader = "X-Sharer-User-Id"

var (
	serverURL  string
	httpClient *http.Client
	breaker    *circuitbreaker.Breaker
	logger     *zerolog.Logger
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}

	logger = logging.New(cfg.Logging, cfg.App)
	serverURL = cfg.Gateway.ServerURL
	httpClient = &http.Client{Timeout: cfg.Gateway.ClientTimeout.Std()}
	breaker = circuitbreaker.New(cfg.Gateway.BreakerMax, cfg.Gateway.BreakerTimeout.Std())

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics.Register()
	router := setupRouter()

	addr := fmt.Sprintf(":%d", cfg.Gateway.Port)
	logger.Info().Str("addr", addr).Str("server_url", serverURL).Msg("gateway starting")
	if err := router.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("gateway failed")
	}
}

func setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestIDMiddleware(), metrics.Middleware("gateway"))

	router.POST("/users", createUserHandler)
	router.PATCH("/users/:userId", updateUserHandler)
	router.GET("/users", getUsersHandler)
	router.GET("/users/:userId", getUserHandler)
	router.DELETE("/users/:userId", deleteUserHandler)

	router.POST("/items", createItemHandler)
	router.PATCH("/items/:itemId", updateItemHandler)
	router.GET("/items/:itemId", getItemHandler)
	router.GET("/items", getItemsByOwnerHandler)
	router.GET("/items/search", searchItemsHandler)
	router.POST("/items/:itemId/comment", createCommentHandler)

	router.POST("/bookings", createBookingHandler)
	router.PATCH("/bookings/:bookingId", approveBookingHandler)
	router.GET("/bookings/:bookingId", getBookingHandler)
	router.GET("/bookings", getBookingsByBookerHandler)
	router.GET("/bookings/owner", getBookingsByOwnerHandler)

	router.POST("/requests", createRequestHandler)
	router.GET("/requests", getRequestsByRequestorHandler)
	router.GET("/requests/all", getAllRequestsHandler)
	router.GET("/requests/:requestId", getRequestHandler)

	router.GET("/manage/health", healthCheck)
	router.GET("/metrics", metrics.Handler())

	return router
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-Id", id)
		c.Next()
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

// requireUserID rejects requests that lack a positive X-Sharer-User-Id
// before any network hop.
func requireUserID(c *gin.Context) bool {
	raw := c.GetHeader(userIDHeader)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": userIDHeader + " header is required"})
		return false
	}
	if id, err := strconv.ParseUint(raw, 10, 64); err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": userIDHeader + " header must be a positive integer"})
		return false
	}
	return true
}

func requirePathID(c *gin.Context, name string) bool {
	if id, err := strconv.ParseUint(c.Param(name), 10, 64); err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return false
	}
	return true
}

// requirePageParams checks from/size when present; defaults are the
// server's concern.
func requirePageParams(c *gin.Context) bool {
	if raw := c.Query("from"); raw != "" {
		if v, err := strconv.Atoi(raw); err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be a non-negative integer"})
			return false
		}
	}
	if raw := c.Query("size"); raw != "" {
		if v, err := strconv.Atoi(raw); err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be a positive integer"})
			return false
		}
	}
	return true
}
