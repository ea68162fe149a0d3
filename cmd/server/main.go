package main

import (
	"flag"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"shareit/pkg/config"
	"shareit/pkg/database"
	"shareit/pkg/logging"
	"shareit/pkg/metrics"
	"shareit/pkg/models"
)

const userIDHeader = "X-Sharer-User-Id"

var (
	db              *gorm.DB
	logger          *zerolog.Logger
	defaultPageSize = 10
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}

	logger = logging.New(cfg.Logging, cfg.App)
	defaultPageSize = cfg.Server.DefaultPageSize

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err = database.Init(cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("database init failed")
	}

	metrics.Register()
	router := setupRouter()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("server starting")
	if err := router.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestIDMiddleware(), requestLogger(), metrics.Middleware("server"))

	router.POST("/users", createUser)
	router.PATCH("/users/:userId", updateUser)
	router.GET("/users", getUsers)
	router.GET("/users/:userId", getUser)
	router.DELETE("/users/:userId", deleteUser)

	router.POST("/items", createItem)
	router.PATCH("/items/:itemId", updateItem)
	router.GET("/items/:itemId", getItem)
	router.GET("/items", getItemsByOwner)
	router.GET("/items/search", searchItems)
	router.POST("/items/:itemId/comment", createComment)

	router.POST("/bookings", createBooking)
	router.PATCH("/bookings/:bookingId", approveBooking)
	router.GET("/bookings/:bookingId", getBooking)
	router.GET("/bookings", getBookingsByBooker)
	router.GET("/bookings/owner", getBookingsByOwner)

	router.POST("/requests", createRequest)
	router.GET("/requests", getRequestsByRequestor)
	router.GET("/requests/all", getAllRequests)
	router.GET("/requests/:requestId", getRequest)

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
		c.Set("request_id", id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", c.GetString("request_id")).
			Msg("request handled")
	}
}

func healthCheck(c *gin.Context) {
	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "database unreachable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

// actingUserID reads the identity header every item, booking and request
// operation carries.
func actingUserID(c *gin.Context) (uint, error) {
	raw := c.GetHeader(userIDHeader)
	if raw == "" {
		return 0, badRequestf("%s header is required", userIDHeader)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, badRequestf("%s header must be a positive integer", userIDHeader)
	}
	return uint(id), nil
}

func pathID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, badRequestf("%s must be a positive integer", name)
	}
	return uint(id), nil
}

// pageWindow translates from/size query params into the page model the
// listings use: page number = from / size, window = [page*size, +size).
func pageWindow(c *gin.Context) (page, size int, err error) {
	size = defaultPageSize
	from := 0
	if raw := c.Query("from"); raw != "" {
		from, err = strconv.Atoi(raw)
		if err != nil || from < 0 {
			return 0, 0, badRequestf("from must be a non-negative integer")
		}
	}
	if raw := c.Query("size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return 0, 0, badRequestf("size must be a positive integer")
		}
	}
	return from / size, size, nil
}

func userExists(id uint) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
