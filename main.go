package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"store-rating-api/config"
	"store-rating-api/handlers"
	"store-rating-api/routes"
)

func main() {
	configPath := flag.String("config", "", "Path to yaml config file (defaults apply when empty)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	db, err := config.OpenDB(cfg.DB.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Str("dsn", cfg.DB.DSN).Msg("Database connected and migrated")

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()

	// CORS for the React frontend
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.Origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Store Rating API",
			"roles":   []string{"user", "shopowner", "admin"},
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	deps := handlers.NewDeps(db, cfg)
	routes.SetupRoutes(r, deps)

	log.Info().Str("port", cfg.Server.Port).Msg("Server starting")
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
