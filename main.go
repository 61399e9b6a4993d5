package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/egg-seed/in-stamp-archive/config"
	"github.com/egg-seed/in-stamp-archive/routes"
	"github.com/egg-seed/in-stamp-archive/services"
)

func main() {
	// Set up logging to stdout
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	cfg := config.Load()

	// Initialize database
	db := config.InitDB(cfg)

	storage, err := services.NewStorageService(cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize storage backend: ", err)
	}
	defer storage.Wait()

	// Create a new Gin router
	r := gin.Default()

	if len(cfg.CORSOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSOrigins
		corsConfig.AllowCredentials = true
		corsConfig.AddAllowHeaders("Authorization")
		r.Use(cors.New(corsConfig))
	}

	// Initialize routes
	routes.SetupRoutes(r, db, cfg, storage)

	// Start the server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed: ", err)
	}
}
