package main

import (
	"log"

	"alocdash/internal"
	"alocdash/internal/config"
	"alocdash/internal/container"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(appConfig.Logging.Level))

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	if err := appContainer.InitServer(); err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	log.Printf("Reading %s and %s from %s", appConfig.Data.HierarchyFile, appConfig.Data.AllocationFile, appConfig.Data.Dir)
	log.Fatal(appContainer.Server.Start(":" + appConfig.Server.Port))
}
