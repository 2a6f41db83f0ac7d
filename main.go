package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"tambaqui-prime/config"
	_ "tambaqui-prime/docs"
	"tambaqui-prime/middleware"
	"tambaqui-prime/models"
	"tambaqui-prime/repositories"
	"tambaqui-prime/routes"
	"tambaqui-prime/services"
)

// @title Tambaqui Prime API
// @version 1.0
// @description Direct-to-consumer fish storefront: catalog, carts, checkout, receipts and admin catalog editing.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.LoadConfig()

	if config.AppConfig.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	models.InitRedis()
	defer models.CloseRedis()

	var kv repositories.KV
	switch config.AppConfig.StoreDriver {
	case "postgres":
		config.ConnectDB()
		defer config.CloseDB()
		kv = repositories.NewPostgresKV(config.DB)
	default:
		fileKV, err := repositories.NewFileKV(config.AppConfig.DataDir)
		if err != nil {
			log.Fatalf("Failed to open data directory: %v", err)
		}
		kv = fileKV
	}

	repo := repositories.NewStateRepository(kv)
	cloud := services.NewCloudService(config.AppConfig.CloudStorageURL)

	state, err := services.NewAppState(repo, cloud, os.Getenv("SEED_ADMIN_PASSWORD"))
	if err != nil {
		log.Fatalf("Failed to initialize application state: %v", err)
	}

	// Initial pull of the shared catalog document. Failure means local-only
	// mode, never a dead server.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := state.SyncWithCloud(ctx); err != nil {
		log.Printf("Cloud unreachable at startup, operating in local mode: %v", err)
	}
	cancel()

	messages := services.NewMessageService(
		config.AppConfig.GeminiAPIKey,
		config.AppConfig.GeminiBaseURL,
		config.AppConfig.GeminiModel,
		config.AppConfig.StoreWhatsApp,
	)

	if err := os.MkdirAll(config.AppConfig.UploadDir, os.ModePerm); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	routes.SetupRoutes(router, state, messages)

	port := ":" + config.AppConfig.Port
	log.Printf("Server starting on port %s", port)
	log.Printf("Environment: %s", config.AppConfig.AppEnv)
	log.Printf("Swagger UI: http://localhost:%s/swagger/index.html", config.AppConfig.Port)

	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
