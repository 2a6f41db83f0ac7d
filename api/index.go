package api

import (
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/gin-gonic/gin"

	"tambaqui-prime/config"
	"tambaqui-prime/middleware"
	"tambaqui-prime/models"
	"tambaqui-prime/repositories"
	"tambaqui-prime/routes"
	"tambaqui-prime/services"
)

var (
	router *gin.Engine
	once   sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		config.LoadConfig()
		models.InitRedis()

		var kv repositories.KV
		if config.AppConfig.StoreDriver == "postgres" {
			config.ConnectDB()
			kv = repositories.NewPostgresKV(config.DB)
		} else {
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

		messages := services.NewMessageService(
			config.AppConfig.GeminiAPIKey,
			config.AppConfig.GeminiBaseURL,
			config.AppConfig.GeminiModel,
			config.AppConfig.StoreWhatsApp,
		)

		router = gin.New()
		router.Use(gin.Recovery())
		router.Use(middleware.CORSMiddleware())

		routes.SetupRoutes(router, state, messages)
	})
}

func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	router.ServeHTTP(w, r)
}
