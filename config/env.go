package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv            string
	Port              string
	StoreDriver       string
	DataDir           string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSSLMode         string
	CloudStorageURL   string
	JWTSecret         string
	JWTExpiry         string
	JWTRememberExpiry string
	UploadDir         string
	MaxUploadSize     int64
	StoreWhatsApp     string
	OrderNotifyEmail  string
	GeminiAPIKey      string
	GeminiBaseURL     string
	GeminiModel       string
}

var AppConfig *Config

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	maxUploadSize, _ := strconv.ParseInt(os.Getenv("MAX_UPLOAD_SIZE"), 10, 64)
	if maxUploadSize == 0 {
		maxUploadSize = 5242880
	}

	AppConfig = &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("APP_PORT", getEnv("PORT", "8082")),
		StoreDriver:       getEnv("STORE_DRIVER", "file"),
		DataDir:           getEnv("DATA_DIR", "./data"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "tambaqui_prime"),
		DBSSLMode:         getEnv("DB_SSLMODE", "disable"),
		CloudStorageURL:   getEnv("CLOUD_STORAGE_URL", ""),
		JWTSecret:         getEnv("JWT_SECRET", "secret"),
		JWTExpiry:         getEnv("JWT_EXPIRY", "24h"),
		JWTRememberExpiry: getEnv("JWT_REMEMBER_EXPIRY", "720h"),
		UploadDir:         getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSize:     maxUploadSize,
		StoreWhatsApp:     getEnv("STORE_WHATSAPP", "5592991234567"),
		OrderNotifyEmail:  getEnv("ORDER_NOTIFY_EMAIL", ""),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
	}

	log.Println("Configuration loaded successfully")
	log.Printf("Environment: %s", AppConfig.AppEnv)
	log.Printf("Store driver: %s", AppConfig.StoreDriver)
	log.Printf("Server will run on port: %s", AppConfig.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
