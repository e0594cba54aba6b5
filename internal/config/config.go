package config

import "os"

type Config struct {
	HTTPAddr    string
	JWTSecret   string
	StoreDriver string // file|mongo
	DataDir     string
	MongoURI    string
	MongoDB     string

	RabbitURI      string
	RabbitExchange string

	CORSOrigins []string
}

func Load() *Config {
	return &Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		JWTSecret:      getEnv("JWT_SECRET", "change-me-in-production"),
		StoreDriver:    getEnv("STORE_DRIVER", "file"),
		DataDir:        getEnv("DATA_DIR", "./data"),
		MongoURI:       getEnv("MONGO_URI", ""),
		MongoDB:        getEnv("MONGO_DB", "quiz_platform"),
		RabbitURI:      getEnv("RABBITMQ_URI", ""),
		RabbitExchange: getEnv("RABBITMQ_EXCHANGE", ""),
		CORSOrigins:    []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
