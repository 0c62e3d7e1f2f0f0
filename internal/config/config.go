package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr  string
	APIBaseURL  string
	JWTSecret   []byte
	ShippingFee int64
	LogLevel    string
	Timezone    string
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(v, name string) string {
	if v == "" {
		log.Fatalf("missing required env %s", name)
	}
	return v
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	fee, err := strconv.ParseInt(getenv("SHIPPING_FEE", "30000"), 10, 64)
	if err != nil {
		log.Fatalf("invalid SHIPPING_FEE: %v", err)
	}

	return &Config{
		ListenAddr:  getenv("LISTEN_ADDR", ":8080"),
		APIBaseURL:  must(os.Getenv("API_BASE_URL"), "API_BASE_URL"),
		JWTSecret:   []byte(must(os.Getenv("JWT_SECRET"), "JWT_SECRET")),
		ShippingFee: fee,
		LogLevel:    getenv("LOG_LEVEL", "info"),
		Timezone:    getenv("TIMEZONE", "Asia/Ho_Chi_Minh"),
	}
}
