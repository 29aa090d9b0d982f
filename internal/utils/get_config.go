package utils

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server configuration
	Port string `yaml:"PORT"`

	// Database configuration
	DBType     string `yaml:"DB_TYPE"`
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBMaxConns string `yaml:"DB_MAX_CONNS"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// Mailing configuration
	AppURL           string `yaml:"APP_URL"`
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Logging
	LogLevel string `yaml:"LOG_LEVEL"`
	LogFile  string `yaml:"LOG_FILE"`

	// Recipes shown per author in the subscriptions listing
	RecipesLimit string `yaml:"RECIPES_LIMIT"`

	// Requests per second per client
	RateLimit string `yaml:"RATE_LIMIT"`
}

var config Config

var defaults = map[string]string{
	"PORT":          "8080",
	"DB_TYPE":       "postgres",
	"DB_PORT":       "5432",
	"DB_MAX_CONNS":  "10",
	"LOG_LEVEL":     "info",
	"RECIPES_LIMIT": "3",
	"RATE_LIMIT":    "10",
}

// LoadConfig reads config.yaml, then lets .env and the process environment override it.
func LoadConfig() {
	config = Config{}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error reading .env file: %s\n", err)
	}

	file, err := os.ReadFile("config.yaml")
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Error reading YAML file: %s\n", err)
		}
	} else if err := yaml.Unmarshal(file, &config); err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
	}

	for key, field := range fields() {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			*field = value
		}
	}
}

func fields() map[string]*string {
	return map[string]*string{
		"PORT":               &config.Port,
		"DB_TYPE":            &config.DBType,
		"DB_USER":            &config.DBUser,
		"DB_NAME":            &config.DBName,
		"DB_PASSWORD":        &config.DBPassword,
		"DB_PORT":            &config.DBPort,
		"DB_HOST":            &config.DBHost,
		"DB_MAX_CONNS":       &config.DBMaxConns,
		"JWT_SECRET":         &config.JWTSecret,
		"APP_URL":            &config.AppURL,
		"SMTP_HOST":          &config.SMTPHost,
		"SMTP_PORT":          &config.SMTPPort,
		"SMTP_SENDER_NAME":   &config.SMTPSenderName,
		"SMTP_AUTH_EMAIL":    &config.SMTPAuthEmail,
		"SMTP_AUTH_PASSWORD": &config.SMTPAuthPassword,
		"AWS_S3_BUCKET":      &config.AWSS3Bucket,
		"AWS_S3_REGION":      &config.AWSS3Region,
		"AWS_ACCESS_KEY":     &config.AWSAccessKey,
		"AWS_SECRET_KEY":     &config.AWSSecretKey,
		"LOG_LEVEL":          &config.LogLevel,
		"LOG_FILE":           &config.LogFile,
		"RECIPES_LIMIT":      &config.RecipesLimit,
		"RATE_LIMIT":         &config.RateLimit,
	}
}

func GetConfig(key string) string {
	field, ok := fields()[key]
	if !ok {
		return ""
	}
	if *field == "" {
		return defaults[key]
	}
	return *field
}

// GetConfigInt returns the integer value of key, or fallback when it is unset or malformed.
func GetConfigInt(key string, fallback int) int {
	value, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		return fallback
	}
	return value
}
