package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPort        string
	AppPort       string
	AppEnv        string
	JWTSecret     string
	OneTimeCode   string
	AdminEmail    string
	AdminPassword string
}

// A real deployment would issue a fresh verification code per login attempt;
// the prototype flow compares against a single configured literal.
const defaultOneTimeCode = "739184"

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:        os.Getenv("DB_HOST"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		DBPort:        os.Getenv("DB_PORT"),
		AppPort:       os.Getenv("APP_PORT"),
		AppEnv:        os.Getenv("APP_ENV"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		OneTimeCode:   os.Getenv("ONE_TIME_CODE"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.OneTimeCode == "" {
		cfg.OneTimeCode = defaultOneTimeCode
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}
