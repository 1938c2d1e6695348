package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var (
	MAIN_ROUTES   string
	APP_PORT      string
	JWTSecret     string
	JWTExpiration int

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	allowedOrigins map[string]bool
)

// Defaults for the reorder engine when no environment override is present.
const (
	DefaultReorderThreshold = 5
	DefaultOrderCodePrefix  = "TM"
)

// EngineConfig carries the reorder engine settings. It is built once in main
// and passed into the service constructors; nothing reads it ambiently, so a
// configuration change takes effect by rebuilding the services, not by
// restarting with mutated globals.
type EngineConfig struct {
	DefaultThreshold int
	OrderCodePrefix  string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	OrderMailTo  []string
}

// LoadConfig reads the .env file and initializes the configuration variables.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using system environment variables")
	}

	MAIN_ROUTES = getEnv("MAIN_ROUTES", "/api/v1")
	APP_PORT = getEnv("APP_PORT", "9000")

	JWTSecret = getEnv("JWT_SECRET", "slab_app_key_secret")
	JWTExpiration = getEnvAsInt("JWT_EXPIRATION", 86400)

	DBDriver = getEnv("DB_DRIVER", "sqlite")
	DBHost = getEnv("DB_HOST", "localhost")
	DBPort = getEnv("DB_PORT", "5432")
	DBUser = getEnv("DB_USER", "slab")
	DBPassword = getEnv("DB_PASSWORD", "")
	DBName = getEnv("DB_NAME", "slab_app")

	loadAllowedOrigins()
}

// LoadEngineConfig builds the engine settings from the environment. Call it
// again after LoadConfig whenever the configuration surface changes the
// thresholds file.
func LoadEngineConfig() EngineConfig {
	cfg := EngineConfig{
		DefaultThreshold: getEnvAsInt("REORDER_DEFAULT_THRESHOLD", DefaultReorderThreshold),
		OrderCodePrefix:  getEnv("ORDER_CODE_PREFIX", DefaultOrderCodePrefix),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:         getEnv("SMTP_USER", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
	}

	for _, addr := range strings.Split(getEnv("ORDER_MAIL_TO", ""), ",") {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			cfg.OrderMailTo = append(cfg.OrderMailTo, addr)
		}
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func loadAllowedOrigins() {
	allowedOrigins = make(map[string]bool)
	originsStr := getEnv("ALLOWED_ORIGINS", "")

	if originsStr == "" {
		allowedOrigins = map[string]bool{
			"http://127.0.0.1:3000": true,
		}
		return
	}

	for _, origin := range strings.Split(originsStr, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
}

func SetupCORS(app *fiber.App) {
	app.Use(func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		if allowedOrigins[origin] {
			c.Set("Access-Control-Allow-Origin", origin)
			c.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			c.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
			c.Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	})
}
