package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the configuration for the application.
type Config struct {
	ServerAddr   string
	DatabasePath string
	JWTSecret    string

	// Client config
	APIBaseURL string
	DataDir    string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
	BotEmail               string
	BotPassword            string
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	jwtSecret := os.Getenv("MEALBOOK_JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("MEALBOOK_JWT_SECRET environment variable not set")
	}

	serverAddr := os.Getenv("MEALBOOK_ADDR")
	if serverAddr == "" {
		serverAddr = ":8080"
	}

	databasePath := os.Getenv("MEALBOOK_DB_PATH")
	if databasePath == "" {
		databasePath = "data/mealbook.db"
	}

	apiBaseURL := os.Getenv("MEALBOOK_API_URL")
	if apiBaseURL == "" {
		apiBaseURL = "http://localhost:8080"
	}

	dataDir := os.Getenv("MEALBOOK_DATA_DIR")
	if dataDir == "" {
		dataDir = "data/client"
	}

	// Telegram config (optional for the server, required for the bot)
	telegramBotToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	telegramWebhookURL := os.Getenv("TELEGRAM_WEBHOOK_URL")

	var allowedIDs []int64
	if raw := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS entry %q: %w", part, err)
			}
			allowedIDs = append(allowedIDs, id)
		}
	}

	var adminID int64
	if raw := os.Getenv("TELEGRAM_ADMIN_ID"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_ID %q: %w", raw, err)
		}
		adminID = parsed
	}

	return &Config{
		ServerAddr:             serverAddr,
		DatabasePath:           databasePath,
		JWTSecret:              jwtSecret,
		APIBaseURL:             apiBaseURL,
		DataDir:                dataDir,
		TelegramBotToken:       telegramBotToken,
		TelegramWebhookURL:     telegramWebhookURL,
		TelegramAllowedUserIDs: allowedIDs,
		AdminTelegramID:        adminID,
		BotEmail:               os.Getenv("MEALBOOK_BOT_EMAIL"),
		BotPassword:            os.Getenv("MEALBOOK_BOT_PASSWORD"),
	}, nil
}
