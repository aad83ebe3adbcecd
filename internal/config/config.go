package config

import (
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	TelegramToken      string
	BaseLeadChatID     int64
	DatabaseURL        string
	Region             string
	BulkEmptyThreshold float64
	WeekendRule        string
	MetricsAddr        string
}

var instance *Config
var once sync.Once

func GetConfig() *Config {
	once.Do(func() {
		instance = &Config{}

		if err := godotenv.Load(); err != nil {
			logrus.Infof("No .env file loaded: %s", err.Error())
		}

		instance.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", "")
		if instance.TelegramToken == "" {
			logrus.Fatal("could not get bot token")
		}

		instance.BaseLeadChatID = getEnvAsInt("BASE_ADMIN_CHAT_ID", -2)
		if instance.BaseLeadChatID == -2 {
			logrus.Fatal("could not get lead chat id")
		}

		instance.DatabaseURL = getEnv("DATABASE_URL", "")
		if instance.DatabaseURL == "" {
			logrus.Fatal("could not get db url")
		}

		instance.Region = getEnv("REGION", "AMR")

		instance.BulkEmptyThreshold = getEnvAsFloat("BULK_EMPTY_THRESHOLD", 0.70)
		if instance.BulkEmptyThreshold <= 0 || instance.BulkEmptyThreshold > 1 {
			logrus.Infof("Warning: BULK_EMPTY_THRESHOLD %v out of range, using 0.70", instance.BulkEmptyThreshold)
			instance.BulkEmptyThreshold = 0.70
		}

		instance.WeekendRule = getEnv("WEEKEND_COVERAGE_RULE", "any")
		if instance.WeekendRule != "any" && instance.WeekendRule != "dedicated" {
			logrus.Infof("Warning: unknown WEEKEND_COVERAGE_RULE %q, using \"any\"", instance.WeekendRule)
			instance.WeekendRule = "any"
		}

		instance.MetricsAddr = getEnv("METRICS_ADDR", "")
	})

	return instance
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return int64(val)
	}

	return defaultVal
}

func getEnvAsFloat(name string, defaultVal float64) float64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseFloat(valStr, 64); err == nil {
		return val
	}

	return defaultVal
}
