package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Scheduling configuration. Minutes are counted from midnight local time.
	BusinessOpenMinute  int    `mapstructure:"BUSINESS_OPEN_MINUTE"`
	BusinessCloseMinute int    `mapstructure:"BUSINESS_CLOSE_MINUTE"`
	SlotStartOffsets    []int  `mapstructure:"SLOT_START_OFFSETS"`
	ClosedWeekdays      []int  `mapstructure:"CLOSED_WEEKDAYS"` // 0=Sunday
	DefaultDaysAhead    int    `mapstructure:"DEFAULT_DAYS_AHEAD"`
	AvailabilitySource  string `mapstructure:"AVAILABILITY_SOURCE"` // "grid" or "calendar"

	// Booking configuration.
	SessionTTLMinutes    int `mapstructure:"SESSION_TTL_MINUTES"`
	ReserveMaxAttempts   int `mapstructure:"RESERVE_MAX_ATTEMPTS"`
	PendingExpiryMinutes int `mapstructure:"PENDING_EXPIRY_MINUTES"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "smebooking")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_CACHE_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)

	viper.SetDefault("BUSINESS_OPEN_MINUTE", 480)   // 08:00
	viper.SetDefault("BUSINESS_CLOSE_MINUTE", 1080) // 18:00
	viper.SetDefault("SLOT_START_OFFSETS", []int{480, 570, 660, 780, 870, 960})
	viper.SetDefault("CLOSED_WEEKDAYS", []int{0}) // closed Sunday
	viper.SetDefault("DEFAULT_DAYS_AHEAD", 7)
	viper.SetDefault("AVAILABILITY_SOURCE", "grid")

	viper.SetDefault("SESSION_TTL_MINUTES", 30)
	viper.SetDefault("RESERVE_MAX_ATTEMPTS", 3)
	viper.SetDefault("PENDING_EXPIRY_MINUTES", 120)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
