package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI   string
	MongoDB    string
	HTTPPort   string
	SessionTTL time.Duration

	RazorpayKeyID     string
	RazorpayKeySecret string

	KafkaBrokers  []string
	KafkaGroupID  string
	KafkaTopic    string
	KafkaConsumer bool

	AuditBatchSize     int
	AuditFlushInterval time.Duration
	AuditFilterWord    string
}

func LoadConfig() *Config {
	// A missing .env file is fine in deployed environments; real env wins.
	_ = godotenv.Load()

	brokersStr := getEnv("KAFKA_BROKERS", "")
	var brokers []string
	if brokersStr != "" {
		brokers = strings.Split(brokersStr, ",")
	}

	return &Config{
		MongoURI:   getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:    getEnv("MONGO_DB", "erimuga"),
		HTTPPort:   getEnv("APP_PORT", "8080"),
		SessionTTL: getEnvDuration("SESSION_TTL", 7*24*time.Hour),

		RazorpayKeyID:     getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),

		KafkaBrokers:  brokers,
		KafkaGroupID:  getEnv("KAFKA_GROUP_ID", "audit-group"),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "order-audit"),
		KafkaConsumer: getEnvBool("KAFKA_CONSUMER", false),

		AuditBatchSize:     getEnvInt("AUDIT_BATCH_SIZE", 10),
		AuditFlushInterval: getEnvDuration("AUDIT_FLUSH_INTERVAL", 2*time.Second),
		AuditFilterWord:    getEnv("AUDIT_FILTER", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}
