package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Consul   ConsulConfig
	Auth     AuthConfig
	Quiz     QuizConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	ServiceName    string
	ServiceAddress string
	ServiceID      string
	AllowOrigins   []string
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	URI      string
	Exchange string
}

type ConsulConfig struct {
	Address string
	Enabled bool
}

type AuthConfig struct {
	JWTSecret string
}

// QuizConfig carries attempt-engine tunables.
type QuizConfig struct {
	// DefaultQuestionCount is used when the client does not request a count.
	DefaultQuestionCount int
	// SessionTTL bounds how long a started attempt's shown-set record is kept
	// when the quiz itself has no time limit.
	SessionTTL time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "6660"),
			Host:           getEnv("HOST", "0.0.0.0"),
			ServiceName:    getEnv("SERVICE_NAME", "quiz-engine-service"),
			ServiceAddress: getEnv("SERVICE_ADDRESS", "quiz-engine-service"),
			ServiceID:      getEnv("SERVICE_NAME", "quiz-engine-service") + "-" + getEnv("HOSTNAME", "quiz-engine"),
			AllowOrigins:   []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "quiz_engine"),
			Timeout:  getEnvAsDuration("MONGO_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		RabbitMQ: RabbitMQConfig{
			URI:      getEnv("RABBITMQ_URI", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "quiz.events"),
		},
		Consul: ConsulConfig{
			Address: getEnv("CONSUL_ADDR", "consul-server:8500"),
			Enabled: getEnvAsBool("CONSUL_ENABLED", false),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Quiz: QuizConfig{
			DefaultQuestionCount: getEnvAsInt("QUIZ_DEFAULT_QUESTION_COUNT", 10),
			SessionTTL:           getEnvAsDuration("QUIZ_SESSION_TTL", time.Hour),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		n, err := strconv.Atoi(value)
		if err != nil {
			log.Printf("config: invalid int for %s: %s", key, err)
			return defaultValue
		}
		return n
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		b, err := strconv.ParseBool(value)
		if err != nil {
			log.Printf("config: invalid bool for %s: %s", key, err)
			return defaultValue
		}
		return b
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			log.Printf("config: invalid duration for %s: %s", key, err)
			return defaultValue
		}
		return d
	}
	return defaultValue
}
