package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	HTTP      HTTPConfig
	Identity  IdentityConfig
	Ticketing TicketingConfig
	Seeder    SeederConfig
	Queue     QueueConfig
	Figma     FigmaConfig
	LogLevel  string
}

type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MaxConns       int32
	MinConns       int32
	StorageTimeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type HTTPConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type IdentityConfig struct {
	BcryptCost int
}

// DuplicatePolicy 決定同一使用者能否對同一活動持有多張票
type DuplicatePolicy string

const (
	DuplicatePolicyReject DuplicatePolicy = "reject"
	DuplicatePolicyAllow  DuplicatePolicy = "allow"
)

type TicketingConfig struct {
	DuplicatePolicy DuplicatePolicy
	RequirePayment  bool
	CodeAttempts    int
}

type SeederConfig struct {
	Password    string
	Concurrency int
}

type QueueConfig struct {
	Driver     string
	BufferSize int
}

type FigmaConfig struct {
	Token   string
	BaseURL string
}

var AppConfig *Config

func LoadConfig() *Config {
	AppConfig = &Config{
		Database:  GetDatabaseConfig(),
		Redis:     GetRedisConfig(),
		HTTP:      GetHTTPConfig(),
		Identity:  GetIdentityConfig(),
		Ticketing: GetTicketingConfig(),
		Seeder:    GetSeederConfig(),
		Queue:     GetQueueConfig(),
		Figma:     GetFigmaConfig(),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:           getEnv("TEST_DB_HOST", "localhost"),
		Port:           getEnv("TEST_DB_PORT", "5433"), // 測試 DB 用 5433 port
		User:           "postgres",
		Password:       "postgres",
		DBName:         "test_db",
		SSLMode:        "disable",
		MaxConns:       25,
		MinConns:       1,
		StorageTimeout: 5 * time.Second,
	}

	testRedisConfig := RedisConfig{
		Host:     getEnv("TEST_REDIS_HOST", "localhost"),
		Port:     getEnv("TEST_REDIS_PORT", "6380"), // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		Database: *testConfig,
		Redis:    testRedisConfig,
		HTTP:     HTTPConfig{Addr: ":0", ShutdownTimeout: time.Second},
		Identity: IdentityConfig{BcryptCost: 4},
		Ticketing: TicketingConfig{
			DuplicatePolicy: DuplicatePolicyReject,
			CodeAttempts:    5,
		},
		Seeder:   SeederConfig{Password: "password123", Concurrency: 4},
		Queue:    QueueConfig{Driver: "memory", BufferSize: 100},
		LogLevel: "warn",
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:           getEnv("DB_HOST", "localhost"),
		Port:           getEnv("DB_PORT", "5432"),
		User:           getEnv("DB_USER", "postgres"),
		Password:       getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "postgres"),
		SSLMode:        getEnv("DB_SSL_MODE", "disable"),
		MaxConns:       int32(getEnvInt("DB_MAX_CONNS", 25)),
		MinConns:       int32(getEnvInt("DB_MIN_CONNS", 5)),
		StorageTimeout: getEnvDuration("STORAGE_TIMEOUT", 5*time.Second),
	}
}

func GetRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}
}

func GetHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Addr:            getEnv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func GetIdentityConfig() IdentityConfig {
	return IdentityConfig{
		BcryptCost: getEnvInt("BCRYPT_COST", 10),
	}
}

func GetTicketingConfig() TicketingConfig {
	return TicketingConfig{
		DuplicatePolicy: ParseDuplicatePolicy(getEnv("TICKET_DUPLICATE_POLICY", string(DuplicatePolicyReject))),
		RequirePayment:  getEnvBool("TICKET_REQUIRE_PAYMENT", false),
		CodeAttempts:    getEnvInt("TICKET_CODE_ATTEMPTS", 5),
	}
}

func GetSeederConfig() SeederConfig {
	return SeederConfig{
		Password:    getEnv("SEED_PASSWORD", "password123"),
		Concurrency: getEnvInt("SEED_CONCURRENCY", 4),
	}
}

func GetQueueConfig() QueueConfig {
	return QueueConfig{
		Driver:     getEnv("QUEUE_DRIVER", "redis"),
		BufferSize: getEnvInt("QUEUE_BUFFER_SIZE", 1000),
	}
}

func GetFigmaConfig() FigmaConfig {
	return FigmaConfig{
		Token:   getEnv("FIGMA_TOKEN", ""),
		BaseURL: getEnv("FIGMA_BASE_URL", "https://api.figma.com/v1"),
	}
}

// ParseDuplicatePolicy 無法辨識的值一律視為 reject
func ParseDuplicatePolicy(value string) DuplicatePolicy {
	if DuplicatePolicy(strings.ToLower(strings.TrimSpace(value))) == DuplicatePolicyAllow {
		return DuplicatePolicyAllow
	}
	return DuplicatePolicyReject
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		panic(err)
	}
	return value
}

func getEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		panic(err)
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil {
		panic(err)
	}
	return value
}
