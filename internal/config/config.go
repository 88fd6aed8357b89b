package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Поддерживаемые бекенды хранилища
const (
	BackendPostgres = "postgres"
	BackendJSONFile = "jsonfile"
)

// Config хранит все настройки приложения
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Quiz     QuizConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// StorageConfig выбирает бекенд хранилища данных
type StorageConfig struct {
	// Backend: "postgres" или "jsonfile"
	Backend string `mapstructure:"backend"`

	// FilePath: путь к файлу данных для бекенда jsonfile
	FilePath string `mapstructure:"file_path"`

	// GamificationPath: путь к файлу прогресса геймификации
	GamificationPath string `mapstructure:"gamification_path"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит настройки подключения к Redis (ограничитель запросов)
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig содержит настройки JWT
type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpirationHrs int    `mapstructure:"expirationHrs"`
}

// QuizConfig содержит настройки прохождения тестов
type QuizConfig struct {
	// DefaultTimeLimitMin: лимит времени по умолчанию, если тест его не задаёт
	DefaultTimeLimitMin int `mapstructure:"default_time_limit_min"`

	// SubmitGraceSec: задержка между истечением таймера и автоотправкой сессии
	SubmitGraceSec int `mapstructure:"submit_grace_sec"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load загружает конфигурацию из файла и переменных окружения
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Отдельный экземпляр Viper, чтобы избежать глобального состояния

	// 1. Значения по умолчанию
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readtimeout", 10)
	vip.SetDefault("server.writetimeout", 10)
	vip.SetDefault("storage.backend", BackendPostgres)
	vip.SetDefault("storage.file_path", "data/platform.json")
	vip.SetDefault("storage.gamification_path", "data/gamification.json")
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("jwt.expirationHrs", 24)
	vip.SetDefault("quiz.default_time_limit_min", 60)
	vip.SetDefault("quiz.submit_grace_sec", 2)

	// 2. Привязываем переменные окружения ЯВНО
	vip.BindEnv("server.port", "SERVER_PORT")
	vip.BindEnv("server.readtimeout", "SERVER_READTIMEOUT")
	vip.BindEnv("server.writetimeout", "SERVER_WRITETIMEOUT")

	vip.BindEnv("storage.backend", "STORAGE_BACKEND")
	vip.BindEnv("storage.file_path", "STORAGE_FILE_PATH")
	vip.BindEnv("storage.gamification_path", "STORAGE_GAMIFICATION_PATH")

	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.enabled", "REDIS_ENABLED")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")

	vip.BindEnv("jwt.secret", "JWT_SECRET")
	vip.BindEnv("jwt.expirationHrs", "JWT_EXPIRATIONHRS")

	vip.BindEnv("quiz.default_time_limit_min", "QUIZ_DEFAULT_TIME_LIMIT_MIN")
	vip.BindEnv("quiz.submit_grace_sec", "QUIZ_SUBMIT_GRACE_SEC")

	// 3. Читаем файл конфигурации, если он есть (env-переменные имеют приоритет)
	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
				log.Printf("[Config] Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("[Config] Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 4. Логирование конфигурации (только вне release-режима)
	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Storage Backend: %s", cfg.Storage.Backend)
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Enabled: %t (addr=%s)", cfg.Redis.Enabled, cfg.Redis.Addr)
		log.Printf("JWT Secret Set: %t", cfg.JWT.Secret != "")
		log.Printf("JWT Expiration Hours: %d", cfg.JWT.ExpirationHrs)
		log.Printf("-----------------------------------------")
	}

	// 5. Проверка обязательных параметров
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT secret is required in config (check JWT_SECRET env var)")
	}
	switch cfg.Storage.Backend {
	case BackendPostgres:
		if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
			return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
		}
	case BackendJSONFile:
		if cfg.Storage.FilePath == "" {
			return nil, fmt.Errorf("storage file path is required for jsonfile backend (check STORAGE_FILE_PATH env var)")
		}
	default:
		return nil, fmt.Errorf("unsupported storage backend %q (expected %q or %q)",
			cfg.Storage.Backend, BackendPostgres, BackendJSONFile)
	}

	return &cfg, nil
}
