package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var (
	ErrReadConfig    = errors.New("config: failed to read config file")
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Префикс переменных окружения, переопределяющих значения из файла
const envPrefix = "SMC_"

type Config struct {
	Server         ServerConfig   `toml:"server"`
	Database       DatabaseConfig `toml:"database"`
	Logs           LogsConfig     `toml:"logs"`
	Metrics        MetricsConfig  `toml:"metrics"`
	Redis          RedisConfig    `toml:"redis"`
	Kafka          KafkaConfig    `toml:"kafka"`
	ClubService    ServiceConfig  `toml:"club_service"`
	TrainerService ServiceConfig  `toml:"trainer_service"`
	Booking        BookingConfig  `toml:"booking"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	// TTL закэшированного набора правил в секундах
	RulesTTL int `toml:"rules_ttl"`
}

type KafkaConfig struct {
	Enabled bool   `toml:"enabled"`
	Brokers string `toml:"brokers"`
	Topic   string `toml:"topic"`
}

type ServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

type BookingConfig struct {
	SuggestionLimit       int `toml:"suggestion_limit"`
	SuggestionStepMinutes int `toml:"suggestion_step_minutes"`
	SuggestionHorizonDays int `toml:"suggestion_horizon_days"`
	SlotStepMinutes       int `toml:"slot_step_minutes"`
	// На сколько дней вперед можно смотреть слоты; 0 - без ограничения
	AdvanceBookingDays int `toml:"advance_booking_days"`
}

// Load читает конфигурацию из TOML файла, подгружает .env (если есть)
// и применяет переопределения из переменных окружения SMC_*
func Load(path string) (*Config, error) {
	// .env опционален: отсутствие файла не ошибка
	_ = godotenv.Load()

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 10)
	setDefault(&c.Server.WriteTimeout, 10)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 10)

	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "court_booking_service"
	}

	setDefault(&c.Redis.RulesTTL, 300)
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "court-booking-events"
	}

	setDefault(&c.ClubService.Timeout, 5)
	setDefault(&c.TrainerService.Timeout, 5)

	setDefault(&c.Booking.SuggestionLimit, 3)
	setDefault(&c.Booking.SuggestionStepMinutes, 30)
	setDefault(&c.Booking.SuggestionHorizonDays, 7)
	setDefault(&c.Booking.SlotStepMinutes, 30)
}

func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

type lookupFunc func(key string) (string, bool)

// applyEnv переопределяет секреты и адреса из окружения
func (c *Config) applyEnv(lookup lookupFunc) error {
	strs := map[string]*string{
		"DB_HOST":             &c.Database.Host,
		"DB_USER":             &c.Database.User,
		"DB_PASSWORD":         &c.Database.Password,
		"DB_NAME":             &c.Database.DBName,
		"LOG_LEVEL":           &c.Logs.Level,
		"REDIS_ADDR":          &c.Redis.Addr,
		"REDIS_PASSWORD":      &c.Redis.Password,
		"KAFKA_BROKERS":       &c.Kafka.Brokers,
		"CLUB_SERVICE_URL":    &c.ClubService.URL,
		"TRAINER_SERVICE_URL": &c.TrainerService.URL,
	}
	for key, dst := range strs {
		if v, ok := lookup(envPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"HTTP_PORT": &c.Server.HTTPPort,
		"DB_PORT":   &c.Database.Port,
	}
	for key, dst := range ints {
		v, ok := lookup(envPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s%s must be an integer, got %q", ErrInvalidConfig, envPrefix, key, v)
		}
		*dst = n
	}

	bools := map[string]*bool{
		"REDIS_ENABLED":   &c.Redis.Enabled,
		"KAFKA_ENABLED":   &c.Kafka.Enabled,
		"METRICS_ENABLED": &c.Metrics.Enabled,
	}
	for key, dst := range bools {
		v, ok := lookup(envPrefix + key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s%s must be a boolean, got %q", ErrInvalidConfig, envPrefix, key, v)
		}
		*dst = b
	}
	return nil
}

// Validate проверяет обязательные поля и диапазоны
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		problems = append(problems, fmt.Sprintf("server.http_port out of range: %d", c.Server.HTTPPort))
	}
	if c.Database.Host == "" {
		problems = append(problems, "database.host is required")
	}
	if c.Database.DBName == "" {
		problems = append(problems, "database.dbname is required")
	}
	if c.ClubService.URL == "" {
		problems = append(problems, "club_service.url is required")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		problems = append(problems, "redis.addr is required when redis is enabled")
	}
	if c.Kafka.Enabled && strings.TrimSpace(c.Kafka.Brokers) == "" {
		problems = append(problems, "kafka.brokers is required when kafka is enabled")
	}
	if c.Booking.SuggestionLimit < 1 || c.Booking.SuggestionLimit > 20 {
		problems = append(problems, fmt.Sprintf("booking.suggestion_limit must be in 1..20, got %d", c.Booking.SuggestionLimit))
	}
	if c.Booking.SuggestionStepMinutes < 5 || c.Booking.SuggestionStepMinutes > 240 {
		problems = append(problems, fmt.Sprintf("booking.suggestion_step_minutes must be in 5..240, got %d", c.Booking.SuggestionStepMinutes))
	}
	if c.Booking.SuggestionHorizonDays < 1 || c.Booking.SuggestionHorizonDays > 31 {
		problems = append(problems, fmt.Sprintf("booking.suggestion_horizon_days must be in 1..31, got %d", c.Booking.SuggestionHorizonDays))
	}
	if c.Booking.SlotStepMinutes < 5 || c.Booking.SlotStepMinutes > 240 {
		problems = append(problems, fmt.Sprintf("booking.slot_step_minutes must be in 5..240, got %d", c.Booking.SlotStepMinutes))
	}
	if c.Booking.AdvanceBookingDays < 0 {
		problems = append(problems, fmt.Sprintf("booking.advance_booking_days must not be negative, got %d", c.Booking.AdvanceBookingDays))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
