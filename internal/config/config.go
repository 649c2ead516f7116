package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// MaxEndpoints максимальное число реплик одного бэкенда
const MaxEndpoints = 3

// Config конфигурация клиента
type Config struct {
	// ConfigPath путь к загруженному файлу (не сериализуется)
	ConfigPath string `yaml:"-"`

	CachePath       string        `yaml:"cache_path"`
	LogLevel        string        `yaml:"log_level"`
	MemberEndpoints []string      `yaml:"member_endpoints"`
	OrderEndpoints  []string      `yaml:"order_endpoints"`
	StaticEndpoints []string      `yaml:"static_endpoints"`
	Signing         SigningConfig `yaml:"signing"`
	AttemptTimeout  time.Duration `yaml:"attempt_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	PageSize        int           `yaml:"page_size"`
}

// SigningConfig настройки подписи запросов
type SigningConfig struct {
	SecretFile string `yaml:"secret_file,omitempty"`
	Enabled    bool   `yaml:"enabled"`
}

// Default возвращает конфигурацию по умолчанию: три локальные реплики
func Default() *Config {
	replicas := []string{
		"http://localhost:8081",
		"http://localhost:8082",
		"http://localhost:8083",
	}
	return &Config{
		MemberEndpoints: append([]string(nil), replicas...),
		OrderEndpoints:  append([]string(nil), replicas...),
		StaticEndpoints: append([]string(nil), replicas...),
		Signing:         SigningConfig{Enabled: true},
		AttemptTimeout:  10 * time.Second,
		RequestTimeout:  30 * time.Second,
		PageSize:        20,
		CachePath:       "gophadmin-cache.db",
		LogLevel:        "warn",
	}
}

// SearchPaths возвращает пути, в которых ищется файл конфигурации
func SearchPaths() []string {
	paths := []string{
		"gophadmin.yaml",
		filepath.Join("configs", "gophadmin.yaml"),
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "gophadmin", "config.yaml"))
	}
	return paths
}

// Load загружает конфигурацию. Если path пуст, файл ищется в SearchPaths;
// отсутствие файла не ошибка - используются значения по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()

	candidates := SearchPaths()
	explicit := path != ""
	if explicit {
		candidates = []string{path}
	}

	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && !explicit {
				continue
			}
			return nil, fmt.Errorf("failed to read config %s: %w", candidate, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", candidate, err)
		}
		cfg.ConfigPath = candidate
		break
	}

	return cfg, nil
}

// ApplyEnv переопределяет значения из переменных окружения GOPHADMIN_*
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("GOPHADMIN_MEMBER_ENDPOINTS"); v != "" {
		c.MemberEndpoints = SplitList(v)
	}
	if v := os.Getenv("GOPHADMIN_ORDER_ENDPOINTS"); v != "" {
		c.OrderEndpoints = SplitList(v)
	}
	if v := os.Getenv("GOPHADMIN_STATIC_ENDPOINTS"); v != "" {
		c.StaticEndpoints = SplitList(v)
	}
	if v := os.Getenv("GOPHADMIN_SIGNING"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid GOPHADMIN_SIGNING: %w", err)
		}
		c.Signing.Enabled = enabled
	}
	if v := os.Getenv("GOPHADMIN_ATTEMPT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid GOPHADMIN_ATTEMPT_TIMEOUT: %w", err)
		}
		c.AttemptTimeout = d
	}
	if v := os.Getenv("GOPHADMIN_CACHE"); v != "" {
		c.CachePath = v
	}
	if v := os.Getenv("GOPHADMIN_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate проверяет и нормализует конфигурацию
func (c *Config) Validate() error {
	var err error
	if c.MemberEndpoints, err = normalizeEndpoints("member_endpoints", c.MemberEndpoints); err != nil {
		return err
	}
	if c.OrderEndpoints, err = normalizeEndpoints("order_endpoints", c.OrderEndpoints); err != nil {
		return err
	}
	if c.StaticEndpoints, err = normalizeEndpoints("static_endpoints", c.StaticEndpoints); err != nil {
		return err
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.AttemptTimeout < 0 || c.RequestTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Save сохраняет конфигурацию в файл
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// ParseLevel переводит строку в уровень slog
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// SplitList разбирает список через запятую, пропуская пустые элементы
func SplitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func normalizeEndpoints(name string, endpoints []string) ([]string, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("%s: at least one endpoint is required", name)
	}
	if len(endpoints) > MaxEndpoints {
		return nil, fmt.Errorf("%s: at most %d endpoints allowed, got %d", name, MaxEndpoints, len(endpoints))
	}

	out := make([]string, 0, len(endpoints))
	for _, raw := range endpoints {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: invalid url %q: %w", name, raw, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("%s: url %q must be absolute http(s)", name, raw)
		}
		out = append(out, strings.TrimRight(u.String(), "/"))
	}
	return out, nil
}
