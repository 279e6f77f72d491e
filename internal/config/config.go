package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Driver         string        `mapstructure:"driver"` // sqlite / postgres
	Path           string        `mapstructure:"path"`
	DSN            string        `mapstructure:"dsn"`
	LogMode        bool          `mapstructure:"log_mode"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type SecurityConfig struct {
	BcryptCost    int    `mapstructure:"bcrypt_cost"`
	EncryptionKey string `mapstructure:"encryption_key"`
	SecureCookie  bool   `mapstructure:"secure_cookie"`
}

type LogConfig struct {
	Level     string `mapstructure:"level"`
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// ImportConfig controls the spreadsheet import pipeline.
type ImportConfig struct {
	Dir         string `mapstructure:"dir"`
	Atomic      bool   `mapstructure:"atomic"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type ReportConfig struct {
	DateLayout string `mapstructure:"date_layout"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
	Log      LogConfig      `mapstructure:"log"`
	Import   ImportConfig   `mapstructure:"import"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Report   ReportConfig   `mapstructure:"report"`
}

// Load loads configuration from the given file path (e.g. "config.yaml").
// If path is empty, config.yaml is searched in the working directory and in
// config/. A missing file is not an error: defaults and SISEVO_* environment
// variables are used instead.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	loadEnv(".")

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("config/")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. SISEVO_SERVER_PORT=9000
	v.SetEnvPrefix("SISEVO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/siscont.db")
	v.SetDefault("database.log_mode", false)
	v.SetDefault("database.connect_timeout", 30*time.Second)

	v.SetDefault("jwt.secret", "siscontevolucion-secret")
	v.SetDefault("jwt.issuer", "siscontevolucion")
	v.SetDefault("jwt.expire_hours", 24)

	v.SetDefault("security.bcrypt_cost", 10)

	v.SetDefault("log.level", "info")

	v.SetDefault("import.dir", "uploads")
	v.SetDefault("import.atomic", false)
	v.SetDefault("import.max_upload_mb", 16)

	v.SetDefault("report.date_layout", "02/01/2006")
}

// loadEnv loads .env then .env.local from dir; later files win.
func loadEnv(dir string) {
	for _, name := range []string{".env", ".env.local"} {
		_ = godotenv.Overload(filepath.Join(dir, name))
	}
}
