package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix 是所有环境变量的前缀，嵌套字段使用双下划线，例如 FOLIO_DATABASE__DRIVER。
const EnvPrefix = "FOLIO_"

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Storage  StorageConfig  `koanf:"storage"`
	Site     SiteConfig     `koanf:"site"`
	Log      LogConfig      `koanf:"log"`
}

type ServerConfig struct {
	ListenAddr  string `koanf:"listen_addr"`
	Port        string `koanf:"port"`
	GinMode     string `koanf:"gin_mode"`
	CORSOrigins string `koanf:"cors_origins"` // 逗号分隔
}

type DatabaseConfig struct {
	Driver string `koanf:"driver"` // sqlite, postgres
	Path   string `koanf:"path"`   // sqlite 文件路径
	DSN    string `koanf:"dsn"`    // postgres 连接串
}

type AuthConfig struct {
	SessionSecret string `koanf:"session_secret"`
	AdminEmail    string `koanf:"admin_email"`
	AdminPassword string `koanf:"admin_password"`
}

type StorageConfig struct {
	Driver          string `koanf:"driver"` // local, s3
	UploadDir       string `koanf:"upload_dir"`
	UploadURLPath   string `koanf:"upload_url_path"`
	Endpoint        string `koanf:"endpoint"`
	Region          string `koanf:"region"`
	Bucket          string `koanf:"bucket"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
	PublicBaseURL   string `koanf:"public_base_url"`
	ForcePathStyle  bool   `koanf:"force_path_style"`
}

type SiteConfig struct {
	BaseURL     string `koanf:"base_url"`
	Title       string `koanf:"title"`
	Description string `koanf:"description"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

// Load 读取可选的 .env 与 YAML 配置文件，再用环境变量覆盖，并为缺失项提供默认值。
// path 为空时只使用环境变量。
func Load(path string) (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")

	if path = strings.TrimSpace(path); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return AppConfig{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return AppConfig{}, fmt.Errorf("load env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, cfg.validate()
}

func (cfg *AppConfig) applyDefaults() {
	s := &cfg.Server
	s.Port = strings.TrimSpace(s.Port)
	if s.Port == "" {
		s.Port = strings.TrimSpace(os.Getenv("PORT"))
	}
	if s.Port == "" {
		s.Port = "8080"
	}
	s.ListenAddr = strings.TrimSpace(s.ListenAddr)
	if s.ListenAddr == "" {
		s.ListenAddr = ":" + s.Port
	}
	s.GinMode = strings.TrimSpace(s.GinMode)
	if s.GinMode == "" {
		s.GinMode = "release"
	}

	d := &cfg.Database
	d.Driver = strings.ToLower(strings.TrimSpace(d.Driver))
	if d.Driver == "" {
		d.Driver = "sqlite"
	}
	d.Path = strings.TrimSpace(d.Path)
	if d.Path == "" {
		d.Path = "data/folio.db"
	}
	d.DSN = strings.TrimSpace(d.DSN)

	a := &cfg.Auth
	a.SessionSecret = strings.TrimSpace(a.SessionSecret)
	if a.SessionSecret == "" {
		a.SessionSecret = "folio-dev-secret"
	}
	a.AdminEmail = strings.ToLower(strings.TrimSpace(a.AdminEmail))
	a.AdminPassword = strings.TrimSpace(a.AdminPassword)

	st := &cfg.Storage
	st.Driver = strings.ToLower(strings.TrimSpace(st.Driver))
	if st.Driver == "" {
		st.Driver = "local"
	}
	st.UploadDir = strings.TrimSpace(st.UploadDir)
	if st.UploadDir == "" {
		st.UploadDir = "data/uploads"
	}
	st.UploadURLPath = strings.TrimSpace(st.UploadURLPath)
	if st.UploadURLPath == "" {
		st.UploadURLPath = "/uploads"
	}
	if st.Region == "" {
		st.Region = "auto"
	}

	site := &cfg.Site
	site.BaseURL = strings.TrimRight(strings.TrimSpace(site.BaseURL), "/")
	if site.BaseURL == "" {
		site.BaseURL = "http://localhost:" + s.Port
	}
	if strings.TrimSpace(site.Title) == "" {
		site.Title = "Blog"
	}

	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = "info"
	}
}

func (cfg AppConfig) validate() error {
	switch cfg.Database.Driver {
	case "sqlite":
	case "postgres":
		if cfg.Database.DSN == "" {
			return errors.New("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	switch cfg.Storage.Driver {
	case "local":
	case "s3":
		if cfg.Storage.Bucket == "" {
			return errors.New("storage.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
	return nil
}

// Origins splits the configured CORS origins.
func (s ServerConfig) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(s.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
