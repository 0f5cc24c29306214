package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/EternisAI/agent-portal/internal/api/http"
	"github.com/EternisAI/agent-portal/internal/auth"
	"github.com/EternisAI/agent-portal/internal/captcha"
	"github.com/EternisAI/agent-portal/internal/db"
	"github.com/EternisAI/agent-portal/internal/session"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Log      LogConfig
	Http     http.Config
	Database db.Config
	Auth     auth.Config
	Session  session.Config
	Captcha  captcha.Options
}

var config Config

func setDefaults() {
	viper.SetDefault("log.level", LOG_LEVEL_INFO)
	viper.SetDefault("http.port", 3000)
	viper.SetDefault("http.client_origin", "http://localhost:8080")
	viper.SetDefault("http.public_dir", "public")
	viper.SetDefault("database.driver", db.DriverMongo)
	viper.SetDefault("database.name", "agent_portal")
	viper.SetDefault("session.cookie_name", session.DefaultCookieName)
	viper.SetDefault("session.ttl", session.DefaultTTL)
	viper.SetDefault("session.captcha_ttl", session.DefaultCaptchaTTL)
	viper.SetDefault("session.max_captchas", session.DefaultMaxCaptchas)
	viper.SetDefault("captcha.size", captcha.DefaultSize)
	viper.SetDefault("captcha.charset", captcha.DefaultCharset)
	viper.SetDefault("captcha.noise", captcha.DefaultNoise)
	viper.SetDefault("captcha.color", true)
	viper.SetDefault("captcha.background", captcha.DefaultBackground)
}

func InitConfig() {
	configDir := pflag.String("config", "", "directory containing application.yaml")
	pflag.Uint("port", 0, "HTTP listen port (overrides http.port)")
	pflag.Parse()

	_ = godotenv.Load()

	setDefaults()
	viper.SetConfigName("application")
	if *configDir != "" {
		viper.AddConfigPath(*configDir)
	}
	viper.AddConfigPath(".")
	viper.AddConfigPath("./cmd/agent-portal")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.BindEnv("database.url", "MONGO_URI", "DATABASE_URL")
	_ = viper.BindEnv("database.driver", "DATABASE_DRIVER")
	_ = viper.BindEnv("auth.secret", "SECRET_KEY")
	_ = viper.BindEnv("http.port", "PORT")
	_ = viper.BindEnv("http.client_origin", "CLIENT_ORIGIN")
	if f := pflag.Lookup("port"); f != nil && f.Changed {
		_ = viper.BindPFlag("http.port", f)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(err)
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		panic(err)
	}
	if err := validateConfig(config); err != nil {
		panic(err)
	}

	initLogger(config.Log.Level)

	if strings.ToUpper(config.Log.Level) == LOG_LEVEL_DEBUG {
		redacted := config
		redacted.Auth.Secret = "***"
		configJSON, err := json.MarshalIndent(redacted, "", "  ")
		if err == nil {
			fmt.Println("Config loaded:")
			fmt.Println(string(configJSON))
		}
	}
}

func validateConfig(c Config) error {
	if c.Auth.Secret == "" {
		return errors.New("auth.secret (SECRET_KEY) is required")
	}
	switch c.Database.Driver {
	case db.DriverMemory:
	case db.DriverMongo, db.DriverPostgres:
		if c.Database.Url == "" {
			return fmt.Errorf("database.url is required for driver %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	return nil
}
