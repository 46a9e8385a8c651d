package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	VendorURL      string
	UserAgent      string
	RequestTimeout time.Duration
	LogLevel       string
	ListenAddr     string
	JWTSecret      string
	JWTUser        string
	JWTPassword    string
	TokenTTL       time.Duration
	StreamInterval time.Duration
	TLSCertFile    string
	TLSKeyFile     string
}

const DefaultVendorURL = "https://www.flyniki.com/en/booking/flight/vacancy.php"

func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("vendor_url", DefaultVendorURL)
	v.SetDefault("user_agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	// zero keeps the transport default (no deadline)
	v.SetDefault("request_timeout", "0s")
	v.SetDefault("log_level", "info")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("auth_user", "demo")
	v.SetDefault("auth_pass", "demo123")
	v.SetDefault("token_ttl", "1h")
	v.SetDefault("stream_interval", "30s")

	if path := os.Getenv("FLIGHTS_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/flights")
	}

	if err := v.ReadInConfig(); err != nil {
		slog.Debug("no config file found, using defaults + env vars", "err", err)
	}

	v.AutomaticEnv()

	timeout, err := duration(v, "request_timeout")
	if err != nil {
		return nil, err
	}
	ttl, err := duration(v, "token_ttl")
	if err != nil {
		return nil, err
	}
	interval, err := duration(v, "stream_interval")
	if err != nil {
		return nil, err
	}

	return &Config{
		VendorURL:      v.GetString("vendor_url"),
		UserAgent:      v.GetString("user_agent"),
		RequestTimeout: timeout,
		LogLevel:       v.GetString("log_level"),
		ListenAddr:     v.GetString("listen_addr"),
		JWTSecret:      v.GetString("jwt_secret"),
		JWTUser:        v.GetString("auth_user"),
		JWTPassword:    v.GetString("auth_pass"),
		TokenTTL:       ttl,
		StreamInterval: interval,
		TLSCertFile:    os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:     os.Getenv("TLS_KEY_FILE"),
	}, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("bad %s: %w", key, err)
	}
	return d, nil
}
