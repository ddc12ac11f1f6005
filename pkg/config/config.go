package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shouni/gemini-idphoto-kit/pkg/generator"
)

// Config はCLIとジェネレーターの設定です。
type Config struct {
	SharedAPIKey string
	UserAPIKey   string
	Model        string
	Locale       string
	HTTPTimeout  time.Duration

	SharedMaxRetries int
	UserMaxRetries   int
}

// Load は .env（存在すれば）と環境変数から設定を読み込みます。
// 既に設定されている環境変数は .env で上書きされません。
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(".env の読み込みに失敗しました: %w", err)
	}

	defaults := generator.DefaultPolicies()
	cfg := &Config{
		SharedAPIKey: os.Getenv("GEMINI_API_KEY"),
		UserAPIKey:   os.Getenv("IDPHOTO_USER_API_KEY"),
		Model:        envOrDefault("IDPHOTO_MODEL", generator.DefaultModel),
		Locale:       envOrDefault("IDPHOTO_LOCALE", "ar"),
	}

	var err error
	if cfg.HTTPTimeout, err = durationEnv("IDPHOTO_HTTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.SharedMaxRetries, err = intEnv("IDPHOTO_SHARED_MAX_RETRIES", defaults.Shared.MaxRetries); err != nil {
		return nil, err
	}
	if cfg.UserMaxRetries, err = intEnv("IDPHOTO_USER_MAX_RETRIES", defaults.User.MaxRetries); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Policies は既定のポリシーにリトライ回数の上書きを反映したものを返します。
func (c *Config) Policies() generator.Policies {
	p := generator.DefaultPolicies()
	p.Shared.MaxRetries = c.SharedMaxRetries
	p.User.MaxRetries = c.UserMaxRetries
	return p
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// durationEnv は "45s" のような time.Duration 形式と、秒数の整数の両方を受け付けます。
func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s の値が不正です (%q): %w", key, v, err)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s は0以上の整数で指定してください (%q)", key, v)
	}
	return n, nil
}
