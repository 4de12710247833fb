package db

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

const driverName = "mysql"

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type AuthConfig struct {
	Secret   string `yaml:"secret"`
	TokenTTL string `yaml:"token_ttl"` // e.g. "24h"
}

type SweeperConfig struct {
	Interval string `yaml:"interval"` // e.g. "1h"
}

type UploadConfig struct {
	Dir string `yaml:"dir"`
}

type Config struct {
	Mode    string         `yaml:"mode"`
	Addr    string         `yaml:"addr"`
	DB      DatabaseConfig `yaml:"database"`
	Auth    AuthConfig     `yaml:"auth"`
	Sweeper SweeperConfig  `yaml:"sweeper"`
	Upload  UploadConfig   `yaml:"upload"`
}

func LoadConfig(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &cfg, nil
}

// TokenTTLOrDefault parses the configured token lifetime, defaulting to 24h.
func (c AuthConfig) TokenTTLOrDefault() time.Duration {
	d, err := time.ParseDuration(c.TokenTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// SweepInterval parses the configured sweep period, defaulting to 1h.
func (c SweeperConfig) SweepInterval() time.Duration {
	d, err := time.ParseDuration(c.Interval)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

func Connect(c DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&tls=false&timeout=3s&readTimeout=5s&writeTimeout=5s&loc=UTC",
		c.Username, c.Password, c.Host, c.Port, c.DBName)

	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open connection: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connect to db: %w", err)
	}

	// Pool limits sized so the total stays under MySQL's max_connections.
	conn.SetMaxOpenConns(80)
	conn.SetMaxIdleConns(20)
	conn.SetConnMaxLifetime(30 * time.Minute)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	return conn, nil
}
