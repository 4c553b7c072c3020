package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"

	"github.com/sushihentaime/bloglist/internal/authservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/mailservice"
)

var errMissingSecret = errors.New("SECRET must be set")

type Config struct {
	Port           string        `mapstructure:"PORT"`
	Environment    string        `mapstructure:"ENVIRONMENT"`
	Version        string        `mapstructure:"VERSION"`
	TrustedOrigins []string      `mapstructure:"TRUSTED_ORIGINS"`
	Secret         string        `mapstructure:"SECRET"`
	TokenTTL       time.Duration `mapstructure:"TOKEN_TTL"`
	CacheTTL       time.Duration `mapstructure:"CACHE_TTL"`
	MigrationsPath string        `mapstructure:"MIGRATIONS_PATH"`

	DB       dbConfig       `mapstructure:",squash"`
	Mail     mailConfig     `mapstructure:",squash"`
	RabbitMQ rabbitMQConfig `mapstructure:",squash"`
}

type dbConfig struct {
	Host         string        `mapstructure:"POSTGRES_HOST"`
	Port         string        `mapstructure:"POSTGRES_PORT"`
	User         string        `mapstructure:"POSTGRES_USER"`
	Password     string        `mapstructure:"POSTGRES_PASSWORD"`
	Name         string        `mapstructure:"POSTGRES_DB"`
	MaxOpenConns int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	MaxIdleTime  time.Duration `mapstructure:"DB_MAX_IDLE_TIME"`
}

type mailConfig struct {
	Host      string `mapstructure:"MAIL_HOST"`
	Port      int    `mapstructure:"MAIL_PORT"`
	User      string `mapstructure:"MAIL_USER"`
	Password  string `mapstructure:"MAIL_PASSWORD"`
	Sender    string `mapstructure:"MAIL_SENDER"`
	Recipient string `mapstructure:"MAIL_RECIPIENT"`
}

type rabbitMQConfig struct {
	Host     string `mapstructure:"RABBITMQ_HOST"`
	Port     string `mapstructure:"RABBITMQ_PORT"`
	User     string `mapstructure:"RABBITMQ_USER"`
	Password string `mapstructure:"RABBITMQ_PASSWORD"`
}

// defaults also registers every key so AutomaticEnv can fill keys that are
// missing from the file.
var defaults = map[string]any{
	"PORT":              "3003",
	"ENVIRONMENT":       "development",
	"VERSION":           "1.0.0",
	"TRUSTED_ORIGINS":   "",
	"SECRET":            "",
	"TOKEN_TTL":         authservice.DefaultTokenTTL,
	"CACHE_TTL":         5 * time.Minute,
	"MIGRATIONS_PATH":   "",
	"POSTGRES_HOST":     "localhost",
	"POSTGRES_PORT":     "5432",
	"POSTGRES_USER":     "",
	"POSTGRES_PASSWORD": "",
	"POSTGRES_DB":       "bloglist",
	"DB_MAX_OPEN_CONNS": 25,
	"DB_MAX_IDLE_CONNS": 25,
	"DB_MAX_IDLE_TIME":  15 * time.Minute,
	"MAIL_HOST":         "",
	"MAIL_PORT":         587,
	"MAIL_USER":         "",
	"MAIL_PASSWORD":     "",
	"MAIL_SENDER":       "",
	"MAIL_RECIPIENT":    "",
	"RABBITMQ_HOST":     "localhost",
	"RABBITMQ_PORT":     "5672",
	"RABBITMQ_USER":     "guest",
	"RABBITMQ_PASSWORD": "guest",
}

// loadConfig reads the .env file at path, lets the environment override it
// and fails when no signing secret is configured. A missing file is not an
// error.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Secret == "" {
		return nil, errMissingSecret
	}

	return &config, nil
}

func (c *Config) addr() string {
	return ":" + c.Port
}

func (c *Config) dbConfig() common.DBConfig {
	return common.DBConfig{
		Host:         c.DB.Host,
		Port:         c.DB.Port,
		User:         c.DB.User,
		Password:     c.DB.Password,
		Name:         c.DB.Name,
		MaxOpenConns: c.DB.MaxOpenConns,
		MaxIdleConns: c.DB.MaxIdleConns,
		MaxIdleTime:  c.DB.MaxIdleTime,
	}
}

func (c *Config) mailConfig() mailservice.MailConfig {
	return mailservice.MailConfig{
		Host:      c.Mail.Host,
		Port:      c.Mail.Port,
		User:      c.Mail.User,
		Password:  c.Mail.Password,
		Sender:    c.Mail.Sender,
		Recipient: c.Mail.Recipient,
	}
}

func (c *Config) tokenConfig() authservice.TokenConfig {
	return authservice.TokenConfig{
		Secret: []byte(c.Secret),
		TTL:    c.TokenTTL,
	}
}

func (c *Config) rabbitMQURI() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}
