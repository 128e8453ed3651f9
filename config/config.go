// Initializing common application configuration
package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Mailchimp MailchimpConfig `mapstructure:"mailchimp"`
	Recaptcha RecaptchaConfig `mapstructure:"recaptcha"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	AppVersion  string        `mapstructure:"app_version"`
	Host        string        `mapstructure:"host"`
	Port        string        `mapstructure:"port"`
	Timeout     time.Duration `mapstructure:"timeout"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	Env         string        `mapstructure:"env"`
	Mode        string        `mapstructure:"mode"`
	FrontendURL string        `mapstructure:"frontend_url"`
}

type SMTPConfig struct {
	Service  string `mapstructure:"service"` // provider preset, e.g. "gmail"
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type AdminConfig struct {
	// Email receives the operator copy of booking and contact notifications.
	Email string `mapstructure:"email"`
}

type MailchimpConfig struct {
	APIKey string `mapstructure:"api_key"`
	ListID string `mapstructure:"list_id"`
}

type RecaptchaConfig struct {
	SecretKey string  `mapstructure:"secret_key"`
	MinScore  float64 `mapstructure:"min_score"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()

	viperInstance.AddConfigPath("./config")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	// Credentials come from the environment, never from the yaml file,
	// e.g. SMTP_PASSWORD, MAILCHIMP_API_KEY, RECAPTCHA_SECRET_KEY.
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	err := viperInstance.ReadInConfig()

	if err != nil {
		return nil, err
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		return nil, err
	}

	// Secrets are env-only, viper.Unmarshal does not pick up AutomaticEnv
	// values for keys absent from the config file.
	c.SMTP.Username = GetEnv("SMTP_USERNAME", c.SMTP.Username)
	c.SMTP.Password = GetEnv("SMTP_PASSWORD", c.SMTP.Password)
	c.Admin.Email = GetEnv("ADMIN_EMAIL", c.Admin.Email)
	c.Mailchimp.APIKey = GetEnv("MAILCHIMP_API_KEY", c.Mailchimp.APIKey)
	c.Mailchimp.ListID = GetEnv("MAILCHIMP_LIST_ID", c.Mailchimp.ListID)
	c.Recaptcha.SecretKey = GetEnv("RECAPTCHA_SECRET_KEY", c.Recaptcha.SecretKey)

	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = 100
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = 15 * time.Minute
	}
	if c.Recaptcha.MinScore == 0 {
		c.Recaptcha.MinScore = 0.5
	}

	return &c, nil
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
