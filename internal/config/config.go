package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port           string        `mapstructure:"port"`
		Env            string        `mapstructure:"env"`
		RequestTimeout time.Duration `mapstructure:"request_timeout"`
	} `mapstructure:"app"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr       string        `mapstructure:"addr"`
		Password   string        `mapstructure:"password"`
		ProfileTTL time.Duration `mapstructure:"profile_ttl"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		GroupID string   `mapstructure:"group_id"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	Jaeger struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"jaeger"`
	Profile struct {
		MaxWriteRetries int `mapstructure:"max_write_retries"`
	} `mapstructure:"profile"`
}

// LoadConfig reads .env and config.yaml from path, then applies environment
// overrides. Missing files are not an error.
func LoadConfig(path string) (cfg Config, err error) {
	if err := godotenv.Load(path + "/.env"); err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read env only. Error: %v", err)
	}

	v.SetDefault("app.port", "5000")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.request_timeout", 10*time.Second)
	v.SetDefault("redis.profile_ttl", 10*time.Minute)
	v.SetDefault("kafka.group_id", "profile-cache-group")
	v.SetDefault("auth.token_lifespan", 360000*time.Second)
	v.SetDefault("profile.max_write_retries", 3)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.request_timeout", "APP_REQUEST_TIMEOUT")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.profile_ttl", "REDIS_PROFILE_TTL")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("kafka.group_id", "KAFKA_GROUP_ID")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")
	v.BindEnv("jaeger.otlp_endpoint", "JAEGER_OTLP_ENDPOINT")
	v.BindEnv("profile.max_write_retries", "PROFILE_MAX_WRITE_RETRIES")

	err = v.Unmarshal(&cfg)
	return
}
