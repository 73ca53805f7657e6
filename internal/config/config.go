package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Zones     []ZoneConfig    `mapstructure:"zones"`
	ZoneCheck ZoneCheckConfig `mapstructure:"zonecheck"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

type ServerConfig struct {
	Environment string `mapstructure:"environment"`
	Port        string `mapstructure:"port"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN renders the keyword/value connection string the pgx driver expects.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode,
	)
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ZoneConfig names one downstream zone to probe. The zone set is fixed at
// process start; it is never discovered dynamically.
type ZoneConfig struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

type ZoneCheckConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type RateLimitConfig struct {
	RequestsPerSecond int `mapstructure:"requests_per_second"`
}

func setDefaults() {
	viper.SetDefault("server.environment", "dev")
	viper.SetDefault("server.port", ":8080")

	viper.SetDefault("postgres.host", "postgres")
	viper.SetDefault("postgres.port", "5432")
	viper.SetDefault("postgres.user", "admin")
	viper.SetDefault("postgres.password", "devpassword")
	viper.SetDefault("postgres.dbname", "multizone")
	viper.SetDefault("postgres.sslmode", "disable")

	viper.SetDefault("redis.addr", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("zonecheck.timeout", 5*time.Second)
	viper.SetDefault("ratelimit.requests_per_second", 20)

	viper.SetDefault("zone_main_url", "http://zone-main")
	viper.SetDefault("zone_admin_url", "http://zone-admin/admin")
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetEnvPrefix("MZ")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional; env vars and defaults carry a local run.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		panic(err)
	}

	if len(cfg.Zones) == 0 {
		cfg.Zones = []ZoneConfig{
			{Name: "zone-main", URL: viper.GetString("zone_main_url")},
			{Name: "zone-admin", URL: viper.GetString("zone_admin_url")},
		}
	}

	return &cfg
}
