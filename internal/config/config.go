package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Discord  Discord  `mapstructure:"discord"`
	Economy  Economy  `mapstructure:"economy"`
	Commands Commands `mapstructure:"commands"`
	Logger   Logger   `mapstructure:"logger"`
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
}

// Discord holds the configuration for the Discord API.
type Discord struct {
	Token          string  `mapstructure:"token"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Economy holds the wallet-seeding rules and the coin registry contents.
type Economy struct {
	SeedCoin     string  `mapstructure:"seed_coin"`
	SeedQuantity float64 `mapstructure:"seed_quantity"`
	Coins        []Coin  `mapstructure:"coins"`
}

// Coin is one coin registry entry. Price is static reference data, not a
// live market feed.
type Coin struct {
	Symbol     string  `mapstructure:"symbol"`
	Name       string  `mapstructure:"name"`
	Price      float64 `mapstructure:"price"`
	MaxDecimal int     `mapstructure:"max_decimal"`
}

// Commands holds the chat command prefix and the verb aliases.
type Commands struct {
	Prefix string   `mapstructure:"prefix"`
	Join   []string `mapstructure:"join"`
	Create []string `mapstructure:"create"`
	Delete []string `mapstructure:"delete"`
	Info   []string `mapstructure:"info"`
}

// Server holds the configuration for the status API server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("discord.rate_limit", 20)      // requests per second
	viper.SetDefault("discord.rate_limit_burst", 5) // burst size
	viper.SetDefault("economy.seed_coin", "BTC")
	viper.SetDefault("economy.seed_quantity", 1.0)
	viper.SetDefault("commands.prefix", "seu")
	viper.SetDefault("commands.join", []string{"join", "가입"})
	viper.SetDefault("commands.create", []string{"createWallet", "지갑생성", "지갑만들기"})
	viper.SetDefault("commands.delete", []string{"deleteWallet", "지갑삭제"})
	viper.SetDefault("commands.info", []string{"walletInfo", "지갑정보", "지갑조회", "내지갑"})

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
