package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	DB     DBConfig     `mapstructure:"db"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Kafka  KafkaConfig  `mapstructure:"kafka"`
	Market MarketConfig `mapstructure:"market"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	HttpPort string `mapstructure:"http_port"`
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
}

type MarketConfig struct {
	// LogicAddress is the identity the marketplace logic layer uses when it
	// mutates marketplace storage. Storage only obeys its current owner, so
	// after deployment this address must be installed as the storage owner
	// (see the ownership handshake in the storage service).
	LogicAddress string `mapstructure:"logic_address"`

	// DeployerAddress holds storage ownership during a logic upgrade and is
	// allowed to perform the handshake steps.
	DeployerAddress string `mapstructure:"deployer_address"`

	// Initial economics written on first bootstrap. Later changes go through
	// the admin endpoints, not config.
	CreationFee string `mapstructure:"creation_fee"`
	FeeRateBps  int64  `mapstructure:"fee_rate_bps"`
}

var Global Config

func Init() {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name
	viper.AddConfigPath(".")      // optionally look for config in the working directory
	viper.AddConfigPath("./config")

	// 环境变量设置
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 设置默认值
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Warning: Config file not found, using defaults and environment variables")
		} else {
			log.Fatalf("Fatal error config file: %s \n", err)
		}
	}

	if err := viper.Unmarshal(&Global); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	log.Printf("Configuration loaded successfully. Env: %s", Global.App.Env)
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.http_port", "8080")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.user", "market_user")
	viper.SetDefault("db.password", "market_password")
	viper.SetDefault("db.name", "market_db")

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})

	viper.SetDefault("market.logic_address", "0x00000000000000000000000000000000000A11CE")
	viper.SetDefault("market.deployer_address", "0x000000000000000000000000000000000000D00D")
	viper.SetDefault("market.creation_fee", "10")
	viper.SetDefault("market.fee_rate_bps", 250)
}
