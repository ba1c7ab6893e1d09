package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/pixura/pixura-contracts/src/common/xzap"
)

type Config struct {
	Api       *Api          `toml:"api" mapstructure:"api" json:"api"`
	Log       *xzap.LogConf `toml:"log" mapstructure:"log" json:"log"`
	Kv        *KvConf       `toml:"kv" mapstructure:"kv" json:"kv"`
	DB        *DB           `toml:"db" mapstructure:"db" json:"db"`
	Monitor   *Monitor      `toml:"monitor" mapstructure:"monitor" json:"monitor"`
	ChainCfg  ChainCfg      `toml:"chain_cfg" mapstructure:"chain_cfg" json:"chain_cfg"`
	MarketCfg MarketCfg     `toml:"market_cfg" mapstructure:"market_cfg" json:"market_cfg"`
}

type Api struct {
	Port string `toml:"port" mapstructure:"port" json:"port"`
}

type DB struct {
	DSN          string `toml:"dsn" mapstructure:"dsn" json:"dsn"`
	MaxIdleConns int    `toml:"max_idle_conns" mapstructure:"max_idle_conns" json:"max_idle_conns"`
	MaxOpenConns int    `toml:"max_open_conns" mapstructure:"max_open_conns" json:"max_open_conns"`
}

type Monitor struct {
	PprofEnable bool  `toml:"pprof_enable" mapstructure:"pprof_enable" json:"pprof_enable"`
	PprofPort   int64 `toml:"pprof_port" mapstructure:"pprof_port" json:"pprof_port"`
}

// ChainCfg selects the asset registry backing: "memory" runs an in-process
// registry for local development, "evm" talks ERC-721 over the endpoint.
type ChainCfg struct {
	Mode        string `toml:"mode" mapstructure:"mode" json:"mode"`
	Endpoint    string `toml:"endpoint" mapstructure:"endpoint" json:"endpoint"`
	ID          int64  `toml:"id" mapstructure:"id" json:"id"`
	OperatorKey string `toml:"operator_key" mapstructure:"operator_key" json:"operator_key"`
}

type MarketCfg struct {
	OperatorAddress string `toml:"operator_address" mapstructure:"operator_address" json:"operator_address"`
	AdminAddress    string `toml:"admin_address" mapstructure:"admin_address" json:"admin_address"`
	PlatformAddress string `toml:"platform_address" mapstructure:"platform_address" json:"platform_address"`

	MarketplaceFeePct     uint8 `toml:"marketplace_fee_pct" mapstructure:"marketplace_fee_pct" json:"marketplace_fee_pct"`
	PrimarySaleFeePct     uint8 `toml:"primary_sale_fee_pct" mapstructure:"primary_sale_fee_pct" json:"primary_sale_fee_pct"`
	RoyaltyPct            uint8 `toml:"royalty_pct" mapstructure:"royalty_pct" json:"royalty_pct"`
	MinimumBidIncreasePct uint8 `toml:"minimum_bid_increase_pct" mapstructure:"minimum_bid_increase_pct" json:"minimum_bid_increase_pct"`
}

type KvConf struct {
	Redis []*Redis `toml:"redis" mapstructure:"redis" json:"redis"`
}

type Redis struct {
	Host string `toml:"host" mapstructure:"host" json:"host"`
	Type string `toml:"type" mapstructure:"type" json:"type"`
	Pass string `toml:"pass" mapstructure:"pass" json:"pass"`
}

// UnmarshalConfig loads and parses the TOML config at configFilePath.
// Environment variables prefixed with PIXURA override file values.
func UnmarshalConfig(configFilePath string) (*Config, error) {
	viper.SetConfigFile(configFilePath)
	viper.SetConfigType("toml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("PIXURA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// UnmarshalCmdConfig parses whatever config file the CLI has pointed viper at.
func UnmarshalCmdConfig() (*Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
