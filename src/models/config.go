package models

// MConfig Structure
type MConfig struct {
	Name       string            `yaml:"name"`
	Host       string            `yaml:"host"`
	Port       int               `yaml:"port"`
	LogLevel   string            `yaml:"log_level"`
	Storage    MStorageConfig    `yaml:"storage"`
	Network    MNetworkConfig    `yaml:"network"`
	DataSource MDataSourceConfig `yaml:"data_source"`
	Analytics  MAnalyticsConfig  `yaml:"analytics"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
}

type MNetworkConfig struct {
	Enabled            bool     `yaml:"enabled"`
	Proxies            []string `yaml:"proxies"`
	RequestTimeout     int      `yaml:"timeout"`
	MaxRetries         int      `yaml:"retries"`
	ConcurrentRequests int      `yaml:"concurrent_requests"`
	UserAgent          string   `yaml:"user_agent"`
}

type MDataSourceConfig struct {
	DataRetentionDays     int             `yaml:"data_retention_days"`
	UpdateIntervalSeconds int             `yaml:"update_interval_seconds"`
	BackfillSpec          string          `yaml:"backfill_cron"`
	Sources               []MSourceConfig `yaml:"sources"`
}

type MSourceConfig struct {
	Name      string   `yaml:"name"`
	Company   string   `yaml:"company"`
	GoldTypes []string `yaml:"gold_types"`
	APIKey    string   `yaml:"api_key"` // Optional
}

type MAnalyticsConfig struct {
	MAWindowDays int     `yaml:"ma_window_days"`
	PresetDays   []int   `yaml:"preset_days"`
	UnitDivisor  float64 `yaml:"unit_divisor"`
}
