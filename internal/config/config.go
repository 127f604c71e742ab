package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	DB     DBConfig     `mapstructure:"db"`
	Cron   CronConfig   `mapstructure:"cron"`
	Data   DataConfig   `mapstructure:"data"`

	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Selection SelectionConfig `mapstructure:"selection"`
	Backtest  BacktestConfig  `mapstructure:"backtest"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Ingest  string `mapstructure:"ingest"`
}

// DataConfig names the external inputs and outputs: the vendor day-file
// directory, the roster and corporate-action files, and the optional export
// directory (export_format "" disables file export).
type DataConfig struct {
	DayDir       string `mapstructure:"day_dir"`
	RosterPath   string `mapstructure:"roster_path"`
	EventsPath   string `mapstructure:"events_path"`
	ExportDir    string `mapstructure:"export_dir"`
	ExportFormat string `mapstructure:"export_format"`
}

type PipelineConfig struct {
	Workers    int    `mapstructure:"workers"`
	AdjustMode string `mapstructure:"adjust_mode"`
}

// SelectionConfig holds the candidate-filter thresholds as named parameters.
// Defaults reproduce the fixed policy the filter started as.
type SelectionConfig struct {
	MinHistory       int     `mapstructure:"min_history"`
	ShortMAWindow    int     `mapstructure:"short_ma_window"`
	MidMAWindow      int     `mapstructure:"mid_ma_window"`
	LongMAWindow     int     `mapstructure:"long_ma_window"`
	VolumeWindow     int     `mapstructure:"volume_window"`
	VolumeSpikeRatio float64 `mapstructure:"volume_spike_ratio"`
	HighWindow       int     `mapstructure:"high_window"`
	LimitUpPct       float64 `mapstructure:"limit_up_pct"`
	LimitUpMaxRun    int     `mapstructure:"limit_up_max_run"`
	RiskMarker       string  `mapstructure:"risk_marker"`
}

type BacktestConfig struct {
	MinHistory       int     `mapstructure:"min_history"`
	BreakoutWindow   int     `mapstructure:"breakout_window"`
	VolumeWindow     int     `mapstructure:"volume_window"`
	VolumeSpikeRatio float64 `mapstructure:"volume_spike_ratio"`
	ExitMAWindow     int     `mapstructure:"exit_ma_window"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("AS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", false)
	v.SetDefault("cron.ingest", "0 0 17 * * MON-FRI")
	v.SetDefault("data.day_dir", "data/day")
	v.SetDefault("data.roster_path", "data/roster.json")
	v.SetDefault("data.events_path", "data/xdxr.csv")
	v.SetDefault("data.export_dir", "data/out")
	v.SetDefault("data.export_format", "")
	v.SetDefault("pipeline.workers", 8)
	v.SetDefault("pipeline.adjust_mode", "qfq")

	v.SetDefault("selection.min_history", 250)
	v.SetDefault("selection.short_ma_window", 5)
	v.SetDefault("selection.mid_ma_window", 10)
	v.SetDefault("selection.long_ma_window", 250)
	v.SetDefault("selection.volume_window", 5)
	v.SetDefault("selection.volume_spike_ratio", 1.5)
	v.SetDefault("selection.high_window", 20)
	v.SetDefault("selection.limit_up_pct", 9.9)
	v.SetDefault("selection.limit_up_max_run", 3)
	v.SetDefault("selection.risk_marker", "ST")

	v.SetDefault("backtest.min_history", 30)
	v.SetDefault("backtest.breakout_window", 20)
	v.SetDefault("backtest.volume_window", 5)
	v.SetDefault("backtest.volume_spike_ratio", 1.5)
	v.SetDefault("backtest.exit_ma_window", 10)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
