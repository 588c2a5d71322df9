package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Cache struct {
		RedisAddr string `yaml:"redis_addr"` // empty means in-memory cache
	} `yaml:"cache"`
	Portfolio struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"portfolio"`
	Schedule struct {
		RecomputeCron string `yaml:"recompute_cron"`
	} `yaml:"schedule"`
	Analysis struct {
		MarginalTaxRate       float64 `yaml:"marginal_tax_rate"`
		DepreciationLifeYears float64 `yaml:"depreciation_life_years"`
		LandPct               float64 `yaml:"land_pct"`
		AppreciationRate      float64 `yaml:"appreciation_rate"`
	} `yaml:"analysis"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is fine; defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("PORTFOLIO_STATE_FILE"); v != "" {
		cfg.Portfolio.StateFile = v
	}
	if v := os.Getenv("RECOMPUTE_CRON"); v != "" {
		cfg.Schedule.RecomputeCron = v
	}
	if v := os.Getenv("MARGINAL_TAX_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.MarginalTaxRate = rate
		}
	}

	// Defaults
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/properties.db"
	}
	if cfg.Portfolio.StateFile == "" {
		cfg.Portfolio.StateFile = "data/portfolio_state.json"
	}
	if cfg.Schedule.RecomputeCron == "" {
		cfg.Schedule.RecomputeCron = "0 0 2 * * *" // nightly at 02:00
	}
	if cfg.Analysis.MarginalTaxRate == 0 {
		cfg.Analysis.MarginalTaxRate = 0.24
	}
	if cfg.Analysis.DepreciationLifeYears == 0 {
		cfg.Analysis.DepreciationLifeYears = 27.5
	}
	if cfg.Analysis.LandPct == 0 {
		cfg.Analysis.LandPct = 0.20
	}
	if cfg.Analysis.AppreciationRate == 0 {
		cfg.Analysis.AppreciationRate = 0.03
	}

	return cfg, nil
}

// Validate checks that the configured values are usable.
func (c *Config) Validate() error {
	if c.Analysis.MarginalTaxRate < 0 || c.Analysis.MarginalTaxRate >= 1 {
		return fmt.Errorf("analysis.marginal_tax_rate must be in [0,1)")
	}
	if c.Analysis.DepreciationLifeYears <= 0 {
		return fmt.Errorf("analysis.depreciation_life_years must be positive")
	}
	if c.Analysis.LandPct < 0 || c.Analysis.LandPct >= 1 {
		return fmt.Errorf("analysis.land_pct must be in [0,1)")
	}
	if c.Analysis.AppreciationRate < -1 {
		return fmt.Errorf("analysis.appreciation_rate must be >= -1")
	}
	return nil
}
