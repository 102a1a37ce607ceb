package app

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/feedmill/feedmill-backend/internal/platform/logger"
	"github.com/feedmill/feedmill-backend/internal/utils"
)

type Config struct {
	Addr         string `yaml:"addr"`
	DBDriver     string `yaml:"db_driver"` // "postgres" or "sqlite"
	LogMode      string `yaml:"log_mode"`
	LowStockCron string `yaml:"low_stock_cron"`
}

// LoadConfig reads configuration from the environment, then overlays the YAML
// file named by CONFIG_FILE when one is set. File values win over env values.
func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Addr:         utils.GetEnv("HTTP_ADDR", ":8080", log),
		DBDriver:     utils.GetEnv("DB_DRIVER", "postgres", log),
		LogMode:      utils.GetEnv("LOG_MODE", "development", log),
		LowStockCron: utils.GetEnv("LOW_STOCK_CRON", "0 6 * * *", log),
	}

	path := utils.GetEnv("CONFIG_FILE", "", log)
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("config file unreadable, staying on env config", "path", path, "error", err)
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Warn("config file invalid, staying on env config", "path", path, "error", err)
	}
	return cfg
}
