// Package config содержит логику чтения конфигурации кассы.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	defaultProductsFile   = "data/products.md"
	defaultPromotionsFile = "data/promotions.md"
	defaultLogLevel       = "info"
)

// Config содержит параметры конфигурации кассы.
type Config struct {
	ProductsFile   string `env:"PRODUCTS_FILE"`
	PromotionsFile string `env:"PROMOTIONS_FILE"`
	CatalogFile    string `env:"CATALOG_FILE"`
	DatabaseURI    string `env:"DATABASE_URI"`
	LogLevel       string `env:"LOG_LEVEL"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fromEnv := *cfg

	flag.StringVar(&cfg.ProductsFile, "p", defaultProductsFile, "products file")
	flag.StringVar(&cfg.PromotionsFile, "m", defaultPromotionsFile, "promotions file")
	flag.StringVar(&cfg.CatalogFile, "c", "", "YAML catalog file")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")

	flag.Parse()

	if fromEnv.ProductsFile != "" {
		cfg.ProductsFile = fromEnv.ProductsFile
	}
	if fromEnv.PromotionsFile != "" {
		cfg.PromotionsFile = fromEnv.PromotionsFile
	}
	if fromEnv.CatalogFile != "" {
		cfg.CatalogFile = fromEnv.CatalogFile
	}
	if fromEnv.DatabaseURI != "" {
		cfg.DatabaseURI = fromEnv.DatabaseURI
	}
	if fromEnv.LogLevel != "" {
		cfg.LogLevel = fromEnv.LogLevel
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	return cfg, nil
}
