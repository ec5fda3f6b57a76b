package config

import (
	"fmt"
	"os"
)

// Catalog backends for local mode.
const (
	CatalogYAML  = "yaml"
	CatalogMySQL = "mysql"
)

// CatalogConfig selects where local mode reads its rooms from.  The MySQL
// table is owned by another system and only ever read.
type CatalogConfig struct {
	Source string // CATALOG_SOURCE: yaml or mysql
	Path   string // CATALOG_PATH; empty uses the built-in catalog
	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string
	Table  string // CATALOG_TABLE
}

// LoadCatalogConfig reads the catalog settings.  The DB_* variables are
// required only for the mysql source.
func LoadCatalogConfig() (CatalogConfig, error) {
	cfg := CatalogConfig{
		Source: envStr("CATALOG_SOURCE", CatalogYAML),
		Path:   os.Getenv("CATALOG_PATH"),
		DBPass: os.Getenv("DB_PASS"),
		DBPort: envStr("DB_PORT", "3306"),
		Table:  envStr("CATALOG_TABLE", "rooms"),
	}
	switch cfg.Source {
	case CatalogYAML:
		return cfg, nil
	case CatalogMySQL:
		var err error
		if cfg.DBUser, err = must("DB_USER"); err != nil {
			return CatalogConfig{}, err
		}
		if cfg.DBHost, err = must("DB_HOST"); err != nil {
			return CatalogConfig{}, err
		}
		if cfg.DBName, err = must("DB_NAME"); err != nil {
			return CatalogConfig{}, err
		}
		return cfg, nil
	}
	return CatalogConfig{}, fmt.Errorf("CATALOG_SOURCE must be %q or %q (got %q)", CatalogYAML, CatalogMySQL, cfg.Source)
}
