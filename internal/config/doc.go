// Package config provides configuration management for the growth scoring tools.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later sources overriding
// earlier ones:
//
//	1. Built-in defaults (Default)
//	2. A YAML file (explicit path, GROWTH_CONFIG_FILE, or growth.yaml when present)
//	3. Environment variables (highest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern GROWTH_<SECTION>_<FIELD>:
//
//	GROWTH_OUTPUT_MODE=percentile
//	GROWTH_TABLES_WEIGHT_PATH=/data/cdc/wtage.xlsx
//	GROWTH_PROCESSING_CONCURRENCY=8
//	GROWTH_PROCESSING_SEX_FILTER_AT_BIRTH=true
//	GROWTH_LOGGING_LEVEL=debug
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Command line flags are applied by the binaries after Load; call Validate again
// after changing fields.
package config
