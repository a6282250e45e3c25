// Package config provides centralized configuration management for fedlease.
// It handles loading configuration from multiple sources, validation, and the
// fixed strings of the fedresurs.ru lease-notice workflow.
//
// # Configuration Sources
//
// Configuration is layered, later layers winning:
//
//	1. Default values (Default)
//	2. A YAML file (config.yaml, configs/config.yaml or the -config flag)
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern FEDLEASE_<SECTION>_<FIELD>:
//
//	FEDLEASE_REGISTRY_BASE_URL=https://fedresurs.ru
//	FEDLEASE_REGISTRY_TIMEOUT=30s
//	FEDLEASE_RATE_MODE=fixed
//	FEDLEASE_RATE_INTERVAL=1s
//	FEDLEASE_COLLECT_DEDUPLICATE=true
//	FEDLEASE_LOGGING_LEVEL=debug
//	FEDLEASE_PATHS_INPUT_FILE="INN to parse.txt"
//	FEDLEASE_TELEMETRY_METRICS_ADDR=127.0.0.1:9090
//
// # Validation
//
// Validate runs go-playground/validator over the struct tags; Load and LoadFrom
// call it after all layers are applied.
//
// # Paths
//
// Relative paths are resolved against the working directory by GetPaths:
//
//	paths, err := config.GetPaths(cfg.Paths)
//	out := paths.GetOutputPath("16-10-2026_12-00-00.xlsx")
package config
