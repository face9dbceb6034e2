// Package config provides configuration management for the DAT workbench.
//
// It loads an optional .env file with godotenv, an optional
// dat-workbench.yml next to it, and then environment variables through
// Viper. Defaults come from the `default` struct tags of
// each section, registered by reflection so every key is visible to
// AutomaticEnv.
//
// # Configuration Structure
//
//   - Log: level and format (LOG_LEVEL, LOG_FORMAT)
//   - Backend: settings dir, converter command, worker count, recent list
//     size (BACKEND_SETTINGS_DIR, BACKEND_CONVERTER_COMMAND, ...)
//   - Server: snapshot API port and key (SERVER_PORT, SERVER_API_KEY)
//   - Storage: optional S3/MinIO publishing target (STORAGE_ENDPOINT, ...)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Backend.Workers)
package config
