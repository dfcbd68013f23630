package main

import "github.com/kovin-ide/kovin/internal/config"

func defaultConfigFor(backendURL, driver string) *config.Config {
	cfg := &config.Config{
		Backend: config.BackendConfig{BaseURL: backendURL},
		Storage: config.StorageConfig{Driver: driver},
	}
	cfg.SetDefaults()
	return cfg
}
