package config

import (
	"encoding/json"
	"os"
	"sync"
)

type Config struct {
	StoreID           int    `json:"storeId"`
	DefaultOperatorID int    `json:"defaultOperatorId"`
	ExportFolderPath  string `json:"exportFolderPath"`
	ProductCSVPath    string `json:"productCsvPath"`
	PortalUserID      string `json:"portalUserId"`
	PortalPassword    string `json:"portalPassword"`
}

var (
	cfg Config
	mu  sync.RWMutex
)

const configFilePath = "./pdvfarma_config.json"

func LoadConfig() (Config, error) {
	mu.RLock()
	defer mu.RUnlock()

	file, err := os.ReadFile(configFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{
				StoreID:          1,
				ExportFolderPath: "./EXPORT",
			}, nil
		}
		return Config{}, err
	}

	var tempCfg Config
	if err := json.Unmarshal(file, &tempCfg); err != nil {
		return Config{}, err
	}
	cfg = tempCfg

	if cfg.StoreID == 0 {
		cfg.StoreID = 1
	}
	if cfg.ExportFolderPath == "" {
		cfg.ExportFolderPath = "./EXPORT"
	}

	return cfg, nil
}

func SaveConfig(newCfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	if newCfg.StoreID == 0 {
		newCfg.StoreID = 1
	}

	file, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(configFilePath, file, 0644); err != nil {
		return err
	}
	cfg = newCfg
	return nil
}

func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}
