package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default returns the configuration used for every key the file omits.
func Default() *ServiceConfig {
	return &ServiceConfig{
		Server: ServerConf{
			Addr:              ":8000",
			ReadTimeoutMs:     10000,
			WriteTimeoutMs:    30000,
			CORSAllowedOrigin: "*",
		},
		Bundle: BundleConf{Path: "data/bundle.json", Watch: true},
		Explorer: ExplorerConf{
			DefaultDepth:       2,
			MaxDepth:           10,
			DefaultRadius:      2,
			AutoDependencyMode: "paths",
		},
		Filter: FilterConf{
			StageAColor: "green",
			StageBColor: "lightgrey",
			SubXKeyword: "pat",
			SubYKeyword: "hlt",
		},
		Engine: EngineConf{BatchWorkers: 8, QueueDepth: 256, SessionTTLMinutes: 60},
	}
}

// Load reads and validates the YAML config at path. An empty path yields
// the defaults.
func Load(path string) (*ServiceConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	// Keys absent from the file keep their default.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
