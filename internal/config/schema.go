package config

import (
	"time"

	"github.com/gyaneshwarpardhi/modgraph/internal/filter"
)

// ServiceConfig is the top-level YAML structure.
type ServiceConfig struct {
	Server   ServerConf   `yaml:"server"`
	Bundle   BundleConf   `yaml:"bundle"`
	Explorer ExplorerConf `yaml:"explorer"`
	Filter   FilterConf   `yaml:"filter"`
	Engine   EngineConf   `yaml:"engine"`
}

// ServerConf configures the HTTP listener.
type ServerConf struct {
	Addr              string `yaml:"addr"`
	ReadTimeoutMs     int    `yaml:"read_timeout_ms"`
	WriteTimeoutMs    int    `yaml:"write_timeout_ms"`
	CORSAllowedOrigin string `yaml:"cors_allowed_origin"`
}

func (s ServerConf) ReadTimeout() time.Duration  { return time.Duration(s.ReadTimeoutMs) * time.Millisecond }
func (s ServerConf) WriteTimeout() time.Duration { return time.Duration(s.WriteTimeoutMs) * time.Millisecond }

// BundleConf locates the graph bundle written by the preprocessor.
type BundleConf struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// ExplorerConf holds depth limits and the mode used when a module is opened.
type ExplorerConf struct {
	DefaultDepth       int    `yaml:"default_depth"`
	MaxDepth           int    `yaml:"max_depth"`
	DefaultRadius      int    `yaml:"default_radius"`
	AutoDependencyMode string `yaml:"auto_dependency_mode"`
}

// FilterConf maps node styling to filter categories.
type FilterConf struct {
	StageAColor string `yaml:"stage_a_color"`
	StageBColor string `yaml:"stage_b_color"`
	SubXKeyword string `yaml:"sub_x_keyword"`
	SubYKeyword string `yaml:"sub_y_keyword"`
}

// Rules converts the section into filter rules.
func (f FilterConf) Rules() filter.Rules {
	return filter.Rules{
		StageAColor: f.StageAColor,
		StageBColor: f.StageBColor,
		SubXKeyword: f.SubXKeyword,
		SubYKeyword: f.SubYKeyword,
	}
}

// EngineConf holds tunable concurrency settings.
type EngineConf struct {
	BatchWorkers      int `yaml:"batch_workers"`
	QueueDepth        int `yaml:"queue_depth"`
	SessionTTLMinutes int `yaml:"session_ttl_minutes"`
}

func (e EngineConf) SessionTTL() time.Duration {
	return time.Duration(e.SessionTTLMinutes) * time.Minute
}
