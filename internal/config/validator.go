package config

import (
	"fmt"
	"strings"

	"github.com/gyaneshwarpardhi/modgraph/internal/view"
)

// Validate reports every invalid setting at once.
func Validate(cfg *ServiceConfig) error {
	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if cfg.Server.Addr == "" {
		add("server.addr is required")
	}
	if cfg.Server.ReadTimeoutMs <= 0 {
		add("server.read_timeout_ms must be positive")
	}
	if cfg.Server.WriteTimeoutMs <= 0 {
		add("server.write_timeout_ms must be positive")
	}
	if cfg.Bundle.Path == "" {
		add("bundle.path is required")
	}

	ex := cfg.Explorer
	if ex.MaxDepth < 1 {
		add("explorer.max_depth must be at least 1")
	}
	if ex.DefaultDepth < 0 || ex.DefaultDepth > ex.MaxDepth {
		add("explorer.default_depth %d out of range [0, %d]", ex.DefaultDepth, ex.MaxDepth)
	}
	if ex.DefaultRadius < 0 || ex.DefaultRadius > ex.MaxDepth {
		add("explorer.default_radius %d out of range [0, %d]", ex.DefaultRadius, ex.MaxDepth)
	}
	if _, err := view.ParseMode(ex.AutoDependencyMode); err != nil {
		add("explorer.auto_dependency_mode: %v", err)
	}

	if cfg.Filter.StageAColor == "" || cfg.Filter.StageBColor == "" {
		add("filter stage colors are required")
	} else if cfg.Filter.StageAColor == cfg.Filter.StageBColor {
		add("filter.stage_a_color and filter.stage_b_color must differ")
	}

	if cfg.Engine.BatchWorkers < 1 {
		add("engine.batch_workers must be at least 1")
	}
	if cfg.Engine.QueueDepth < 1 {
		add("engine.queue_depth must be at least 1")
	}
	if cfg.Engine.SessionTTLMinutes < 0 {
		add("engine.session_ttl_minutes must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
