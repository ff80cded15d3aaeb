package config

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Validate checks that a loaded Config is internally consistent. Unlike the
// original multi-service validator this only concerns itself with settings
// the orchestrator and its supporting packages actually consume: there is no
// database, cache, or exchange connectivity to probe.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.App.Name) == "" {
		errs = append(errs, "app.name must not be empty")
	}

	switch strings.ToLower(c.App.LogFormat) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("app.log_format must be \"console\" or \"json\", got %q", c.App.LogFormat))
	}

	if c.Execution.MaxConcurrentAssets < 0 {
		errs = append(errs, "execution.max_concurrent_assets must be >= 0 (0 means unbounded)")
	}

	if strings.TrimSpace(c.Catalog.VersionConstraint) == "" {
		errs = append(errs, "catalog.version_constraint must not be empty")
	} else if _, err := semver.NewConstraint(c.Catalog.VersionConstraint); err != nil {
		errs = append(errs, fmt.Sprintf("catalog.version_constraint is not a valid semver constraint: %v", err))
	}

	if c.Monitoring.EnableMetrics && (c.Monitoring.PrometheusPort <= 0 || c.Monitoring.PrometheusPort > 65535) {
		errs = append(errs, fmt.Sprintf("monitoring.prometheus_port must be a valid TCP port when metrics are enabled, got %d", c.Monitoring.PrometheusPort))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
