// Package catalog gates which TransformManager catalog versions an
// Orchestrator build will accept, adapted from a schema-version migration
// checker, trimmed to a compatibility check: transform catalogs don't need a
// migration chain, only a pass/fail gate at construction time.
package catalog

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// DefaultVersionConstraint is the catalog version range an Orchestrator
// accepts when none is configured explicitly.
const DefaultVersionConstraint = ">= 1.0.0, < 2.0.0"

// VersionGate checks a TransformManager's declared catalog version against
// a supported semver range.
type VersionGate struct {
	constraint *semver.Constraints
	raw        string
}

// NewVersionGate parses a semver constraint string into a VersionGate.
func NewVersionGate(constraint string) (*VersionGate, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("catalog: invalid version constraint %q: %w", constraint, err)
	}
	return &VersionGate{constraint: c, raw: constraint}, nil
}

// Check reports whether catalogVersion satisfies the gate's constraint.
func (g *VersionGate) Check(catalogVersion string) error {
	v, err := semver.NewVersion(catalogVersion)
	if err != nil {
		return fmt.Errorf("catalog: manager declared invalid catalog version %q: %w", catalogVersion, err)
	}
	if !g.constraint.Check(v) {
		return fmt.Errorf("catalog: manager's catalog version %q does not satisfy required range %q", catalogVersion, g.raw)
	}
	return nil
}
