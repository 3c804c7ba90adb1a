package domain

import (
	"fmt"
	"strings"
)

// RelationType is the kind of link a schedule declares toward another.
// It has exactly two variants.
type RelationType string

const (
	// RelationParent marks the target as a predecessor of the declaring schedule.
	RelationParent RelationType = "parent"
	// RelationParallel marks the target as a concurrent peer. It carries no ordering.
	RelationParallel RelationType = "parallel"
)

// ParseRelationType accepts the canonical lowercase names, ignoring case
// and surrounding whitespace.
func ParseRelationType(s string) (RelationType, error) {
	switch RelationType(strings.ToLower(strings.TrimSpace(s))) {
	case RelationParent:
		return RelationParent, nil
	case RelationParallel:
		return RelationParallel, nil
	}
	return "", fmt.Errorf("%w: %q (want parent or parallel)", ErrInvalidRelationType, s)
}

func (t RelationType) String() string { return string(t) }

// Valid reports whether t is one of the two known variants.
func (t RelationType) Valid() bool {
	return t == RelationParent || t == RelationParallel
}

// LayoutMode selects how graph rows are assigned.
type LayoutMode string

const (
	// LayoutDiscovery places each node on its own row in discovery order.
	LayoutDiscovery LayoutMode = "discovery"
	// LayoutByLevel numbers rows separately within each level.
	LayoutByLevel LayoutMode = "level"
)

// ValidLayoutModes is the canonical set of accepted layout mode strings.
var ValidLayoutModes = map[string]bool{
	string(LayoutDiscovery): true,
	string(LayoutByLevel):   true,
}
