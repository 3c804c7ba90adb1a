package cli

import (
	"fmt"
	"strings"

	"github.com/cstcaptive/cstlendar/internal/domain"
	"github.com/spf13/pflag"
)

// relationTypeFlag parses --type into a domain.RelationType.
type relationTypeFlag struct {
	value domain.RelationType
}

var _ pflag.Value = (*relationTypeFlag)(nil)

func newRelationTypeFlag(def domain.RelationType) *relationTypeFlag {
	return &relationTypeFlag{value: def}
}

func (f *relationTypeFlag) String() string { return string(f.value) }
func (f *relationTypeFlag) Type() string   { return "parent|parallel" }

func (f *relationTypeFlag) Set(s string) error {
	t, err := domain.ParseRelationType(s)
	if err != nil {
		return err
	}
	f.value = t
	return nil
}

// layoutFlag parses --layout; empty means the configured default.
type layoutFlag struct {
	value domain.LayoutMode
}

var _ pflag.Value = (*layoutFlag)(nil)

func (f *layoutFlag) String() string { return string(f.value) }
func (f *layoutFlag) Type() string   { return "discovery|level" }

func (f *layoutFlag) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if !domain.ValidLayoutModes[s] {
		return fmt.Errorf("unknown layout %q (want discovery or level)", s)
	}
	f.value = domain.LayoutMode(s)
	return nil
}
