package achievement

import (
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core"
)

// NoTier is the tier index of a user who has not reached the lowest tier of a track yet.
// Real tiers are numbered from 1.
const NoTier = 0

// Tier is a named rank associated with a threshold on a progression counter.
type Tier struct {
	Name      string `json:"name" yaml:"name"`
	Threshold int64  `json:"threshold" yaml:"threshold"`
	Message   string `json:"message,omitempty" yaml:"message"`
	Image     string `json:"image,omitempty" yaml:"image"`
}

// Table is an immutable list of tiers ordered by strictly increasing thresholds.
type Table struct {
	tiers []Tier
}

// NewTable validates and copies tiers into a Table.
func NewTable(tiers ...Tier) (Table, error) {
	if len(tiers) == 0 {
		return Table{}, core.NewConfigError("achievement.Table", "no tiers")
	}
	cp := make([]Tier, len(tiers))
	for i, t := range tiers {
		if core.CleanString(t.Name) == "" {
			return Table{}, core.NewConfigError("achievement.Table", "tier #%d has no name", i+1)
		}
		if t.Threshold < 0 {
			return Table{}, core.NewConfigError("achievement.Table", "tier %q has a negative threshold", t.Name)
		}
		if i > 0 && t.Threshold <= tiers[i-1].Threshold {
			return Table{}, core.NewConfigError("achievement.Table",
				"tier %q threshold %d must be greater than %q threshold %d",
				t.Name, t.Threshold, tiers[i-1].Name, tiers[i-1].Threshold)
		}
		cp[i] = t
	}
	return Table{tiers: cp}, nil
}

// MustTable is like NewTable but panics on invalid tiers. Meant for package level tables.
func MustTable(tiers ...Tier) Table {
	t, err := NewTable(tiers...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Table) Len() int { return len(t.tiers) }

// Tiers returns a copy of the table's tiers.
func (t Table) Tiers() []Tier {
	cp := make([]Tier, len(t.tiers))
	copy(cp, t.tiers)
	return cp
}

// Tier returns the tier at the 1-based index idx, or nil when idx is out of range (NoTier included).
func (t Table) Tier(idx int) *Tier {
	if idx < 1 || idx > len(t.tiers) {
		return nil
	}
	tier := t.tiers[idx-1]
	return &tier
}

// Next returns the tier following idx, or nil once the last tier is reached.
func (t Table) Next(idx int) *Tier {
	if idx < NoTier {
		idx = NoTier
	}
	return t.Tier(idx + 1)
}

// Evaluate returns the highest tier whose threshold counter has reached (counter >= threshold),
// with its 1-based index. It returns (NoTier, nil) when counter is below the lowest threshold.
func (t Table) Evaluate(counter int64) (int, *Tier) {
	idx := NoTier
	for i, tier := range t.tiers {
		if counter < tier.Threshold {
			break // thresholds are strictly increasing
		}
		idx = i + 1
	}
	return idx, t.Tier(idx)
}
