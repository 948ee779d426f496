// Package device classifies host rendering capability into a Tier.
//
// Classification is a one-shot heuristic run at session start. It never
// fails: missing or unreadable hardware signals degrade to conservative
// defaults, and later correction is left to the adaptive quality controller.
package device

import "fmt"

// Tier is an ordered device capability class. Low < Medium < High.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

// Tiers lists every tier in ascending order.
var Tiers = []Tier{TierLow, TierMedium, TierHigh}

// String returns the lower-case tier name.
func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// ParseTier parses a tier name as produced by String.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "low":
		return TierLow, nil
	case "medium":
		return TierMedium, nil
	case "high":
		return TierHigh, nil
	default:
		return TierLow, fmt.Errorf("unknown tier %q", s)
	}
}

// Up returns the next tier, saturating at TierHigh.
func (t Tier) Up() Tier {
	if t >= TierHigh {
		return TierHigh
	}
	return t + 1
}

// Down returns the previous tier, saturating at TierLow.
func (t Tier) Down() Tier {
	if t <= TierLow {
		return TierLow
	}
	return t - 1
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tier name.
func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
