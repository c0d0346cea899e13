package models

// Pillar is one of the fixed life-wellness dimensions a habit belongs to.
type Pillar string

const (
	PillarPhysical      Pillar = "physical"
	PillarMental        Pillar = "mental"
	PillarFiscal        Pillar = "fiscal"
	PillarSocial        Pillar = "social"
	PillarSpiritual     Pillar = "spiritual"
	PillarIntellectual  Pillar = "intellectual"
	PillarOccupational  Pillar = "occupational"
	PillarEnvironmental Pillar = "environmental"
)

// AllPillars lists every pillar in canonical order. Scoring and insight
// payloads iterate this slice so output ordering is deterministic.
var AllPillars = []Pillar{
	PillarPhysical,
	PillarMental,
	PillarFiscal,
	PillarSocial,
	PillarSpiritual,
	PillarIntellectual,
	PillarOccupational,
	PillarEnvironmental,
}

// CorePillars are the original three dimensions the app launched with.
// The "balanced" achievement still checks only these.
var CorePillars = []Pillar{PillarPhysical, PillarMental, PillarFiscal}

// IsValid reports whether p is a known pillar.
func (p Pillar) IsValid() bool {
	for _, known := range AllPillars {
		if p == known {
			return true
		}
	}
	return false
}

func (p Pillar) String() string { return string(p) }
