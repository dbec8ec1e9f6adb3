package types

// ResetKind governs when an item's accumulated count returns to zero.
type ResetKind string

const (
	ResetNone    ResetKind = "none"
	ResetDaily   ResetKind = "daily"
	ResetWeekly  ResetKind = "weekly"
	ResetMonthly ResetKind = "monthly"
	ResetYearly  ResetKind = "yearly"
	ResetCustom  ResetKind = "custom"
)

func (k ResetKind) Valid() bool {
	switch k {
	case ResetNone, ResetDaily, ResetWeekly, ResetMonthly, ResetYearly, ResetCustom, "":
		return true
	}
	return false
}

// CustomUnit is the unit of a custom reset window.
type CustomUnit string

const (
	UnitDays   CustomUnit = "days"
	UnitWeeks  CustomUnit = "weeks"
	UnitMonths CustomUnit = "months"
)

func (u CustomUnit) Valid() bool {
	switch u {
	case UnitDays, UnitWeeks, UnitMonths:
		return true
	}
	return false
}

// ResetCycle is the reset policy of a catalog item. The zero value never resets.
type ResetCycle struct {
	Kind  ResetKind  `json:"kind,omitempty" yaml:"kind,omitempty"`
	Every int        `json:"every,omitempty" yaml:"every,omitempty"`
	Unit  CustomUnit `json:"unit,omitempty" yaml:"unit,omitempty"`
}
