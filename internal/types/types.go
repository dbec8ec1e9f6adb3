// Package types provides the shared domain types used across the magis codebase.
// This package is at the bottom of the dependency graph and should not import
// any other internal packages to avoid circular dependencies.
package types

// Term is the relational object of a sin or good work.
type Term string

const (
	TermGod      Term = "god"
	TermNeighbor Term = "neighbor"
	TermSelf     Term = "self"
)

// Terms lists every Term in display order.
func Terms() []Term { return []Term{TermGod, TermNeighbor, TermSelf} }

func (t Term) Valid() bool {
	switch t {
	case TermGod, TermNeighbor, TermSelf:
		return true
	}
	return false
}

// Gravity is the mortal/venial classification of a sin.
type Gravity string

const (
	GravityMortal Gravity = "mortal"
	GravityVenial Gravity = "venial"
)

func Gravities() []Gravity { return []Gravity{GravityMortal, GravityVenial} }

func (g Gravity) Valid() bool {
	switch g {
	case GravityMortal, GravityVenial:
		return true
	}
	return false
}

// MateriaTipo classifies the matter of a sin.
type MateriaTipo string

const (
	MateriaTotal        MateriaTipo = "total"
	MateriaByKind       MateriaTipo = "by-kind"
	MateriaVenialByKind MateriaTipo = "venial-by-kind"
)

func MateriaTipos() []MateriaTipo {
	return []MateriaTipo{MateriaTotal, MateriaByKind, MateriaVenialByKind}
}

func (m MateriaTipo) Valid() bool {
	switch m {
	case MateriaTotal, MateriaByKind, MateriaVenialByKind:
		return true
	}
	return false
}

// Manifestation says whether a sin is outward or interior.
type Manifestation string

const (
	ManifestationExternal Manifestation = "external"
	ManifestationInternal Manifestation = "internal"
)

func Manifestations() []Manifestation {
	return []Manifestation{ManifestationExternal, ManifestationInternal}
}

func (m Manifestation) Valid() bool {
	switch m {
	case ManifestationExternal, ManifestationInternal:
		return true
	}
	return false
}

// ObjectType is the carnal/spiritual object of a sin.
type ObjectType string

const (
	ObjectCarnal    ObjectType = "carnal"
	ObjectSpiritual ObjectType = "spiritual"
)

func ObjectTypes() []ObjectType { return []ObjectType{ObjectCarnal, ObjectSpiritual} }

func (o ObjectType) Valid() bool {
	switch o {
	case ObjectCarnal, ObjectSpiritual:
		return true
	}
	return false
}

// Mode is commission or omission.
type Mode string

const (
	ModeCommission Mode = "commission"
	ModeOmission   Mode = "omission"
)

func Modes() []Mode { return []Mode{ModeCommission, ModeOmission} }

func (m Mode) Valid() bool {
	switch m {
	case ModeCommission, ModeOmission:
		return true
	}
	return false
}

// Attention captures how deliberate an act was.
type Attention string

const (
	AttentionDeliberate     Attention = "deliberate"
	AttentionSemiDeliberate Attention = "semi-deliberate"
)

func Attentions() []Attention {
	return []Attention{AttentionDeliberate, AttentionSemiDeliberate}
}

func (a Attention) Valid() bool {
	switch a {
	case AttentionDeliberate, AttentionSemiDeliberate:
		return true
	}
	return false
}

// Motive is the underlying drive of an act.
type Motive string

const (
	MotiveFrailty   Motive = "frailty"
	MotiveMalice    Motive = "malice"
	MotiveIgnorance Motive = "ignorance"
)

func Motives() []Motive { return []Motive{MotiveFrailty, MotiveMalice, MotiveIgnorance} }

func (m Motive) Valid() bool {
	switch m {
	case MotiveFrailty, MotiveMalice, MotiveIgnorance:
		return true
	}
	return false
}

// Responsibility is the culpability assigned during review.
type Responsibility string

const (
	ResponsibilityFormal   Responsibility = "formal"
	ResponsibilityMaterial Responsibility = "material"
)

func Responsibilities() []Responsibility {
	return []Responsibility{ResponsibilityFormal, ResponsibilityMaterial}
}

func (r Responsibility) Valid() bool {
	switch r {
	case ResponsibilityFormal, ResponsibilityMaterial:
		return true
	}
	return false
}

// CapitalSin is one of the seven capital vices.
type CapitalSin string

const (
	CapitalPride    CapitalSin = "pride"
	CapitalGreed    CapitalSin = "greed"
	CapitalLust     CapitalSin = "lust"
	CapitalEnvy     CapitalSin = "envy"
	CapitalGluttony CapitalSin = "gluttony"
	CapitalWrath    CapitalSin = "wrath"
	CapitalSloth    CapitalSin = "sloth"
)

func CapitalSins() []CapitalSin {
	return []CapitalSin{CapitalPride, CapitalGreed, CapitalLust, CapitalEnvy, CapitalGluttony, CapitalWrath, CapitalSloth}
}

func (c CapitalSin) Valid() bool {
	switch c {
	case CapitalPride, CapitalGreed, CapitalLust, CapitalEnvy, CapitalGluttony, CapitalWrath, CapitalSloth:
		return true
	}
	return false
}

// VirtueKind splits opposed virtues into their classical families.
type VirtueKind string

const (
	VirtueTheological VirtueKind = "theological"
	VirtueCardinal    VirtueKind = "cardinal"
	VirtueAnnex       VirtueKind = "annex"
)

func VirtueKinds() []VirtueKind {
	return []VirtueKind{VirtueTheological, VirtueCardinal, VirtueAnnex}
}

func (v VirtueKind) Valid() bool {
	switch v {
	case VirtueTheological, VirtueCardinal, VirtueAnnex:
		return true
	}
	return false
}

// Purity is the purity-of-intention classification of a good work.
type Purity string

const (
	PurityPure           Purity = "pure"
	PurityMixed          Purity = "mixed"
	PuritySelfInterested Purity = "self-interested"
)

func Purities() []Purity { return []Purity{PurityPure, PurityMixed, PuritySelfInterested} }

func (p Purity) Valid() bool {
	switch p {
	case PurityPure, PurityMixed, PuritySelfInterested:
		return true
	}
	return false
}

// CharityLevel grades the charity animating a good work.
type CharityLevel string

const (
	CharityLow    CharityLevel = "low"
	CharityMedium CharityLevel = "medium"
	CharityHigh   CharityLevel = "high"
)

func CharityLevels() []CharityLevel { return []CharityLevel{CharityLow, CharityMedium, CharityHigh} }

func (c CharityLevel) Valid() bool {
	switch c {
	case CharityLow, CharityMedium, CharityHigh:
		return true
	}
	return false
}

// Quality grades how well a good work was done.
type Quality string

const (
	QualityOrdinary  Quality = "ordinary"
	QualityExcellent Quality = "excellent"
)

func Qualities() []Quality { return []Quality{QualityOrdinary, QualityExcellent} }

func (q Quality) Valid() bool {
	switch q {
	case QualityOrdinary, QualityExcellent:
		return true
	}
	return false
}

// TargetType says which catalog a reference points into.
type TargetType string

const (
	TargetSin      TargetType = "sin"
	TargetGoodWork TargetType = "goodWork"
)

func (t TargetType) Valid() bool {
	switch t {
	case TargetSin, TargetGoodWork:
		return true
	}
	return false
}

// AppliesTo limits a condicionante to sins, good works, or both.
type AppliesTo string

const (
	AppliesToSin      AppliesTo = "sin"
	AppliesToGoodWork AppliesTo = "goodWork"
	AppliesToBoth     AppliesTo = "both"
)

func (a AppliesTo) Valid() bool {
	switch a {
	case AppliesToSin, AppliesToGoodWork, AppliesToBoth:
		return true
	}
	return false
}

// Matches reports whether the condicionante can act on the given target.
func (a AppliesTo) Matches(t TargetType) bool {
	switch a {
	case AppliesToBoth, "":
		return true
	case AppliesToSin:
		return t == TargetSin
	case AppliesToGoodWork:
		return t == TargetGoodWork
	}
	return false
}
