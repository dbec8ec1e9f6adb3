package types

import "time"

// VirtueRef names a virtue opposed by a sin together with its family.
type VirtueRef struct {
	Kind VirtueKind `json:"kind" yaml:"kind"`
	Name string     `json:"name" yaml:"name"`
}

// Sin is a catalog definition of a trackable transgression.
type Sin struct {
	ID                   string          `json:"id" yaml:"id"`
	Name                 string          `json:"name" yaml:"name"`
	ShortDescription     string          `json:"shortDescription,omitempty" yaml:"shortDescription,omitempty"`
	ExtraDescription     string          `json:"extraDescription,omitempty" yaml:"extraDescription,omitempty"`
	Terms                []Term          `json:"terms" yaml:"terms"`
	Gravities            []Gravity       `json:"gravities,omitempty" yaml:"gravities,omitempty"`
	MateriaTipo          []MateriaTipo   `json:"materiaTipo,omitempty" yaml:"materiaTipo,omitempty"`
	Manifestations       []Manifestation `json:"manifestations,omitempty" yaml:"manifestations,omitempty"`
	ObjectTypes          []ObjectType    `json:"objectTypes,omitempty" yaml:"objectTypes,omitempty"`
	Modes                []Mode          `json:"modes,omitempty" yaml:"modes,omitempty"`
	CapitalSins          []CapitalSin    `json:"capitalSins,omitempty" yaml:"capitalSins,omitempty"`
	OpposedVirtues       []VirtueRef     `json:"opposedVirtues,omitempty" yaml:"opposedVirtues,omitempty"`
	Vows                 []string        `json:"vows,omitempty" yaml:"vows,omitempty"`
	SpiritualMeans       []string        `json:"spiritualMeans,omitempty" yaml:"spiritualMeans,omitempty"`
	PersonTypeIDs        []string        `json:"personTypeIds,omitempty" yaml:"personTypeIds,omitempty"`
	ActivityIDs          []string        `json:"activityIds,omitempty" yaml:"activityIds,omitempty"`
	CondicionanteIDs     []string        `json:"condicionanteIds,omitempty" yaml:"condicionanteIds,omitempty"`
	ResetCycle           ResetCycle      `json:"resetCycle" yaml:"resetCycle"`
	CanAggregateToMortal bool            `json:"canAggregateToMortal,omitempty" yaml:"canAggregateToMortal,omitempty"`
	MortalThresholdUnits float64         `json:"mortalThresholdUnits,omitempty" yaml:"mortalThresholdUnits,omitempty"`
	UnitPerTap           float64         `json:"unitPerTap,omitempty" yaml:"unitPerTap,omitempty"`
	ManualWeightOverride float64         `json:"manualWeightOverride,omitempty" yaml:"manualWeightOverride,omitempty"`
	Color                string          `json:"color,omitempty" yaml:"color,omitempty"`
	Disabled             bool            `json:"isDisabled,omitempty" yaml:"isDisabled,omitempty"`
}

// HasGravity reports whether g is among the sin's gravities.
func (s Sin) HasGravity(g Gravity) bool {
	for _, v := range s.Gravities {
		if v == g {
			return true
		}
	}
	return false
}

// BuenaObra is a catalog definition of a good deed.
type BuenaObra struct {
	ID                   string       `json:"id" yaml:"id"`
	Name                 string       `json:"name" yaml:"name"`
	ShortDescription     string       `json:"shortDescription,omitempty" yaml:"shortDescription,omitempty"`
	Terms                []Term       `json:"terms" yaml:"terms"`
	Purity               Purity       `json:"purity,omitempty" yaml:"purity,omitempty"`
	Charity              CharityLevel `json:"charity,omitempty" yaml:"charity,omitempty"`
	Quality              Quality      `json:"quality,omitempty" yaml:"quality,omitempty"`
	Circumstances        []string     `json:"circumstances,omitempty" yaml:"circumstances,omitempty"`
	PersonTypeIDs        []string     `json:"personTypeIds,omitempty" yaml:"personTypeIds,omitempty"`
	ActivityIDs          []string     `json:"activityIds,omitempty" yaml:"activityIds,omitempty"`
	CondicionanteIDs     []string     `json:"condicionanteIds,omitempty" yaml:"condicionanteIds,omitempty"`
	ResetCycle           ResetCycle   `json:"resetCycle" yaml:"resetCycle"`
	UnitPerTap           float64      `json:"unitPerTap,omitempty" yaml:"unitPerTap,omitempty"`
	ManualWeightOverride float64      `json:"manualWeightOverride,omitempty" yaml:"manualWeightOverride,omitempty"`
	Color                string       `json:"color,omitempty" yaml:"color,omitempty"`
	Disabled             bool         `json:"isDisabled,omitempty" yaml:"isDisabled,omitempty"`
}

// PersonType is a kind of person involved in an occurrence (spouse, coworker...).
type PersonType struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Activity is a context in which an occurrence happens (work, driving...).
type Activity struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Condicionante is a conditioning circumstance that attenuates sins or
// amplifies good works when active in the user's profile.
type Condicionante struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	AppliesTo   AppliesTo `json:"appliesTo,omitempty" yaml:"appliesTo,omitempty"`
}

// AppliedConditions is the condicionantes snapshot taken when an event is
// registered. It is persisted and never recomputed.
type AppliedConditions struct {
	IDs    []string `json:"ids,omitempty" yaml:"ids,omitempty"`
	K      int      `json:"k" yaml:"k"`
	Factor float64  `json:"factor" yaml:"factor"`
}

// SinEvent is one logged occurrence of a sin.
type SinEvent struct {
	ID                    string            `json:"id" yaml:"id"`
	SinID                 string            `json:"sinId" yaml:"sinId"`
	Timestamp             time.Time         `json:"timestamp" yaml:"timestamp"`
	CountIncrement        int               `json:"countIncrement" yaml:"countIncrement"`
	Attention             Attention         `json:"attention" yaml:"attention"`
	Motive                Motive            `json:"motive" yaml:"motive"`
	Responsibility        Responsibility    `json:"responsibility" yaml:"responsibility"`
	PersonTypeIDs         []string          `json:"personTypeIds,omitempty" yaml:"personTypeIds,omitempty"`
	ActivityIDs           []string          `json:"activityIds,omitempty" yaml:"activityIds,omitempty"`
	AppliedCondicionantes AppliedConditions `json:"appliedCondicionantes" yaml:"appliedCondicionantes"`
}

// GoodWorkEvent is one logged occurrence of a good work.
type GoodWorkEvent struct {
	ID                    string            `json:"id" yaml:"id"`
	BuenaObraID           string            `json:"buenaObraId" yaml:"buenaObraId"`
	Timestamp             time.Time         `json:"timestamp" yaml:"timestamp"`
	CountIncrement        int               `json:"countIncrement" yaml:"countIncrement"`
	PersonTypeIDs         []string          `json:"personTypeIds,omitempty" yaml:"personTypeIds,omitempty"`
	ActivityIDs           []string          `json:"activityIds,omitempty" yaml:"activityIds,omitempty"`
	AppliedCondicionantes AppliedConditions `json:"appliedCondicionantes" yaml:"appliedCondicionantes"`
}

// SessionFilter is the selection the user made when starting an examination.
type SessionFilter struct {
	PersonTypeIDs []string `json:"personTypeIds,omitempty" yaml:"personTypeIds,omitempty"`
	ActivityIDs   []string `json:"activityIds,omitempty" yaml:"activityIds,omitempty"`
	SinIDs        []string `json:"sinIds,omitempty" yaml:"sinIds,omitempty"`
}

// FreeformEntry is an uncataloged entry pending optional promotion.
type FreeformEntry struct {
	ID        string     `json:"id" yaml:"id"`
	Kind      TargetType `json:"kind" yaml:"kind"`
	Text      string     `json:"text" yaml:"text"`
	CreatedAt time.Time  `json:"createdAt" yaml:"createdAt"`
}

// ExamSession is one examination sitting.
type ExamSession struct {
	ID             string          `json:"id" yaml:"id"`
	StartedAt      time.Time       `json:"startedAt" yaml:"startedAt"`
	EndedAt        *time.Time      `json:"endedAt,omitempty" yaml:"endedAt,omitempty"`
	Filter         SessionFilter   `json:"filter" yaml:"filter"`
	SinEvents      []SinEvent      `json:"sinEvents" yaml:"sinEvents"`
	GoodWorkEvents []GoodWorkEvent `json:"goodWorkEvents" yaml:"goodWorkEvents"`
	Freeform       []FreeformEntry `json:"freeform,omitempty" yaml:"freeform,omitempty"`
}

// Completed reports whether the session has been closed.
func (s ExamSession) Completed() bool {
	return s.EndedAt != nil
}

// Note is a freeform annotation attached to a catalog item.
type Note struct {
	ID         string     `json:"id" yaml:"id"`
	TargetType TargetType `json:"targetType" yaml:"targetType"`
	TargetID   string     `json:"targetId" yaml:"targetId"`
	Text       string     `json:"text" yaml:"text"`
	CreatedAt  time.Time  `json:"createdAt" yaml:"createdAt"`
}

// Preferences are the user's calibration settings and active profile.
type Preferences struct {
	ActiveCondicionanteIDs []string `json:"activeCondicionanteIds,omitempty" yaml:"activeCondicionanteIds,omitempty" mapstructure:"active_condicionantes"`
	TargetGrade            float64  `json:"targetGrade" yaml:"targetGrade" mapstructure:"target_grade"`
	PassRateCeiling        float64  `json:"passRateCeiling" yaml:"passRateCeiling" mapstructure:"pass_rate_ceiling"`
	CalibrationWindowDays  int      `json:"calibrationWindowDays" yaml:"calibrationWindowDays" mapstructure:"calibration_window_days"`
	PointScale             float64  `json:"pointScale" yaml:"pointScale" mapstructure:"point_scale"`
}

// DefaultPreferences returns the profile used before the user calibrates.
func DefaultPreferences() Preferences {
	return Preferences{
		TargetGrade:           7,
		PassRateCeiling:       0.8,
		CalibrationWindowDays: 30,
		PointScale:            1,
	}
}
