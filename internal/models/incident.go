package models

import (
	"sort"
	"time"
)

type EventType string
type Classification string

const (
	TypeEHS         EventType = "EHS"
	TypeEnvironment EventType = "ENVIRONMENT"
	TypeDamage      EventType = "DAMAGE"
)

const (
	ClassInjury                 Classification = "INJURY"
	ClassFirstAid               Classification = "FIRST_AID"
	ClassNearMiss               Classification = "NEAR_MISS"
	ClassLostTime               Classification = "LOST_TIME"
	ClassEquipmentFailure       Classification = "EQUIPMENT_FAILURE"
	ClassPreventiveDeclaration  Classification = "PREVENTIVE_DECLARATION"
	ClassPropertyDamage         Classification = "PROPERTY_DAMAGE"
	ClassChemicalSpill          Classification = "CHEMICAL_SPILL"
	ClassEnvironmentalIncident  Classification = "ENVIRONMENTAL_INCIDENT"
	ClassFireAlarm              Classification = "FIRE_ALARM"
	ClassFire                   Classification = "FIRE"
)

// EventTypes lists the closed set of incident categories the client knows about.
func EventTypes() []EventType {
	return []EventType{TypeEHS, TypeEnvironment, TypeDamage}
}

// Classifications lists the closed set of incident sub-categories.
func Classifications() []Classification {
	return []Classification{
		ClassInjury, ClassFirstAid, ClassNearMiss, ClassLostTime,
		ClassEquipmentFailure, ClassPreventiveDeclaration, ClassPropertyDamage,
		ClassChemicalSpill, ClassEnvironmentalIncident, ClassFireAlarm, ClassFire,
	}
}

// ParseEventType maps a server-provided type string to the known enum.
// Unknown or empty values yield the empty EventType so a new server-side
// category never breaks decoding.
func ParseEventType(value string) EventType {
	for _, t := range EventTypes() {
		if string(t) == value {
			return t
		}
	}
	return ""
}

// ParseClassification maps a server-provided classification string to the
// known enum, falling back to empty for unrecognized values.
func ParseClassification(value string) Classification {
	for _, c := range Classifications() {
		if string(c) == value {
			return c
		}
	}
	return ""
}

type Person struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	Matricule  string  `json:"matricule"`
	Name       string  `json:"name"`
	FamilyName string  `json:"family_name"`
	Role       *string `json:"role"`
}

type OrganizationalUnit struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	Location   string `json:"location"`
}

type Risk struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name"`
	Gravity     string  `json:"gravity"`
	Probability *string `json:"probability"`
}

type LinkedEmployee struct {
	IncidentID      uint   `json:"-" gorm:"primaryKey;autoIncrement:false"`
	PersonID        uint   `json:"-" gorm:"primaryKey;autoIncrement:false"`
	Person          Person `json:"person" gorm:"foreignKey:PersonID"`
	InvolvementType string `json:"involvement_type"`
}

type CorrectiveMeasure struct {
	ID             uint                `json:"id" gorm:"primaryKey"`
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	Implementation *time.Time          `json:"implementation"`
	OwnerID        *uint               `json:"-"`
	Owner          *Person             `json:"owner" gorm:"foreignKey:OwnerID"`
	UnitID         *uint               `json:"-"`
	Unit           *OrganizationalUnit `json:"organization_unit" gorm:"foreignKey:UnitID"`
	Cost           *float64            `json:"cost"`
}

// Incident is the canonical, normalized event record. All records are
// read-only on this side: the backend creates and mutates them, this client
// only fetches, filters, paginates and displays. Nil slices mean "not loaded"
// (list view), empty slices mean "loaded and empty" (detail view).
type Incident struct {
	ID             uint                `json:"id" gorm:"primaryKey"`
	Type           EventType           `json:"type"`
	Classification Classification      `json:"classification"`
	StartDate      *time.Time          `json:"start_date"`
	EndDate        *time.Time          `json:"end_date"`
	Description    *string             `json:"description"`
	ReporterID     *uint               `json:"-"`
	Reporter       *Person             `json:"reporter" gorm:"foreignKey:ReporterID"`
	UnitID         *uint               `json:"-"`
	Unit           *OrganizationalUnit `json:"organizational_unit" gorm:"foreignKey:UnitID"`
	Employees      []LinkedEmployee    `json:"employees" gorm:"foreignKey:IncidentID"`
	Risks          []Risk              `json:"risks" gorm:"many2many:incident_risks"`
	Measures       []CorrectiveMeasure `json:"corrective_measures" gorm:"many2many:incident_measures"`
}

func (Incident) TableName() string {
	return "incidents"
}

// Gravity ranks, most severe first. Anything unrecognized sorts last.
const (
	gravityCritical = iota
	gravityHigh
	gravityMedium
	gravityLow
	gravityUnknown
)

// GravityRank returns the display ordering index for a risk gravity label.
func GravityRank(gravity string) int {
	switch gravity {
	case "critical":
		return gravityCritical
	case "high":
		return gravityHigh
	case "medium":
		return gravityMedium
	case "low":
		return gravityLow
	default:
		return gravityUnknown
	}
}

// SortRisksByGravity orders risks most severe first. The sort is stable so
// risks with equal gravity keep their fetch order.
func SortRisksByGravity(risks []Risk) {
	sort.SliceStable(risks, func(i, j int) bool {
		return GravityRank(risks[i].Gravity) < GravityRank(risks[j].Gravity)
	})
}

// TotalCost sums corrective measure costs. A missing cost counts as zero,
// never as an error.
func TotalCost(measures []CorrectiveMeasure) float64 {
	var total float64
	for _, m := range measures {
		if m.Cost != nil {
			total += *m.Cost
		}
	}
	return total
}
