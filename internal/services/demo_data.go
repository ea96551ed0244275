package services

import (
	"time"

	"github.com/Blackfireoff/Incident-Factory/internal/models"
)

// DemoIncidents builds the sample dataset used by the demo source and by
// cmd/seed for the store variant. Records mirror the kind of data the
// production backend holds: a reporter, linked employees with involvement
// types, graded risks and costed corrective measures.
func DemoIncidents() []models.Incident {
	unitProd := models.OrganizationalUnit{ID: 1, Identifier: "PROD", Name: "Production", Location: "Building A"}
	unitSafety := models.OrganizationalUnit{ID: 2, Identifier: "EHS", Name: "Safety", Location: "Building B"}
	unitQuality := models.OrganizationalUnit{ID: 3, Identifier: "QA", Name: "Quality Assurance", Location: "Laboratory"}
	unitLogistics := models.OrganizationalUnit{ID: 4, Identifier: "LOG", Name: "Logistics", Location: "Warehouse C"}
	unitMaint := models.OrganizationalUnit{ID: 5, Identifier: "MAINT", Name: "Maintenance", Location: "Central Workshop"}

	johnSmith := models.Person{ID: 101, Matricule: "EMP001", Name: "John", FamilyName: "Smith", Role: strPtr("Operator")}
	sarahJohnson := models.Person{ID: 102, Matricule: "EMP002", Name: "Sarah", FamilyName: "Johnson", Role: strPtr("EHS Manager")}
	michaelChen := models.Person{ID: 103, Matricule: "EMP003", Name: "Michael", FamilyName: "Chen", Role: strPtr("Quality Inspector")}
	emilyRodriguez := models.Person{ID: 104, Matricule: "EMP004", Name: "Emily", FamilyName: "Rodriguez", Role: strPtr("Logistics Supervisor")}
	mikeJohnson := models.Person{ID: 105, Matricule: "EMP101", Name: "Mike", FamilyName: "Johnson", Role: strPtr("Maintenance Technician")}
	lisaBrown := models.Person{ID: 106, Matricule: "EMP102", Name: "Lisa", FamilyName: "Brown", Role: strPtr("Operator")}
	tomWilson := models.Person{ID: 107, Matricule: "EMP201", Name: "Tom", FamilyName: "Wilson", Role: strPtr("Chemist")}
	annaDavis := models.Person{ID: 108, Matricule: "EMP202", Name: "Anna", FamilyName: "Davis", Role: strPtr("EHS Coordinator")}
	jamesMiller := models.Person{ID: 109, Matricule: "EMP301", Name: "James", FamilyName: "Miller", Role: strPtr("QA Technician")}
	mariaGarcia := models.Person{ID: 110, Matricule: "EMP401", Name: "Maria", FamilyName: "Garcia", Role: strPtr("Environment Coordinator")}
	tomAnderson := models.Person{ID: 111, Matricule: "MGR-MAINT", Name: "Tom", FamilyName: "Anderson", Role: strPtr("Maintenance Manager")}
	davidWilson := models.Person{ID: 112, Matricule: "MGR-FAC", Name: "David", FamilyName: "Wilson", Role: strPtr("Facilities Manager")}

	return []models.Incident{
		{
			ID:             1,
			Type:           models.TypeDamage,
			Classification: models.ClassEquipmentFailure,
			StartDate:      timePtr(2024, time.January, 15, 8, 30),
			EndDate:        timePtr(2024, time.January, 15, 12, 0),
			Description:    strPtr("Injection molding machine malfunction causing production halt"),
			Reporter:       &johnSmith,
			Unit:           &unitProd,
			Employees: []models.LinkedEmployee{
				{IncidentID: 1, PersonID: mikeJohnson.ID, Person: mikeJohnson, InvolvementType: "responder"},
				{IncidentID: 1, PersonID: lisaBrown.ID, Person: lisaBrown, InvolvementType: "witness"},
			},
			Risks: []models.Risk{
				{ID: 1, Name: "Production delays affecting customer orders", Gravity: "high", Probability: strPtr("High")},
				{ID: 2, Name: "Potential damage to other equipment if not addressed", Gravity: "medium", Probability: strPtr("Medium")},
			},
			Measures: []models.CorrectiveMeasure{
				{ID: 1, Name: "Machine Repair", Description: "Replace faulty hydraulic pump and test all systems", Implementation: timePtr(2024, time.January, 16, 9, 0), Owner: &mikeJohnson, Unit: &unitMaint, Cost: floatPtr(3500)},
				{ID: 2, Name: "Preventive Maintenance Schedule", Description: "Implement weekly inspection protocol for all injection molding machines", Implementation: timePtr(2024, time.January, 22, 9, 0), Owner: &tomAnderson, Unit: &unitMaint, Cost: floatPtr(1200)},
			},
		},
		{
			ID:             2,
			Type:           models.TypeEHS,
			Classification: models.ClassFirstAid,
			StartDate:      timePtr(2024, time.January, 20, 14, 15),
			EndDate:        timePtr(2024, time.January, 20, 14, 45),
			Description:    strPtr("Worker exposed to chemical fumes due to ventilation system failure"),
			Reporter:       &sarahJohnson,
			Unit:           &unitSafety,
			Employees: []models.LinkedEmployee{
				{IncidentID: 2, PersonID: tomWilson.ID, Person: tomWilson, InvolvementType: "victim"},
				{IncidentID: 2, PersonID: annaDavis.ID, Person: annaDavis, InvolvementType: "responder"},
			},
			Risks: []models.Risk{
				{ID: 3, Name: "Worker health and safety - respiratory exposure", Gravity: "critical", Probability: strPtr("Low")},
				{ID: 4, Name: "Regulatory compliance violation", Gravity: "high", Probability: strPtr("Low")},
				{ID: 5, Name: "Potential for similar incidents in other areas", Gravity: "medium", Probability: strPtr("Medium")},
			},
			Measures: []models.CorrectiveMeasure{
				{ID: 3, Name: "Ventilation System Upgrade", Description: "Install backup ventilation system and improve air monitoring", Implementation: timePtr(2024, time.January, 28, 9, 0), Owner: &annaDavis, Unit: &unitMaint, Cost: floatPtr(15000)},
				{ID: 4, Name: "Safety Training", Description: "Conduct emergency response training for all chemical area workers", Implementation: timePtr(2024, time.February, 1, 10, 0), Owner: &sarahJohnson, Unit: &unitSafety, Cost: floatPtr(2500)},
				{ID: 5, Name: "PPE Enhancement", Description: "Provide upgraded respiratory protection equipment", Implementation: timePtr(2024, time.January, 25, 9, 0), Owner: &annaDavis, Unit: &unitSafety, Cost: floatPtr(4200)},
			},
		},
		{
			ID:             3,
			Type:           models.TypeDamage,
			Classification: models.ClassNearMiss,
			StartDate:      timePtr(2024, time.January, 25, 10, 0),
			EndDate:        timePtr(2024, time.January, 25, 11, 30),
			Description:    strPtr("Batch of plastic containers failed quality inspection due to improper cooling"),
			Reporter:       &michaelChen,
			Unit:           &unitQuality,
			Employees: []models.LinkedEmployee{
				{IncidentID: 3, PersonID: jamesMiller.ID, Person: jamesMiller, InvolvementType: "responder"},
			},
			Risks: []models.Risk{
				{ID: 6, Name: "Customer satisfaction impact from defective products", Gravity: "medium", Probability: strPtr("Medium")},
				{ID: 7, Name: "Material waste from rejected batch", Gravity: "low", Probability: strPtr("High")},
			},
			Measures: []models.CorrectiveMeasure{
				{ID: 6, Name: "Cooling System Calibration", Description: "Recalibrate cooling parameters and add monitoring sensors", Implementation: timePtr(2024, time.January, 26, 14, 0), Owner: &jamesMiller, Unit: &unitMaint, Cost: floatPtr(1800)},
				{ID: 7, Name: "Process Documentation Update", Description: "Revise cooling procedures and operator guidelines", Implementation: timePtr(2024, time.January, 27, 9, 0), Owner: &michaelChen, Unit: &unitQuality, Cost: floatPtr(500)},
			},
		},
		{
			ID:             4,
			Type:           models.TypeEnvironment,
			Classification: models.ClassChemicalSpill,
			StartDate:      timePtr(2024, time.February, 1, 16, 0),
			EndDate:        timePtr(2024, time.February, 1, 18, 30),
			Description:    strPtr("Plastic pellet spill in loading dock area"),
			Reporter:       &emilyRodriguez,
			Unit:           &unitLogistics,
			Employees: []models.LinkedEmployee{
				{IncidentID: 4, PersonID: mariaGarcia.ID, Person: mariaGarcia, InvolvementType: "responder"},
			},
			Risks: []models.Risk{
				{ID: 8, Name: "Environmental contamination", Gravity: "high", Probability: strPtr("Medium")},
				{ID: 9, Name: "Cleanup costs and disposal requirements", Gravity: "medium", Probability: strPtr("High")},
			},
			Measures: []models.CorrectiveMeasure{
				{ID: 8, Name: "Spill Cleanup", Description: "Professional cleanup and disposal of spilled materials", Implementation: timePtr(2024, time.February, 2, 8, 0), Owner: &mariaGarcia, Unit: &unitSafety, Cost: floatPtr(8500)},
				{ID: 9, Name: "Containment System Installation", Description: "Install spill containment barriers in loading dock area", Implementation: timePtr(2024, time.February, 10, 9, 0), Owner: &davidWilson, Unit: &unitMaint, Cost: floatPtr(6200)},
				{ID: 10, Name: "Loading Procedures Review", Description: "Update material handling procedures and train staff", Implementation: timePtr(2024, time.February, 5, 9, 0), Owner: &emilyRodriguez, Unit: &unitLogistics, Cost: floatPtr(1500)},
			},
		},
		{
			ID:             5,
			Type:           models.TypeEHS,
			Classification: models.ClassFireAlarm,
			StartDate:      timePtr(2024, time.February, 12, 7, 45),
			EndDate:        nil, // still under investigation
			Description:    strPtr("Fire alarm triggered by overheated conveyor bearing in the packaging line"),
			Reporter:       &lisaBrown,
			Unit:           &unitProd,
			Employees:      []models.LinkedEmployee{},
			Risks: []models.Risk{
				{ID: 10, Name: "Fire propagation to packaging materials", Gravity: "critical", Probability: strPtr("Low")},
			},
			Measures: []models.CorrectiveMeasure{},
		},
		{
			ID:             6,
			Type:           models.TypeEnvironment,
			Classification: models.ClassEnvironmentalIncident,
			StartDate:      timePtr(2024, time.March, 3, 11, 20),
			EndDate:        timePtr(2024, time.March, 3, 15, 0),
			Description:    strPtr("Cooling water discharge exceeded temperature threshold at outfall"),
			Reporter:       &mariaGarcia,
			Unit:           &unitProd,
			Employees:      []models.LinkedEmployee{},
			Risks: []models.Risk{
				{ID: 11, Name: "Permit non-compliance", Gravity: "high", Probability: strPtr("Medium")},
			},
			Measures: []models.CorrectiveMeasure{
				{ID: 11, Name: "Heat Exchanger Inspection", Description: "Inspect and descale the secondary heat exchanger", Implementation: timePtr(2024, time.March, 8, 9, 0), Owner: &tomAnderson, Unit: &unitMaint, Cost: nil},
			},
		},
	}
}

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

func timePtr(year int, month time.Month, day, hour, minute int) *time.Time {
	t := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	return &t
}
