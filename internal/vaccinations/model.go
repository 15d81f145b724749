package vaccinations

import "time"

// Record is a vaccination record created by an out-of-band ingestion
// process. The API only ever looks one up by its code.
type Record struct {
	ID               string
	VaccinationCode  string
	VaccinationType  string
	Status           string
	DateAdministered time.Time
	PatientFirstName string
	PatientLastName  string
}
