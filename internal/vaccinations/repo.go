package vaccinations

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Sammy-Dev/COVID-Guard/internal/accounts"
)

// ErrNotFound means no record matched the vaccination code.
var ErrNotFound = errors.New("vaccination record not found")

// Repo reads vaccination records from Postgres.
type Repo struct {
	DB accounts.DB
}

func NewRepo(db accounts.DB) *Repo {
	return &Repo{DB: db}
}

// FindByCode loads a record by its lookup key, joining the owning patient's
// name from the accounts table.
func (r *Repo) FindByCode(ctx context.Context, code string) (*Record, error) {
	var rec Record
	err := r.DB.QueryRow(
		ctx,
		`SELECT v.id, v.vaccination_code, v.vaccination_type, v.vaccination_status,
		        v.date_administered, p.first_name, p.last_name
		 FROM vaccination_records v
		 JOIN accounts p ON p.id = v.patient_id
		 WHERE v.vaccination_code = $1`,
		code,
	).Scan(
		&rec.ID, &rec.VaccinationCode, &rec.VaccinationType, &rec.Status,
		&rec.DateAdministered, &rec.PatientFirstName, &rec.PatientLastName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}
