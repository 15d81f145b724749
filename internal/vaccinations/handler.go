package vaccinations

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Sammy-Dev/COVID-Guard/internal/apperr"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

type checkRequest struct {
	VaccinationCode string `json:"vaccinationCode"`
}

type checkResponse struct {
	Success          bool      `json:"success"`
	VaccinationType  string    `json:"vaccinationType"`
	Status           string    `json:"vaccinationStatus"`
	DateAdministered time.Time `json:"dateAdministered"`
	PatientFirstName string    `json:"patientFirstName"`
	PatientLastName  string    `json:"patientLastName"`
}

// CheckValid looks up a vaccination record by code and returns a sanitized
// projection; the record's internal linkage never leaves the server.
func (h *Handler) CheckValid(c *fiber.Ctx) error {
	var body checkRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.BadRequest("Please enter vaccination code")
	}

	code := strings.TrimSpace(body.VaccinationCode)
	if code == "" {
		return apperr.BadRequest("Please enter vaccination code")
	}

	rec, err := h.Repo.FindByCode(c.UserContext(), code)
	if err != nil {
		if err == ErrNotFound {
			return apperr.BadRequest("Vaccination record does not exist")
		}
		return apperr.Server("Something went wrong")
	}

	return c.JSON(checkResponse{
		Success:          true,
		VaccinationType:  rec.VaccinationType,
		Status:           rec.Status,
		DateAdministered: rec.DateAdministered,
		PatientFirstName: rec.PatientFirstName,
		PatientLastName:  rec.PatientLastName,
	})
}
