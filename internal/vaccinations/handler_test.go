package vaccinations

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sammy-Dev/COVID-Guard/internal/apperr"
)

func newTestApp(t *testing.T) (*fiber.App, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Something went wrong"
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}
			return c.Status(code).JSON(apperr.Envelope{ErrCode: code, Success: false, Message: message})
		},
	})
	app.Post("/api/generalpublic/checkvaccinationisvalid", NewHandler(NewRepo(mock)).CheckValid)

	return app, mock
}

func check(t *testing.T, app *fiber.App, body any) (int, map[string]any) {
	t.Helper()

	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/generalpublic/checkvaccinationisvalid", bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp.StatusCode, decoded
}

func TestCheckValid_MissingCode(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := check(t, app, map[string]any{"vaccinationCode": ""})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Please enter vaccination code", body["message"])
}

func TestCheckValid_UnknownCode(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM vaccination_records v`).
		WithArgs("NOPE1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "vaccination_code", "vaccination_type", "vaccination_status",
			"date_administered", "first_name", "last_name",
		}))

	status, body := check(t, app, map[string]any{"vaccinationCode": "NOPE1"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Vaccination record does not exist", body["message"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckValid_KnownCode(t *testing.T) {
	app, mock := newTestApp(t)

	administered := time.Date(2021, time.September, 14, 10, 30, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)SELECT .+ FROM vaccination_records v`).
		WithArgs("VAXX1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "vaccination_code", "vaccination_type", "vaccination_status",
			"date_administered", "first_name", "last_name",
		}).AddRow(
			"rec-1", "VAXX1", "Pfizer", "Completed", administered, "Johnny", "Smithy",
		))

	status, body := check(t, app, map[string]any{"vaccinationCode": "VAXX1"})
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Pfizer", body["vaccinationType"])
	assert.Equal(t, "Completed", body["vaccinationStatus"])
	assert.Equal(t, "Johnny", body["patientFirstName"])
	assert.Equal(t, "Smithy", body["patientLastName"])

	// The timestamp round-trips to the same instant.
	parsed, err := time.Parse(time.RFC3339, body["dateAdministered"].(string))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(administered))

	// Internal linkage never leaks.
	assert.NotContains(t, body, "id")
	assert.NotContains(t, body, "patientId")
	assert.NoError(t, mock.ExpectationsWereMet())
}
