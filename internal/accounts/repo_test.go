package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRepo(mock), mock
}

func accountRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "user_type", "email", "password_hash", "first_name", "last_name",
		"phone", "health_id", "temp_code", "temp_expires_at", "session_token",
		"created_at",
		"b_id", "b_name", "b_abn", "b_address", "b_city", "b_state", "b_postcode",
	})
}

func TestRepo_Create(t *testing.T) {
	repo, mock := newMockRepo(t)

	healthID := "5656565656565656"
	mock.ExpectQuery(`INSERT INTO accounts`).
		WithArgs(UserTypeHealth, "test2@email.com", "digest", "Johnny", "Smithy", "0498709723", &healthID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("11111111-1111-1111-1111-111111111111"))

	id, err := repo.Create(context.Background(), &Account{
		Type:         UserTypeHealth,
		Email:        "test2@email.com",
		PasswordHash: "digest",
		FirstName:    "Johnny",
		LastName:     "Smithy",
		Phone:        "0498709723",
		HealthID:     &healthID,
	})
	require.NoError(t, err)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO accounts`).
		WithArgs(UserTypeGeneral, "dup@email.com", "digest", "A", "B", "", (*string)(nil)).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	_, err := repo.Create(context.Background(), &Account{
		Type:         UserTypeGeneral,
		Email:        "dup@email.com",
		PasswordHash: "digest",
		FirstName:    "A",
		LastName:     "B",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_FindByEmail_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM accounts a`).
		WithArgs(UserTypeGeneral, "missing@email.com").
		WillReturnRows(accountRows())

	_, err := repo.FindByEmail(context.Background(), UserTypeGeneral, "missing@email.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_FindByEmail_WithBusinessJoin(t *testing.T) {
	repo, mock := newMockRepo(t)

	created := time.Now()
	bizID := "22222222-2222-2222-2222-222222222222"
	name := "Corner Cafe"
	abn := "51824753556"
	addr := "1 High St"
	city := "Wollongong"
	state := "NSW"
	postcode := "2500"

	mock.ExpectQuery(`(?s)SELECT .+ FROM accounts a`).
		WithArgs(UserTypeBusiness, "owner@email.com").
		WillReturnRows(accountRows().AddRow(
			"33333333-3333-3333-3333-333333333333", UserTypeBusiness, "owner@email.com",
			"digest", "Jane", "Doe", "0400000000",
			(*string)(nil), (*string)(nil), (*time.Time)(nil), (*string)(nil),
			created,
			&bizID, &name, &abn, &addr, &city, &state, &postcode,
		))

	acct, err := repo.FindByEmail(context.Background(), UserTypeBusiness, "owner@email.com")
	require.NoError(t, err)
	require.NotNil(t, acct.Business)
	assert.Equal(t, "Corner Cafe", acct.Business.Name)
	assert.Equal(t, "2500", acct.Business.Postcode)
	assert.Equal(t, UserTypeBusiness, acct.Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_ConsumeTemporaryLogin_ClearsCredential(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE accounts\s+SET session_token = \$2, temp_code = NULL, temp_expires_at = NULL`).
		WithArgs("id-1", "new-token").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.ConsumeTemporaryLogin(context.Background(), "id-1", "new-token")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Exec_NoRowsIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE accounts SET session_token = NULL`).
		WithArgs("missing-id").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.ClearSessionToken(context.Background(), "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_SaveTemporaryCredential_PropagatesError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE accounts SET temp_code = \$2, temp_expires_at = \$3`).
		WithArgs("id-1", "AB12C", pgxmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	err := repo.SaveTemporaryCredential(context.Background(), "id-1", "AB12C", time.Now().Add(time.Hour))
	assert.ErrorContains(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}
