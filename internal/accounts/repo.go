package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound means no account matched the business key (email or id).
	ErrNotFound = errors.New("account not found")
	// ErrDuplicateEmail means the per-type email uniqueness constraint fired.
	ErrDuplicateEmail = errors.New("email already registered for this user type")
)

// DB is the subset of pgxpool.Pool the repository uses. pgxmock satisfies it
// too, which is how the repository is tested.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo persists accounts in Postgres.
type Repo struct {
	DB DB
}

func NewRepo(db DB) *Repo {
	return &Repo{DB: db}
}

const accountColumns = `
		a.id, a.user_type, a.email, a.password_hash, a.first_name, a.last_name,
		COALESCE(a.phone, ''), a.health_id, a.temp_code, a.temp_expires_at,
		a.session_token, a.created_at,
		b.id, b.name, b.abn, b.address, b.city, b.state, b.postcode`

const accountFrom = `
	 FROM accounts a
	 LEFT JOIN businesses b ON b.id = a.business_id`

// Create inserts a new account and returns its assigned id. A unique
// violation on (user_type, email) maps to ErrDuplicateEmail.
func (r *Repo) Create(ctx context.Context, a *Account) (string, error) {
	var id string
	err := r.DB.QueryRow(
		ctx,
		`INSERT INTO accounts (user_type, email, password_hash, first_name, last_name, phone, health_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		a.Type, a.Email, a.PasswordHash, a.FirstName, a.LastName, a.Phone, a.HealthID,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return "", ErrDuplicateEmail
		}
		return "", err
	}
	return id, nil
}

// FindByEmail loads an account by its login key within one user-type
// collection, joining the owning business when one is linked.
func (r *Repo) FindByEmail(ctx context.Context, userType UserType, email string) (*Account, error) {
	row := r.DB.QueryRow(
		ctx,
		`SELECT`+accountColumns+accountFrom+`
		 WHERE a.user_type = $1 AND a.email = $2`,
		userType, email,
	)
	return scanAccount(row)
}

// FindByID loads an account by id within one user-type collection.
func (r *Repo) FindByID(ctx context.Context, userType UserType, id string) (*Account, error) {
	row := r.DB.QueryRow(
		ctx,
		`SELECT`+accountColumns+accountFrom+`
		 WHERE a.user_type = $1 AND a.id = $2`,
		userType, id,
	)
	return scanAccount(row)
}

// SaveSessionToken records the last-issued bearer token on the account.
func (r *Repo) SaveSessionToken(ctx context.Context, id, token string) error {
	return r.exec(ctx, `UPDATE accounts SET session_token = $2 WHERE id = $1`, id, token)
}

// ConsumeTemporaryLogin persists a fresh session token and clears the
// temporary credential in the same statement, so a consumed code can never
// be replayed.
func (r *Repo) ConsumeTemporaryLogin(ctx context.Context, id, token string) error {
	return r.exec(
		ctx,
		`UPDATE accounts
		 SET session_token = $2, temp_code = NULL, temp_expires_at = NULL
		 WHERE id = $1`,
		id, token,
	)
}

// ClearSessionToken drops the stored token on logout.
func (r *Repo) ClearSessionToken(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE accounts SET session_token = NULL WHERE id = $1`, id)
}

// SavePasswordHash replaces the stored digest.
func (r *Repo) SavePasswordHash(ctx context.Context, id, digest string) error {
	return r.exec(ctx, `UPDATE accounts SET password_hash = $2 WHERE id = $1`, id, digest)
}

// SaveTemporaryCredential records a recovery code and its expiry.
func (r *Repo) SaveTemporaryCredential(ctx context.Context, id, code string, expiresAt time.Time) error {
	return r.exec(
		ctx,
		`UPDATE accounts SET temp_code = $2, temp_expires_at = $3 WHERE id = $1`,
		id, code, expiresAt,
	)
}

// UpdateProfile mutates the owner-editable profile fields.
func (r *Repo) UpdateProfile(ctx context.Context, id, firstName, lastName, phone string) error {
	return r.exec(
		ctx,
		`UPDATE accounts SET first_name = $2, last_name = $3, phone = $4 WHERE id = $1`,
		id, firstName, lastName, phone,
	)
}

func (r *Repo) exec(ctx context.Context, sql string, args ...any) error {
	tag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (*Account, error) {
	var (
		a        Account
		bizID    *string
		name     *string
		abn      *string
		address  *string
		city     *string
		state    *string
		postcode *string
	)
	err := row.Scan(
		&a.ID, &a.Type, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName,
		&a.Phone, &a.HealthID, &a.TempCode, &a.TempExpiresAt,
		&a.SessionToken, &a.CreatedAt,
		&bizID, &name, &abn, &address, &city, &state, &postcode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if bizID != nil {
		a.Business = &Business{
			ID:       *bizID,
			Name:     deref(name),
			ABN:      deref(abn),
			Address:  deref(address),
			City:     deref(city),
			State:    deref(state),
			Postcode: deref(postcode),
		}
	}
	return &a, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
