// Package authflow implements the credential-lifecycle workflow shared by
// the three user-type route groups: login, registration, password change,
// forgot-password with temporary login, logout, and profile access. One
// handler set is parameterized by a Variant and mounted once per user type.
package authflow

import (
	"context"
	"time"

	"github.com/Sammy-Dev/COVID-Guard/internal/accounts"
)

// Store is the account persistence the workflow depends on. *accounts.Repo
// implements it; tests substitute an in-memory fake.
type Store interface {
	Create(ctx context.Context, a *accounts.Account) (string, error)
	FindByEmail(ctx context.Context, userType accounts.UserType, email string) (*accounts.Account, error)
	FindByID(ctx context.Context, userType accounts.UserType, id string) (*accounts.Account, error)
	SaveSessionToken(ctx context.Context, id, token string) error
	ConsumeTemporaryLogin(ctx context.Context, id, token string) error
	ClearSessionToken(ctx context.Context, id string) error
	SavePasswordHash(ctx context.Context, id, digest string) error
	SaveTemporaryCredential(ctx context.Context, id, code string, expiresAt time.Time) error
	UpdateProfile(ctx context.Context, id, firstName, lastName, phone string) error
}

// Mailer delivers the one-time-code email.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Variant is the per-user-type delta: the type tag plus the extra required
// registration field. Everything else about the workflow is identical.
type Variant struct {
	Type             accounts.UserType
	RequiresHealthID bool
}

var (
	GeneralPublic      = Variant{Type: accounts.UserTypeGeneral}
	BusinessOwner      = Variant{Type: accounts.UserTypeBusiness}
	HealthProfessional = Variant{Type: accounts.UserTypeHealth, RequiresHealthID: true}
)
