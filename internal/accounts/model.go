package accounts

import "time"

// UserType tags the three account collections. The tags travel inside bearer
// tokens and API responses, so their values are part of the contract.
type UserType string

const (
	UserTypeGeneral  UserType = "general"
	UserTypeBusiness UserType = "business"
	UserTypeHealth   UserType = "health"
)

// Account is a persisted credential+profile record. One polymorphic shape
// covers all three user types: HealthID is set only for health professionals
// and Business only for business owners.
type Account struct {
	ID           string    `json:"id"`
	Type         UserType  `json:"type"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Phone        string    `json:"phone"`
	HealthID     *string   `json:"healthID,omitempty"`
	Business     *Business `json:"business,omitempty"`

	TempCode      *string    `json:"-"`
	TempExpiresAt *time.Time `json:"-"`
	SessionToken  *string    `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

// Business is the entity a business-owner account belongs to. It is owned by
// the business row, not the account; the repository joins it in when
// assembling an account view.
type Business struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ABN      string `json:"abn"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
}

// HasValidTemporaryCredential reports whether a recovery code is present and
// not yet expired at the given instant. Expiry is checked, never assumed.
func (a *Account) HasValidTemporaryCredential(now time.Time) bool {
	return a.TempCode != nil && a.TempExpiresAt != nil && now.Before(*a.TempExpiresAt)
}
