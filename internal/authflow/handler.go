package authflow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sammy-Dev/COVID-Guard/internal/accounts"
	"github.com/Sammy-Dev/COVID-Guard/internal/apperr"
	"github.com/Sammy-Dev/COVID-Guard/internal/config"
	"github.com/Sammy-Dev/COVID-Guard/internal/password"
	"github.com/Sammy-Dev/COVID-Guard/internal/tempcode"
	"github.com/Sammy-Dev/COVID-Guard/internal/token"
)

// Handler serves one user-type variant of the authentication workflow.
type Handler struct {
	Variant Variant
	Store   Store
	Tokens  *token.Issuer
	Mailer  Mailer
	Cfg     *config.Config
	Log     *zap.Logger
}

func NewHandler(v Variant, store Store, tokens *token.Issuer, mailer Mailer, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{Variant: v, Store: store, Tokens: tokens, Mailer: mailer, Cfg: cfg, Log: log}
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	HealthID  string `json:"healthID"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	UserID          string `json:"userId"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type forgotPasswordRequest struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
}

type profileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// Register creates a new account, issues a bearer token, and persists it
// onto the record.
func (h *Handler) Register(c *fiber.Ctx) error {
	var body registerRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.BadRequest("Please enter all fields")
	}

	if body.FirstName == "" || body.LastName == "" || body.Email == "" || body.Password == "" {
		return apperr.BadRequest("Please enter all fields")
	}
	if h.Variant.RequiresHealthID && body.HealthID == "" {
		return apperr.BadRequest("Please enter all fields")
	}

	ctx := c.UserContext()

	if _, err := h.Store.FindByEmail(ctx, h.Variant.Type, body.Email); err == nil {
		return apperr.BadRequest("User already exists")
	} else if !errors.Is(err, accounts.ErrNotFound) {
		return apperr.Server("Something went wrong saving the user")
	}

	digest, err := password.Hash(body.Password)
	if err != nil {
		return apperr.Server("Something went wrong hashing the password")
	}

	acct := &accounts.Account{
		Type:         h.Variant.Type,
		Email:        body.Email,
		PasswordHash: digest,
		FirstName:    body.FirstName,
		LastName:     body.LastName,
		Phone:        body.Phone,
	}
	if h.Variant.RequiresHealthID {
		acct.HealthID = &body.HealthID
	}

	id, err := h.Store.Create(ctx, acct)
	if err != nil {
		if errors.Is(err, accounts.ErrDuplicateEmail) {
			return apperr.BadRequest("User already exists")
		}
		h.Log.Error("register: insert failed", zap.Error(err), zap.String("userType", string(h.Variant.Type)))
		return apperr.Server("Something went wrong saving the user")
	}

	tok, err := h.Tokens.Issue(id, string(h.Variant.Type), h.Cfg.RegisterTokenTTL)
	if err != nil {
		return apperr.Server("Couldn't sign the token")
	}
	if err := h.Store.SaveSessionToken(ctx, id, tok); err != nil {
		return apperr.Server("Something went wrong saving the user")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   tok,
		"userId":  id,
		"type":    h.Variant.Type,
	})
}

// Login authenticates by permanent password or, when a non-expired recovery
// code is on file, by the code itself. A successful temporary login consumes
// the code in the same write that persists the new session token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.BadRequest("Please enter all fields")
	}
	if body.Email == "" || body.Password == "" {
		return apperr.BadRequest("Please enter all fields")
	}

	ctx := c.UserContext()

	acct, err := h.Store.FindByEmail(ctx, h.Variant.Type, body.Email)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return apperr.BadRequest("User does not exist")
		}
		return apperr.Server("Something went wrong")
	}

	isTemporary := acct.HasValidTemporaryCredential(time.Now())

	var isMatch bool
	if isTemporary {
		isMatch = body.Password == *acct.TempCode
	} else {
		isMatch = password.Verify(body.Password, acct.PasswordHash)
	}
	if !isMatch {
		return apperr.BadRequest("Invalid credentials")
	}

	tok, err := h.Tokens.Issue(acct.ID, string(h.Variant.Type), h.Cfg.LoginTokenTTL)
	if err != nil {
		return apperr.Server("Couldn't sign the token")
	}

	if isTemporary {
		err = h.Store.ConsumeTemporaryLogin(ctx, acct.ID, tok)
	} else {
		err = h.Store.SaveSessionToken(ctx, acct.ID, tok)
	}
	if err != nil {
		return apperr.Server("Something went wrong saving the user")
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"token":       tok,
		"userId":      acct.ID,
		"type":        h.Variant.Type,
		"isTemporary": isTemporary,
	})
}

// ChangePassword replaces the permanent digest after re-verifying the
// current password.
func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	var body changePasswordRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.BadRequest("Please enter all fields")
	}
	if body.UserID == "" || body.CurrentPassword == "" || body.NewPassword == "" || body.ConfirmPassword == "" {
		return apperr.BadRequest("Please enter all fields")
	}
	if body.NewPassword != body.ConfirmPassword {
		return apperr.BadRequest("Password and confirm password do not match")
	}
	if _, err := uuid.Parse(body.UserID); err != nil {
		return apperr.BadRequest("UserId is invalid")
	}

	ctx := c.UserContext()

	acct, err := h.Store.FindByID(ctx, h.Variant.Type, body.UserID)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return apperr.BadRequest("User does not exist")
		}
		return apperr.Server("Something went wrong")
	}

	if !password.Verify(body.CurrentPassword, acct.PasswordHash) {
		return apperr.BadRequest("Current password doesn't match")
	}

	digest, err := password.Hash(body.NewPassword)
	if err != nil {
		return apperr.Server("Something went wrong hashing the password")
	}
	if err := h.Store.SavePasswordHash(ctx, acct.ID, digest); err != nil {
		return apperr.Server("Something went wrong saving the user")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"userId":  acct.ID,
	})
}

// ForgotPassword issues a temporary credential and mails it. The credential
// stays persisted even when delivery fails; that non-atomicity is accepted
// behavior, not an oversight to "fix" with a rollback.
func (h *Handler) ForgotPassword(c *fiber.Ctx) error {
	var body forgotPasswordRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.BadRequest("Please enter all fields")
	}
	if body.Email == "" && body.UserID == "" {
		return apperr.BadRequest("Please enter all fields")
	}

	ctx := c.UserContext()

	var (
		acct *accounts.Account
		err  error
	)
	if body.Email != "" {
		acct, err = h.Store.FindByEmail(ctx, h.Variant.Type, body.Email)
	} else {
		if _, uerr := uuid.Parse(body.UserID); uerr != nil {
			return apperr.BadRequest("UserId is invalid")
		}
		acct, err = h.Store.FindByID(ctx, h.Variant.Type, body.UserID)
	}
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return apperr.BadRequest("User does not exist")
		}
		return apperr.Server("Something went wrong")
	}

	cred := tempcode.Generate(h.Cfg.TempCodeTTL)
	if err := h.Store.SaveTemporaryCredential(ctx, acct.ID, cred.Code, cred.ExpiresAt); err != nil {
		return apperr.Server("Something went wrong saving the user")
	}

	html := fmt.Sprintf(
		"<strong>The following is your one-time temporary password to login. It expires in 1 hour.<br>"+
			"You will be directed to change your password after you login: %s</strong>",
		cred.Code,
	)
	if err := h.Mailer.Send(ctx, acct.Email, "Reset Password", html); err != nil {
		h.Log.Error("forgot password: email delivery failed", zap.Error(err), zap.String("userId", acct.ID))
		return apperr.Server("Error sending email")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"userId":  acct.ID,
	})
}

// Logout clears the stored session token. The token itself remains valid
// until its own expiry; the stored copy is informational.
func (h *Handler) Logout(c *fiber.Ctx) error {
	userID := CallerID(c)
	if _, err := uuid.Parse(userID); err != nil {
		return apperr.BadRequest("UserId is invalid")
	}

	ctx := c.UserContext()

	if _, err := h.Store.FindByID(ctx, h.Variant.Type, userID); err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return apperr.Unauthorized("User does not exist")
		}
		return apperr.Server("Something went wrong")
	}
	if err := h.Store.ClearSessionToken(ctx, userID); err != nil {
		return apperr.Server("Error logging out user")
	}

	return c.JSON(fiber.Map{"success": true})
}

// CurrentUser re-validates the caller's account and returns the minimal
// identity view.
func (h *Handler) CurrentUser(c *fiber.Ctx) error {
	acct, err := h.callerAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"id":   acct.ID,
		"type": acct.Type,
	})
}

// Profile returns the caller's profile, excluding credential fields.
func (h *Handler) Profile(c *fiber.Ctx) error {
	acct, err := h.callerAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(acct)
}

// UpdateProfile mutates the owner-editable fields.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	acct, err := h.callerAccount(c)
	if err != nil {
		return err
	}

	var body profileRequest
	if err := c.BodyParser(&body); err != nil {
		return apperr.BadRequest("Please enter all fields")
	}
	body.FirstName = strings.TrimSpace(body.FirstName)
	body.LastName = strings.TrimSpace(body.LastName)
	if body.FirstName == "" || body.LastName == "" {
		return apperr.BadRequest("Please enter all fields")
	}

	if err := h.Store.UpdateProfile(c.UserContext(), acct.ID, body.FirstName, body.LastName, body.Phone); err != nil {
		return apperr.Server("Something went wrong saving the user")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"userId":  acct.ID,
	})
}

func (h *Handler) callerAccount(c *fiber.Ctx) (*accounts.Account, error) {
	userID := CallerID(c)
	if _, err := uuid.Parse(userID); err != nil {
		return nil, apperr.Unauthorized("Token is not valid")
	}

	acct, err := h.Store.FindByID(c.UserContext(), h.Variant.Type, userID)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return nil, apperr.Unauthorized("User does not exist")
		}
		return nil, apperr.Server("Something went wrong")
	}
	return acct, nil
}
