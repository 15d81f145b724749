package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Sammy-Dev/COVID-Guard/internal/authflow"
	"github.com/Sammy-Dev/COVID-Guard/internal/token"
	"github.com/Sammy-Dev/COVID-Guard/internal/vaccinations"
)

// Router mounts the per-user-type auth groups and the public vaccination
// lookup.
type Router struct {
	GeneralPublic      *authflow.Handler
	BusinessOwner      *authflow.Handler
	HealthProfessional *authflow.Handler
	Vaccinations       *vaccinations.Handler
	Tokens             *token.Issuer

	// LimiterMW rate-limits the credential endpoints (login, forgot password).
	LimiterMW fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	r.registerAuthGroup(app, "/api/generalpublic", r.GeneralPublic)
	r.registerAuthGroup(app, "/api/businessowner", r.BusinessOwner)
	r.registerAuthGroup(app, "/api/healthprofessional", r.HealthProfessional)

	if r.Vaccinations != nil {
		app.Post("/api/generalpublic/checkvaccinationisvalid", r.Vaccinations.CheckValid)
	}
}

func (r *Router) registerAuthGroup(app *fiber.App, prefix string, h *authflow.Handler) {
	if h == nil {
		return
	}

	guard := authflow.Guard(r.Tokens, h.Variant.Type)
	auth := app.Group(prefix + "/auth")

	if r.LimiterMW != nil {
		auth.Post("/login", r.LimiterMW, h.Login)
		auth.Post("/forgotpassword", r.LimiterMW, h.ForgotPassword)
	} else {
		auth.Post("/login", h.Login)
		auth.Post("/forgotpassword", h.ForgotPassword)
	}

	auth.Post("/register", h.Register)
	auth.Post("/changepassword", guard, h.ChangePassword)
	auth.Get("/user", guard, h.CurrentUser)
	auth.Get("/logout", guard, h.Logout)

	app.Get(prefix+"/profile", guard, h.Profile)
	app.Post(prefix+"/profile", guard, h.UpdateProfile)
}
