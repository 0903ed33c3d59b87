package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"account-auth-service/internal/http/handler"
	"account-auth-service/internal/http/middleware"
)

// Dependencies bundles everything the route table needs so wire can build
// the router from one provider.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	VerificationHandler *handler.VerificationHandler
	Authenticator       middleware.Authenticator
	RateLimitBackend    middleware.Limiter
	AuthRateLimitRPM    int
	APIRateLimitRPM     int
	DefaultLocale       string
}

func New(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	requireAuth := middleware.RequireAuth(dep.Authenticator, dep.DefaultLocale)
	optionalAuth := middleware.OptionalAuth(dep.Authenticator)

	apiLimiter := middleware.NewDistributedRateLimiter(
		dep.RateLimitBackend, dep.APIRateLimitRPM, time.Minute,
		middleware.FailOpen, "api", dep.DefaultLocale)
	authLimiter := middleware.NewDistributedRateLimiter(
		dep.RateLimitBackend, dep.AuthRateLimitRPM, time.Minute,
		middleware.FailClosed, "auth", dep.DefaultLocale)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(apiLimiter.Middleware())

		api.Route("/verification", func(v chi.Router) {
			v.Use(authLimiter.Middleware())
			v.With(optionalAuth).Post("/email/send", dep.VerificationHandler.SendEmail)
			v.With(optionalAuth).Post("/email/confirm", dep.VerificationHandler.ConfirmEmail)
			v.With(requireAuth).Post("/phone/send", dep.VerificationHandler.SendPhone)
			v.With(requireAuth).Post("/phone/confirm", dep.VerificationHandler.ConfirmPhone)
		})

		api.Route("/auth", func(a chi.Router) {
			a.Group(func(pub chi.Router) {
				pub.Use(authLimiter.Middleware())
				pub.Post("/register/email", dep.AuthHandler.RegisterEmail)
				pub.Post("/login/email", dep.AuthHandler.LoginEmail)
				pub.Post("/register/social", dep.AuthHandler.RegisterSocial)
				pub.Post("/login/social", dep.AuthHandler.LoginSocial)
				pub.With(optionalAuth).Patch("/password", dep.AuthHandler.ChangePassword)
			})
			a.Group(func(priv chi.Router) {
				priv.Use(requireAuth)
				priv.Post("/logout", dep.AuthHandler.Logout)
				priv.Delete("/withdraw", dep.AuthHandler.Withdraw)
			})
		})

		api.Route("/users", func(u chi.Router) {
			u.Use(requireAuth)
			u.Get("/me", dep.UserHandler.Me)
			u.Patch("/profile", dep.UserHandler.EditProfile)
			u.Patch("/profile/image", dep.UserHandler.SetProfileImage)
			u.Post("/nickname/check", dep.UserHandler.CheckNickname)
			u.Get("/settings", dep.UserHandler.Settings)
			u.Patch("/settings/push", dep.UserHandler.TogglePush)
			u.Patch("/settings/ad", dep.UserHandler.ToggleAd)
			u.Post("/password/confirm", dep.UserHandler.ConfirmPassword)
		})
	})

	return r
}
