package social

import (
	"time"

	"github.com/auditgrid/auth"
	"github.com/gofiber/fiber/v2"
)

// HTTPConfig configures the social HTTP controller.
type HTTPConfig struct {
	// PathPrefix for routes (default: "/auth/social")
	PathPrefix string

	// StateCookieName stores the pending OAuth state (default: "oauth_state")
	StateCookieName string

	// StateTTL bounds how long a redirect flow may take (default: 10m)
	StateTTL time.Duration

	// SuccessRedirect is where the browser lands after sign-in
	SuccessRedirect string

	// ErrorRedirect is where failed flows land
	ErrorRedirect string
}

// HTTPController drives the provider redirect flow: begin, callback,
// link, mint session, redirect.
type HTTPController struct {
	providers map[string]Provider
	linker    *Linker
	tokens    auth.TokenService
	authCfg   auth.Config
	config    HTTPConfig
	logger    auth.Logger
}

type ControllerOption func(*HTTPController)

// WithProvider registers a federated provider.
func WithProvider(provider Provider) ControllerOption {
	return func(c *HTTPController) {
		if provider != nil {
			c.providers[provider.Name()] = provider
		}
	}
}

func WithControllerLogger(logger auth.Logger) ControllerOption {
	return func(c *HTTPController) {
		c.logger = logger
	}
}

// NewHTTPController creates a new social auth HTTP controller.
func NewHTTPController(linker *Linker, tokens auth.TokenService, authCfg auth.Config, cfg HTTPConfig, opts ...ControllerOption) *HTTPController {
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = "/auth/social"
	}
	if cfg.StateCookieName == "" {
		cfg.StateCookieName = "oauth_state"
	}
	if cfg.StateTTL == 0 {
		cfg.StateTTL = 10 * time.Minute
	}
	if cfg.SuccessRedirect == "" {
		cfg.SuccessRedirect = "/dashboard"
	}
	if cfg.ErrorRedirect == "" {
		cfg.ErrorRedirect = "/login?error=auth_failed"
	}

	c := &HTTPController{
		providers: make(map[string]Provider),
		linker:    linker,
		tokens:    tokens,
		authCfg:   authCfg,
		config:    cfg,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// RegisterRoutes registers the redirect-flow routes.
func (c *HTTPController) RegisterRoutes(app *fiber.App) {
	app.Get(c.config.PathPrefix+"/:provider/callback", c.Callback).Name("social.callback")
	app.Get(c.config.PathPrefix+"/:provider", c.BeginAuth).Name("social.begin")
}

// BeginAuth starts the OAuth flow: mint a state token, remember it in a
// short-lived cookie, and send the browser to the provider.
func (c *HTTPController) BeginAuth(ctx *fiber.Ctx) error {
	provider, ok := c.providers[ctx.Params("provider")]
	if !ok {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": ErrProviderNotFound.Message,
		})
	}

	state, err := NewStateToken()
	if err != nil {
		c.log().Error("failed to generate state", "error", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server error",
		})
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     c.config.StateCookieName,
		Value:    state,
		Expires:  time.Now().Add(c.config.StateTTL),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})

	return ctx.Redirect(provider.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

// Callback completes the flow: verify state, exchange the code, fetch the
// assertion, ensure a local account, mint the session. Any failure denies
// the sign-in and lands on the error redirect.
func (c *HTTPController) Callback(ctx *fiber.Ctx) error {
	provider, ok := c.providers[ctx.Params("provider")]
	if !ok {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": ErrProviderNotFound.Message,
		})
	}

	stored := ctx.Cookies(c.config.StateCookieName)
	ctx.Cookie(&fiber.Cookie{
		Name:     c.config.StateCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})

	if !VerifyState(ctx.Query("state"), stored) {
		c.log().Warn("oauth state mismatch", "provider", provider.Name())
		return ctx.Redirect(c.config.ErrorRedirect, fiber.StatusSeeOther)
	}

	code := ctx.Query("code")
	if code == "" {
		return ctx.Redirect(c.config.ErrorRedirect, fiber.StatusSeeOther)
	}

	token, err := provider.Exchange(ctx.Context(), code)
	if err != nil {
		c.log().Error("token exchange failed", "provider", provider.Name(), "error", err)
		return ctx.Redirect(c.config.ErrorRedirect, fiber.StatusSeeOther)
	}

	profile, err := provider.UserInfo(ctx.Context(), token)
	if err != nil {
		c.log().Error("user info fetch failed", "provider", provider.Name(), "error", err)
		return ctx.Redirect(c.config.ErrorRedirect, fiber.StatusSeeOther)
	}

	account, err := c.linker.EnsureAccount(ctx.Context(), profile)
	if err != nil {
		c.log().Error("account linking failed", "provider", provider.Name(), "error", err)
		return ctx.Redirect(c.config.ErrorRedirect, fiber.StatusSeeOther)
	}

	session, err := c.tokens.Generate(auth.IdentityFromAccount(account))
	if err != nil {
		c.log().Error("session mint failed", "error", err)
		return ctx.Redirect(c.config.ErrorRedirect, fiber.StatusSeeOther)
	}

	auth.SetSessionCookie(ctx, c.authCfg, session)

	return ctx.Redirect(c.config.SuccessRedirect, fiber.StatusSeeOther)
}

func (c *HTTPController) log() auth.Logger {
	if c.logger != nil {
		return c.logger
	}
	return noopLogger{}
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
