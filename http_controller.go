package auth

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// AuthControllerRoutes are the paths the controller mounts
type AuthControllerRoutes struct {
	Register string
	Login    string
	Logout   string
	Session  string
}

// AuthController serves the JSON auth surface: registration, credential
// login, logout, and the session read endpoint.
type AuthController struct {
	Logger Logger
	Repo   RepositoryManager
	Auther Authenticator
	Config Config
	Routes *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Register: "/auth/register",
			Login:    "/auth/login",
			Logout:   "/auth/logout",
			Session:  "/auth/session",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Config == nil {
		panic("Missing Config in auth controller...")
	}

	return c
}

func WithControllerLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = l
		return c
	}
}

func WithControllerRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithControllerAuther(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerConfig(cfg Config) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Config = cfg
		return c
	}
}

// RegisterAuthRoutes mounts the controller on a fiber app
func RegisterAuthRoutes(app *fiber.App, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Register, controller.RegistrationCreate).Name("register.post")
	app.Post(controller.Routes.Login, controller.LoginPost).Name("sign-in.post")
	app.Post(controller.Routes.Logout, controller.LogOut).Name("sign-out.post")
	app.Get(controller.Routes.Session, controller.SessionShow).Name("session.get")

	return controller
}

// RegisterRequest is the registration payload. Name is optional.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) RegistrationCreate(c *fiber.Ctx) error {
	payload := new(RegisterRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ErrUnableToParseData.Message,
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register validate payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ErrMissingFields.Message,
		})
	}

	handler := NewRegisterAccountHandler(a.Repo)
	if err := handler.Execute(c.Context(), RegisterAccountMessage{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
	}); err != nil {
		a.Logger.Error("register execute", "error", err, "email", payload.Email)
		return a.renderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
	})
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ErrUnableToParseData.Message,
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ErrMismatchedHashAndPassword.Message,
		})
	}

	token, err := a.Auther.Login(c.Context(), payload.Email, payload.Password)
	if err != nil {
		// Single undifferentiated rejection: no-account, wrong-password,
		// and federated-only accounts all read the same to the caller.
		if goerrors.Is(err, ErrMismatchedHashAndPassword) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": ErrMismatchedHashAndPassword.Message,
			})
		}
		a.Logger.Error("login error", "error", err)
		return a.renderError(c, err)
	}

	SetSessionCookie(c, a.Config, token)

	return c.JSON(fiber.Map{"token": token})
}

func (a *AuthController) LogOut(c *fiber.Ctx) error {
	ClearSessionCookie(c, a.Config)
	return c.JSON(fiber.Map{"message": "Signed out"})
}

// SessionShow returns the reconstructed session view, or the anonymous
// state. A bad token is never a server error here.
func (a *AuthController) SessionShow(c *fiber.Ctx) error {
	raw := TokenFromRequest(c, a.Config)
	if raw == "" {
		return c.JSON(fiber.Map{"authenticated": false})
	}

	session, err := a.Auther.SessionFromToken(raw)
	if err != nil {
		return c.JSON(fiber.Map{"authenticated": false})
	}

	return c.JSON(fiber.Map{
		"authenticated": true,
		"user": fiber.Map{
			"id":    session.GetUserID(),
			"email": session.GetEmail(),
			"name":  session.GetName(),
			"role":  session.GetRole(),
		},
	})
}

// renderError maps the error taxonomy onto HTTP statuses: validation and
// duplicates are 400s, auth failures 401s, store failures 500s.
func (a *AuthController) renderError(c *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		switch richErr.Category {
		case goerrors.CategoryValidation, goerrors.CategoryBadInput, goerrors.CategoryConflict:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": richErr.Message})
		case goerrors.CategoryAuth:
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": richErr.Message})
		}
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Server error",
	})
}

// SetSessionCookie stores the session token in an HTTP-only cookie named
// after the configured context key.
func SetSessionCookie(c *fiber.Ctx, cfg Config, token string) {
	duration := 24 * time.Hour
	if cfg.GetTokenExpiration() > 0 {
		duration = time.Duration(cfg.GetTokenExpiration()) * time.Hour
	}

	c.Cookie(&fiber.Cookie{
		Name:     cfg.GetContextKey(),
		Value:    token,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(c *fiber.Ctx, cfg Config) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.GetContextKey(),
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}
