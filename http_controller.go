package auth

import (
	"errors"
	"fmt"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// ControllerRoutes are the paths the controller mounts.
type ControllerRoutes struct {
	Register string
	Confirm  string
	Login    string
	Products string
	Me       string
}

// Controller exposes the core operations over fiber. Routing policy
// (middleware chains, CORS, limits) stays with the caller; the controller
// only shapes requests and responses.
type Controller struct {
	Debug    bool
	Logger   Logger
	Routes   *ControllerRoutes
	Register *RegisterUserHandler
	Confirm  *ConfirmAccountHandler
	Auther   *Auther
	Products ProductStore
}

// ControllerOption mutates a Controller during construction.
type ControllerOption func(*Controller) *Controller

// NewController builds a Controller; Register, Confirm and Auther options
// are required.
func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		Logger: defLogger{},
		Routes: &ControllerRoutes{
			Register: "/api/register",
			Confirm:  "/api/confirm/:token",
			Login:    "/api/login",
			Products: "/api/products",
			Me:       "/api/me",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Register == nil || c.Confirm == nil || c.Auther == nil {
		panic("auth controller requires register, confirm and auther")
	}

	return c
}

func WithControllerLogger(logger Logger) ControllerOption {
	return func(c *Controller) *Controller {
		c.Logger = logger
		return c
	}
}

func WithRegisterHandler(h *RegisterUserHandler) ControllerOption {
	return func(c *Controller) *Controller {
		c.Register = h
		return c
	}
}

func WithConfirmHandler(h *ConfirmAccountHandler) ControllerOption {
	return func(c *Controller) *Controller {
		c.Confirm = h
		return c
	}
}

func WithAuther(a *Auther) ControllerOption {
	return func(c *Controller) *Controller {
		c.Auther = a
		return c
	}
}

func WithProductStore(store ProductStore) ControllerOption {
	return func(c *Controller) *Controller {
		c.Products = store
		return c
	}
}

func WithDebug(debug bool) ControllerOption {
	return func(c *Controller) *Controller {
		c.Debug = debug
		return c
	}
}

// RegisterAuthRoutes mounts the controller. protect must run Authenticate and
// admin must additionally require the admin flag; both come from the
// middleware package so route policy stays composable.
func (c *Controller) RegisterAuthRoutes(app fiber.Router, protect, admin fiber.Handler) {
	app.Post(c.Routes.Register, c.RegisterPost)
	app.Get(c.Routes.Confirm, c.ConfirmGet)
	app.Post(c.Routes.Login, c.LoginPost)
	app.Get(c.Routes.Me, protect, c.MeGet)

	if c.Products != nil {
		app.Get(c.Routes.Products, c.ProductsList)
		app.Post(c.Routes.Products, protect, admin, c.ProductsCreate)
	}
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will run boundary validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// ConfirmRequest payload
type ConfirmRequest struct {
	Token string `json:"token"`
}

// Validate will run boundary validation rules
func (r ConfirmRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Token,
			validation.Required,
			validation.Length(16, 128),
		),
	)
}

func (c *Controller) RegisterPost(ctx *fiber.Ctx) error {
	payload := new(RegisterUserMessage)
	if err := ctx.BodyParser(payload); err != nil {
		c.Logger.Error("register parse payload", "error", err)
		return c.renderError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "could not parse request body").
			WithCode(goerrors.CodeBadRequest))
	}

	if c.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	user, err := c.Register.Execute(ctx.Context(), *payload)
	if err != nil {
		c.Logger.Error("register user", "error", err)
		return c.renderError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user_id": user.ID.Hex(),
		"message": "User registered. Check your email to confirm the account.",
	})
}

func (c *Controller) ConfirmGet(ctx *fiber.Ctx) error {
	req := ConfirmRequest{Token: ctx.Params("token")}
	if err := req.Validate(); err != nil {
		return c.renderError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid confirmation token").
			WithCode(goerrors.CodeBadRequest))
	}

	user, err := c.Confirm.Execute(ctx.Context(), req.Token)
	if err != nil {
		return c.renderError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"message": "Account confirmed",
		"user_id": user.ID.Hex(),
	})
}

func (c *Controller) LoginPost(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)
	if err := ctx.BodyParser(payload); err != nil {
		return c.renderError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "could not parse request body").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		// Shape failures at the boundary still answer as invalid
		// credentials; login never explains what was wrong.
		c.Logger.Debug("login payload rejected", "error", err)
		return c.renderError(ctx, ErrInvalidCredentials)
	}

	token, summary, err := c.Auther.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return c.renderError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"token": token,
		"user":  summary,
	})
}

func (c *Controller) MeGet(ctx *fiber.Ctx) error {
	identity, ok := ctx.Locals(IdentityContextKey).(Identity)
	if !ok {
		return c.renderError(ctx, ErrAuthHeaderMissing)
	}

	return ctx.JSON(fiber.Map{
		"id":    identity.ID(),
		"name":  identity.Name(),
		"email": identity.Email(),
		"admin": identity.IsAdmin(),
	})
}

func (c *Controller) ProductsList(ctx *fiber.Ctx) error {
	page := queryInt(ctx, "page", 1)
	size := queryInt(ctx, "size", 10)

	products, err := c.Products.List(ctx.Context(), page, size)
	if err != nil {
		c.Logger.Error("product list", "error", err)
		return c.renderError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"page":     page,
		"size":     size,
		"products": products,
	})
}

func (c *Controller) ProductsCreate(ctx *fiber.Ctx) error {
	payload := new(ProductPayload)
	if err := ctx.BodyParser(payload); err != nil {
		return c.renderError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "could not parse request body").
			WithCode(goerrors.CodeBadRequest))
	}

	if c.Debug {
		fmt.Println("======= PRODUCT CREATE ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=============================")
	}

	if err := ValidateProductData(*payload).Err(); err != nil {
		return c.renderError(ctx, err)
	}

	product, err := c.Products.Create(ctx.Context(), payload.Product())
	if err != nil {
		c.Logger.Error("product create", "error", err)
		return c.renderError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"product_id": product.ID.Hex(),
		"message":    "Product successfully created!",
	})
}

// renderError maps core errors onto the wire shape. Internal details never
// reach the client; they are already logged where they happened.
func (c *Controller) renderError(ctx *fiber.Ctx, err error) error {
	status := HTTPStatus(err)

	body := fiber.Map{"status": status}

	var vErr *ValidationError
	var richErr *goerrors.Error

	switch {
	case errors.As(err, &vErr):
		body["message"] = "Validation failed"
		body["errors"] = vErr.Violations
	case goerrors.As(err, &richErr) && status < 500:
		body["message"] = richErr.Message
		if richErr.TextCode != "" {
			body["text_code"] = richErr.TextCode
		}
	default:
		c.Logger.Error("internal error", "error", err)
		body["message"] = "Internal server error"
	}

	return ctx.Status(status).JSON(body)
}

func queryInt(ctx *fiber.Ctx, key string, def int) int {
	v, err := strconv.Atoi(ctx.Query(key, strconv.Itoa(def)))
	if err != nil || v < 1 {
		return def
	}
	return v
}
