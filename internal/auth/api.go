package auth

import (
	"net/http"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/errs"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/request"
	"github.com/go-chi/chi/v5"
)

// bcrypt ignores everything past this many bytes.
const maxPasswordLength = 72

// RegisterParams defines parameters for Register.
type RegisterParams struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginParams defines parameters for Login.
type LoginParams struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Registration (POST /api/user/register)
	Register(w http.ResponseWriter, r *http.Request, params RegisterParams)
	// Authentication (POST /api/user/login)
	Login(w http.ResponseWriter, r *http.Request, params LoginParams)
}

// ServerInterfaceWrapper converts payloads to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
	HandlerMiddlewares []MiddlewareFunc
}

type MiddlewareFunc func(http.Handler) http.Handler

// Register operation middleware.
func (siw *ServerInterfaceWrapper) Register(w http.ResponseWriter, r *http.Request) {
	var params RegisterParams

	if err := decodeCredentials(r, &params.Login, &params.Password); err != nil {
		siw.ErrorHandlerFunc(w, r, err)
		return
	}

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.Register(w, r, params)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// Login operation middleware.
func (siw *ServerInterfaceWrapper) Login(w http.ResponseWriter, r *http.Request) {
	var params LoginParams

	if err := decodeCredentials(r, &params.Login, &params.Password); err != nil {
		siw.ErrorHandlerFunc(w, r, err)
		return
	}

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.Login(w, r, params)
	}))

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// decodeCredentials validates a login/password JSON body.
func decodeCredentials(r *http.Request, login, password *string) error {
	// ------------- Required application/json content type ----------

	if err := request.RequireJSON(r); err != nil {
		return err
	}

	var body struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := request.DecodeJSON(r, &body); err != nil {
		return err
	}

	// ------------- Required JSON body parameter "login" -------------

	if body.Login == "" {
		return &errs.RequiredJSONBodyParamError{ParamName: "login"}
	}

	// ------------- Required JSON body parameter "password" ----------

	if body.Password == "" {
		return &errs.RequiredJSONBodyParamError{ParamName: "password"}
	}
	if len(body.Password) > maxPasswordLength {
		return errPasswordTooLong
	}

	*login, *password = body.Login, body.Password

	return nil
}

type ChiServerOptions struct {
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
	BaseRouter       chi.Router
	BaseURL          string
	Middlewares      []MiddlewareFunc
}

// HandlerWithOptions creates http.Handler with additional options.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = ErrorHandlerFunc
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/register", wrapper.Register)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/login", wrapper.Login)
	})

	return r
}
