package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/config"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/jwt"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/errs"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/user"
	"github.com/Lekhanh23/flowershop-frontend-sub000/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// Name of the cookie and header carrying the token.
const authorization = "Authorization"

var errPasswordTooLong = fmt.Errorf("%w: password must not exceed %d characters in length",
	errs.ErrInvalidPayload, maxPasswordLength)

type Service struct {
	repo   Repository
	logger logger.Logger
	config *config.Config
}

func NewService(repo Repository, logger logger.Logger, config *config.Config) (*Service, error) {
	if repo == nil {
		return nil, errors.New("nil dependency: repository")
	}
	if logger == nil {
		return nil, errors.New("nil dependency: logger")
	}
	if config == nil {
		return nil, errors.New("nil dependency: config")
	}
	return &Service{repo: repo, logger: logger, config: config}, nil
}

var _ ServerInterface = (*Service)(nil)

// Registration (POST /api/user/register). Every new account is a customer.
func (s *Service) Register(w http.ResponseWriter, r *http.Request, params RegisterParams) {
	// Create password hash.
	hashPassword, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.config.PasswordHashCost)
	if err != nil {
		s.errorHandler(w, r, fmt.Errorf("hash password: %w", err))
		return
	}

	// Create user.
	id, err := s.repo.CreateUser(r.Context(), params.Login, string(hashPassword), user.CUSTOMER)
	if err != nil {
		if errors.Is(err, errs.ErrDataConflict) {
			s.errorHandler(w, r, fmt.Errorf("%w: login %q already exists", err, params.Login))
			return
		}
		s.errorHandler(w, r, fmt.Errorf("create user: %w", err))
		return
	}

	s.logger.With(r.Context(), "user_id", id).Infof("user %q registered", params.Login)

	s.issueToken(w, r, id, user.CUSTOMER)
}

// Authentication (POST /api/user/login).
func (s *Service) Login(w http.ResponseWriter, r *http.Request, params LoginParams) {
	// Retrieve user from the database with provided login.
	u, err := s.repo.GetUserByLogin(r.Context(), params.Login)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			s.errorHandler(w, r, fmt.Errorf("%w: user with login %q not found",
				errs.ErrInvalidCredentials, params.Login))
			return
		}
		s.errorHandler(w, r, fmt.Errorf("get user %q: %w", params.Login, err))
		return
	}

	// Compare stored and provided passwords.
	err = bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(params.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.errorHandler(w, r, fmt.Errorf("%w: password", errs.ErrInvalidCredentials))
			return
		}
		s.errorHandler(w, r, fmt.Errorf("compare passwords: %w", err))
		return
	}

	s.issueToken(w, r, u.ID, u.Role)
}

// issueToken sends the token both as a cookie for browsers and as a
// header for API clients.
func (s *Service) issueToken(w http.ResponseWriter, r *http.Request, id int, role user.Role) {
	authToken, err := jwt.BuildString(id, role, s.config.JWT.SigningKey, s.config.JWT.Expiration)
	if err != nil {
		s.errorHandler(w, r, fmt.Errorf("build token: %w", err))
		return
	}

	// Set the "Authorization" cookie with the JWT authentication token.
	http.SetCookie(w, &http.Cookie{
		Name:     authorization,
		Value:    authToken,
		Path:     "/",
		Expires:  time.Now().Add(s.config.JWT.Expiration),
		HttpOnly: true,
	})
	w.Header().Set(authorization, authToken)

	w.WriteHeader(http.StatusOK)
}

// Middleware authenticates the request and puts the user into its context.
// The token is taken from the Authorization header, then from the cookie.
func (s *Service) Middleware(next http.Handler) http.Handler {
	f := func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get(authorization))
		if token == "" {
			authCookie, err := r.Cookie(authorization)
			if err != nil {
				if errors.Is(err, http.ErrNoCookie) {
					s.errorHandler(w, r, fmt.Errorf("authorization token: %w", errs.ErrNotFound))
					return
				}
				s.errorHandler(w, r, fmt.Errorf("authorization token: %w", err))
				return
			}
			token = authCookie.Value
		}

		claims, err := jwt.Parse(token, s.config.JWT.SigningKey)
		if err != nil {
			s.errorHandler(w, r, fmt.Errorf("parse token: %w", err))
			return
		}

		// Users deleted after the token was issued lose access.
		u, err := s.repo.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			s.errorHandler(w, r, fmt.Errorf("get user %d: %w", claims.UserID, err))
			return
		}

		r = r.WithContext(user.NewContext(r.Context(), u))

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(f)
}

// RequireRole lets through only authenticated users holding one of roles.
// It must run after Middleware.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := user.FromContext(r.Context())
			if !ok {
				ErrorHandlerFunc(w, r, fmt.Errorf("authorization: %w", errs.ErrNotFound))
				return
			}
			if !slices.Contains(roles, u.Role) {
				ErrorHandlerFunc(w, r, fmt.Errorf("%w: role %s", errs.ErrForbidden, u.Role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Service) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	if statusCode(err) >= http.StatusInternalServerError {
		s.logger.With(r.Context()).Errorf("auth: %s", err)
	}
	ErrorHandlerFunc(w, r, err)
}

// ErrorHandlerFunc handles sending of an error in the JSON format,
// writing appropriate status code and handling the failure to marshal that.
func ErrorHandlerFunc(w http.ResponseWriter, _ *http.Request, err error) {
	errJSON := errs.JSON{Error: err.Error()}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode(err))

	if err = json.NewEncoder(w).Encode(errJSON); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func statusCode(err error) int {
	switch {
	// Status Bad Request.
	case errors.Is(err, errs.ErrRequiredBodyParam) ||
		errors.Is(err, errs.ErrInvalidPayload) ||
		errors.Is(err, errs.ErrInvalidContentType):
		return http.StatusBadRequest

	// Status Unauthorized.
	case errors.Is(err, errs.ErrNotFound) ||
		errors.Is(err, errs.ErrInvalidCredentials) ||
		errors.Is(err, jwt.ErrInvalidToken):
		return http.StatusUnauthorized

	// Status Forbidden.
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden

	// Status Conflict.
	case errors.Is(err, errs.ErrDataConflict):
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}
