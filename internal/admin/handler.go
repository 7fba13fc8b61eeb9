package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"

	"github.com/velorashop/velora/internal/auth"
	"github.com/velorashop/velora/internal/middleware"
	"github.com/velorashop/velora/internal/telemetry/metrics"
	"github.com/velorashop/velora/internal/telemetry/tracing"
	"github.com/velorashop/velora/pkg"
)

// Handler serves the admin session endpoints: login (token issuance)
// and verify (the liveness check the dashboard polls periodically).
type Handler struct {
	tokenService   *auth.TokenService
	metricsManager *metrics.Manager
}

func NewHandler(
	tokenService *auth.TokenService,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		tokenService:   tokenService,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	loginAllowedPerMin int,
) {
	loginRouter := mainRouter.PathPrefix("/api/admin/login").Subrouter()
	loginRouter.
		HandleFunc("", handler.handleLogin).
		Methods("POST", "OPTIONS").Name("admin-login")

	// rate limit the login endpoint to prevent credential guessing
	loginRouter.Use(middleware.RateLimit(rateLimiter, "admin-login", loginAllowedPerMin, handler.metricsManager))

	mainRouter.
		HandleFunc("/api/admin/verify", handler.handleVerify).
		Methods("GET", "OPTIONS").Name("admin-verify")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

type verifyResponse struct {
	Success bool      `json:"success"`
	Admin   adminInfo `json:"admin"`
}

type adminInfo struct {
	Email string `json:"email"`
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "adminHandler.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var loginReq loginRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			pkg.WriteAPIError(w, "invalid request body", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			pkg.WriteAPIError(w, "parse form error", http.StatusBadRequest)
			return
		}
		loginReq = loginRequest{
			Email:    r.Form.Get("email"),
			Password: r.Form.Get("password"),
		}
	}

	if loginReq.Email == "" || loginReq.Password == "" {
		handler.countLogin("invalid-request")
		pkg.WriteAPIError(w, "email and password are required", http.StatusBadRequest)
		span.SetStatus(codes.Error, "missing-fields")
		return
	}

	token, err := handler.tokenService.Login(ctx, loginReq.Email, loginReq.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			// same response for wrong email and wrong password,
			// no hint about which field mismatched
			log.Tracef("failed login attempt for: %s", loginReq.Email)
			handler.countLogin("wrong-credentials")
			pkg.WriteAPIError(w, "invalid credentials", http.StatusUnauthorized)
			span.SetStatus(codes.Error, "wrong-credentials")
			return
		}
		log.Errorf("login failed, generate token error: %s", err)
		handler.countLogin("error")
		pkg.WriteAPIError(w, "internal server error", http.StatusInternalServerError)
		span.SetStatus(codes.Error, "sign-token-err")
		return
	}

	log.Trace("new login success")
	handler.countLogin("success")

	respBytes, err := json.Marshal(loginResponse{
		Success: true,
		Token:   token,
		Message: "login successful",
	})
	if err != nil {
		pkg.WriteAPIError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

// handleVerify runs behind the auth middleware: reaching it at all
// means the token already passed signature, expiry and subject checks.
func (handler *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "adminHandler.verify")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	adminEmail := middleware.AdminFromContext(r.Context())
	if adminEmail == "" {
		// auth middleware not mounted - should never happen
		pkg.WriteAPIError(w, "invalid or expired session", http.StatusUnauthorized)
		span.SetStatus(codes.Error, "no-identity-on-context")
		return
	}

	respBytes, err := json.Marshal(verifyResponse{
		Success: true,
		Admin:   adminInfo{Email: adminEmail},
	})
	if err != nil {
		pkg.WriteAPIError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (handler *Handler) countLogin(outcome string) {
	if handler.metricsManager == nil {
		return
	}
	handler.metricsManager.CounterLoginAttempts.With(prometheus.Labels{"outcome": outcome}).Inc()
}
