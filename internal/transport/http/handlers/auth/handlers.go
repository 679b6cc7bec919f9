package authhandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"onboarding/internal/domain/audit"
	"onboarding/internal/domain/auth"
	"onboarding/internal/platform/docstore"
	"onboarding/internal/transport/http/api"
	"onboarding/internal/transport/http/middleware"
	"onboarding/internal/transport/http/shared"
)

type Service interface {
	Register(ctx context.Context, in auth.RegisterInput) (auth.User, error)
	Login(ctx context.Context, email, password string) (auth.Session, error)
	Me(ctx context.Context, userID string) (auth.User, error)
	UpdateProfile(ctx context.Context, userID string, update auth.ProfileUpdate) (auth.User, error)
	EmployeesByRole(ctx context.Context, employeeRole string, page, limit int) ([]auth.User, docstore.Pagination, error)
	Search(ctx context.Context, firstName, lastName string) ([]auth.User, error)
	Stats(ctx context.Context) (auth.Stats, error)
	YearlyStats(ctx context.Context, year int) ([]auth.MonthStat, error)
	UpdateEmployeeStatus(ctx context.Context, userID, status string) (auth.User, error)
}

type Handler struct {
	Service    Service
	Audit      shared.AuditLogger
	Production bool
}

func NewHandler(service Service, auditLog shared.AuditLogger, production bool) *Handler {
	return &Handler{Service: service, Audit: auditLog, Production: production}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", h.HandleRegister)
	r.Post("/auth/login", h.HandleLogin)

	anyUser := middleware.RequireRole()
	r.With(anyUser).Get("/auth/me", h.HandleMe)
	r.With(anyUser).Get("/user/profile", h.HandleMe)
	r.With(anyUser).Patch("/user/profile", h.HandleUpdateProfile)

	admin := middleware.RequireRole(auth.RoleSuperAdmin)
	r.With(admin).Get("/user/employees", h.HandleEmployees)
	r.With(admin).Get("/user/search", h.HandleSearch)
	r.With(admin).Get("/user/stats", h.HandleStats)
	r.With(admin).Get("/user/stats/yearly", h.HandleYearlyStats)
	r.With(admin).Patch("/user/{id}/status", h.HandleEmployeeStatus)
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload auth.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	user, err := h.Service.Register(r.Context(), payload)
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionCreate, "user", user.ID)
	api.Created(w, "User created successfully", user, requestID)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	payload.Email = strings.TrimSpace(payload.Email)
	if issues := shared.Validate(payload); len(issues) > 0 {
		shared.FailValidation(w, requestID, issues)
		return
	}

	session, err := h.Service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	api.SuccessMessage(w, "User logged in successfully", session, requestID)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	caller, _ := middleware.GetUser(r.Context())
	user, err := h.Service.Me(r.Context(), caller.UserID)
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	api.SuccessMessage(w, "Profile data retrieved successfully", user, requestID)
}

func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	caller, _ := middleware.GetUser(r.Context())
	var payload auth.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	user, err := h.Service.UpdateProfile(r.Context(), caller.UserID, payload)
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionUpdate, "user", user.ID)
	api.SuccessMessage(w, "Profile updated successfully", user, requestID)
}

func (h *Handler) HandleEmployees(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	role := strings.TrimSpace(r.URL.Query().Get("employee_role"))
	if role == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_query", "employee_role query parameter is required", requestID)
		return
	}
	page, limit := shared.ParsePage(r)
	users, pagination, err := h.Service.EmployeesByRole(r.Context(), role, page, limit)
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	api.Page(w, "Employees with role "+role+" fetched successfully", users, pagination, requestID)
}

func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	first := strings.TrimSpace(r.URL.Query().Get("firstName"))
	last := strings.TrimSpace(r.URL.Query().Get("lastName"))
	if first == "" && last == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_query", "At least firstName or lastName query parameter is required", requestID)
		return
	}
	users, err := h.Service.Search(r.Context(), first, last)
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	api.SuccessMessage(w, "Employees fetched successfully", users, requestID)
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	api.SuccessMessage(w, "User statistics fetched successfully", stats, requestID)
}

func (h *Handler) HandleYearlyStats(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	year := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1970 || parsed > 9999 {
			api.Fail(w, http.StatusBadRequest, "invalid_query", "year must be a four digit year", requestID)
			return
		}
		year = parsed
	}
	stats, err := h.Service.YearlyStats(r.Context(), year)
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	message := "User statistics fetched successfully"
	if year > 0 {
		message = "User statistics for year " + strconv.Itoa(year) + " fetched successfully"
	}
	api.SuccessMessage(w, message, stats, requestID)
}

func (h *Handler) HandleEmployeeStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload statusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	id := chi.URLParam(r, "id")
	user, err := h.Service.UpdateEmployeeStatus(r.Context(), id, payload.Status)
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, audit.ActionUpdate, "user", id)
	api.SuccessMessage(w, "Employee status update successfully", user, requestID)
}

func (h *Handler) fail(w http.ResponseWriter, err error, requestID string) {
	var input *auth.InputError
	switch {
	case errors.As(err, &input):
		shared.FailField(w, requestID, input.Field, input.Reason)
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
	case errors.Is(err, auth.ErrUserInactive):
		api.Fail(w, http.StatusForbidden, "user_inactive", "user is not active", requestID)
	case errors.Is(err, auth.ErrEmailTaken):
		api.Fail(w, http.StatusConflict, "email_taken", "email already registered", requestID)
	case errors.Is(err, auth.ErrUserNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", requestID)
	default:
		api.Internal(w, err, h.Production, requestID)
	}
}
