package auth

import (
	"context"
	"errors"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"onboarding/internal/platform/docstore"
)

type Service struct {
	Store    StoreAPI
	Secret   string
	TokenTTL time.Duration
	Now      func() time.Time
	validate *validator.Validate
}

func NewService(store StoreAPI, secret string) *Service {
	return &Service{
		Store:    store,
		Secret:   secret,
		TokenTTL: DefaultTokenTTL,
		Now:      time.Now,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type registerRules struct {
	FirstName    string `validate:"required,max=100"`
	LastName     string `validate:"required,max=100"`
	Email        string `validate:"required,email"`
	Password     string `validate:"required,min=8,max=72"`
	EmployeeRole string `validate:"required"`
}

// Register creates an account with the plain user role. Callers cannot grant
// themselves administrator access.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.EmployeeRole = strings.TrimSpace(in.EmployeeRole)

	err := s.validate.Struct(registerRules{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Password:     in.Password,
		EmployeeRole: in.EmployeeRole,
	})
	if err != nil {
		return User{}, inputError(err)
	}
	if !slices.Contains(RegisterableEmployeeRoles, in.EmployeeRole) {
		return User{}, &InputError{Field: "employee_role", Reason: "must be one of " + strings.Join(RegisterableEmployeeRoles, ", ")}
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	return s.Store.CreateUser(ctx, User{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Role:           RoleUser,
		EmployeeRole:   in.EmployeeRole,
		Contact:        strings.TrimSpace(in.Contact),
		Location:       strings.TrimSpace(in.Location),
		Status:         UserStatusActive,
		EmployeeStatus: EmployeeStatusPending,
	}, hash)
}

// Login checks the password and issues an access token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	creds, err := s.Store.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if err := CheckPassword(creds.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if creds.Status != UserStatusActive {
		return Session{}, ErrUserInactive
	}

	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	token, err := GenerateToken(s.Secret, Claims{
		UserID:       creds.ID,
		Role:         creds.Role,
		EmployeeRole: creds.EmployeeRole,
	}, ttl)
	if err != nil {
		return Session{}, err
	}
	if err := s.Store.UpdateLastLogin(ctx, creds.ID); err != nil {
		return Session{}, err
	}
	return Session{AccessToken: token, ExpiresAt: s.Now().Add(ttl), User: creds.User}, nil
}

func (s *Service) Me(ctx context.Context, userID string) (User, error) {
	return s.Store.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (User, error) {
	if update.FirstName != nil && strings.TrimSpace(*update.FirstName) == "" {
		return User{}, &InputError{Field: "firstName", Reason: "must not be empty"}
	}
	if update.LastName != nil && strings.TrimSpace(*update.LastName) == "" {
		return User{}, &InputError{Field: "lastName", Reason: "must not be empty"}
	}
	return s.Store.UpdateProfile(ctx, userID, trimProfile(update))
}

// EmployeesByRole pages through the users holding employeeRole.
func (s *Service) EmployeesByRole(ctx context.Context, employeeRole string, page, limit int) ([]User, docstore.Pagination, error) {
	p := docstore.NewPagination(page, limit, 0)
	users, total, err := s.Store.ListByEmployeeRole(ctx, employeeRole, p.Limit, p.Offset())
	if err != nil {
		return nil, docstore.Pagination{}, err
	}
	return users, docstore.NewPagination(p.Page, p.Limit, total), nil
}

func (s *Service) Search(ctx context.Context, firstName, lastName string) ([]User, error) {
	return s.Store.Search(ctx, strings.TrimSpace(firstName), strings.TrimSpace(lastName))
}

// Stats reports user totals next to their change against last month's
// sign ups. Administrators are not counted as users.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	now := s.Now()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonth := thisMonth.AddDate(0, -1, 0)

	filters := []CountFilter{
		{ExcludeRole: RoleSuperAdmin},
		{ExcludeRole: RoleSuperAdmin, From: lastMonth, Until: thisMonth},
		{EmployeeRole: EmployeeRoleIntern},
		{EmployeeRole: EmployeeRoleIntern, From: lastMonth, Until: thisMonth},
		{EmployeeRole: EmployeeRoleTemporary},
		{EmployeeRole: EmployeeRoleTemporary, From: lastMonth, Until: thisMonth},
	}
	counts := make([]int, len(filters))
	g, gctx := errgroup.WithContext(ctx)
	for i, filter := range filters {
		g.Go(func() error {
			n, err := s.Store.Count(gctx, filter)
			counts[i] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return Stats{
		Users:     RoleStat{Total: counts[0], Percentage: changePercentage(counts[0], counts[1])},
		Intern:    RoleStat{Total: counts[2], Percentage: changePercentage(counts[2], counts[3])},
		Temporary: RoleStat{Total: counts[4], Percentage: changePercentage(counts[4], counts[5])},
	}, nil
}

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// YearlyStats counts intern and temporary sign ups per month of year. The
// current year stops at the current month.
func (s *Service) YearlyStats(ctx context.Context, year int) ([]MonthStat, error) {
	now := s.Now()
	if year <= 0 {
		year = now.Year()
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, now.Location())
	counts, err := s.Store.SignupsByMonth(ctx, from, from.AddDate(1, 0, 0), RegisterableEmployeeRoles)
	if err != nil {
		return nil, err
	}

	months := len(monthNames)
	if year == now.Year() {
		months = int(now.Month())
	}
	out := make([]MonthStat, months)
	for i := range out {
		out[i].Month = monthNames[i]
	}
	for _, c := range counts {
		if c.Month < 1 || c.Month > months {
			continue
		}
		switch c.EmployeeRole {
		case EmployeeRoleIntern:
			out[c.Month-1].Intern = c.Count
		case EmployeeRoleTemporary:
			out[c.Month-1].Temporary = c.Count
		}
	}
	return out, nil
}

// UpdateEmployeeStatus records the administrator's decision on a sign up.
func (s *Service) UpdateEmployeeStatus(ctx context.Context, userID, status string) (User, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !slices.Contains(EmployeeStatuses, status) {
		return User{}, &InputError{Field: "status", Reason: "must be one of " + strings.Join(EmployeeStatuses, ", ")}
	}
	return s.Store.UpdateEmployeeStatus(ctx, userID, status)
}

func changePercentage(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	pct := float64(current-previous) / float64(previous) * 100
	return math.Round(pct*100) / 100
}

func inputError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &InputError{Field: "body", Reason: err.Error()}
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	if fe.Field() == "EmployeeRole" {
		field = "employee_role"
	}
	reason := "is invalid"
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "email":
		reason = "must be a valid email"
	case "min":
		reason = "must be at least " + fe.Param() + " characters"
	case "max":
		reason = "must be at most " + fe.Param() + " characters"
	}
	return &InputError{Field: field, Reason: reason}
}

func trimProfile(update ProfileUpdate) ProfileUpdate {
	trim := func(v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		return &t
	}
	return ProfileUpdate{
		FirstName: trim(update.FirstName),
		LastName:  trim(update.LastName),
		Contact:   trim(update.Contact),
		Location:  trim(update.Location),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
