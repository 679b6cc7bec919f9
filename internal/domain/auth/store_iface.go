package auth

import (
	"context"
	"time"
)

type StoreAPI interface {
	CreateUser(ctx context.Context, user User, passwordHash string) (User, error)
	FindByEmail(ctx context.Context, email string) (Credentials, error)
	GetByID(ctx context.Context, id string) (User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (User, error)
	UpdateLastLogin(ctx context.Context, id string) error
	ListByEmployeeRole(ctx context.Context, employeeRole string, limit, offset int) ([]User, int, error)
	Search(ctx context.Context, firstName, lastName string) ([]User, error)
	Count(ctx context.Context, filter CountFilter) (int, error)
	UpdateEmployeeStatus(ctx context.Context, id, status string) (User, error)
	SignupsByMonth(ctx context.Context, from, until time.Time, employeeRoles []string) ([]SignupCount, error)
}

var _ StoreAPI = (*Store)(nil)
