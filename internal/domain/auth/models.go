package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID             string     `json:"id"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	EmployeeRole   string     `json:"employee_role"`
	Contact        string     `json:"contact,omitempty"`
	Location       string     `json:"location,omitempty"`
	Status         string     `json:"status"`
	EmployeeStatus string     `json:"employee_status"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Credentials is a user together with the stored password hash.
type Credentials struct {
	User
	PasswordHash string
}

type RegisterInput struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	EmployeeRole string `json:"employee_role"`
	Contact      string `json:"contact"`
	Location     string `json:"location"`
}

// ProfileUpdate holds the profile fields a user may change; nil fields are
// left as stored.
type ProfileUpdate struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Contact   *string `json:"contact"`
	Location  *string `json:"location"`
}

type Session struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	User        User      `json:"user"`
}

// UserContext is the authenticated caller attached to a request.
type UserContext struct {
	UserID       string
	Role         string
	EmployeeRole string
}

type Claims struct {
	UserID       string `json:"uid"`
	Role         string `json:"role"`
	EmployeeRole string `json:"employeeRole,omitempty"`
	jwt.RegisteredClaims
}

// CountFilter narrows a user count. Zero values match everything.
type CountFilter struct {
	EmployeeRole string
	ExcludeRole  string
	From         time.Time
	Until        time.Time
}

type RoleStat struct {
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

type Stats struct {
	Users     RoleStat `json:"users"`
	Intern    RoleStat `json:"intern"`
	Temporary RoleStat `json:"temporary"`
}

// SignupCount is the number of users of one employee role created in one
// month (1-12).
type SignupCount struct {
	Month        int
	EmployeeRole string
	Count        int
}

type MonthStat struct {
	Month     string `json:"month"`
	Intern    int    `json:"intern"`
	Temporary int    `json:"temporary"`
}
