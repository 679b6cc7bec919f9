package auth

import "time"

const (
	RoleUser       = "USER"
	RoleSuperAdmin = "SUPER_ADMIN"
)

const (
	EmployeeRoleIntern        = "Fit2Lead Intern"
	EmployeeRoleTemporary     = "Temporary Employee"
	EmployeeRoleAdministrator = "Administrator"
)

const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
)

// Employee status is the administrator's review decision on a sign up.
const (
	EmployeeStatusPending = "pending"
	EmployeeStatusApprove = "approve"
	EmployeeStatusReject  = "reject"
)

var EmployeeStatuses = []string{EmployeeStatusPending, EmployeeStatusApprove, EmployeeStatusReject}

const (
	DefaultTokenTTL   = 24 * time.Hour
	MinPasswordLength = 8
)

// RegisterableEmployeeRoles are the employee roles a user may pick at sign up.
var RegisterableEmployeeRoles = []string{EmployeeRoleIntern, EmployeeRoleTemporary}
