package adminforms

import (
	"time"

	"onboarding/internal/platform/docstore"
)

type JobForm struct {
	docstore.Meta
	CheckOne           string     `json:"checkOne" validate:"required,oneof=newHire rehire"`
	JobStatus          string     `json:"jobStatus" validate:"required,oneof=fullTime partTime"`
	JobDescription     string     `json:"jobDescription" validate:"required"`
	WCCode             string     `json:"wcCode" validate:"required"`
	HireDate           time.Time  `json:"hireDate" validate:"required"`
	TerminateDate      *time.Time `json:"terminateDate"`
	PayRate            string     `json:"payRate" validate:"required,oneof=hourly salaryExempt salaryNonExempt"`
	SalaryAmount       float64    `json:"salaryAmount" validate:"gte=0"`
	RegularRateSalary  *float64   `json:"regularRateSalary" validate:"omitempty,gte=0"`
	OTRate             *float64   `json:"otRate" validate:"omitempty,gte=0"`
	WorkHoursPerPeriod *float64   `json:"workHoursPerPeriod" validate:"omitempty,gte=0"`
	ReceivedBy         string     `json:"receivedBy" validate:"required"`
	ReceivedDate       time.Time  `json:"receivedDate" validate:"required"`
}
