package adminforms

const Table = "admin_job_forms"

const (
	CheckNewHire = "newHire"
	CheckRehire  = "rehire"
)

const (
	JobStatusFullTime = "fullTime"
	JobStatusPartTime = "partTime"
)

const (
	PayRateHourly          = "hourly"
	PayRateSalaryExempt    = "salaryExempt"
	PayRateSalaryNonExempt = "salaryNonExempt"
)

// FileField is the multipart field carrying the signed receipt.
const FileField = "image"
