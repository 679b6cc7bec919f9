package adminforms

import (
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339, "01/02/2006"}

// fields renders a stored form back into submitted field values so a
// partial update can be overlaid and checked like a new submission.
func fields(f JobForm) map[string]string {
	out := map[string]string{
		"checkOne":       f.CheckOne,
		"jobStatus":      f.JobStatus,
		"jobDescription": f.JobDescription,
		"wcCode":         f.WCCode,
		"payRate":        f.PayRate,
		"salaryAmount":   formatFloat(&f.SalaryAmount),
		"receivedBy":     f.ReceivedBy,
	}
	if !f.HireDate.IsZero() {
		out["hireDate"] = f.HireDate.Format(time.RFC3339)
	}
	if !f.ReceivedDate.IsZero() {
		out["receivedDate"] = f.ReceivedDate.Format(time.RFC3339)
	}
	if f.TerminateDate != nil {
		out["terminateDate"] = f.TerminateDate.Format(time.RFC3339)
	}
	out["regularRateSalary"] = formatFloat(f.RegularRateSalary)
	out["otRate"] = formatFloat(f.OTRate)
	out["workHoursPerPeriod"] = formatFloat(f.WorkHoursPerPeriod)
	return out
}

func parseForm(values map[string]string) (JobForm, error) {
	get := func(key string) string { return strings.TrimSpace(values[key]) }
	f := JobForm{
		CheckOne:       get("checkOne"),
		JobStatus:      get("jobStatus"),
		JobDescription: get("jobDescription"),
		WCCode:         get("wcCode"),
		PayRate:        get("payRate"),
		ReceivedBy:     get("receivedBy"),
	}

	var err error
	if f.HireDate, err = parseDate("hireDate", get("hireDate")); err != nil {
		return JobForm{}, err
	}
	if f.ReceivedDate, err = parseDate("receivedDate", get("receivedDate")); err != nil {
		return JobForm{}, err
	}
	if raw := get("terminateDate"); raw != "" {
		d, err := parseDate("terminateDate", raw)
		if err != nil {
			return JobForm{}, err
		}
		f.TerminateDate = &d
	}

	salary, err := parseFloat("salaryAmount", get("salaryAmount"))
	if err != nil {
		return JobForm{}, err
	}
	if salary == nil {
		return JobForm{}, &ValidationError{Field: "salaryAmount", Reason: "is required"}
	}
	f.SalaryAmount = *salary
	if f.RegularRateSalary, err = parseFloat("regularRateSalary", get("regularRateSalary")); err != nil {
		return JobForm{}, err
	}
	if f.OTRate, err = parseFloat("otRate", get("otRate")); err != nil {
		return JobForm{}, err
	}
	if f.WorkHoursPerPeriod, err = parseFloat("workHoursPerPeriod", get("workHoursPerPeriod")); err != nil {
		return JobForm{}, err
	}
	return f, nil
}

func parseDate(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &ValidationError{Field: field, Reason: "must be a valid date"}
}

func parseFloat(field, raw string) (*float64, error) {
	if raw == "" || raw == "null" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &ValidationError{Field: field, Reason: "must be a number"}
	}
	return &v, nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
