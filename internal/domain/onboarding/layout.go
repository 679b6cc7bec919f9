package onboarding

import (
	"strconv"
	"strings"
	"time"

	"onboarding/internal/platform/pdf"
)

const (
	titleApplication = "APPLICATION FOR EMPLOYMENT"
	titleDeposit     = "EMPLOYEE DIRECT DEPOSIT AUTHORIZATION AGREEMENT (ACH CREDIT & DEBITS)"
	titleI9          = "EMPLOYMENT ELIGIBILITY VERIFICATION (FORM I-9)"
	titleW4          = "EMPLOYEE'S WITHHOLDING CERTIFICATE (FORM W-4)"
	titleHistory     = "EMPLOYMENT HISTORY"
	titleDriving     = "DRIVING RECORD"
	titlePolicies    = "POLICY ACKNOWLEDGEMENTS"
)

// Letterhead is printed at the top of every onboarding document.
func Letterhead() pdf.Letterhead {
	return pdf.Letterhead{Name: CompanyName, Lines: []string{CompanyStreet, CompanyCity, CompanyContact}}
}

// InternDocument lays out an intern record. Every field is always placed so
// blank answers keep their slot.
func InternDocument(rec Intern) pdf.Document {
	return pdf.Document{
		Title:     documentTitle("Intern", rec.GeneralInfo),
		Author:    CompanyName,
		CreatedAt: rec.CreatedAt,
		Pages: []pdf.Page{
			applicationPage(rec.GeneralInfo),
			depositPage(rec.BankForm),
			i9Page(rec.I9Form, rec.CitizenShipForm),
			w4Page(rec.W4Form),
		},
	}
}

func TemporaryDocument(rec Temporary) pdf.Document {
	return pdf.Document{
		Title:     documentTitle("Temporary Employee", rec.GeneralInfo),
		Author:    CompanyName,
		CreatedAt: rec.CreatedAt,
		Pages: []pdf.Page{
			applicationPage(rec.GeneralInfo),
			historyPage(rec.EmployeeInfo),
			drivingPage(rec.DrivingLicenceInfo),
			policiesPage(rec),
			depositPage(rec.BankForm),
			i9Page(rec.I9Form, rec.CitizenShipForm),
			w4Page(rec.W4Form),
		},
	}
}

func documentTitle(kind string, info GeneralInfo) string {
	name := strings.TrimSpace(info.LastName + ", " + info.FirstName)
	if name == "," {
		return kind + " Onboarding"
	}
	return kind + " Onboarding - " + strings.Trim(name, ", ")
}

func applicationPage(info GeneralInfo) pdf.Page {
	education := pdf.Section{Heading: "Education", Columns: 3}
	for _, row := range info.Education {
		education.Fields = append(education.Fields,
			pdf.Text("Level", row.Level),
			pdf.Text("School Name", row.Name),
			pdf.Text("Major", row.Major),
			pdf.Text("Graduation Status", row.GraduationStatus),
			pdf.Text("Years Completed", row.YearsCompleted),
			pdf.Text("Honors Received", row.HonorsReceived),
		)
	}
	return pdf.Page{
		Title: titleApplication,
		Sections: []pdf.Section{
			{Heading: "Personal Information", Columns: 3, Fields: []pdf.Field{
				pdf.Text("Last Name", info.LastName),
				pdf.Text("First Name", info.FirstName),
				pdf.Text("Middle Name", info.MiddleName),
				pdf.Text("Social Security Number", formatSSN(info.SSN)),
				pdf.Text("Date of Birth", formatDate(info.DateOfBirth)),
				pdf.Text("Application Date", formatDate(info.ApplicationDate)),
				pdf.Text("Email", info.Email),
				pdf.Text("Telephone", formatPhone(info.TelephoneNumber)),
				pdf.Wide("Address", info.Address),
			}},
			{Heading: "Emergency Contact", Columns: 3, Fields: []pdf.Field{
				pdf.Text("Name", info.EmergencyContact.Name),
				pdf.Text("Relationship", info.EmergencyContact.Relationship),
				pdf.Text("Phone", formatPhone(info.EmergencyContact.Phone)),
			}},
			{Heading: "Employment Desired", Columns: 3, Fields: []pdf.Field{
				pdf.Text("Employment Type", info.DesiredEmploymentType),
				pdf.Text("Desired Salary", info.DesiredSalary),
				pdf.Text("Hourly Rate", info.HourlyRate),
				pdf.Text("Position Applied For", info.AppliedPosition),
				pdf.Text("Department", info.Department),
				pdf.Text("Available for Overtime", info.Overtime),
				pdf.Text("Start Date", formatDate(info.StartDate)),
				pdf.Text("Previously Applied", yesNoText(info.PreviouslyApplied)),
				pdf.Text("Previous Application Date", formatDate(info.PreviousApplicationDate)),
				pdf.Text("Previously Employed Here", yesNoText(info.PreviouslyEmployed)),
				pdf.Wide("Reason for Separation", info.PreviousSeparationReason),
			}},
			education,
			{Heading: "Special Skills", Fields: []pdf.Field{
				pdf.Wide("Skills", info.SpecialSkills),
				pdf.Signature("Applicant Signature", info.Signature),
			}},
		},
	}
}

func depositPage(form BankForm) pdf.Page {
	savings := BankAccount{AccountType: AccountSavings}
	if form.SavingsAccount != nil {
		savings = *form.SavingsAccount
	}
	return pdf.Page{
		Title: titleDeposit,
		Sections: []pdf.Section{
			{Heading: "Account Holder", Fields: []pdf.Field{
				pdf.Text("Employee Name", form.Name),
				pdf.Text("Social Security Number", formatSSN(form.SSN)),
			}},
			accountSection("Checking Account", form.CheckingAccount),
			accountSection("Savings Account", savings),
			{Heading: "Authorization", Fields: []pdf.Field{
				pdf.Signature("Voided Check / Bank Letter", form.AccountFile),
				pdf.Text("Date", formatDate(form.SignatureDate)),
				pdf.Signature("Employee Signature", form.Signature),
			}},
		},
	}
}

func accountSection(heading string, account BankAccount) pdf.Section {
	return pdf.Section{Heading: heading, Columns: 3, Fields: []pdf.Field{
		pdf.Text("Bank Name", account.BankName),
		pdf.Text("State", account.State),
		pdf.Text("Account Type", account.AccountType),
		pdf.Text("Transit / ABA No.", account.TransitNo),
		pdf.Text("Account No.", account.AccountNo),
		pdf.Text("Deposit", depositText(account)),
	}}
}

func i9Page(form I9Form, citizenship CitizenshipForm) pdf.Page {
	var admission, passport string
	if form.Other != nil {
		admission = form.Other.AdmissionNumber
		passport = form.Other.ForeignPassportNumber
	}
	return pdf.Page{
		Title: titleI9,
		Sections: []pdf.Section{
			{Heading: "Section 1. Employee Information and Attestation", Columns: 3, Fields: []pdf.Field{
				pdf.Text("Last Name", form.LastName),
				pdf.Text("First Name", form.FirstName),
				pdf.Text("Middle Initial", form.MiddleName),
				pdf.Text("Other Last Names Used", form.OtherNames),
				pdf.Text("Date of Birth", formatDate(form.DateOfBirth)),
				pdf.Text("Social Security Number", formatSSN(form.SSN)),
				pdf.Wide("Address", form.Address),
				pdf.Text("Email", form.Email),
				pdf.Text("Telephone", formatPhone(form.Phone)),
			}},
			{Heading: "Citizenship / Immigration Status", Columns: 3, Fields: []pdf.Field{
				pdf.Wide("Status", string(form.Status)),
				pdf.Text("USCIS / A-Number", form.USCISNumber()),
				pdf.Text("Form I-94 Admission No.", admission),
				pdf.Text("Foreign Passport No.", passport),
				pdf.Signature("Employee Signature", form.Signature),
				pdf.Text("Date", formatDate(form.SignatureDate)),
			}},
			{Heading: "Supporting Documents", Fields: []pdf.Field{
				pdf.Wide("Citizenship Status", string(citizenship.Status)),
				pdf.Signature("Photo ID", citizenship.PhotoID),
				pdf.Signature("Social Security Card", citizenship.SocialSecurityCard),
				pdf.Signature("Resident Card", citizenship.ResidentCard),
				pdf.Signature("Work Authorization", citizenship.WorkAuthorizationDocument),
			}},
		},
	}
}

func w4Page(form W4Form) pdf.Page {
	return pdf.Page{
		Title: titleW4,
		Sections: []pdf.Section{
			{Heading: "Step 1: Personal Information", Columns: 3, Fields: []pdf.Field{
				pdf.Text("First Name", form.FirstName),
				pdf.Text("Middle Name", form.MiddleName),
				pdf.Text("Last Name", form.LastName),
				pdf.Text("Social Security Number", formatSSN(form.SSN)),
				pdf.Text("Filing Status", maritalText(form.MaritalStatus)),
				pdf.Wide("Address", form.Address),
			}},
			{Heading: "Step 3: Claim Dependents", Columns: 3, Fields: []pdf.Field{
				pdf.Text("Qualifying Children", optionalNumber(form.QualifyingChildrenNo)),
				pdf.Text("Amount", money(form.Amount)),
				pdf.Text("Other Dependents", optionalNumber(form.ChildrenDepencyNo)),
				pdf.Text("Total Dependent Amount", money(form.TotalDependencyAmount)),
			}},
			{Heading: "Step 4: Other Adjustments", Fields: []pdf.Field{
				pdf.Text("Extra Withholding", money(form.ExtraWithHoldingAmount)),
				pdf.Text("Accepted Terms", yesNoText(form.AcceptedTerms)),
			}},
			{Heading: "Step 5: Sign Here", Fields: []pdf.Field{
				pdf.Signature("Employee Signature", form.Signature),
				pdf.Text("Date", formatDate(form.SignatureDate)),
			}},
		},
	}
}

func historyPage(info EmployeeInfo) pdf.Page {
	sections := []pdf.Section{
		employerSection("Previous Employer 1", info.Employee1),
		employerSection("Previous Employer 2", info.Employee2),
		{Heading: "Termination History", Columns: 3, Fields: []pdf.Field{
			pdf.Text("Ever Terminated", info.TerminationInfo.TerminationStatus),
			pdf.Text("Times", optionalNumber(info.TerminationInfo.TerminationCount)),
			pdf.Text("", ""),
			pdf.Text("Left by Mutual Agreement", info.ManualAgreementTermination.TerminatedByManualAgreement),
			pdf.Text("Times", optionalNumber(info.ManualAgreementTermination.TerminationCount)),
			pdf.Text("", ""),
			pdf.Text("Resigned Instead of Terminated", info.ResignationInsteadOfTermination.ResignedInsteadOfTerminated),
			pdf.Text("Times", optionalNumber(info.ResignationInsteadOfTermination.ResignationCount)),
			pdf.Wide("Explanation", info.Explanation),
		}},
	}
	references := pdf.Section{Heading: "References", Columns: 4}
	for _, ref := range info.TerminationDetailsOfEmployee {
		references.Fields = append(references.Fields,
			pdf.Text("Name", ref.Name),
			pdf.Text("Position", ref.Position),
			pdf.Text("Company", ref.Company),
			pdf.Text("Telephone", formatPhone(ref.Telephone)),
			pdf.Text("Occupation", ref.Occupation),
			pdf.Text("Best Time to Call", ref.BestTimeToCall),
			pdf.Text("Relation", ref.WorkRelation),
			pdf.Text("Years Known", ref.NoOfYearKnown),
		)
	}
	return pdf.Page{Title: titleHistory, Sections: append(sections, references)}
}

func employerSection(heading string, e PreviousEmployer) pdf.Section {
	return pdf.Section{Heading: heading, Columns: 3, Fields: []pdf.Field{
		pdf.Text("Employer", e.Name),
		pdf.Text("Telephone", formatPhone(e.Telephone)),
		pdf.Text("May We Contact", yesNoText(e.MayWeContact)),
		pdf.Wide("Address", e.Address),
		pdf.Text("From", formatDate(e.DateEmployeeFrom)),
		pdf.Text("To", formatDate(e.DateEmployeeTo)),
		pdf.Text("Job Title", e.JobTitle),
		pdf.Text("Supervisor", e.SupervisorName),
		pdf.Text("Starting Wage", e.WagesStart),
		pdf.Text("Final Wage", e.Final),
		pdf.Wide("Duties", e.Duties),
		pdf.Wide("Reason for Leaving", e.ReasonForLeaving),
		pdf.Text("Termination Reason", e.TerminationReason),
		pdf.Text("Disciplinary Action", e.DisciplinaryAction),
		pdf.Text("Notice Given", e.NoticePeriod),
	}}
}

func drivingPage(info DrivingLicenceInfo) pdf.Page {
	license := info.ValidDriverLicense
	violations := pdf.Section{Heading: "Moving Traffic Violations (last 3 years)", Columns: 4}
	for _, v := range info.MovingTrafficViolation {
		violations.Fields = append(violations.Fields,
			pdf.Text("Offense", v.Offense),
			pdf.Text("Date", formatDate(v.Date)),
			pdf.Text("Location", v.Location),
			pdf.Text("Comment", v.Comment),
		)
	}
	return pdf.Page{
		Title: titleDriving,
		Sections: []pdf.Section{
			{Heading: "Driver License", Columns: 3, Fields: []pdf.Field{
				pdf.Text("Valid Driver License", license.HasDriverLicense),
				pdf.Text("License No.", license.LicenseNo),
				pdf.Text("State", license.State),
				pdf.Text("Expiration Date", formatDate(license.ExpirationDate)),
				pdf.Wide("Reason", license.Reason),
			}},
			{Heading: "License and Insurance History", Fields: []pdf.Field{
				pdf.Text("Suspended or Revoked", info.LicenseSuspensionInfo.LicenseSuspendedOrRevoked),
				pdf.Text("Reason", info.LicenseSuspensionInfo.Reason),
				pdf.Text("Personal Auto Insurance", info.PersonalAutoInsurance.HasPersonalAutoInsurance),
				pdf.Text("Reason", info.PersonalAutoInsurance.Reason),
				pdf.Text("Insurance Denied or Terminated", info.PersonalAutoInsuranceHistory.InsuranceDeniedOrTerminated),
				pdf.Text("Reason", info.PersonalAutoInsuranceHistory.Reason),
			}},
			violations,
		},
	}
}

func policiesPage(rec Temporary) pdf.Page {
	substance := Acknowledgement{}
	if rec.SubstanceAbusepolicy != nil {
		substance = *rec.SubstanceAbusepolicy
	}
	policy := rec.SubmittalPolicy
	return pdf.Page{
		Title: titlePolicies,
		Sections: []pdf.Section{
			acknowledgementSection("Applicant Certification", rec.ApplicantCartification),
			acknowledgementSection("Application Certification", rec.ApplicationCarification),
			acknowledgementSection("Substance Abuse Policy", substance),
			acknowledgementSection("Accident Procedure", rec.AccidentProcedure),
			{Heading: "Submittal Policy", Columns: 3, Fields: []pdf.Field{
				pdf.Text("Understands Directly", checkText(policy.SubmittalPolicyDirectUnderstand.Check)),
				pdf.Text("Name", policy.SubmittalPolicyDirectUnderstand.Name),
				pdf.Signature("Signature", policy.SubmittalPolicyDirectUnderstand.Signature),
				pdf.Text("Understands as Explained", checkText(policy.SubmittalPolicyExplainUnderstand.Check)),
				pdf.Text("Name", policy.SubmittalPolicyExplainUnderstand.Name),
				pdf.Signature("Signature", policy.SubmittalPolicyExplainUnderstand.Signature),
				pdf.Text("Acknowledged", checkText(policy.Check)),
				pdf.Signature("Employee Signature", policy.Signature),
			}},
		},
	}
}

func acknowledgementSection(heading string, ack Acknowledgement) pdf.Section {
	return pdf.Section{Heading: heading, Columns: 3, Fields: []pdf.Field{
		pdf.Text("Acknowledged", checkText(ack.Check)),
		pdf.Signature("Signature", ack.Signature),
		pdf.Text("Date", formatDate(ack.SignatureDate)),
	}}
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02", "01/02/2006"}

// formatDate prints a submitted date as MM/DD/YYYY. Values that do not parse
// are printed as given.
func formatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("01/02/2006")
		}
	}
	return raw
}

func formatSSN(raw string) string {
	d := digits(raw)
	if len(d) != 9 {
		return raw
	}
	return d[:3] + "-" + d[3:5] + "-" + d[5:]
}

func formatPhone(raw string) string {
	d := digits(raw)
	if len(d) == 11 && d[0] == '1' {
		d = d[1:]
	}
	if len(d) != 10 {
		return raw
	}
	return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func optionalNumber(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

func money(n int64) string {
	if n == 0 {
		return ""
	}
	return "$" + strconv.FormatInt(n, 10)
}

func depositText(account BankAccount) string {
	switch account.DepositType {
	case DepositFull:
		return "Full net pay"
	case DepositPartial:
		return strconv.FormatInt(account.DepositPercentage, 10) + "% of net pay"
	}
	return ""
}

func maritalText(status string) string {
	switch status {
	case MaritalSingle:
		return "Single"
	case MaritalMarried:
		return "Married"
	case MaritalMarriedSeparate:
		return "Married, withhold at higher Single rate"
	}
	return status
}

func yesNoText(v bool) string {
	if v {
		return Yes
	}
	return No
}

func checkText(v bool) string {
	if v {
		return "[X]"
	}
	return "[ ]"
}
