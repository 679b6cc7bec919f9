package onboarding

import "onboarding/internal/domain/formdata"

const (
	TypeIntern    = "intern"
	TypeTemporary = "temporary"
)

const (
	TableIntern    = "intern_forms"
	TableTemporary = "temporary_forms"
)

type I9Status string

const (
	I9Citizen            I9Status = "US Citizen"
	I9NoncitizenNational I9Status = "Noncitizen National"
	I9PermanentResident  I9Status = "Lawful Permanent Resident"
	I9OtherNoncitizen    I9Status = "Other Noncitizen"
)

type CitizenshipStatus string

const (
	CitizenshipCitizen           CitizenshipStatus = "citizen"
	CitizenshipResident          CitizenshipStatus = "resident"
	CitizenshipWorkAuthorization CitizenshipStatus = "workauth"
)

const (
	MaritalSingle          = "single"
	MaritalMarried         = "married"
	MaritalMarriedSeparate = "marriedSeparate"
)

const (
	Yes = "Yes"
	No  = "No"
)

const (
	DepositFull    = "full"
	DepositPartial = "partial"
)

const (
	AccountChecking = "Checking"
	AccountSavings  = "Savings"
)

const (
	Graduated    = "Graduated"
	NotGraduated = "Not Graduate"
)

const (
	EmploymentIntern    = "Intern"
	EmploymentTemporary = "Temporary"
)

// DefaultOtherNames is written when the I-9 omits other last names used.
const DefaultOtherNames = "None"

var educationLevels = []string{
	"High School",
	"College",
	"Graduate / Professional",
	"Trade / Correspondence",
}

var (
	sectionsIntern    = []string{"generalInfo", "bankForm", "i9Form", "w4Form", "citizenShipForm"}
	sectionsTemporary = append(append([]string{}, sectionsIntern...),
		"employeeInfo", "drivingLicenceInfo", "applicantCartification", "accidentProcedure", "submittalPolicy")
)

// Slot routes uploads onto the section found at Path.
type Slot struct {
	Path  string
	Files formdata.FileTable
}

var citizenshipFiles = formdata.FileTable{
	"photoID":                   {"photoIdImage", "photoIdPdf"},
	"socialSecurityCard":        {"socialSecurityImage", "socialSecurityPdf"},
	"residentCard":              {"residentCardImage", "residentCardPdf"},
	"workAuthorizationDocument": {"workAuthorizationImage", "workAuthorizationPdf"},
}

var slotsIntern = []Slot{
	{Path: "generalInfo", Files: formdata.FileTable{"signature": {"employeeSignature1"}}},
	{Path: "bankForm", Files: formdata.FileTable{
		"accountFile": {"directDepositImage", "directDepositPdf"},
		"signature":   {"employeeSignature2"},
	}},
	{Path: "i9Form", Files: formdata.FileTable{"signature": {"employeeSignature3"}}},
	{Path: "w4Form", Files: formdata.FileTable{"signature": {"employeeSignature4"}}},
	{Path: "citizenShipForm", Files: citizenshipFiles},
}

var slotsTemporary = []Slot{
	{Path: "generalInfo", Files: formdata.FileTable{"signature": {"employeeSignature1"}}},
	{Path: "applicantCartification", Files: formdata.FileTable{"signature": {"employeeSignature2"}}},
	{Path: "substanceAbusepolicy", Files: formdata.FileTable{"signature": {"employeeSignature3"}}},
	{Path: "accidentProcedure", Files: formdata.FileTable{"signature": {"employeeSignature4"}}},
	{Path: "submittalPolicy.submittalPolicyDirectUnderstand", Files: formdata.FileTable{"signature": {"employeeSignature5"}}},
	{Path: "submittalPolicy.submittalPolicyExplainUnderstand", Files: formdata.FileTable{"signature": {"employeeSignature6"}}},
	{Path: "bankForm", Files: formdata.FileTable{
		"accountFile": {"directDepositImage", "directDepositPdf"},
		"signature":   {"employeeSignature7"},
	}},
	{Path: "i9Form", Files: formdata.FileTable{"signature": {"employeeSignature8"}}},
	{Path: "w4Form", Files: formdata.FileTable{"signature": {"employeeSignature9"}}},
	{Path: "submittalPolicy", Files: formdata.FileTable{"signature": {"employeeSignature10"}}},
	{Path: "citizenShipForm", Files: citizenshipFiles},
}

// Company letterhead printed on every generated document.
const (
	CompanyName    = "CBYRAC, INC"
	CompanyStreet  = "633 NE 167TH STREET, SUITE 709"
	CompanyCity    = "NORTH MIAMI BEACH, FL. 33162"
	CompanyContact = "PH: 786-403-5043 | E-MAIL: cbyracinc@gmail.com"
)
