package onboarding

import (
	"encoding/json"

	"onboarding/internal/platform/docstore"
)

type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

type Education struct {
	Level            string `json:"level"`
	Name             string `json:"name"`
	Major            string `json:"major"`
	GraduationStatus string `json:"graduationStatus,omitempty"`
	YearsCompleted   string `json:"yearsCompleted,omitempty"`
	HonorsReceived   string `json:"honorsReceived"`
}

type GeneralInfo struct {
	FirstName                string           `json:"firstName"`
	MiddleName               string           `json:"middleName"`
	LastName                 string           `json:"lastName"`
	SSN                      string           `json:"ssn"`
	DateOfBirth              string           `json:"dateOfBirth"`
	ApplicationDate          string           `json:"applicationDate"`
	Email                    string           `json:"email"`
	TelephoneNumber          string           `json:"telephoneNumber"`
	Address                  string           `json:"address"`
	EmergencyContact         EmergencyContact `json:"emergencyContact"`
	DesiredEmploymentType    string           `json:"desiredEmploymentType,omitempty"`
	DesiredSalary            string           `json:"desiredSalary,omitempty"`
	HourlyRate               string           `json:"hourlyRate,omitempty"`
	AppliedPosition          string           `json:"appliedPosition,omitempty"`
	Department               string           `json:"department,omitempty"`
	Overtime                 string           `json:"overtime,omitempty"`
	StartDate                string           `json:"startDate,omitempty"`
	PreviouslyApplied        bool             `json:"previouslyApplied"`
	PreviousApplicationDate  string           `json:"previousApplicationDate,omitempty"`
	PreviouslyEmployed       bool             `json:"previouslyEmployed"`
	PreviousSeparationReason string           `json:"previousSeparationReason,omitempty"`
	Education                []Education      `json:"education"`
	SpecialSkills            string           `json:"specialSkills"`
	Signature                string           `json:"signature,omitempty"`
}

type BankAccount struct {
	BankName          string `json:"bankName"`
	State             string `json:"state,omitempty"`
	TransitNo         string `json:"transitNo"`
	AccountNo         string `json:"accountNo"`
	DepositType       string `json:"depositType,omitempty"`
	DepositPercentage int64  `json:"depositPercentage"`
	AccountType       string `json:"accountType"`
}

type BankForm struct {
	Name            string       `json:"name"`
	SSN             string       `json:"ssn"`
	CheckingAccount BankAccount  `json:"checkingAccount"`
	SavingsAccount  *BankAccount `json:"savingsAccount,omitempty"`
	AccountFile     string       `json:"accountFile,omitempty"`
	Signature       string       `json:"signature,omitempty"`
	SignatureDate   string       `json:"signatureDate,omitempty"`
}

// PermanentResident holds the I-9 fields for a lawful permanent resident.
type PermanentResident struct {
	USCISNumber string
}

// OtherNoncitizen holds the I-9 fields for an alien authorized to work.
type OtherNoncitizen struct {
	USCISNumber           string
	AdmissionNumber       string
	ForeignPassportNumber string
}

// I9Form is a tagged union on Status. At most one of Permanent and Other is
// set and only when Status selects it; JSON flattens the active variant
// next to the identity fields.
type I9Form struct {
	LastName      string
	FirstName     string
	MiddleName    string
	OtherNames    string
	Address       string
	DateOfBirth   string
	SSN           string
	Email         string
	Phone         string
	Status        I9Status
	Permanent     *PermanentResident
	Other         *OtherNoncitizen
	Signature     string
	SignatureDate string
}

type i9Wire struct {
	LastName              string   `json:"lastName"`
	FirstName             string   `json:"firstName"`
	MiddleName            string   `json:"middleName"`
	OtherNames            string   `json:"otherNames"`
	Address               string   `json:"address"`
	DateOfBirth           string   `json:"dateOfBirth"`
	SSN                   string   `json:"ssn"`
	Email                 string   `json:"email"`
	Phone                 string   `json:"phone"`
	Status                I9Status `json:"status"`
	USCISNumber           string   `json:"uscisNumber,omitempty"`
	AdmissionNumber       string   `json:"admissionNumber,omitempty"`
	ForeignPassportNumber string   `json:"foreignPassportNumber,omitempty"`
	Signature             string   `json:"signature,omitempty"`
	SignatureDate         string   `json:"signatureDate,omitempty"`
}

func (f I9Form) MarshalJSON() ([]byte, error) {
	wire := i9Wire{
		LastName:      f.LastName,
		FirstName:     f.FirstName,
		MiddleName:    f.MiddleName,
		OtherNames:    f.OtherNames,
		Address:       f.Address,
		DateOfBirth:   f.DateOfBirth,
		SSN:           f.SSN,
		Email:         f.Email,
		Phone:         f.Phone,
		Status:        f.Status,
		Signature:     f.Signature,
		SignatureDate: f.SignatureDate,
	}
	switch {
	case f.Status == I9PermanentResident && f.Permanent != nil:
		wire.USCISNumber = f.Permanent.USCISNumber
	case f.Status == I9OtherNoncitizen && f.Other != nil:
		wire.USCISNumber = f.Other.USCISNumber
		wire.AdmissionNumber = f.Other.AdmissionNumber
		wire.ForeignPassportNumber = f.Other.ForeignPassportNumber
	}
	return json.Marshal(wire)
}

func (f *I9Form) UnmarshalJSON(data []byte) error {
	var wire i9Wire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*f = I9Form{
		LastName:      wire.LastName,
		FirstName:     wire.FirstName,
		MiddleName:    wire.MiddleName,
		OtherNames:    wire.OtherNames,
		Address:       wire.Address,
		DateOfBirth:   wire.DateOfBirth,
		SSN:           wire.SSN,
		Email:         wire.Email,
		Phone:         wire.Phone,
		Status:        wire.Status,
		Signature:     wire.Signature,
		SignatureDate: wire.SignatureDate,
	}
	switch wire.Status {
	case I9PermanentResident:
		f.Permanent = &PermanentResident{USCISNumber: wire.USCISNumber}
	case I9OtherNoncitizen:
		f.Other = &OtherNoncitizen{
			USCISNumber:           wire.USCISNumber,
			AdmissionNumber:       wire.AdmissionNumber,
			ForeignPassportNumber: wire.ForeignPassportNumber,
		}
	}
	return nil
}

// USCISNumber returns the number carried by whichever variant is active.
func (f I9Form) USCISNumber() string {
	switch {
	case f.Permanent != nil:
		return f.Permanent.USCISNumber
	case f.Other != nil:
		return f.Other.USCISNumber
	}
	return ""
}

type W4Form struct {
	FirstName              string `json:"firstName"`
	MiddleName             string `json:"middleName"`
	LastName               string `json:"lastName"`
	SSN                    string `json:"ssn"`
	Address                string `json:"address"`
	MaritalStatus          string `json:"maritalStatus"`
	AcceptedTerms          bool   `json:"acceptedTerms"`
	QualifyingChildrenNo   int64  `json:"qualifyingChildrenNo"`
	Amount                 int64  `json:"amount"`
	ChildrenDepencyNo      int64  `json:"childrenDepencyNo"`
	TotalDependencyAmount  int64  `json:"TotalDependencyAmount"`
	ExtraWithHoldingAmount int64  `json:"extraWithHoldingAmount"`
	Signature              string `json:"signature,omitempty"`
	SignatureDate          string `json:"signatureDate,omitempty"`
}

// CitizenshipForm carries only the documents valid for its status: every
// status has photoID and socialSecurityCard, resident adds residentCard and
// workauth adds workAuthorizationDocument.
type CitizenshipForm struct {
	Status                    CitizenshipStatus `json:"citizenshipStatus"`
	PhotoID                   string            `json:"photoID,omitempty"`
	SocialSecurityCard        string            `json:"socialSecurityCard,omitempty"`
	ResidentCard              string            `json:"residentCard,omitempty"`
	WorkAuthorizationDocument string            `json:"workAuthorizationDocument,omitempty"`
}

type Intern struct {
	docstore.Meta
	GeneralInfo     GeneralInfo     `json:"generalInfo"`
	BankForm        BankForm        `json:"bankForm"`
	I9Form          I9Form          `json:"i9Form"`
	W4Form          W4Form          `json:"w4Form"`
	CitizenShipForm CitizenshipForm `json:"citizenShipForm"`
}

type PreviousEmployer struct {
	Name               string `json:"name"`
	Address            string `json:"address"`
	Telephone          string `json:"telephone"`
	DateEmployeeFrom   string `json:"dateEmployeeFrom,omitempty"`
	DateEmployeeTo     string `json:"dateEmployeeTo,omitempty"`
	JobTitle           string `json:"jobTitle"`
	Duties             string `json:"duties"`
	SupervisorName     string `json:"supervisorName"`
	MayWeContact       bool   `json:"MayWeContact"`
	WagesStart         string `json:"wagesStart"`
	Final              string `json:"final"`
	ReasonForLeaving   string `json:"reasonForLeaving"`
	TerminationReason  string `json:"terminationReason"`
	DisciplinaryAction string `json:"disciplinaryAction"`
	NoticePeriod       string `json:"noticePeriod"`
}

type TerminationInfo struct {
	TerminationStatus string `json:"terminationStatus"`
	TerminationCount  int64  `json:"terminationCount,omitempty"`
}

type ManualAgreementTermination struct {
	TerminatedByManualAgreement string `json:"terminatedByManualAgreement"`
	TerminationCount            int64  `json:"terminationCount,omitempty"`
}

type ResignationInsteadOfTermination struct {
	ResignedInsteadOfTerminated string `json:"resignedInsteadOfTerminated"`
	ResignationCount            int64  `json:"resignationCount,omitempty"`
}

type Reference struct {
	Name           string `json:"name"`
	Position       string `json:"position"`
	Company        string `json:"company"`
	Telephone      string `json:"telephone"`
	Occupation     string `json:"occupation"`
	BestTimeToCall string `json:"bestTimeToCall"`
	WorkRelation   string `json:"workRelation"`
	NoOfYearKnown  string `json:"NoOfYearKnown"`
}

type EmployeeInfo struct {
	Employee1                       PreviousEmployer                `json:"employee1"`
	Employee2                       PreviousEmployer                `json:"employee2"`
	TerminationInfo                 TerminationInfo                 `json:"terminationInfo"`
	ManualAgreementTermination      ManualAgreementTermination      `json:"manualAgreementTermination"`
	ResignationInsteadOfTermination ResignationInsteadOfTermination `json:"resignationInsteadOfTermination"`
	Explanation                     string                          `json:"explanation,omitempty"`
	TerminationDetailsOfEmployee    []Reference                     `json:"terminationDetailsOfEmployee"`
}

type DriverLicense struct {
	HasDriverLicense string `json:"hasDriverLicense"`
	LicenseNo        string `json:"licenseNo"`
	State            string `json:"state"`
	ExpirationDate   string `json:"expirationDate,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

type LicenseSuspension struct {
	LicenseSuspendedOrRevoked string `json:"licenseSuspendedOrRevoked"`
	Reason                    string `json:"reason,omitempty"`
}

type AutoInsurance struct {
	HasPersonalAutoInsurance string `json:"hasPersonalAutoInsurance"`
	Reason                   string `json:"reason,omitempty"`
}

type AutoInsuranceHistory struct {
	InsuranceDeniedOrTerminated string `json:"insuranceDeniedOrTerminated"`
	Reason                      string `json:"reason,omitempty"`
}

type TrafficViolation struct {
	Offense  string `json:"offense"`
	Date     string `json:"date,omitempty"`
	Location string `json:"location"`
	Comment  string `json:"comment"`
}

type DrivingLicenceInfo struct {
	ValidDriverLicense           DriverLicense        `json:"validDriverLicense"`
	LicenseSuspensionInfo        LicenseSuspension    `json:"licenseSuspensionInfo"`
	PersonalAutoInsurance        AutoInsurance        `json:"personalAutoInsurance"`
	PersonalAutoInsuranceHistory AutoInsuranceHistory `json:"personalAutoInsuranceHistory"`
	MovingTrafficViolation       []TrafficViolation   `json:"movingTrafficViolation"`
}

// Acknowledgement is a policy checkbox with its own signature.
type Acknowledgement struct {
	Check         bool   `json:"check"`
	Signature     string `json:"signature,omitempty"`
	SignatureDate string `json:"signatureDate,omitempty"`
}

type PolicyUnderstanding struct {
	Check     bool   `json:"check"`
	Name      string `json:"name"`
	Signature string `json:"signature,omitempty"`
}

type SubmittalPolicy struct {
	SubmittalPolicyDirectUnderstand  PolicyUnderstanding `json:"submittalPolicyDirectUnderstand"`
	SubmittalPolicyExplainUnderstand PolicyUnderstanding `json:"submittalPolicyExplainUnderstand"`
	Check                            bool                `json:"check"`
	Signature                        string              `json:"signature,omitempty"`
}

type Temporary struct {
	docstore.Meta
	GeneralInfo             GeneralInfo        `json:"generalInfo"`
	EmployeeInfo            EmployeeInfo       `json:"employeeInfo"`
	DrivingLicenceInfo      DrivingLicenceInfo `json:"drivingLicenceInfo"`
	ApplicantCartification  Acknowledgement    `json:"applicantCartification"`
	ApplicationCarification Acknowledgement    `json:"applicationCarification"`
	SubstanceAbusepolicy    *Acknowledgement   `json:"substanceAbusepolicy,omitempty"`
	AccidentProcedure       Acknowledgement    `json:"accidentProcedure"`
	SubmittalPolicy         SubmittalPolicy    `json:"submittalPolicy"`
	BankForm                BankForm           `json:"bankForm"`
	I9Form                  I9Form             `json:"i9Form"`
	W4Form                  W4Form             `json:"w4Form"`
	CitizenShipForm         CitizenshipForm    `json:"citizenShipForm"`
}

// PDF is a rendered form ready to be sent as an attachment.
type PDF struct {
	Filename string
	Data     []byte
}
