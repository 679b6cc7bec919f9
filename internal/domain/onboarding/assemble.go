package onboarding

import (
	"strconv"
	"strings"

	"onboarding/internal/domain/formdata"
)

// AssembleIntern builds an intern record from a parsed body and the stored
// upload paths keyed by multipart field name.
func AssembleIntern(body map[string]any, uploaded map[string]string) (Intern, error) {
	if err := requireSections(body, sectionsIntern); err != nil {
		return Intern{}, err
	}
	mapSlots(body, slotsIntern, uploaded)

	var rec Intern
	var err error
	if rec.GeneralInfo, err = assembleGeneralInfo(formdata.Map(body, "generalInfo")); err != nil {
		return Intern{}, err
	}
	if rec.BankForm, err = assembleBankForm(formdata.Map(body, "bankForm")); err != nil {
		return Intern{}, err
	}
	if rec.I9Form, err = assembleI9(formdata.Map(body, "i9Form")); err != nil {
		return Intern{}, err
	}
	if rec.W4Form, err = assembleW4(formdata.Map(body, "w4Form")); err != nil {
		return Intern{}, err
	}
	if rec.CitizenShipForm, err = assembleCitizenship(formdata.Map(body, "citizenShipForm")); err != nil {
		return Intern{}, err
	}
	return rec, nil
}

// AssembleTemporary builds a temporary-employee record. It shares the five
// core sections with the intern record and adds employment history,
// driving record and policy acknowledgements.
func AssembleTemporary(body map[string]any, uploaded map[string]string) (Temporary, error) {
	if err := requireSections(body, sectionsTemporary); err != nil {
		return Temporary{}, err
	}
	mapSlots(body, slotsTemporary, uploaded)

	var rec Temporary
	var err error
	if rec.GeneralInfo, err = assembleGeneralInfo(formdata.Map(body, "generalInfo")); err != nil {
		return Temporary{}, err
	}
	if rec.EmployeeInfo, err = assembleEmployeeInfo(formdata.Map(body, "employeeInfo")); err != nil {
		return Temporary{}, err
	}
	if rec.DrivingLicenceInfo, err = assembleDrivingLicence(formdata.Map(body, "drivingLicenceInfo")); err != nil {
		return Temporary{}, err
	}
	rec.ApplicantCartification = assembleAcknowledgement(formdata.Map(body, "applicantCartification"))
	rec.ApplicationCarification = assembleAcknowledgement(formdata.Map(body, "applicationCarification"))
	if section := formdata.Map(body, "substanceAbusepolicy"); section != nil {
		ack := assembleAcknowledgement(section)
		rec.SubstanceAbusepolicy = &ack
	}
	rec.AccidentProcedure = assembleAcknowledgement(formdata.Map(body, "accidentProcedure"))
	rec.SubmittalPolicy = assembleSubmittalPolicy(formdata.Map(body, "submittalPolicy"))
	if rec.BankForm, err = assembleBankForm(formdata.Map(body, "bankForm")); err != nil {
		return Temporary{}, err
	}
	if rec.I9Form, err = assembleI9(formdata.Map(body, "i9Form")); err != nil {
		return Temporary{}, err
	}
	if rec.W4Form, err = assembleW4(formdata.Map(body, "w4Form")); err != nil {
		return Temporary{}, err
	}
	if rec.CitizenShipForm, err = assembleCitizenship(formdata.Map(body, "citizenShipForm")); err != nil {
		return Temporary{}, err
	}
	return rec, nil
}

func requireSections(body map[string]any, sections []string) error {
	for _, name := range sections {
		if formdata.Map(body, name) == nil {
			return invalid(name, "section is required")
		}
	}
	return nil
}

// mapSlots resolves upload paths onto their sections. Sections that were not
// submitted stay absent.
func mapSlots(body map[string]any, slots []Slot, uploaded map[string]string) {
	for _, slot := range slots {
		formdata.MapFiles(formdata.Path(body, slot.Path), slot.Files, uploaded)
	}
}

func assembleGeneralInfo(m map[string]any) (GeneralInfo, error) {
	contact := formdata.Map(m, "emergencyContact")
	info := GeneralInfo{
		FirstName:       text(m, "firstName"),
		MiddleName:      text(m, "middleName"),
		LastName:        text(m, "lastName"),
		SSN:             text(m, "ssn"),
		DateOfBirth:     text(m, "dateOfBirth"),
		ApplicationDate: text(m, "applicationDate"),
		Email:           text(m, "email"),
		TelephoneNumber: text(m, "telephoneNumber"),
		Address:         text(m, "address"),
		EmergencyContact: EmergencyContact{
			Name:         text(contact, "name"),
			Relationship: text(contact, "relationship"),
			Phone:        text(contact, "phone"),
		},
		DesiredEmploymentType:    text(m, "desiredEmploymentType"),
		DesiredSalary:            text(m, "desiredSalary"),
		HourlyRate:               text(m, "hourlyRate"),
		AppliedPosition:          text(m, "appliedPosition"),
		Department:               text(m, "department"),
		Overtime:                 text(m, "overtime"),
		StartDate:                text(m, "startDate"),
		PreviouslyApplied:        flag(m, "previouslyApplied"),
		PreviousApplicationDate:  text(m, "previousApplicationDate"),
		PreviouslyEmployed:       flag(m, "previouslyEmployed"),
		PreviousSeparationReason: text(m, "previousSeparationReason"),
		SpecialSkills:            text(m, "specialSkills"),
		Signature:                text(m, "signature"),
	}
	if err := oneOf("generalInfo.desiredEmploymentType", info.DesiredEmploymentType, "", EmploymentIntern, EmploymentTemporary); err != nil {
		return GeneralInfo{}, err
	}
	if err := oneOf("generalInfo.overtime", info.Overtime, "", Yes, No); err != nil {
		return GeneralInfo{}, err
	}

	rows := formdata.List(m, "education")
	if len(rows) == 0 {
		for _, level := range educationLevels {
			info.Education = append(info.Education, Education{Level: level})
		}
		return info, nil
	}
	for _, row := range rows {
		edu := Education{
			Level:            text(row, "level"),
			Name:             text(row, "name"),
			Major:            text(row, "major"),
			GraduationStatus: text(row, "graduationStatus"),
			YearsCompleted:   text(row, "yearsCompleted"),
			HonorsReceived:   text(row, "honorsReceived"),
		}
		if err := oneOf("generalInfo.education.graduationStatus", edu.GraduationStatus, "", Graduated, NotGraduated); err != nil {
			return GeneralInfo{}, err
		}
		info.Education = append(info.Education, edu)
	}
	return info, nil
}

func assembleBankForm(m map[string]any) (BankForm, error) {
	form := BankForm{
		Name:          text(m, "name"),
		SSN:           text(m, "ssn"),
		AccountFile:   text(m, "accountFile"),
		Signature:     text(m, "signature"),
		SignatureDate: text(m, "signatureDate"),
	}
	checking, err := assembleAccount("bankForm.checkingAccount", formdata.Map(m, "checkingAccount"), AccountChecking)
	if err != nil {
		return BankForm{}, err
	}
	form.CheckingAccount = checking
	if savings := formdata.Map(m, "savingsAccount"); savings != nil {
		account, err := assembleAccount("bankForm.savingsAccount", savings, AccountSavings)
		if err != nil {
			return BankForm{}, err
		}
		form.SavingsAccount = &account
	}
	return form, nil
}

func assembleAccount(field string, m map[string]any, accountType string) (BankAccount, error) {
	account := BankAccount{
		BankName:          text(m, "bankName"),
		State:             text(m, "state"),
		TransitNo:         text(m, "transitNo"),
		AccountNo:         text(m, "accountNo"),
		DepositType:       text(m, "depositType"),
		DepositPercentage: number(m, "depositPercentage"),
		AccountType:       accountType,
	}
	if err := digitsOnly(field+".transitNo", account.TransitNo); err != nil {
		return BankAccount{}, err
	}
	if err := digitsOnly(field+".accountNo", account.AccountNo); err != nil {
		return BankAccount{}, err
	}
	if err := oneOf(field+".depositType", account.DepositType, "", DepositFull, DepositPartial); err != nil {
		return BankAccount{}, err
	}
	if account.DepositPercentage < 0 || account.DepositPercentage > 100 {
		return BankAccount{}, invalid(field+".depositPercentage", "must be between 0 and 100")
	}
	return account, nil
}

func assembleI9(m map[string]any) (I9Form, error) {
	form := I9Form{
		LastName:      text(m, "lastName"),
		FirstName:     text(m, "firstName"),
		MiddleName:    text(m, "middleName"),
		OtherNames:    text(m, "otherNames"),
		Address:       text(m, "address"),
		DateOfBirth:   text(m, "dateOfBirth"),
		SSN:           text(m, "ssn"),
		Email:         text(m, "email"),
		Phone:         text(m, "phone"),
		Status:        I9Status(text(m, "status")),
		Signature:     text(m, "signature"),
		SignatureDate: text(m, "signatureDate"),
	}
	if form.OtherNames == "" {
		form.OtherNames = DefaultOtherNames
	}

	switch form.Status {
	case "":
		form.Status = I9Citizen
	case I9Citizen, I9NoncitizenNational:
	case I9PermanentResident:
		uscis := text(m, "uscisNumber")
		if uscis == "" {
			return I9Form{}, invalid("i9Form.uscisNumber", "required for "+string(I9PermanentResident))
		}
		form.Permanent = &PermanentResident{USCISNumber: uscis}
	case I9OtherNoncitizen:
		other := OtherNoncitizen{
			USCISNumber:           text(m, "uscisNumber"),
			AdmissionNumber:       text(m, "admissionNumber"),
			ForeignPassportNumber: text(m, "foreignPassportNumber"),
		}
		for _, c := range []fieldValue{
			{"i9Form.uscisNumber", other.USCISNumber},
			{"i9Form.admissionNumber", other.AdmissionNumber},
			{"i9Form.foreignPassportNumber", other.ForeignPassportNumber},
		} {
			if c.value == "" {
				return I9Form{}, invalid(c.field, "required for "+string(I9OtherNoncitizen))
			}
		}
		form.Other = &other
	default:
		return I9Form{}, invalid("i9Form.status", "unknown status "+strconv.Quote(string(form.Status)))
	}
	return form, nil
}

func assembleW4(m map[string]any) (W4Form, error) {
	form := W4Form{
		FirstName:              text(m, "firstName"),
		MiddleName:             text(m, "middleName"),
		LastName:               text(m, "lastName"),
		SSN:                    text(m, "ssn"),
		Address:                text(m, "address"),
		MaritalStatus:          text(m, "maritalStatus"),
		AcceptedTerms:          flag(m, "acceptedTerms"),
		QualifyingChildrenNo:   number(m, "qualifyingChildrenNo"),
		Amount:                 number(m, "amount"),
		ChildrenDepencyNo:      number(m, "childrenDepencyNo"),
		TotalDependencyAmount:  number(m, "TotalDependencyAmount"),
		ExtraWithHoldingAmount: number(m, "extraWithHoldingAmount"),
		Signature:              text(m, "signature"),
		SignatureDate:          text(m, "signatureDate"),
	}
	if form.MaritalStatus == "" {
		form.MaritalStatus = MaritalSingle
	}
	if err := oneOf("w4Form.maritalStatus", form.MaritalStatus, MaritalSingle, MaritalMarried, MaritalMarriedSeparate); err != nil {
		return W4Form{}, err
	}
	return form, nil
}

func assembleCitizenship(m map[string]any) (CitizenshipForm, error) {
	form := CitizenshipForm{
		Status:             CitizenshipStatus(text(m, "citizenshipStatus")),
		PhotoID:            text(m, "photoID"),
		SocialSecurityCard: text(m, "socialSecurityCard"),
	}
	switch form.Status {
	case "":
		form.Status = CitizenshipCitizen
	case CitizenshipCitizen:
	case CitizenshipResident:
		form.ResidentCard = text(m, "residentCard")
	case CitizenshipWorkAuthorization:
		form.WorkAuthorizationDocument = text(m, "workAuthorizationDocument")
	default:
		return CitizenshipForm{}, invalid("citizenShipForm.citizenshipStatus", "unknown status "+strconv.Quote(string(form.Status)))
	}
	return form, nil
}

func assembleEmployeeInfo(m map[string]any) (EmployeeInfo, error) {
	termination := formdata.Map(m, "terminationInfo")
	manual := formdata.Map(m, "manualAgreementTermination")
	resignation := formdata.Map(m, "resignationInsteadOfTermination")
	info := EmployeeInfo{
		Employee1: assemblePreviousEmployer(m, "employee1"),
		Employee2: assemblePreviousEmployer(m, "employee2"),
		TerminationInfo: TerminationInfo{
			TerminationStatus: textOr(termination, "terminationStatus", No),
			TerminationCount:  number(termination, "terminationCount"),
		},
		ManualAgreementTermination: ManualAgreementTermination{
			TerminatedByManualAgreement: textOr(manual, "terminatedByManualAgreement", No),
			TerminationCount:            number(manual, "terminationCount"),
		},
		ResignationInsteadOfTermination: ResignationInsteadOfTermination{
			ResignedInsteadOfTerminated: textOr(resignation, "resignedInsteadOfTerminated", No),
			ResignationCount:            number(resignation, "resignationCount"),
		},
		Explanation: text(m, "explanation"),
	}
	if err := yesNo(
		fieldValue{"employeeInfo.terminationInfo.terminationStatus", info.TerminationInfo.TerminationStatus},
		fieldValue{"employeeInfo.manualAgreementTermination.terminatedByManualAgreement", info.ManualAgreementTermination.TerminatedByManualAgreement},
		fieldValue{"employeeInfo.resignationInsteadOfTermination.resignedInsteadOfTerminated", info.ResignationInsteadOfTermination.ResignedInsteadOfTerminated},
	); err != nil {
		return EmployeeInfo{}, err
	}

	for _, row := range formdata.List(m, "terminationDetailsOfEmployee") {
		info.TerminationDetailsOfEmployee = append(info.TerminationDetailsOfEmployee, Reference{
			Name:           text(row, "name"),
			Position:       text(row, "position"),
			Company:        text(row, "company"),
			Telephone:      text(row, "telephone"),
			Occupation:     text(row, "occupation"),
			BestTimeToCall: text(row, "bestTimeToCall"),
			WorkRelation:   text(row, "workRelation"),
			NoOfYearKnown:  text(row, "NoOfYearKnown"),
		})
	}
	if len(info.TerminationDetailsOfEmployee) == 0 {
		info.TerminationDetailsOfEmployee = []Reference{{}}
	}
	return info, nil
}

// assemblePreviousEmployer also accepts the bracketed single-row spelling
// "employee1[0].name" some clients send.
func assemblePreviousEmployer(parent map[string]any, key string) PreviousEmployer {
	m := formdata.Map(parent, key)
	if m == nil {
		rows := formdata.List(parent, key)
		if len(rows) == 0 {
			return PreviousEmployer{}
		}
		m = rows[0]
	}
	return PreviousEmployer{
		Name:               text(m, "name"),
		Address:            text(m, "address"),
		Telephone:          text(m, "telephone"),
		DateEmployeeFrom:   text(m, "dateEmployeeFrom"),
		DateEmployeeTo:     text(m, "dateEmployeeTo"),
		JobTitle:           text(m, "jobTitle"),
		Duties:             text(m, "duties"),
		SupervisorName:     text(m, "supervisorName"),
		MayWeContact:       flag(m, "MayWeContact"),
		WagesStart:         text(m, "wagesStart"),
		Final:              text(m, "final"),
		ReasonForLeaving:   text(m, "reasonForLeaving"),
		TerminationReason:  text(m, "terminationReason"),
		DisciplinaryAction: text(m, "disciplinaryAction"),
		NoticePeriod:       text(m, "noticePeriod"),
	}
}

func assembleDrivingLicence(m map[string]any) (DrivingLicenceInfo, error) {
	license := formdata.Map(m, "validDriverLicense")
	suspension := formdata.Map(m, "licenseSuspensionInfo")
	insurance := formdata.Map(m, "personalAutoInsurance")
	history := formdata.Map(m, "personalAutoInsuranceHistory")
	info := DrivingLicenceInfo{
		ValidDriverLicense: DriverLicense{
			HasDriverLicense: textOr(license, "hasDriverLicense", No),
			LicenseNo:        text(license, "licenseNo"),
			State:            text(license, "state"),
			ExpirationDate:   text(license, "expirationDate"),
			Reason:           text(license, "reason"),
		},
		LicenseSuspensionInfo: LicenseSuspension{
			LicenseSuspendedOrRevoked: textOr(suspension, "licenseSuspendedOrRevoked", No),
			Reason:                    text(suspension, "reason"),
		},
		PersonalAutoInsurance: AutoInsurance{
			HasPersonalAutoInsurance: textOr(insurance, "hasPersonalAutoInsurance", No),
			Reason:                   text(insurance, "reason"),
		},
		PersonalAutoInsuranceHistory: AutoInsuranceHistory{
			InsuranceDeniedOrTerminated: textOr(history, "insuranceDeniedOrTerminated", No),
			Reason:                      text(history, "reason"),
		},
	}
	if err := yesNo(
		fieldValue{"drivingLicenceInfo.validDriverLicense.hasDriverLicense", info.ValidDriverLicense.HasDriverLicense},
		fieldValue{"drivingLicenceInfo.licenseSuspensionInfo.licenseSuspendedOrRevoked", info.LicenseSuspensionInfo.LicenseSuspendedOrRevoked},
		fieldValue{"drivingLicenceInfo.personalAutoInsurance.hasPersonalAutoInsurance", info.PersonalAutoInsurance.HasPersonalAutoInsurance},
		fieldValue{"drivingLicenceInfo.personalAutoInsuranceHistory.insuranceDeniedOrTerminated", info.PersonalAutoInsuranceHistory.InsuranceDeniedOrTerminated},
	); err != nil {
		return DrivingLicenceInfo{}, err
	}

	for _, row := range formdata.List(m, "movingTrafficViolation") {
		info.MovingTrafficViolation = append(info.MovingTrafficViolation, TrafficViolation{
			Offense:  text(row, "offense"),
			Date:     text(row, "date"),
			Location: text(row, "location"),
			Comment:  text(row, "comment"),
		})
	}
	if len(info.MovingTrafficViolation) == 0 {
		info.MovingTrafficViolation = []TrafficViolation{{}}
	}
	return info, nil
}

func assembleAcknowledgement(m map[string]any) Acknowledgement {
	return Acknowledgement{
		Check:         flag(m, "check"),
		Signature:     text(m, "signature"),
		SignatureDate: text(m, "signatureDate"),
	}
}

func assembleSubmittalPolicy(m map[string]any) SubmittalPolicy {
	direct := formdata.Map(m, "submittalPolicyDirectUnderstand")
	explain := formdata.Map(m, "submittalPolicyExplainUnderstand")
	return SubmittalPolicy{
		SubmittalPolicyDirectUnderstand: PolicyUnderstanding{
			Check:     flag(direct, "check"),
			Name:      text(direct, "name"),
			Signature: text(direct, "signature"),
		},
		SubmittalPolicyExplainUnderstand: PolicyUnderstanding{
			Check:     flag(explain, "check"),
			Name:      text(explain, "name"),
			Signature: text(explain, "signature"),
		},
		Check:     flag(m, "check"),
		Signature: text(m, "signature"),
	}
}

func text(m map[string]any, key string) string {
	return formdata.String(m, key)
}

func textOr(m map[string]any, key, fallback string) string {
	if v := text(m, key); v != "" {
		return v
	}
	return fallback
}

func flag(m map[string]any, key string) bool {
	return text(m, key) == "true"
}

// number reads the leading integer of a field the way clients have always
// been treated: "12abc" is 12, anything without leading digits is 0.
func number(m map[string]any, key string) int64 {
	s := strings.TrimSpace(text(m, key))
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// digitsOnly accepts an empty value or one made only of ASCII digits. Account
// numbers stay strings so leading zeros survive.
func digitsOnly(field, value string) error {
	for _, r := range value {
		if r < '0' || r > '9' {
			return invalid(field, "must contain digits only")
		}
	}
	return nil
}

type fieldValue struct {
	field string
	value string
}

func yesNo(values ...fieldValue) error {
	for _, v := range values {
		if err := oneOf(v.field, v.value, Yes, No); err != nil {
			return err
		}
	}
	return nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return invalid(field, "unexpected value "+strconv.Quote(value))
}
