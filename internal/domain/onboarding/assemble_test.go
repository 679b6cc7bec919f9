package onboarding

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding/internal/domain/formdata"
	"onboarding/internal/platform/pdf"
)

func internBody() map[string]string {
	return map[string]string{
		"generalInfo.firstName":                "Jane",
		"generalInfo.lastName":                 "Doe",
		"generalInfo.ssn":                      "123456789",
		"bankForm.name":                        "Jane Doe",
		"bankForm.checkingAccount.bankName":    "Chase",
		"bankForm.checkingAccount.transitNo":   "021000021",
		"bankForm.checkingAccount.accountNo":   "12345",
		"bankForm.checkingAccount.depositType": "full",
		"i9Form.lastName":                      "Doe",
		"i9Form.status":                        "US Citizen",
		"w4Form.lastName":                      "Doe",
		"citizenShipForm.citizenshipStatus":    "citizen",
	}
}

func temporaryBody() map[string]string {
	body := internBody()
	body["employeeInfo.employee1.name"] = "Acme"
	body["drivingLicenceInfo.validDriverLicense.hasDriverLicense"] = "Yes"
	body["applicantCartification.check"] = "true"
	body["accidentProcedure.check"] = "true"
	body["submittalPolicy.check"] = "true"
	return body
}

func parse(t *testing.T, flat map[string]string) map[string]any {
	t.Helper()
	tree, err := formdata.Parse(flat)
	require.NoError(t, err)
	return tree
}

func TestAssembleInternMinimal(t *testing.T) {
	rec, err := AssembleIntern(parse(t, internBody()), map[string]string{
		"employeeSignature1": "/image/sig-1.png",
		"directDepositPdf":   "/doc/dd.pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane", rec.GeneralInfo.FirstName)
	assert.Equal(t, "/image/sig-1.png", rec.GeneralInfo.Signature)
	assert.Equal(t, "/doc/dd.pdf", rec.BankForm.AccountFile)
	assert.Equal(t, "021000021", rec.BankForm.CheckingAccount.TransitNo)
	assert.Equal(t, "12345", rec.BankForm.CheckingAccount.AccountNo)
	assert.Equal(t, AccountChecking, rec.BankForm.CheckingAccount.AccountType)
	assert.Nil(t, rec.BankForm.SavingsAccount)
	assert.Equal(t, I9Citizen, rec.I9Form.Status)
	assert.Equal(t, DefaultOtherNames, rec.I9Form.OtherNames)
	assert.Equal(t, MaritalSingle, rec.W4Form.MaritalStatus)
	assert.Equal(t, CitizenshipCitizen, rec.CitizenShipForm.Status)
}

func TestAssembleInternDefaultsEducationRows(t *testing.T) {
	rec, err := AssembleIntern(parse(t, internBody()), nil)
	require.NoError(t, err)
	require.Len(t, rec.GeneralInfo.Education, 4)
	levels := []string{}
	for _, row := range rec.GeneralInfo.Education {
		levels = append(levels, row.Level)
		assert.Empty(t, row.Name)
	}
	assert.Equal(t, educationLevels, levels)
}

func TestAssembleInternKeepsSubmittedEducation(t *testing.T) {
	body := internBody()
	body["generalInfo.education[0].level"] = "College"
	body["generalInfo.education[0].name"] = "FIU"
	body["generalInfo.education[0].graduationStatus"] = "Graduated"
	rec, err := AssembleIntern(parse(t, body), nil)
	require.NoError(t, err)
	require.Len(t, rec.GeneralInfo.Education, 1)
	assert.Equal(t, "FIU", rec.GeneralInfo.Education[0].Name)
}

func TestAssembleInternRejectsMissingSections(t *testing.T) {
	for _, section := range sectionsIntern {
		section := section
		t.Run(section, func(t *testing.T) {
			body := map[string]string{}
			for k, v := range internBody() {
				if len(k) > len(section) && k[:len(section)+1] == section+"." {
					continue
				}
				body[k] = v
			}
			_, err := AssembleIntern(parse(t, body), nil)
			require.ErrorIs(t, err, ErrInvalidSubmission)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, section, verr.Field)
		})
	}
}

func TestAssembleI9Variants(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]string
		wantErr string
	}{
		{name: "permanent with uscis", fields: map[string]string{"i9Form.status": "Lawful Permanent Resident", "i9Form.uscisNumber": "A123"}},
		{name: "permanent missing uscis", fields: map[string]string{"i9Form.status": "Lawful Permanent Resident"}, wantErr: "i9Form.uscisNumber"},
		{name: "other complete", fields: map[string]string{
			"i9Form.status":                "Other Noncitizen",
			"i9Form.uscisNumber":           "A1",
			"i9Form.admissionNumber":       "I94",
			"i9Form.foreignPassportNumber": "P9",
		}},
		{name: "other missing admission", fields: map[string]string{
			"i9Form.status":                "Other Noncitizen",
			"i9Form.uscisNumber":           "A1",
			"i9Form.foreignPassportNumber": "P9",
		}, wantErr: "i9Form.admissionNumber"},
		{name: "other missing passport", fields: map[string]string{
			"i9Form.status":          "Other Noncitizen",
			"i9Form.uscisNumber":     "A1",
			"i9Form.admissionNumber": "I94",
		}, wantErr: "i9Form.foreignPassportNumber"},
		{name: "unknown status", fields: map[string]string{"i9Form.status": "Martian"}, wantErr: "i9Form.status"},
		{name: "missing status defaults to citizen", fields: map[string]string{"i9Form.status": ""}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			body := internBody()
			for k, v := range tc.fields {
				body[k] = v
			}
			rec, err := AssembleIntern(parse(t, body), nil)
			if tc.wantErr != "" {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
				assert.Equal(t, tc.wantErr, verr.Field)
				return
			}
			require.NoError(t, err)
			switch rec.I9Form.Status {
			case I9OtherNoncitizen:
				require.NotNil(t, rec.I9Form.Other)
				assert.NotEmpty(t, rec.I9Form.Other.USCISNumber)
				assert.NotEmpty(t, rec.I9Form.Other.AdmissionNumber)
				assert.NotEmpty(t, rec.I9Form.Other.ForeignPassportNumber)
			case I9PermanentResident:
				require.NotNil(t, rec.I9Form.Permanent)
				assert.Nil(t, rec.I9Form.Other)
			default:
				assert.Equal(t, I9Citizen, rec.I9Form.Status)
				assert.Nil(t, rec.I9Form.Permanent)
				assert.Nil(t, rec.I9Form.Other)
			}
		})
	}
}

func TestI9FormJSONFlattensActiveVariant(t *testing.T) {
	form := I9Form{LastName: "Doe", Status: I9OtherNoncitizen, Other: &OtherNoncitizen{
		USCISNumber: "A1", AdmissionNumber: "I94", ForeignPassportNumber: "P9",
	}}
	data, err := json.Marshal(form)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "A1", wire["uscisNumber"])
	assert.Equal(t, "P9", wire["foreignPassportNumber"])

	var back I9Form
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, form, back)
}

func TestI9FormJSONDropsInactiveVariant(t *testing.T) {
	data, err := json.Marshal(I9Form{Status: I9Citizen, Permanent: &PermanentResident{USCISNumber: "stale"}})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "uscisNumber")
}

func TestAssembleCitizenshipKeepsOnlyVariantDocuments(t *testing.T) {
	uploads := map[string]string{
		"photoIdImage":           "/image/id.png",
		"photoIdPdf":             "/doc/id.pdf",
		"socialSecurityPdf":      "/doc/ssc.pdf",
		"residentCardImage":      "/image/rc.png",
		"workAuthorizationImage": "/image/wa.png",
	}

	body := internBody()
	body["citizenShipForm.citizenshipStatus"] = "resident"
	rec, err := AssembleIntern(parse(t, body), uploads)
	require.NoError(t, err)
	assert.Equal(t, "/image/id.png", rec.CitizenShipForm.PhotoID)
	assert.Equal(t, "/doc/ssc.pdf", rec.CitizenShipForm.SocialSecurityCard)
	assert.Equal(t, "/image/rc.png", rec.CitizenShipForm.ResidentCard)
	assert.Empty(t, rec.CitizenShipForm.WorkAuthorizationDocument)

	body["citizenShipForm.citizenshipStatus"] = "workauth"
	rec, err = AssembleIntern(parse(t, body), uploads)
	require.NoError(t, err)
	assert.Empty(t, rec.CitizenShipForm.ResidentCard)
	assert.Equal(t, "/image/wa.png", rec.CitizenShipForm.WorkAuthorizationDocument)

	body["citizenShipForm.citizenshipStatus"] = "alien"
	_, err = AssembleIntern(parse(t, body), uploads)
	assert.ErrorIs(t, err, ErrInvalidSubmission)
}

func TestAssembleInternOmitsMissingUploads(t *testing.T) {
	rec, err := AssembleIntern(parse(t, internBody()), nil)
	require.NoError(t, err)
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"signature":""`)
	assert.NotContains(t, string(data), `"accountFile"`)
	assert.NotContains(t, string(data), `"photoID"`)
}

func TestAssembleNumbersAndFlags(t *testing.T) {
	body := internBody()
	body["w4Form.qualifyingChildrenNo"] = "2kids"
	body["w4Form.amount"] = "abc"
	body["w4Form.acceptedTerms"] = "TRUE"
	body["generalInfo.previouslyApplied"] = "true"
	body["bankForm.savingsAccount.bankName"] = "Wells"
	body["bankForm.savingsAccount.depositType"] = "partial"
	body["bankForm.savingsAccount.depositPercentage"] = "40"

	rec, err := AssembleIntern(parse(t, body), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.W4Form.QualifyingChildrenNo)
	assert.Zero(t, rec.W4Form.Amount)
	assert.False(t, rec.W4Form.AcceptedTerms)
	assert.True(t, rec.GeneralInfo.PreviouslyApplied)
	require.NotNil(t, rec.BankForm.SavingsAccount)
	assert.Equal(t, AccountSavings, rec.BankForm.SavingsAccount.AccountType)
	assert.Equal(t, int64(40), rec.BankForm.SavingsAccount.DepositPercentage)
}

func TestAssembleRejectsOutOfRangeDeposit(t *testing.T) {
	body := internBody()
	body["bankForm.checkingAccount.depositPercentage"] = "150"
	_, err := AssembleIntern(parse(t, body), nil)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "bankForm.checkingAccount.depositPercentage", verr.Field)
}

func TestAssembleTemporary(t *testing.T) {
	rec, err := AssembleTemporary(parse(t, temporaryBody()), map[string]string{
		"employeeSignature1":  "/image/s1.png",
		"employeeSignature2":  "/image/s2.png",
		"employeeSignature5":  "/image/s5.png",
		"employeeSignature7":  "/image/s7.png",
		"employeeSignature10": "/image/s10.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme", rec.EmployeeInfo.Employee1.Name)
	assert.Equal(t, No, rec.EmployeeInfo.TerminationInfo.TerminationStatus)
	assert.Len(t, rec.EmployeeInfo.TerminationDetailsOfEmployee, 1)
	assert.Equal(t, Yes, rec.DrivingLicenceInfo.ValidDriverLicense.HasDriverLicense)
	assert.Equal(t, No, rec.DrivingLicenceInfo.LicenseSuspensionInfo.LicenseSuspendedOrRevoked)
	assert.True(t, rec.ApplicantCartification.Check)
	assert.Equal(t, "/image/s2.png", rec.ApplicantCartification.Signature)
	assert.Equal(t, "/image/s1.png", rec.GeneralInfo.Signature)
	assert.Equal(t, "/image/s7.png", rec.BankForm.Signature)
	assert.Equal(t, "/image/s10.png", rec.SubmittalPolicy.Signature)
	assert.Empty(t, rec.SubmittalPolicy.SubmittalPolicyDirectUnderstand.Signature)
	assert.Nil(t, rec.SubstanceAbusepolicy)
}

func TestAssembleTemporaryRoutesNestedPolicySignatures(t *testing.T) {
	body := temporaryBody()
	body["submittalPolicy.submittalPolicyDirectUnderstand.name"] = "Jane"
	body["substanceAbusepolicy.check"] = "true"
	rec, err := AssembleTemporary(parse(t, body), map[string]string{
		"employeeSignature3": "/image/s3.png",
		"employeeSignature5": "/image/s5.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "/image/s5.png", rec.SubmittalPolicy.SubmittalPolicyDirectUnderstand.Signature)
	require.NotNil(t, rec.SubstanceAbusepolicy)
	assert.Equal(t, "/image/s3.png", rec.SubstanceAbusepolicy.Signature)
}

func TestAssembleTemporaryAcceptsBracketedEmployer(t *testing.T) {
	body := temporaryBody()
	delete(body, "employeeInfo.employee1.name")
	body["employeeInfo.employee1[0].name"] = "Globex"
	body["employeeInfo.employee1[0].MayWeContact"] = "true"
	rec, err := AssembleTemporary(parse(t, body), nil)
	require.NoError(t, err)
	assert.Equal(t, "Globex", rec.EmployeeInfo.Employee1.Name)
	assert.True(t, rec.EmployeeInfo.Employee1.MayWeContact)
}

func TestAssembleTemporaryRequiresItsSections(t *testing.T) {
	body := temporaryBody()
	delete(body, "accidentProcedure.check")
	_, err := AssembleTemporary(parse(t, body), nil)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "accidentProcedure", verr.Field)
}

func TestAssembleTemporaryRejectsBadYesNo(t *testing.T) {
	body := temporaryBody()
	body["employeeInfo.terminationInfo.terminationStatus"] = "Maybe"
	_, err := AssembleTemporary(parse(t, body), nil)
	assert.ErrorIs(t, err, ErrInvalidSubmission)
}

func documentValue(doc pdf.Document, label string) (string, bool) {
	for _, page := range doc.Pages {
		for _, section := range page.Sections {
			for _, field := range section.Fields {
				if field.Label == label {
					return field.Value, true
				}
			}
		}
	}
	return "", false
}

func TestAccountNumbersKeepLeadingZeros(t *testing.T) {
	body := internBody()
	body["bankForm.checkingAccount.accountNo"] = "000123456"
	rec, err := AssembleIntern(parse(t, body), nil)
	require.NoError(t, err)

	assert.Equal(t, "021000021", rec.BankForm.CheckingAccount.TransitNo)
	assert.Equal(t, "000123456", rec.BankForm.CheckingAccount.AccountNo)

	data, err := json.Marshal(rec.BankForm.CheckingAccount)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"transitNo":"021000021"`)
	assert.Contains(t, string(data), `"accountNo":"000123456"`)

	doc := InternDocument(rec)
	transit, ok := documentValue(doc, "Transit / ABA No.")
	require.True(t, ok)
	assert.Equal(t, "021000021", transit)
	account, ok := documentValue(doc, "Account No.")
	require.True(t, ok)
	assert.Equal(t, "000123456", account)
}

func TestAccountNumbersMustBeDigits(t *testing.T) {
	body := internBody()
	body["bankForm.checkingAccount.accountNo"] = "12-34"
	_, err := AssembleIntern(parse(t, body), nil)
	require.ErrorIs(t, err, ErrInvalidSubmission)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "bankForm.checkingAccount.accountNo", verr.Field)
}

func TestLicenceNumberIsKeptVerbatim(t *testing.T) {
	body := temporaryBody()
	body["drivingLicenceInfo.validDriverLicense.licenseNo"] = "D0012345"
	rec, err := AssembleTemporary(parse(t, body), nil)
	require.NoError(t, err)
	assert.Equal(t, "D0012345", rec.DrivingLicenceInfo.ValidDriverLicense.LicenseNo)

	licence, ok := documentValue(TemporaryDocument(rec), "License No.")
	require.True(t, ok)
	assert.Equal(t, "D0012345", licence)
}
