package notifications

import (
	"bytes"
	"html/template"
)

var pdfReadyTemplate = template.Must(template.New("pdf_ready").Parse(`<body style="margin:0; padding:0; font-family: Arial, sans-serif; background-color:#f4f4f4;">
  <table width="100%" cellpadding="0" cellspacing="0" style="background-color:#f4f4f4; padding:40px 0;">
    <tr>
      <td align="center">
        <table width="600" cellpadding="0" cellspacing="0" style="background-color:#ffffff; border-radius:10px;">
          <tr>
            <td align="center" style="padding:20px 0; background-color:#277E16; color:#ffffff; font-weight:bold;">{{.Company}}</td>
          </tr>
          <tr>
            <td style="padding:30px;">
              <h2 style="color:#333; text-align:center;">{{.Subject}}</h2>
              <p style="color:#555; font-size:16px; line-height:1.5;">
                A new onboarding form is ready. <a href="{{.Link}}" target="_blank">View PDF</a>
              </p>
              <div style="text-align:center; margin:30px 0;">
                <a href="{{.Link}}" target="_blank" rel="noopener noreferrer" style="background-color:#277E16; color:#ffffff; text-decoration:none; padding:12px 25px; border-radius:6px; font-weight:bold; display:inline-block;">Download PDF</a>
              </div>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>`))

func renderPDFReady(company, subject, link string) (string, error) {
	var buf bytes.Buffer
	err := pdfReadyTemplate.Execute(&buf, struct {
		Company string
		Subject string
		Link    string
	}{company, subject, link})
	return buf.String(), err
}
