package notifications

const (
	TypeFormSubmitted = "form_submitted"
)

const defaultFrom = "no-reply@example.com"
