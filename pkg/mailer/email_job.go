package mailer

// EmailJob is the JSON payload put on the RabbitMQ email queue.
// Text and HTML may be set directly, or a Template name plus Data may
// be given and the worker renders the bodies before sending.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "activate_account" or "reset_password"
	Data     map[string]any `json:"data,omitempty"`
}
