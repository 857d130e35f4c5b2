package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strconv"

	gomail "github.com/wneessen/go-mail"
)

// Message is a templated mail queued for delivery.
type Message struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

// Config holds SMTP configuration.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	ReplyTo  string
}

// LoadConfig reads SMTP configuration from the environment.
func LoadConfig() Config {
	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}
	return Config{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_MAIL"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("USER_EMAIL"),
		ReplyTo:  "noreply@gmail.com",
	}
}

// Enabled reports whether the configuration is complete enough to send.
func (c Config) Enabled() bool {
	return c.Host != "" && c.From != ""
}

var templates = map[string]*template.Template{
	"verify-email": template.Must(template.New("verify-email").Parse(
		`<p>Hello {{.name}},</p>
<p>Please verify your email address by clicking the link below. The link
expires in 24 hours.</p>
<p><a href="{{.link}}">Verify email</a></p>`)),
	"reset-password": template.Must(template.New("reset-password").Parse(
		`<p>Hello {{.name}},</p>
<p>A password reset was requested for your account. The link expires in
one hour. If you did not request it, ignore this mail.</p>
<p><a href="{{.link}}">Reset password</a></p>`)),
}

// Sender delivers mail over SMTP.
type Sender struct {
	config Config
	client *gomail.Client
}

// NewSender creates a Sender from config. Returns an error when SMTP is
// configured but unreachable settings are provided.
func NewSender(config Config) (*Sender, error) {
	s := &Sender{config: config}
	if !config.Enabled() {
		return s, nil
	}

	opts := []gomail.Option{
		gomail.WithPort(config.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(config.Username),
		gomail.WithPassword(config.Password),
	}
	client, err := gomail.NewClient(config.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	s.client = client
	return s, nil
}

// Send renders the named template and delivers the message. When SMTP is
// not configured the message is dropped; callers treat delivery as
// fire-and-forget either way.
func (s *Sender) Send(msg Message) error {
	tmpl, ok := templates[msg.Template]
	if !ok {
		return fmt.Errorf("unknown mail template: %s", msg.Template)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, msg.Data); err != nil {
		return fmt.Errorf("failed to render template %s: %w", msg.Template, err)
	}

	if s.client == nil {
		return nil
	}

	m := gomail.NewMsg()
	if err := m.From(s.config.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	if err := m.ReplyTo(s.config.ReplyTo); err != nil {
		return fmt.Errorf("invalid reply-to address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, body.String())

	if err := s.client.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}
	return nil
}
