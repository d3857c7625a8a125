// services/mail_service.go
package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	texttemplate "text/template"
	"time"

	"immoportal/internal/models/db_models"
)

type IMailService interface {
	// SendDecisionNotice tells a client their contact request was decided.
	SendDecisionNotice(to string, clientName, propertyTitle string, decision db_models.ContactRequestStatus) error
}

// SMTPConfig holds SMTP + branding config.
type SMTPConfig struct {
	Host       string // e.g. "smtp.gmail.com"
	Port       int    // 587 (STARTTLS) or 465 (SMTPS)
	Username   string
	Password   string
	From       string // envelope from
	FromName   string // display name
	UseSSL     bool   // true for SMTPS 465, false for STARTTLS 587
	RequireTLS bool   // fail if STARTTLS is not offered

	AppName    string
	AppBaseURL string
}

type smtpMailService struct {
	cfg     SMTPConfig
	htmlTpl *template.Template
	textTpl *texttemplate.Template
}

// NewMailService returns an SMTP mailer, or a no-op one when no host is configured.
func NewMailService(cfg SMTPConfig) IMailService {
	if strings.TrimSpace(cfg.Host) == "" {
		return noopMailService{}
	}
	return &smtpMailService{
		cfg:     cfg,
		htmlTpl: template.Must(template.New("noticeHTML").Parse(baseHTMLTemplate)),
		textTpl: texttemplate.Must(texttemplate.New("noticeText").Parse(plainTextTemplate)),
	}
}

// ------------------- Public API -------------------

func (s *smtpMailService) SendDecisionNotice(to string, clientName, propertyTitle string, decision db_models.ContactRequestStatus) error {
	subject, intro := decisionCopy(clientName, propertyTitle, decision)

	html, text, err := s.renderEmail(EmailData{
		Title:     subject,
		Intro:     intro,
		ButtonURL: strings.TrimRight(s.cfg.AppBaseURL, "/") + "/app/client/requests",
		ButtonTxt: "Voir mes demandes",
		AppName:   s.cfg.AppName,
		Year:      time.Now().Year(),
	})
	if err != nil {
		return err
	}
	return s.send(to, subject, html, text)
}

func decisionCopy(clientName, propertyTitle string, decision db_models.ContactRequestStatus) (subject, intro string) {
	greeting := "Bonjour"
	if name := strings.TrimSpace(clientName); name != "" {
		greeting = "Bonjour " + name
	}
	if decision == db_models.RequestApproved {
		return "Votre demande de contact a été acceptée",
			fmt.Sprintf("%s, l'agence a accepté votre demande pour « %s ». Les coordonnées du propriétaire sont disponibles dans votre espace.", greeting, propertyTitle)
	}
	return "Votre demande de contact a été refusée",
		fmt.Sprintf("%s, l'agence n'a pas donné suite à votre demande pour « %s ».", greeting, propertyTitle)
}

// ------------------- Rendering -------------------

type EmailData struct {
	Title     string
	Intro     string
	ButtonURL string
	ButtonTxt string
	AppName   string
	Year      int
}

const baseHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; padding: 0; background: #f4f4f5; color: #18181b; font-family: -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; }
    .container { max-width: 560px; margin: 32px auto; background: #ffffff; border-radius: 12px; border: 1px solid #e4e4e7; }
    .header { padding: 24px 28px; border-bottom: 1px solid #e4e4e7; font-weight: 700; font-size: 18px; }
    .hero { padding: 28px; }
    h1 { margin: 0 0 12px; font-size: 22px; }
    p { line-height: 1.6; color: #3f3f46; }
    .btn { display: inline-block; margin-top: 16px; padding: 12px 20px; border-radius: 8px; background: #18181b; color: #ffffff !important; text-decoration: none; font-weight: 600; }
    .footer { padding: 16px 28px; font-size: 12px; color: #71717a; border-top: 1px solid #e4e4e7; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">{{.AppName}}</div>
    <div class="hero">
      <h1>{{.Title}}</h1>
      <p>{{.Intro}}</p>
      {{if .ButtonURL}}<a class="btn" href="{{.ButtonURL}}">{{.ButtonTxt}}</a>{{end}}
    </div>
    <div class="footer">© {{.Year}} {{.AppName}}</div>
  </div>
</body>
</html>`

const plainTextTemplate = `{{.Title}}

{{.Intro}}

{{if .ButtonURL}}{{.ButtonTxt}} :
{{.ButtonURL}}
{{end}}
{{.AppName}} (c) {{.Year}}
`

func (s *smtpMailService) renderEmail(data EmailData) (html string, text string, err error) {
	var hb, tb bytes.Buffer

	if err = s.htmlTpl.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err = s.textTpl.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

// ------------------- SMTP Send -------------------

func (s *smtpMailService) send(to, subject, htmlBody, textBody string) error {
	fromHeader := s.formatFromHeader()
	date := time.Now().Format(time.RFC1123Z)
	boundary := fmt.Sprintf("alt_%d", time.Now().UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = msg.WriteString(fmt.Sprintf(format, a...)) }

	write("From: %s\r\n", fromHeader)
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	write("Date: %s\r\n", date)
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n")

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}

	var conn net.Conn
	var err error
	if s.cfg.UseSSL {
		// SMTPS (implicit TLS, usually port 465)
		conn, err = tls.DialWithDialer(&net.Dialer{Timeout: 10 * time.Second}, "tcp", addr, tlsCfg)
	} else {
		conn, err = (&net.Dialer{Timeout: 10 * time.Second}).Dial("tcp", addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if !s.cfg.UseSSL {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err = c.StartTLS(tlsCfg); err != nil {
				return err
			}
		} else if s.cfg.RequireTLS {
			return fmt.Errorf("server does not support STARTTLS and RequireTLS=true")
		}
	}

	if s.cfg.Username != "" {
		if err = c.Auth(auth); err != nil {
			return err
		}
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg.Bytes()); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.BEncoding.Encode("UTF-8", name), s.cfg.From)
}

type noopMailService struct{}

func (noopMailService) SendDecisionNotice(string, string, string, db_models.ContactRequestStatus) error {
	return nil
}
