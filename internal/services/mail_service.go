// services/mail_service.go
package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"
	"time"
)

type IMailService interface {
	SendUpgradeResolvedMail(to, subject, body string) error
}

// SMTPConfig holds SMTP + branding config.
type SMTPConfig struct {
	Host       string // e.g. "smtp.gmail.com"
	Port       int    // 587 (STARTTLS) or 465 (SMTPS)
	Username   string
	Password   string
	From       string // envelope from, e.g. "no-reply@modelflow.app"
	FromName   string // display name
	UseSSL     bool   // true for SMTPS 465, false for STARTTLS 587
	RequireTLS bool   // if true, fail if STARTTLS not available

	AppName string
}

type smtpMailService struct {
	cfg     SMTPConfig
	htmlTpl *template.Template
	textTpl *template.Template
}

func NewSMTPMailService(cfg SMTPConfig) (IMailService, error) {
	return &smtpMailService{
		cfg:     cfg,
		htmlTpl: template.Must(template.New("notifyHTML").Parse(notifyHTMLTemplate)),
		textTpl: template.Must(template.New("notifyText").Parse(notifyTextTemplate)),
	}, nil
}

// noopMailService is used when SMTP is not configured; upgrade resolution
// must never depend on a mail server being reachable.
type noopMailService struct{}

func (noopMailService) SendUpgradeResolvedMail(string, string, string) error { return nil }

func NewNoopMailService() IMailService { return noopMailService{} }

func (s *smtpMailService) SendUpgradeResolvedMail(to, subject, body string) error {
	data := emailData{
		Title:   subject,
		Intro:   body,
		AppName: s.cfg.AppName,
		Year:    time.Now().Year(),
	}

	var html, text bytes.Buffer
	if err := s.htmlTpl.Execute(&html, data); err != nil {
		return err
	}
	if err := s.textTpl.Execute(&text, data); err != nil {
		return err
	}

	return s.send(to, subject, html.String(), text.String())
}

type emailData struct {
	Title   string
	Intro   string
	AppName string
	Year    int
}

const notifyHTMLTemplate = `<!doctype html>
<html>
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body style="margin:0;background:#0f172a;color:#f1f5f9;font-family:-apple-system,Segoe UI,Roboto,Helvetica,Arial,sans-serif">
  <div style="max-width:600px;margin:0 auto;padding:40px 16px">
    <div style="background:#1e293b;border-radius:16px;padding:32px">
      <div style="font-weight:700;font-size:22px;color:#60a5fa">{{.AppName}}</div>
      <h1 style="font-size:24px;color:#f1f5f9">{{.Title}}</h1>
      <p style="line-height:1.7;color:#cbd5e1">{{.Intro}}</p>
      <p style="color:#94a3b8;font-size:13px">&copy; {{.Year}} {{.AppName}}</p>
    </div>
  </div>
</body>
</html>`

const notifyTextTemplate = `{{.Title}}

{{.Intro}}

— {{.AppName}}`

func (s *smtpMailService) send(to, subject, htmlBody, textBody string) error {
	boundary := "modelflow-alt-boundary"

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = msg.WriteString(fmt.Sprintf(format, a...)) }

	write("From: %s\r\n", s.formatFromHeader())
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", subject)
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s", boundary, textBody)
	write("\r\n--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s", boundary, htmlBody)
	write("\r\n--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if s.cfg.UseSSL {
		// SMTPS path (typically port 465)
		tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
		conn, err := tls.Dial("tcp", addr, tlsCfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		c, err := smtp.NewClient(conn, s.cfg.Host)
		if err != nil {
			return err
		}
		defer c.Quit()

		return s.transmit(c, auth, to, msg.Bytes())
	}

	// STARTTLS path (typically port 587)
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if ok, _ := c.Extension("STARTTLS"); ok {
		tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
		if err = c.StartTLS(tlsCfg); err != nil {
			return err
		}
	} else if s.cfg.RequireTLS {
		return fmt.Errorf("server does not support STARTTLS and RequireTLS=true")
	}

	return s.transmit(c, auth, to, msg.Bytes())
}

func (s *smtpMailService) transmit(c *smtp.Client, auth smtp.Auth, to string, msg []byte) error {
	if err := c.Auth(auth); err != nil {
		return err
	}
	if err := c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", name, s.cfg.From)
}
