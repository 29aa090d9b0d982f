package mailing

import (
	"errors"
	"io"
	"strconv"

	"foodgram/internal/utils"

	"gopkg.in/gomail.v2"
)

var ErrMailNotConfigured = errors.New("smtp is not configured")

type (
	MailConfig struct {
		AppURL       string
		SMTPHost     string
		SMTPPort     string
		SMTPSender   string
		SMTPEmail    string
		SMTPPassword string
	}

	Attachment struct {
		FileName string
		Content  []byte
	}

	// Mailer is what services depend on so tests can capture outgoing mail.
	Mailer interface {
		SendMail(toEmail string, subject string, body string, attachments ...Attachment) error
	}

	smtpMailer struct{}
)

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

func NewMailer() Mailer {
	return smtpMailer{}
}

func (smtpMailer) SendMail(toEmail string, subject string, body string, attachments ...Attachment) error {
	return SendMail(toEmail, subject, body, attachments...)
}

func SendMail(toEmail string, subject string, body string, attachments ...Attachment) error {
	emailConfig := LoadMailConfig()
	if emailConfig.SMTPHost == "" {
		return ErrMailNotConfigured
	}

	mailer := gomail.NewMessage()
	mailer.SetAddressHeader("From", emailConfig.SMTPEmail, emailConfig.SMTPSender)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/plain", body)
	for _, a := range attachments {
		content := a.Content
		mailer.Attach(a.FileName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	port, err := strconv.Atoi(emailConfig.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		emailConfig.SMTPHost,
		port,
		emailConfig.SMTPEmail,
		emailConfig.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}
