package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"github.com/voglerhub/club-system/config"
	"github.com/voglerhub/club-system/models"
)

type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendEmail delivers one HTML message. Bcc recipients are part of the SMTP
// envelope but never appear in the headers.
func (s *EmailService) SendEmail(to, cc, bcc []string, subject, body string) error {
	headers := "To: " + strings.Join(to, ", ") + "\r\n"
	if len(cc) > 0 {
		headers += "Cc: " + strings.Join(cc, ", ") + "\r\n"
	}
	msg := []byte(headers +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	recipients := make([]string, 0, len(to)+len(cc)+len(bcc))
	recipients = append(recipients, to...)
	recipients = append(recipients, cc...)
	recipients = append(recipients, bcc...)

	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	tlsconfig := &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         s.cfg.SMTPHost,
	}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		// Direct TLS connection
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("TLS connection failed: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
	} else {
		// STARTTLS, usually port 587
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("SMTP connection failed: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("STARTTLS command failed: %w", err)
		}
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	for _, rcpt := range recipients {
		if rcpt == "" {
			continue
		}
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("RCPT TO failed for %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close DATA: %w", err)
	}

	return nil
}

var emailFuncs = template.FuncMap{
	"currency": formatCurrency,
	"hours": func(v float64) string {
		return strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
	},
	"date": func(t time.Time) string {
		return t.Format("02.01.2006")
	},
	"clock": func(t time.Time) string {
		return t.Format("15:04")
	},
}

func formatCurrency(v float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1) + " €"
}

func (s *EmailService) GenerateEmailBody(templatePath string, data interface{}) (string, error) {
	t, err := template.New("").Funcs(emailFuncs).ParseFiles(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", templatePath, err)
	}

	var body bytes.Buffer
	if err := t.ExecuteTemplate(&body, templateName(templatePath), data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templatePath, err)
	}

	return body.String(), nil
}

func templateName(path string) string {
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}

// SendBillCreatedEmail notifies the treasurer about a new bill, cc'ing the
// creator and bcc'ing the admin address. The grouped events come from the
// same aggregation the detail view uses.
func (s *EmailService) SendBillCreatedEmail(bill *models.Bill, groups []EventGroup, creatorEmail string) error {
	trainerName := "-"
	if bill.Trainer != nil {
		trainerName = bill.Trainer.Name
	}
	subject := fmt.Sprintf("Neue Abrechnung erstellt - %s - Q%d/%d", trainerName, bill.Quarter, bill.Year)

	data := struct {
		Bill    *models.Bill
		Groups  []EventGroup
		License string
	}{
		Bill:    bill,
		Groups:  groups,
		License: licenseLabel(bill.Trainer),
	}

	htmlBody, err := s.GenerateEmailBody("templates/emails/bill_created_email.html", data)
	if err != nil {
		return fmt.Errorf("failed to generate bill creation email body: %w", err)
	}

	return s.SendEmail(
		[]string{s.cfg.KassenwartEmail},
		ccList(creatorEmail),
		bccList(s.cfg.AdminEmail),
		subject,
		htmlBody,
	)
}

// SendTravelReportCreatedEmail notifies the treasurer about a new travel
// report, same recipient pattern as bill creation.
func (s *EmailService) SendTravelReportCreatedEmail(report *models.TravelReport, creatorEmail string) error {
	teamName := "-"
	if report.Team != nil {
		teamName = report.Team.Name
	}
	subject := fmt.Sprintf("Neue Fahrtkosten-Abrechnung - %s - %s",
		teamName, report.TravelDate.Format("02.01.2006"))

	data := struct {
		Report *models.TravelReport
	}{
		Report: report,
	}

	htmlBody, err := s.GenerateEmailBody("templates/emails/travel_report_created_email.html", data)
	if err != nil {
		return fmt.Errorf("failed to generate travel report email body: %w", err)
	}

	return s.SendEmail(
		[]string{s.cfg.KassenwartEmail},
		ccList(creatorEmail),
		bccList(s.cfg.AdminEmail),
		subject,
		htmlBody,
	)
}

func licenseLabel(trainer *models.Trainer) string {
	if trainer == nil || trainer.LicenseType == nil {
		return "-"
	}
	return trainer.LicenseType.Label()
}

func ccList(email string) []string {
	if email == "" {
		return nil
	}
	return []string{email}
}

func bccList(email string) []string {
	if email == "" {
		return nil
	}
	return []string{email}
}
