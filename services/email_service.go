package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strconv"

	"github.com/learnsphere/academy-api/config"
	"github.com/learnsphere/academy-api/model"
)

// EmailService sends notification emails via SMTP. When SMTP is not
// configured, sends degrade to a log line instead of failing the caller.
type EmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewEmailService creates a new email service instance
func NewEmailService(env *config.EnviornmentVariable) *EmailService {
	port := 587
	if env.SMTP_PORT != "" {
		if p, err := strconv.Atoi(env.SMTP_PORT); err == nil {
			port = p
		}
	}

	from := env.SMTP_FROM
	if from == "" {
		from = "noreply@learnsphere.app"
	}

	host := env.SMTP_HOST
	if host == "" {
		host = "smtp.gmail.com"
	}

	return &EmailService{
		host:     host,
		port:     port,
		username: env.SMTP_USERNAME,
		password: env.SMTP_PASSWORD,
		from:     from,
	}
}

// IsConfigured checks if SMTP is properly configured
func (e *EmailService) IsConfigured() bool {
	return e.username != "" && e.password != ""
}

func (e *EmailService) send(to, subject, body string) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured, skipping email to %s (%s)", to, subject)
		return nil
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		e.from, to, subject, body,
	))

	addr := fmt.Sprintf("%s:%d", e.host, e.port)
	auth := smtp.PlainAuth("", e.username, e.password, e.host)
	return smtp.SendMail(addr, auth, e.from, []string{to}, msg)
}

// SendEnrollmentConfirmation tells the user their access is active.
func (e *EmailService) SendEnrollmentConfirmation(toEmail, firstName string, enrollment *model.Enrollment) error {
	subject := fmt.Sprintf("You're enrolled in %s", enrollment.CourseName)
	if enrollment.IsPremiumPass() {
		subject = "Your premium pass is active"
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nYour enrollment is confirmed and your access is active.\n\nCourse: %s\n\nHappy learning,\n%s",
		firstName, enrollment.CourseName, IssuerName,
	)
	return e.send(toEmail, subject, body)
}

// SendCertificateIssued congratulates the user and includes the certificate
// id they can share or verify.
func (e *EmailService) SendCertificateIssued(toEmail string, cert *model.Certificate) error {
	subject := fmt.Sprintf("Your %s certificate is ready", cert.CourseName)
	body := fmt.Sprintf(
		"Hi %s,\n\nCongratulations on completing %s!\n\nYour certificate ID: %s\nCompleted: %s\n\nYou can download and share it from your dashboard.\n\n%s",
		cert.StudentName, cert.CourseName, cert.ID,
		cert.CompletionDate.Format("January 2, 2006"), IssuerName,
	)
	return e.send(toEmail, subject, body)
}
