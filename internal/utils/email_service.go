package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// MailDialer abstracts gomail's dialer so delivery can be stubbed in tests.
type MailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailService provides templated email delivery over SMTP.
type EmailService struct {
	dialer      MailDialer
	sender      string
	frontendURL string
}

// NewEmailService creates an EmailService with a real SMTP dialer.
func NewEmailService(smtpHost string, smtpPort int, smtpUsername, smtpPassword, sender, frontendURL string) *EmailService {
	return &EmailService{
		dialer:      gomail.NewDialer(smtpHost, smtpPort, smtpUsername, smtpPassword),
		sender:      sender,
		frontendURL: frontendURL,
	}
}

// NewEmailServiceWithDialer creates an EmailService over a custom dialer.
func NewEmailServiceWithDialer(dialer MailDialer, sender, frontendURL string) *EmailService {
	return &EmailService{
		dialer:      dialer,
		sender:      sender,
		frontendURL: frontendURL,
	}
}

// SendEmail sends an HTML email.
func (s *EmailService) SendEmail(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.sender, "Wellness Platform"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	return s.dialer.DialAndSend(m)
}

const emailWrapper = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">%s</div>`

const emailButton = `<a href="%s" style="display: inline-block; padding: 12px 24px; background-color: #10B981; color: white; text-decoration: none; border-radius: 5px;">%s</a>`

// GenerateWelcomeEmailHTML renders the signup welcome email body.
func (s *EmailService) GenerateWelcomeEmailHTML(username string) string {
	body := fmt.Sprintf(`
		<h1 style="color: #10B981;">Welcome %s!</h1>
		<p>Thank you for joining our wellness community. We're excited to help you achieve your health goals!</p>
		<p>With your account, you can:</p>
		<ul>
			<li>Set and track wellness goals</li>
			<li>Book consultations with our nutritionists</li>
			<li>Access exclusive health content</li>
			<li>Monitor your progress</li>
		</ul>
		<p>Start your wellness journey by setting your first goal!</p>
		%s
		<p>Best regards,<br>The Wellness Team</p>`,
		username,
		fmt.Sprintf(emailButton, s.frontendURL+"/dashboard", "Go to Dashboard"))
	return fmt.Sprintf(emailWrapper, body)
}

// GeneratePasswordResetEmailHTML renders the reset-link email body.
func (s *EmailService) GeneratePasswordResetEmailHTML(username, resetURL, expiresIn string) string {
	body := fmt.Sprintf(`
		<h2 style="color: #10B981;">Password Reset</h2>
		<p>Hello %s,</p>
		<p>You requested to reset your password. Click the link below to set a new password:</p>
		%s
		<p>This link will expire in %s.</p>
		<p>If you didn't request this, please ignore this email.</p>
		<p>Best regards,<br>The Wellness Team</p>`,
		username,
		fmt.Sprintf(emailButton, resetURL, "Reset Password"),
		expiresIn)
	return fmt.Sprintf(emailWrapper, body)
}

// GeneratePasswordResetConfirmHTML renders the reset-success email body.
func (s *EmailService) GeneratePasswordResetConfirmHTML(username string) string {
	body := fmt.Sprintf(`
		<h2 style="color: #10B981;">Password Changed Successfully</h2>
		<p>Hello %s,</p>
		<p>Your password has been successfully reset.</p>
		<p>If you did not make this change, please contact us immediately.</p>
		<p>Best regards,<br>The Wellness Team</p>`,
		username)
	return fmt.Sprintf(emailWrapper, body)
}

// GenerateConsultationConfirmationHTML renders the booking confirmation body.
func (s *EmailService) GenerateConsultationConfirmationHTML(name, date, timeOfDay, consultType string, durationMin int) string {
	body := fmt.Sprintf(`
		<h2 style="color: #10B981;">Consultation Confirmed!</h2>
		<p>Hello %s,</p>
		<p>Your consultation has been scheduled successfully.</p>
		<div style="background-color: #F3F4F6; padding: 20px; border-radius: 5px; margin: 20px 0;">
			<p><strong>Date:</strong> %s</p>
			<p><strong>Time:</strong> %s</p>
			<p><strong>Type:</strong> %s</p>
			<p><strong>Duration:</strong> %d minutes</p>
		</div>
		<p>A reminder will be sent before your appointment.</p>
		<p>Best regards,<br>The Wellness Team</p>`,
		name, date, timeOfDay, consultType, durationMin)
	return fmt.Sprintf(emailWrapper, body)
}

// GenerateGoalAchievedHTML renders the goal completion congratulations body.
func (s *EmailService) GenerateGoalAchievedHTML(username, goalTitle string) string {
	body := fmt.Sprintf(`
		<h2 style="color: #10B981;">Congratulations, %s!</h2>
		<p>You reached 100%% of your goal:</p>
		<p style="font-size: 18px;"><strong>%s</strong></p>
		<p>Keep the momentum going and set your next goal!</p>
		%s
		<p>Best regards,<br>The Wellness Team</p>`,
		username, goalTitle,
		fmt.Sprintf(emailButton, s.frontendURL+"/goals", "Set a New Goal"))
	return fmt.Sprintf(emailWrapper, body)
}

// SendWelcomeEmail sends the signup welcome email.
func (s *EmailService) SendWelcomeEmail(to, username string) error {
	return s.SendEmail(to, "Welcome to Wellness Platform!", s.GenerateWelcomeEmailHTML(username))
}

// SendPasswordResetEmail sends the reset-link email.
func (s *EmailService) SendPasswordResetEmail(to, username, resetURL, expiresIn string) error {
	return s.SendEmail(to, "Password Reset Request", s.GeneratePasswordResetEmailHTML(username, resetURL, expiresIn))
}

// SendPasswordResetConfirmEmail sends the reset-success email.
func (s *EmailService) SendPasswordResetConfirmEmail(to, username string) error {
	return s.SendEmail(to, "Password Reset Successful", s.GeneratePasswordResetConfirmHTML(username))
}

// SendConsultationConfirmationEmail sends the booking confirmation email.
func (s *EmailService) SendConsultationConfirmationEmail(to, name, date, timeOfDay, consultType string, durationMin int) error {
	return s.SendEmail(to, "Consultation Confirmation - Wellness Platform",
		s.GenerateConsultationConfirmationHTML(name, date, timeOfDay, consultType, durationMin))
}

// SendGoalAchievedEmail sends the goal completion email.
func (s *EmailService) SendGoalAchievedEmail(to, username, goalTitle string) error {
	return s.SendEmail(to, "Congratulations! Goal Achieved!", s.GenerateGoalAchievedHTML(username, goalTitle))
}
