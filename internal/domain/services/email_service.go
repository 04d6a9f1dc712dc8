package services

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/hudaazehraa/neighborly/internal/domain/models"
	"github.com/hudaazehraa/neighborly/internal/infrastructure/config"
)

// InterfaceEmailService 定义邮件服务接口
type InterfaceEmailService interface {
	Send(to []string, subject, body string) error
	SendComplaintAdminNotification(complaint *models.Complaint, user *models.User, apartment string) error
	SendComplaintConfirmation(complaint *models.Complaint, user *models.User) error
	SendResolutionNotification(complaint *models.Complaint, user *models.User) error
	SendWelcomeEmail(user *models.User) error
	SendContactNotification(message *models.ContactMessage) error
	SendPasswordResetEmail(user *models.User, resetURL string) error
}

// EmailService 通过SMTP发送事务性邮件
type EmailService struct {
	Config *config.Config
}

// NewEmailService 创建一个新的邮件服务
func NewEmailService(cfg *config.Config) InterfaceEmailService {
	return &EmailService{
		Config: cfg,
	}
}

// Send 发送一封纯文本邮件
func (s *EmailService) Send(to []string, subject, body string) error {
	if s.Config.SMTPHost == "" {
		return fmt.Errorf("SMTP未配置")
	}

	// 拼装邮件头和正文
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", s.Config.SMTPFrom))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := s.Config.SMTPHost + ":" + s.Config.SMTPPort

	var auth smtp.Auth
	if s.Config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.Config.SMTPUsername, s.Config.SMTPPassword, s.Config.SMTPHost)
	}

	return smtp.SendMail(addr, auth, s.Config.SMTPFrom, to, []byte(msg.String()))
}

// SendComplaintAdminNotification 新投诉提交后通知管理员
func (s *EmailService) SendComplaintAdminNotification(complaint *models.Complaint, user *models.User, apartment string) error {
	if s.Config.AdminNotificationEmail == "" {
		return fmt.Errorf("未配置管理员通知邮箱")
	}

	subject := fmt.Sprintf("New Complaint from %s", user.Username)
	body := fmt.Sprintf(
		"User: %s\nApartment: %s\nTitle: %s\nDescription: %s\nStatus: %s",
		user.Username, apartment, complaint.Title, complaint.Description, complaint.Status,
	)
	return s.Send([]string{s.Config.AdminNotificationEmail}, subject, body)
}

// SendComplaintConfirmation 投诉提交成功后向业主发送确认邮件
func (s *EmailService) SendComplaintConfirmation(complaint *models.Complaint, user *models.User) error {
	subject := "Complaint Received"
	body := fmt.Sprintf(
		"Dear %s,\n\nYour complaint \"%s\" has been successfully submitted.",
		user.Username, complaint.Title,
	)
	return s.Send([]string{user.Email}, subject, body)
}

// SendResolutionNotification 投诉被标记为已解决后通知业主
func (s *EmailService) SendResolutionNotification(complaint *models.Complaint, user *models.User) error {
	name := user.FirstName
	if name == "" {
		name = user.Username
	}

	subject := "Your Complaint Has Been Resolved"
	body := fmt.Sprintf(
		"Dear %s,\n\nYour complaint \"%s\" has been marked as resolved.\n\nThank you for your patience,\nYour Support Team",
		name, complaint.Title,
	)
	return s.Send([]string{user.Email}, subject, body)
}

// SendWelcomeEmail 注册成功后向新用户发送欢迎邮件
func (s *EmailService) SendWelcomeEmail(user *models.User) error {
	name := user.FirstName
	if name == "" {
		name = user.Username
	}

	subject := "Welcome to Neighborly!"
	body := fmt.Sprintf("Hi %s,\n\nThank you for registering at Neighborly.", name)
	return s.Send([]string{user.Email}, subject, body)
}

// SendContactNotification 联系表单留言转发到固定收件邮箱
func (s *EmailService) SendContactNotification(message *models.ContactMessage) error {
	if s.Config.ContactRecipientEmail == "" {
		return fmt.Errorf("未配置联系表单收件邮箱")
	}

	subject := fmt.Sprintf("New Contact Message from %s", message.Name)
	body := fmt.Sprintf(
		"Name: %s\nEmail: %s\n\nMessage:\n%s",
		message.Name, message.Email, message.Message,
	)
	return s.Send([]string{s.Config.ContactRecipientEmail}, subject, body)
}

// SendPasswordResetEmail 发送密码重置链接
func (s *EmailService) SendPasswordResetEmail(user *models.User, resetURL string) error {
	subject := "Password Reset Request"
	body := fmt.Sprintf(
		"Hi %s,\n\nClick the link below to reset your password:\n%s\n\nThe link expires in 24 hours. If you did not request a reset, you can ignore this email.",
		user.Username, resetURL,
	)
	return s.Send([]string{user.Email}, subject, body)
}
