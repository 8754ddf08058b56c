package services

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"conflow/config"
	"conflow/models"

	"gorm.io/gorm"
)

// NotificationRecipient identifies the user a notification is addressed to.
type NotificationRecipient struct {
	ID    int
	Email string
}

// Notifier persists a notification record and best-effort delivers an email.
type Notifier interface {
	CreateAndSend(ctx context.Context, recipient NotificationRecipient, title, message string, relatedSubmissionID *uint) error
}

// NotificationService is the production Notifier backed by the notifications
// table and the SMTP mailer.
type NotificationService struct {
	db       *gorm.DB
	sendMail func(to []string, subject, html string) error
}

// NewNotificationService constructs a NotificationService. A nil db falls back
// to the global connection.
func NewNotificationService(db *gorm.DB) *NotificationService {
	if db == nil {
		db = config.DB
	}
	return &NotificationService{
		db:       db,
		sendMail: config.SendMail,
	}
}

// CreateAndSend stores the notification, then emails the recipient. A failed
// email does not undo the stored notification; only a failed insert is an
// error to the caller.
func (s *NotificationService) CreateAndSend(ctx context.Context, recipient NotificationRecipient, title, message string, relatedSubmissionID *uint) error {
	n := models.Notification{
		UserID:              recipient.ID,
		Title:               title,
		Message:             message,
		Type:                "info",
		RelatedSubmissionID: relatedSubmissionID,
		IsRead:              false,
		CreateAt:            time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return err
	}

	if strings.TrimSpace(recipient.Email) == "" {
		return nil
	}

	html := buildNotificationEmailHTML(title, message)
	if err := s.sendMail([]string{recipient.Email}, title, html); err != nil {
		log.Printf("notification email send failed (user=%d subject=%q): %v", recipient.ID, title, err)
	}
	return nil
}

func buildNotificationEmailHTML(subject, message string) string {
	escapedSubject := template.HTMLEscapeString(subject)
	escapedMessage := template.HTMLEscapeString(strings.TrimSpace(message))
	escapedMessage = strings.ReplaceAll(strings.ReplaceAll(escapedMessage, "\r\n", "\n"), "\r", "\n")
	escapedMessage = strings.ReplaceAll(escapedMessage, "\n", "<br />")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;font-weight:600;">%s</p>
    <p style="margin:0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
  </div>
</div>
</body>
</html>`, escapedSubject, escapedSubject, escapedMessage)
}
