package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/BerniceZTT/clientiq/config"
	"github.com/BerniceZTT/clientiq/utils"

	"gopkg.in/gomail.v2"
)

// SenderName 发件人显示名称
const SenderName = "ClientIQ"

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// OutgoingEmail 待发送的邮件
type OutgoingEmail struct {
	FromAddress string
	To          string
	Subject     string
	Body        string
}

// From 发件人头，形如 ClientIQ <user@example.com>
func (e OutgoingEmail) From() string {
	return fmt.Sprintf("%s <%s>", SenderName, e.FromAddress)
}

// SMTPMailer 通过 SMTP 发送邮件，启动时创建一次
type SMTPMailer struct {
	dialer *gomail.Dialer
}

// NewSMTPMailer 创建 SMTP 发送器，未配置时返回 nil
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	if !cfg.Configured() {
		utils.Logger.Info().Msg("SMTP 未配置，邮件发送不可用")
		return nil
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.SSL = cfg.Secure
	return &SMTPMailer{dialer: d}
}

// Send 发送邮件，同时附带纯文本和 HTML 两种正文
func (m *SMTPMailer) Send(ctx context.Context, email OutgoingEmail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", email.FromAddress, SenderName)
	msg.SetHeader("To", email.To)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/plain", PlainTextBody(email.Body))
	msg.AddAlternative("text/html", HTMLBody(email.Body))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	utils.LogInfo(map[string]interface{}{"to": email.To, "subject": email.Subject}, "邮件已发送")
	return nil
}

// PlainTextBody 去掉所有标签
func PlainTextBody(body string) string {
	return tagPattern.ReplaceAllString(body, "")
}

// HTMLBody 已含标签时原样使用，否则包裹成段落并把换行转为 <br>
func HTMLBody(body string) string {
	if strings.Contains(body, "<") {
		return body
	}
	return "<p>" + strings.ReplaceAll(body, "\n", "<br>") + "</p>"
}
