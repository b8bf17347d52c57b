package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/service"
	"github.com/BerniceZTT/clientiq/utils"

	"github.com/gin-gonic/gin"
)

// smtpNotConfigured SMTP 未配置时的提示
const smtpNotConfigured = "SMTP not configured. Set SMTP_HOST in .env (e.g. smtp.gmail.com for Gmail)"

// EmailStore 邮件记录数据访问
type EmailStore interface {
	List(ctx context.Context, f models.EmailFilter, p utils.Pagination) ([]models.Email, int64, error)
	Create(ctx context.Context, email *models.Email) error
}

// Mailer 邮件发送
type Mailer interface {
	Send(ctx context.Context, email service.OutgoingEmail) error
}

// EmailController 邮件发送与发件记录
type EmailController struct {
	store    EmailStore
	mailer   Mailer
	activity ActivityLogger
}

// NewEmailController 创建邮件控制器，mailer 为 nil 表示 SMTP 未配置
func NewEmailController(store EmailStore, mailer Mailer, activity ActivityLogger) *EmailController {
	return &EmailController{store: store, mailer: mailer, activity: activity}
}

// SendEmail 发送邮件，投递成功后才保存记录
func (ec *EmailController) SendEmail(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.SendEmailRequest
	if !bindJSON(c, &req) {
		return
	}
	to := strings.TrimSpace(req.To)
	if to == "" || utils.IsBlank(req.Subject) || utils.IsBlank(req.Body) {
		utils.ErrorResponse(c, "To, subject, and body are required", http.StatusBadRequest)
		return
	}
	if ec.mailer == nil {
		utils.HandleError(c, utils.CreateServiceUnavailableError(smtpNotConfigured))
		return
	}

	outgoing := service.OutgoingEmail{FromAddress: user.Email, To: to, Subject: req.Subject, Body: req.Body}
	if err := ec.mailer.Send(c.Request.Context(), outgoing); err != nil {
		utils.HandleError(c, err)
		return
	}

	email := &models.Email{
		To:         to,
		From:       outgoing.From(),
		Subject:    req.Subject,
		Body:       req.Body,
		CustomerID: utils.ParseOptionalObjectID(req.CustomerID),
		LeadID:     utils.ParseOptionalObjectID(req.LeadID),
		Status:     models.EmailStatusSent,
		CreatedBy:  user.ID,
	}
	if err := ec.store.Create(c.Request.Context(), email); err != nil {
		utils.HandleError(c, err)
		return
	}

	ec.activity.Record(c.Request.Context(), models.ActivityEmailSent, models.EmailRef{ID: email.ID},
		fmt.Sprintf("Sent email to %s: %s", to, req.Subject), user.ID, nil)
	c.JSON(http.StatusCreated, email)
}

// GetEmailList 当前用户发出的邮件
func (ec *EmailController) GetEmailList(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	p := utils.ParsePagination(c, 20)

	filter := models.EmailFilter{OwnerID: user.ID}
	var err error
	if filter.CustomerID, err = queryObjectID(c, "customerId"); err != nil {
		utils.HandleError(c, err)
		return
	}
	if filter.LeadID, err = queryObjectID(c, "leadId"); err != nil {
		utils.HandleError(c, err)
		return
	}

	emails, total, err := ec.store.List(c.Request.Context(), filter, p)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.PaginatedResponse(c, "emails", emails, total, p)
}
