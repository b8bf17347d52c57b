package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/service"
	"github.com/BerniceZTT/clientiq/utils"

	"github.com/gin-gonic/gin"
)

// aiNotConfigured 未设置 API Key 时的提示
const aiNotConfigured = "AI not configured. Set GOOGLE_GENERATIVE_AI_API_KEY in .env"

// ContactGatherer 汇总联系人上下文
type ContactGatherer interface {
	Gather(ctx context.Context, customerID, leadID string) (*service.ContactContext, error)
}

// TextGenerator 生成式文本
type TextGenerator interface {
	DraftEmail(ctx context.Context, recipient, contactContext string) (*models.EmailDraft, error)
	Summarize(ctx context.Context, contactContext string) (string, error)
}

// AIController 邮件草稿与联系人摘要，generator 为 nil 表示未配置
type AIController struct {
	contacts  ContactGatherer
	generator TextGenerator
	now       func() time.Time
}

// NewAIController 创建 AI 控制器
func NewAIController(contacts ContactGatherer, generator TextGenerator) *AIController {
	return &AIController{contacts: contacts, generator: generator, now: time.Now}
}

// DraftEmail 生成邮件草稿
func (ac *AIController) DraftEmail(c *gin.Context) {
	cc, ok := ac.gather(c)
	if !ok {
		return
	}
	draft, err := ac.generator.DraftEmail(c.Request.Context(), cc.RecipientName(), cc.Render(ac.now()))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// Summarize 生成联系人摘要
func (ac *AIController) Summarize(c *gin.Context) {
	cc, ok := ac.gather(c)
	if !ok {
		return
	}
	summary, err := ac.generator.Summarize(c.Request.Context(), cc.Render(ac.now()))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ContactSummary{Summary: summary})
}

// gather 校验配置和参数后收集上下文，失败时已写入响应
func (ac *AIController) gather(c *gin.Context) (*service.ContactContext, bool) {
	if ac.generator == nil {
		utils.HandleError(c, utils.CreateServiceUnavailableError(aiNotConfigured))
		return nil, false
	}
	var req models.ContactRequest
	if !bindJSON(c, &req) {
		return nil, false
	}
	customerID, leadID := strings.TrimSpace(req.CustomerID), strings.TrimSpace(req.LeadID)
	if customerID == "" && leadID == "" {
		utils.ErrorResponse(c, "customerId or leadId required", http.StatusBadRequest)
		return nil, false
	}

	cc, err := ac.contacts.Gather(c.Request.Context(), customerID, leadID)
	if err != nil {
		utils.HandleError(c, err)
		return nil, false
	}
	return cc, true
}
