package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/BerniceZTT/clientiq/config"
	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/utils"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

const (
	draftSystemPrompt   = "You are a helpful CRM assistant. Draft professional, friendly sales/relationship emails. Be concise and actionable."
	summarySystemPrompt = "You are a CRM assistant. Summarize contact history in 2-4 concise sentences. Highlight key facts, last contact, and suggested next action."
)

// ErrEmptyCompletion 模型没有返回内容
var ErrEmptyCompletion = errors.New("AI returned no content")

// emailDraftSchema 邮件草稿的结构化输出格式
var emailDraftSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"subject": {Type: jsonschema.String, Description: "Short, professional email subject line"},
		"body":    {Type: jsonschema.String, Description: "Professional email body, 2-4 paragraphs"},
	},
	Required:             []string{"subject", "body"},
	AdditionalProperties: false,
}

// DraftPrompt 草稿生成提示词
func DraftPrompt(recipient, contactContext string) string {
	return fmt.Sprintf("Draft a follow-up email to %s based on this CRM context:\n\n%s\n\nGenerate a subject line and email body.", recipient, contactContext)
}

// SummaryPrompt 摘要生成提示词
func SummaryPrompt(contactContext string) string {
	return "Summarize this contact/lead:\n\n" + contactContext
}

// TextGenerator 生成式文本客户端
type TextGenerator struct {
	client *openai.Client
	model  string
}

// NewTextGenerator 创建 OpenAI 兼容客户端，未配置 API Key 时返回 nil
func NewTextGenerator(cfg config.AIConfig) *TextGenerator {
	if !cfg.Configured() {
		utils.Logger.Info().Msg("AI 未配置，草稿和摘要功能不可用")
		return nil
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	utils.Logger.Info().Str("model", cfg.Model).Str("baseURL", clientCfg.BaseURL).Msg("初始化 AI 客户端")
	return &TextGenerator{client: openai.NewClientWithConfig(clientCfg), model: cfg.Model}
}

// DraftEmail 根据上下文生成 {subject, body}
func (g *TextGenerator) DraftEmail(ctx context.Context, recipient, contactContext string) (*models.EmailDraft, error) {
	content, err := g.complete(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: draftSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: DraftPrompt(recipient, contactContext)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "email_draft",
				Schema: &emailDraftSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return nil, err
	}
	return ParseEmailDraft(content)
}

// Summarize 根据上下文生成 2-4 句摘要
func (g *TextGenerator) Summarize(ctx context.Context, contactContext string) (string, error) {
	return g.complete(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: SummaryPrompt(contactContext)},
		},
	})
}

func (g *TextGenerator) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		utils.Logger.Error().Err(err).Str("model", g.model).Msg("AI 调用失败")
		return "", fmt.Errorf("AI request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	utils.Logger.Debug().Str("finishReason", string(resp.Choices[0].FinishReason)).Msg("AI 返回结果")
	return resp.Choices[0].Message.Content, nil
}

// ParseEmailDraft 解析结构化输出，兼容被 ``` 包裹的 JSON
func ParseEmailDraft(content string) (*models.EmailDraft, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var draft models.EmailDraft
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &draft); err != nil {
		return nil, fmt.Errorf("parse AI draft: %w", err)
	}
	if draft.Subject == "" && draft.Body == "" {
		return nil, ErrEmptyCompletion
	}
	return &draft, nil
}
