package models

// ContactRequest AI 接口请求，至少提供一个 ID
type ContactRequest struct {
	CustomerID string `json:"customerId"`
	LeadID     string `json:"leadId"`
}

// EmailDraft AI 生成的邮件草稿
type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ContactSummary AI 生成的联系人摘要
type ContactSummary struct {
	Summary string `json:"summary"`
}
