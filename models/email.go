package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmailStatus 邮件发送状态
type EmailStatus string

const (
	EmailStatusSent   EmailStatus = "sent"
	EmailStatusFailed EmailStatus = "failed"
)

// Email 已发送邮件记录，只在投递成功后写入
type Email struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"_id,omitempty"`
	To           string              `bson:"to" json:"to"`
	From         string              `bson:"from" json:"from"`
	Subject      string              `bson:"subject" json:"subject"`
	Body         string              `bson:"body" json:"body"`
	CustomerID   *primitive.ObjectID `bson:"customer,omitempty" json:"customerId,omitempty"`
	LeadID       *primitive.ObjectID `bson:"lead,omitempty" json:"leadId,omitempty"`
	Status       EmailStatus         `bson:"status" json:"status"`
	ErrorMessage string              `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	CreatedBy    primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// EmailFilter 邮件列表筛选条件
type EmailFilter struct {
	OwnerID    primitive.ObjectID
	CustomerID *primitive.ObjectID
	LeadID     *primitive.ObjectID
}

// SendEmailRequest 发送邮件请求
type SendEmailRequest struct {
	To         string `json:"to"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	CustomerID string `json:"customerId" binding:"omitempty,objectid"`
	LeadID     string `json:"leadId" binding:"omitempty,objectid"`
}
