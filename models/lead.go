package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeadStatus 销售线索状态，无流转限制
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "New"
	LeadStatusContacted LeadStatus = "Contacted"
	LeadStatusQualified LeadStatus = "Qualified"
	LeadStatusClosed    LeadStatus = "Closed"
	LeadStatusLost      LeadStatus = "Lost"
)

// LeadStatuses 按漏斗顺序排列的全部状态
var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusClosed,
	LeadStatusLost,
}

// Valid 是否为合法状态
func (s LeadStatus) Valid() bool {
	for _, status := range LeadStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Lead 销售线索，全平台共享
type Lead struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"_id,omitempty"`
	Title          string              `bson:"title" json:"title"`
	CustomerID     primitive.ObjectID  `bson:"customer" json:"customerId"`
	Status         LeadStatus          `bson:"status" json:"status"`
	Value          float64             `bson:"value" json:"value"`
	WinProbability float64             `bson:"winProbability" json:"winProbability"`
	ImageURL       string              `bson:"image" json:"imageUrl"`
	Notes          []LeadNote          `bson:"notes" json:"notes"`
	AssignedToID   *primitive.ObjectID `bson:"assignedTo,omitempty" json:"assignedToId,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// LeadView 展开客户和负责人后的线索，客户已删除时 Customer 为 nil
type LeadView struct {
	Lead       `bson:",inline"`
	Customer   *CustomerSummary `bson:"-" json:"customer"`
	AssignedTo *UserSummary     `bson:"-" json:"assignedTo"`
}

// LeadSummary 线索引用展开后的简要信息
type LeadSummary struct {
	ID     primitive.ObjectID `bson:"_id" json:"_id"`
	Title  string             `bson:"title" json:"title"`
	Status LeadStatus         `bson:"status,omitempty" json:"status,omitempty"`
}

// LeadCreateRequest 创建线索请求
type LeadCreateRequest struct {
	Title          string   `json:"title"`
	CustomerID     string   `json:"customerId"`
	Status         string   `json:"status"`
	Value          *float64 `json:"value"`
	WinProbability *float64 `json:"winProbability"`
	Notes          string   `json:"notes"`
	AssignedToID   string   `json:"assignedToId"`
	ImageURL       string   `json:"imageUrl"`
}

// LeadUpdateRequest 更新线索请求，nil 字段保持不变
type LeadUpdateRequest struct {
	Title          *string  `json:"title"`
	CustomerID     *string  `json:"customerId"`
	Status         *string  `json:"status"`
	Value          *float64 `json:"value"`
	WinProbability *float64 `json:"winProbability"`
	AssignedToID   *string  `json:"assignedToId"`
	ImageURL       *string  `json:"imageUrl"`
}
