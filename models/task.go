package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskPriority 任务优先级
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid 是否为合法优先级
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task 待办任务，按创建人隔离
type Task struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"_id,omitempty"`
	Title        string              `bson:"title" json:"title"`
	Description  string              `bson:"description" json:"description"`
	DueDate      *time.Time          `bson:"dueDate" json:"dueDate"`
	Completed    bool                `bson:"completed" json:"completed"`
	CompletedAt  *time.Time          `bson:"completedAt" json:"completedAt"`
	Priority     TaskPriority        `bson:"priority" json:"priority"`
	CustomerID   *primitive.ObjectID `bson:"customer,omitempty" json:"customerId,omitempty"`
	LeadID       *primitive.ObjectID `bson:"lead,omitempty" json:"leadId,omitempty"`
	AssignedToID primitive.ObjectID  `bson:"assignedTo" json:"assignedToId"`
	CreatedBy    primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// TaskView 展开客户和线索后的任务
type TaskView struct {
	Task     `bson:",inline"`
	Customer *CustomerSummary `bson:"-" json:"customer"`
	Lead     *LeadSummary     `bson:"-" json:"lead"`
}

// TaskFilter 任务列表筛选条件
type TaskFilter struct {
	OwnerID    primitive.ObjectID
	Completed  *bool
	CustomerID *primitive.ObjectID
	LeadID     *primitive.ObjectID
}

// TaskCreateRequest 创建任务请求
type TaskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
	CustomerID  string `json:"customerId" binding:"omitempty,objectid"`
	LeadID      string `json:"leadId" binding:"omitempty,objectid"`
}

// TaskUpdateRequest 更新任务请求，DueDate 传 null 表示清空
type TaskUpdateRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	DueDate     Optional[string] `json:"dueDate"`
	Completed   *bool            `json:"completed"`
	Priority    *string          `json:"priority"`
}
