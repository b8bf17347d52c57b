package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityType 动态事件类型
type ActivityType string

const (
	ActivityCustomerCreated   ActivityType = "customer_created"
	ActivityCustomerUpdated   ActivityType = "customer_updated"
	ActivityCustomerDeleted   ActivityType = "customer_deleted"
	ActivityLeadCreated       ActivityType = "lead_created"
	ActivityLeadUpdated       ActivityType = "lead_updated"
	ActivityLeadDeleted       ActivityType = "lead_deleted"
	ActivityLeadStatusChanged ActivityType = "lead_status_changed"
	ActivityLeadNoteAdded     ActivityType = "lead_note_added"
	ActivityEmailSent         ActivityType = "email_sent"
	ActivityTaskCreated       ActivityType = "task_created"
	ActivityTaskCompleted     ActivityType = "task_completed"
	ActivityTaskUpdated       ActivityType = "task_updated"
	ActivityTaskDeleted       ActivityType = "task_deleted"
)

// EntityType 动态关联的实体类型
type EntityType string

const (
	EntityCustomer EntityType = "Customer"
	EntityLead     EntityType = "Lead"
	EntityEmail    EntityType = "Email"
	EntityTask     EntityType = "Task"
)

// EntityRef 动态关联的实体引用。
// 只有本包内的 CustomerRef、LeadRef、EmailRef、TaskRef 实现该接口。
type EntityRef interface {
	Type() EntityType
	ObjectID() primitive.ObjectID
	entityRef()
}

type (
	CustomerRef struct{ ID primitive.ObjectID }
	LeadRef     struct{ ID primitive.ObjectID }
	EmailRef    struct{ ID primitive.ObjectID }
	TaskRef     struct{ ID primitive.ObjectID }
)

func (CustomerRef) Type() EntityType                { return EntityCustomer }
func (r CustomerRef) ObjectID() primitive.ObjectID { return r.ID }
func (CustomerRef) entityRef()                      {}

func (LeadRef) Type() EntityType                { return EntityLead }
func (r LeadRef) ObjectID() primitive.ObjectID { return r.ID }
func (LeadRef) entityRef()                      {}

func (EmailRef) Type() EntityType                { return EntityEmail }
func (r EmailRef) ObjectID() primitive.ObjectID { return r.ID }
func (EmailRef) entityRef()                      {}

func (TaskRef) Type() EntityType                { return EntityTask }
func (r TaskRef) ObjectID() primitive.ObjectID { return r.ID }
func (TaskRef) entityRef()                      {}

// NewEntityRef 根据类型标签构造引用，未知类型返回错误
func NewEntityRef(entityType EntityType, id primitive.ObjectID) (EntityRef, error) {
	switch entityType {
	case EntityCustomer:
		return CustomerRef{ID: id}, nil
	case EntityLead:
		return LeadRef{ID: id}, nil
	case EntityEmail:
		return EmailRef{ID: id}, nil
	case EntityTask:
		return TaskRef{ID: id}, nil
	}
	return nil, fmt.Errorf("unknown entity type %q", entityType)
}

// Activity 动态记录，只追加不修改
type Activity struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty" json:"_id,omitempty"`
	Type        ActivityType           `bson:"type" json:"type"`
	EntityType  EntityType             `bson:"entityType" json:"entityType"`
	EntityID    primitive.ObjectID     `bson:"entityId" json:"entityId"`
	Description string                 `bson:"description" json:"description"`
	Metadata    map[string]interface{} `bson:"metadata" json:"metadata"`
	CreatedBy   primitive.ObjectID     `bson:"createdBy" json:"authorId"`
	CreatedAt   time.Time              `bson:"createdAt" json:"createdAt"`
}

// NewActivity 构造动态记录，实体类型与 ID 均取自 ref
func NewActivity(activityType ActivityType, ref EntityRef, description string, authorID primitive.ObjectID, metadata map[string]interface{}, now time.Time) Activity {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return Activity{
		Type:        activityType,
		EntityType:  ref.Type(),
		EntityID:    ref.ObjectID(),
		Description: description,
		Metadata:    metadata,
		CreatedBy:   authorID,
		CreatedAt:   now,
	}
}

// Entity 还原实体引用
func (a Activity) Entity() (EntityRef, error) {
	return NewEntityRef(a.EntityType, a.EntityID)
}

// ActivityView 展开作者后的动态
type ActivityView struct {
	Activity `bson:",inline"`
	Author   *UserSummary `bson:"-" json:"author"`
}

// ActivityFilter 动态列表筛选条件
type ActivityFilter struct {
	AuthorID   primitive.ObjectID
	EntityType EntityType
	EntityID   *primitive.ObjectID
	Type       ActivityType
}
