package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeadNote 线索跟进备注，按追加顺序保存在线索文档内
type LeadNote struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Text      string             `bson:"text" json:"text"`
	CreatedBy primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// NewLeadNote 创建一条备注
func NewLeadNote(text string, authorID primitive.ObjectID, now time.Time) LeadNote {
	return LeadNote{
		ID:        primitive.NewObjectIDFromTimestamp(now),
		Text:      text,
		CreatedBy: authorID,
		CreatedAt: now,
	}
}

// CreateLeadNoteInput 添加备注的输入数据
type CreateLeadNoteInput struct {
	Text string `json:"text"`
}
