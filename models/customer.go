package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer 客户模型，按创建人隔离
type Customer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	Company   string             `bson:"company" json:"company"`
	Notes     string             `bson:"notes" json:"notes"`
	ImageURL  string             `bson:"image" json:"imageUrl"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CustomerSummary 客户引用展开后的简要信息
type CustomerSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Phone    string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Company  string             `bson:"company,omitempty" json:"company,omitempty"`
	ImageURL string             `bson:"image,omitempty" json:"imageUrl,omitempty"`
}

// CustomerCreateRequest 创建客户请求
type CustomerCreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Company  string `json:"company"`
	Notes    string `json:"notes"`
	ImageURL string `json:"imageUrl"`
}

// CustomerUpdateRequest 更新客户请求，nil 字段保持不变
type CustomerUpdateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Company  *string `json:"company"`
	Notes    *string `json:"notes"`
	ImageURL *string `json:"imageUrl"`
}

// CustomerView 展开创建人后的客户
type CustomerView struct {
	Customer `bson:",inline"`
	Owner    *UserSummary `bson:"-" json:"createdBy"`
}
