package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRole 用户角色
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// User 用户，Password 为 bcrypt 哈希，不返回给前端
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Role      UserRole           `bson:"role" json:"role"`
	AvatarURL string             `bson:"avatar" json:"avatarUrl"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == UserRoleAdmin
}

// UserSummary 用户引用展开后的简要信息
type UserSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"_id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email,omitempty" json:"email,omitempty"`
}

// 认证相关请求和响应
type (
	// RegisterRequest 注册请求
	RegisterRequest struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		AvatarURL string `json:"avatarUrl"`
	}

	// LoginRequest 登录请求
	LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	// UpdateProfileRequest 更新个人资料
	UpdateProfileRequest struct {
		Name      *string `json:"name"`
		AvatarURL *string `json:"avatarUrl"`
	}

	// AuthResponse 注册/登录响应
	AuthResponse struct {
		ID        primitive.ObjectID `json:"_id"`
		Name      string             `json:"name"`
		Email     string             `json:"email"`
		Role      UserRole           `json:"role"`
		AvatarURL string             `json:"avatarUrl"`
		Token     string             `json:"token,omitempty"`
	}
)

// NewAuthResponse 构造不含密码的用户信息
func NewAuthResponse(u *User, token string) AuthResponse {
	return AuthResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		AvatarURL: u.AvatarURL,
		Token:     token,
	}
}
