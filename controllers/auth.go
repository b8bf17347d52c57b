package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/repository"
	"github.com/BerniceZTT/clientiq/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore 用户数据访问
type UserStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, req models.UpdateProfileRequest) (*models.User, error)
}

// TokenIssuer 签发登录令牌
type TokenIssuer interface {
	GenerateToken(userID primitive.ObjectID) (string, error)
}

// AuthController 注册、登录与个人资料
type AuthController struct {
	users  UserStore
	tokens TokenIssuer
}

// NewAuthController 创建认证控制器
func NewAuthController(users UserStore, tokens TokenIssuer) *AuthController {
	return &AuthController{users: users, tokens: tokens}
}

// Register 用户注册
func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	if utils.IsBlank(req.Name) || utils.IsBlank(req.Email) || req.Password == "" {
		utils.ErrorResponse(c, "Please provide name, email and password", http.StatusBadRequest)
		return
	}

	utils.Logger.Info().Str("email", req.Email).Msg("注册尝试")

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	user, err := ac.users.Create(c.Request.Context(), &models.User{
		Name:      strings.TrimSpace(req.Name),
		Email:     req.Email,
		Password:  hash,
		Role:      models.UserRoleUser,
		AvatarURL: req.AvatarURL,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		utils.ErrorResponse(c, "User already exists with this email", http.StatusBadRequest)
		return
	}
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	token, err := ac.tokens.GenerateToken(user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.Logger.Info().Str("userId", user.ID.Hex()).Msg("注册成功")
	c.JSON(http.StatusCreated, models.NewAuthResponse(user, token))
}

// Login 用户登录
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	if utils.IsBlank(req.Email) || req.Password == "" {
		utils.ErrorResponse(c, "Please provide email and password", http.StatusBadRequest)
		return
	}

	user, err := ac.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		utils.HandleError(c, err)
		return
	}
	if user == nil || !utils.VerifyPassword(req.Password, user.Password) {
		utils.Logger.Info().Str("email", req.Email).Msg("登录失败: 邮箱或密码错误")
		utils.ErrorResponse(c, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	token, err := ac.tokens.GenerateToken(user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.Logger.Info().Str("userId", user.ID.Hex()).Msg("登录成功")
	c.JSON(http.StatusOK, models.NewAuthResponse(user, token))
}

// GetMe 当前用户信息
func (ac *AuthController) GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile 更新姓名和头像
func (ac *AuthController) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := ac.users.UpdateProfile(c.Request.Context(), user.ID, req)
	if err != nil {
		utils.HandleError(c, notFoundAs(err, "User"))
		return
	}
	c.JSON(http.StatusOK, models.NewAuthResponse(updated, ""))
}
