package service

import (
	"strings"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewCustomer 根据请求构造客户，姓名和邮箱必填
func NewCustomer(req models.CustomerCreateRequest, ownerID primitive.ObjectID) (*models.Customer, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" {
		return nil, utils.CreateBadRequestError("Name and email are required")
	}

	return &models.Customer{
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		Company:   strings.TrimSpace(req.Company),
		Notes:     req.Notes,
		ImageURL:  req.ImageURL,
		CreatedBy: ownerID,
	}, nil
}

// ApplyCustomerUpdate 合并更新请求，出现的字段即使为空串也会覆盖
func ApplyCustomerUpdate(c *models.Customer, req models.CustomerUpdateRequest) {
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Company != nil {
		c.Company = *req.Company
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}
	if req.ImageURL != nil {
		c.ImageURL = *req.ImageURL
	}
}

// CustomerCreatedMetadata 新建客户动态的附加信息
func CustomerCreatedMetadata(c *models.Customer) map[string]interface{} {
	return map[string]interface{}{"name": c.Name, "email": c.Email}
}
