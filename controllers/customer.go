package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/service"
	"github.com/BerniceZTT/clientiq/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomerStore 客户数据访问
type CustomerStore interface {
	List(ctx context.Context, ownerID primitive.ObjectID, search string, p utils.Pagination) ([]models.Customer, int64, error)
	FindOwned(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	Save(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Customer, error)
}

// CustomerPopulator 展开客户的创建人
type CustomerPopulator interface {
	Customers(ctx context.Context, customers []models.Customer) ([]models.CustomerView, error)
}

// CustomerController 客户接口，数据按创建人隔离
type CustomerController struct {
	store    CustomerStore
	expander CustomerPopulator
	activity ActivityLogger
}

// NewCustomerController 创建客户控制器
func NewCustomerController(store CustomerStore, expander CustomerPopulator, activity ActivityLogger) *CustomerController {
	return &CustomerController{store: store, expander: expander, activity: activity}
}

// GetCustomerList 获取客户列表
func (cc *CustomerController) GetCustomerList(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	p := utils.ParsePagination(c, 10)
	search := strings.TrimSpace(c.Query("search"))

	customers, total, err := cc.store.List(c.Request.Context(), user.ID, search, p)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.PaginatedResponse(c, "customers", customers, total, p)
}

// GetCustomerDetail 获取客户详情，创建人展开为 {name, email}
func (cc *CustomerController) GetCustomerDetail(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	customer, err := cc.store.FindOwned(c.Request.Context(), id, user.ID)
	if err != nil {
		utils.HandleError(c, notFoundAs(err, "Customer"))
		return
	}
	views, err := cc.expander.Customers(c.Request.Context(), []models.Customer{*customer})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, views[0])
}

// CreateCustomer 创建客户
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.CustomerCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := service.NewCustomer(req, user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if err := cc.store.Create(c.Request.Context(), customer); err != nil {
		utils.HandleError(c, err)
		return
	}

	cc.activity.Record(c.Request.Context(), models.ActivityCustomerCreated, models.CustomerRef{ID: customer.ID},
		fmt.Sprintf("Created customer \"%s\"", customer.Name), user.ID, service.CustomerCreatedMetadata(customer))
	c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer 更新客户，只合并请求中出现的字段
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.CustomerUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := cc.store.FindOwned(c.Request.Context(), id, user.ID)
	if err != nil {
		utils.HandleError(c, notFoundAs(err, "Customer"))
		return
	}
	service.ApplyCustomerUpdate(customer, req)
	if err := cc.store.Save(c.Request.Context(), customer); err != nil {
		utils.HandleError(c, notFoundAs(err, "Customer"))
		return
	}

	cc.activity.Record(c.Request.Context(), models.ActivityCustomerUpdated, models.CustomerRef{ID: customer.ID},
		fmt.Sprintf("Updated customer \"%s\"", customer.Name), user.ID, nil)
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer 删除客户，关联的线索保留
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	customer, err := cc.store.Delete(c.Request.Context(), id, user.ID)
	if err != nil {
		utils.HandleError(c, notFoundAs(err, "Customer"))
		return
	}

	cc.activity.Record(c.Request.Context(), models.ActivityCustomerDeleted, models.CustomerRef{ID: id},
		fmt.Sprintf("Deleted customer \"%s\"", customer.Name), user.ID, nil)
	utils.MessageResponse(c, "Customer removed")
}
