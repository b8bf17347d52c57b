package service

import (
	"context"

	"github.com/BerniceZTT/clientiq/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserSummaries 批量查询用户
type UserSummaries interface {
	Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error)
}

// CustomerSummaries 批量查询客户
type CustomerSummaries interface {
	Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.CustomerSummary, error)
}

// LeadSummaries 批量查询线索
type LeadSummaries interface {
	Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.LeadSummary, error)
}

// Expander 展开文档中的引用，被引用文档已删除时对应字段为 nil
type Expander struct {
	UserLookup     UserSummaries
	CustomerLookup CustomerSummaries
	LeadLookup     LeadSummaries
}

// Customers 展开客户的创建人
func (e *Expander) Customers(ctx context.Context, customers []models.Customer) ([]models.CustomerView, error) {
	ids := make([]primitive.ObjectID, 0, len(customers))
	for _, c := range customers {
		ids = append(ids, c.CreatedBy)
	}
	users, err := e.users(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.CustomerView, 0, len(customers))
	for _, c := range customers {
		views = append(views, models.CustomerView{Customer: c, Owner: lookup(users, c.CreatedBy)})
	}
	return views, nil
}

// Leads 展开线索的客户和负责人
func (e *Expander) Leads(ctx context.Context, leads []models.Lead) ([]models.LeadView, error) {
	customerIDs := make([]primitive.ObjectID, 0, len(leads))
	userIDs := make([]primitive.ObjectID, 0, len(leads))
	for _, l := range leads {
		customerIDs = append(customerIDs, l.CustomerID)
		if l.AssignedToID != nil {
			userIDs = append(userIDs, *l.AssignedToID)
		}
	}

	customers, err := e.customers(ctx, customerIDs)
	if err != nil {
		return nil, err
	}
	users, err := e.users(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.LeadView, 0, len(leads))
	for _, l := range leads {
		view := models.LeadView{Lead: l, Customer: lookup(customers, l.CustomerID)}
		if l.AssignedToID != nil {
			view.AssignedTo = lookup(users, *l.AssignedToID)
		}
		views = append(views, view)
	}
	return views, nil
}

// Lead 展开单条线索
func (e *Expander) Lead(ctx context.Context, lead *models.Lead) (*models.LeadView, error) {
	views, err := e.Leads(ctx, []models.Lead{*lead})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Tasks 展开任务的客户和线索
func (e *Expander) Tasks(ctx context.Context, tasks []models.Task) ([]models.TaskView, error) {
	var customerIDs, leadIDs []primitive.ObjectID
	for _, t := range tasks {
		if t.CustomerID != nil {
			customerIDs = append(customerIDs, *t.CustomerID)
		}
		if t.LeadID != nil {
			leadIDs = append(leadIDs, *t.LeadID)
		}
	}

	customers, err := e.customers(ctx, customerIDs)
	if err != nil {
		return nil, err
	}
	leads, err := e.leads(ctx, leadIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.TaskView, 0, len(tasks))
	for _, t := range tasks {
		view := models.TaskView{Task: t}
		if t.CustomerID != nil {
			view.Customer = lookup(customers, *t.CustomerID)
		}
		if t.LeadID != nil {
			view.Lead = lookup(leads, *t.LeadID)
		}
		views = append(views, view)
	}
	return views, nil
}

// Task 展开单条任务
func (e *Expander) Task(ctx context.Context, task *models.Task) (*models.TaskView, error) {
	views, err := e.Tasks(ctx, []models.Task{*task})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Activities 展开动态的作者
func (e *Expander) Activities(ctx context.Context, activities []models.Activity) ([]models.ActivityView, error) {
	ids := make([]primitive.ObjectID, 0, len(activities))
	for _, a := range activities {
		ids = append(ids, a.CreatedBy)
	}
	users, err := e.users(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.ActivityView, 0, len(activities))
	for _, a := range activities {
		views = append(views, models.ActivityView{Activity: a, Author: lookup(users, a.CreatedBy)})
	}
	return views, nil
}

func (e *Expander) users(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return e.UserLookup.Summaries(ctx, ids)
}

func (e *Expander) customers(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.CustomerSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return e.CustomerLookup.Summaries(ctx, ids)
}

func (e *Expander) leads(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.LeadSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return e.LeadLookup.Summaries(ctx, ids)
}

// lookup 从结果集中取出引用，缺失时返回 nil
func lookup[T any](m map[primitive.ObjectID]T, id primitive.ObjectID) *T {
	v, ok := m[id]
	if !ok {
		return nil
	}
	return &v
}
