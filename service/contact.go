package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/repository"
	"github.com/BerniceZTT/clientiq/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	contactActivityLimit = 15
	contactEmailLimit    = 5
	contactTaskLimit     = 10
)

// CustomerFinder 按 ID 查找客户
type CustomerFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error)
}

// LeadFinder 按 ID 查找线索
type LeadFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Lead, error)
}

// EntityActivities 查询实体关联的动态
type EntityActivities interface {
	ForEntities(ctx context.Context, limit int64, refs ...models.EntityRef) ([]models.Activity, error)
}

// ContactEmails 查询联系人相关邮件
type ContactEmails interface {
	ForContact(ctx context.Context, customerID, leadID *primitive.ObjectID, limit int64) ([]models.Email, error)
}

// ContactTasks 查询联系人相关任务
type ContactTasks interface {
	ForContact(ctx context.Context, customerID, leadID *primitive.ObjectID, limit int64) ([]models.Task, error)
}

// ContactAggregator 汇总客户/线索的上下文，供 AI 生成使用
type ContactAggregator struct {
	Customers  CustomerFinder
	Leads      LeadFinder
	Activities EntityActivities
	Emails     ContactEmails
	Tasks      ContactTasks
}

// ContactContext 联系人上下文
type ContactContext struct {
	Customer   *models.Customer
	Lead       *models.Lead
	Activities []models.Activity
	Emails     []models.Email
	Tasks      []models.Task
}

// Gather 收集上下文，非法或不存在的 ID 视为未提供
func (a *ContactAggregator) Gather(ctx context.Context, customerID, leadID string) (*ContactContext, error) {
	cc := &ContactContext{}

	if oid, ok := utils.ParseObjectID(customerID); ok {
		customer, err := a.Customers.FindByID(ctx, oid)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		cc.Customer = customer
	}
	if oid, ok := utils.ParseObjectID(leadID); ok {
		lead, err := a.Leads.FindByID(ctx, oid)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		cc.Lead = lead
	}
	if cc.Customer == nil && cc.Lead != nil {
		customer, err := a.Customers.FindByID(ctx, cc.Lead.CustomerID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		cc.Customer = customer
	}

	var cid, lid *primitive.ObjectID
	var refs []models.EntityRef
	if cc.Customer != nil {
		cid = &cc.Customer.ID
		refs = append(refs, models.CustomerRef{ID: cc.Customer.ID})
	}
	if cc.Lead != nil {
		lid = &cc.Lead.ID
		refs = append(refs, models.LeadRef{ID: cc.Lead.ID})
	}
	if len(refs) == 0 {
		return cc, nil
	}

	var err error
	if cc.Activities, err = a.Activities.ForEntities(ctx, contactActivityLimit, refs...); err != nil {
		return nil, err
	}
	if cc.Emails, err = a.Emails.ForContact(ctx, cid, lid, contactEmailLimit); err != nil {
		return nil, err
	}
	if cc.Tasks, err = a.Tasks.ForContact(ctx, cid, lid, contactTaskLimit); err != nil {
		return nil, err
	}
	return cc, nil
}

// RecipientName 收件人称呼：客户名，其次线索标题，否则 Contact
func (cc *ContactContext) RecipientName() string {
	if cc.Customer != nil && cc.Customer.Name != "" {
		return cc.Customer.Name
	}
	if cc.Lead != nil && cc.Lead.Title != "" {
		return cc.Lead.Title
	}
	return "Contact"
}

// Render 生成多行文本，空的部分直接省略
func (cc *ContactContext) Render(now time.Time) string {
	var parts []string

	if c := cc.Customer; c != nil {
		line := fmt.Sprintf("Customer: %s (%s)", c.Name, c.Email)
		if c.Company != "" {
			line += ", Company: " + c.Company
		}
		parts = append(parts, line)
	}
	if l := cc.Lead; l != nil {
		parts = append(parts, fmt.Sprintf("Lead: %s, Status: %s, Value: ₹%s",
			l.Title, l.Status, strconv.FormatFloat(l.Value, 'f', -1, 64)))

		if len(l.Notes) > 0 {
			notes := make([]string, 0, len(l.Notes))
			for _, n := range l.Notes {
				notes = append(notes, n.Text)
			}
			parts = append(parts, "Lead notes: "+strings.Join(notes, "; "))
		}
	}
	if len(cc.Activities) > 0 {
		items := make([]string, 0, len(cc.Activities))
		for _, a := range cc.Activities {
			items = append(items, fmt.Sprintf("%s (%s)", a.Description, RelativeDay(a.CreatedAt, now)))
		}
		parts = append(parts, "Recent activity: "+strings.Join(items, ". "))
	}
	if len(cc.Emails) > 0 {
		items := make([]string, 0, len(cc.Emails))
		for _, e := range cc.Emails {
			items = append(items, fmt.Sprintf("%s to %s", e.Subject, e.To))
		}
		parts = append(parts, "Recent emails: "+strings.Join(items, "; "))
	}
	if len(cc.Tasks) > 0 {
		items := make([]string, 0, len(cc.Tasks))
		for _, t := range cc.Tasks {
			item := t.Title
			if t.Completed {
				item += " (done)"
			}
			items = append(items, item)
		}
		parts = append(parts, "Tasks: "+strings.Join(items, "; "))
	}

	return strings.Join(parts, "\n")
}

// RelativeDay 相对日期：today、yesterday、N days ago，未来或超过一个月给出日期
func RelativeDay(t, now time.Time) string {
	day := func(x time.Time) time.Time {
		y, m, d := x.In(now.Location()).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	}
	days := int(math.Round(day(now).Sub(day(t)).Hours() / 24))
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days > 1 && days <= 30:
		return fmt.Sprintf("%d days ago", days)
	}
	return t.In(now.Location()).Format("2006-01-02")
}
