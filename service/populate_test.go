package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BerniceZTT/clientiq/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockUserSummaries struct {
	users map[primitive.ObjectID]models.UserSummary
	calls int
}

func (m *mockUserSummaries) Summaries(_ context.Context, _ []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	m.calls++
	return m.users, nil
}

type mockCustomerSummaries struct {
	customers map[primitive.ObjectID]models.CustomerSummary
	calls     int
}

func (m *mockCustomerSummaries) Summaries(_ context.Context, _ []primitive.ObjectID) (map[primitive.ObjectID]models.CustomerSummary, error) {
	m.calls++
	return m.customers, nil
}

type mockLeadSummaries struct {
	leads map[primitive.ObjectID]models.LeadSummary
	calls int
}

func (m *mockLeadSummaries) Summaries(_ context.Context, _ []primitive.ObjectID) (map[primitive.ObjectID]models.LeadSummary, error) {
	m.calls++
	return m.leads, nil
}

func TestExpandLeadsWithDanglingCustomer(t *testing.T) {
	live := primitive.NewObjectID()
	deleted := primitive.NewObjectID()
	users := &mockUserSummaries{}
	customers := &mockCustomerSummaries{customers: map[primitive.ObjectID]models.CustomerSummary{
		live: {ID: live, Name: "Ana"},
	}}
	e := &Expander{UserLookup: users, CustomerLookup: customers}

	views, err := e.Leads(context.Background(), []models.Lead{
		{Title: "A", CustomerID: live},
		{Title: "B", CustomerID: deleted},
	})
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.NotNil(t, views[0].Customer)
	assert.Equal(t, "Ana", views[0].Customer.Name)
	assert.Nil(t, views[1].Customer)
	assert.Nil(t, views[1].AssignedTo)

	// 没有负责人时不查询用户
	assert.Equal(t, 0, users.calls)
	assert.Equal(t, 1, customers.calls)
}

func TestExpandTasksSkipsEmptyLookups(t *testing.T) {
	leadID := primitive.NewObjectID()
	customers := &mockCustomerSummaries{}
	leads := &mockLeadSummaries{leads: map[primitive.ObjectID]models.LeadSummary{
		leadID: {ID: leadID, Title: "Renewal"},
	}}
	e := &Expander{CustomerLookup: customers, LeadLookup: leads}

	view, err := e.Task(context.Background(), &models.Task{Title: "Call", LeadID: &leadID})
	require.NoError(t, err)
	assert.Nil(t, view.Customer)
	require.NotNil(t, view.Lead)
	assert.Equal(t, "Renewal", view.Lead.Title)
	assert.Equal(t, 0, customers.calls)
}

func TestExpandActivitiesAndCustomers(t *testing.T) {
	author := primitive.NewObjectID()
	users := &mockUserSummaries{users: map[primitive.ObjectID]models.UserSummary{
		author: {ID: author, Name: "Sam"},
	}}
	e := &Expander{UserLookup: users}

	activities, err := e.Activities(context.Background(), []models.Activity{{CreatedBy: author}, {CreatedBy: primitive.NewObjectID()}})
	require.NoError(t, err)
	assert.Equal(t, "Sam", activities[0].Author.Name)
	assert.Nil(t, activities[1].Author)

	customers, err := e.Customers(context.Background(), []models.Customer{{Name: "Ana", CreatedBy: author}})
	require.NoError(t, err)
	assert.Equal(t, "Sam", customers[0].Owner.Name)

	empty, err := e.Customers(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Equal(t, 2, users.calls)
}

type mockActivityInserter struct {
	inserted []*models.Activity
	err      error
}

func (m *mockActivityInserter) Insert(_ context.Context, a *models.Activity) error {
	m.inserted = append(m.inserted, a)
	return m.err
}

func TestActivityRecorder(t *testing.T) {
	store := &mockActivityInserter{}
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	r := NewActivityRecorder(store)
	r.now = func() time.Time { return now }

	author := primitive.NewObjectID()
	leadID := primitive.NewObjectID()
	r.Record(context.Background(), models.ActivityLeadCreated, models.LeadRef{ID: leadID}, `Created lead "X"`, author, nil)

	require.Len(t, store.inserted, 1)
	got := store.inserted[0]
	assert.Equal(t, models.ActivityLeadCreated, got.Type)
	assert.Equal(t, models.EntityLead, got.EntityType)
	assert.Equal(t, leadID, got.EntityID)
	assert.Equal(t, author, got.CreatedBy)
	assert.Equal(t, now, got.CreatedAt)
	assert.NotNil(t, got.Metadata)
	assert.Empty(t, got.Metadata)
}

func TestActivityRecorderSwallowsErrors(t *testing.T) {
	store := &mockActivityInserter{err: errors.New("write failed")}
	r := NewActivityRecorder(store)

	assert.NotPanics(t, func() {
		r.Record(context.Background(), models.ActivityTaskCompleted, models.TaskRef{ID: primitive.NewObjectID()},
			`Completed task "Call"`, primitive.NewObjectID(), nil)
	})
	assert.Len(t, store.inserted, 1)
}
