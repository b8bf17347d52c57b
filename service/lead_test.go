package service

import (
	"testing"
	"time"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool { return &b }

func TestNewLeadRequiresTitleAndCustomer(t *testing.T) {
	author := primitive.NewObjectID()
	now := time.Now()

	cases := []models.LeadCreateRequest{
		{Title: "", CustomerID: primitive.NewObjectID().Hex()},
		{Title: "   ", CustomerID: primitive.NewObjectID().Hex()},
		{Title: "Deal", CustomerID: ""},
	}
	for _, req := range cases {
		_, err := NewLead(req, author, now)
		require.Error(t, err)
		assert.Equal(t, 400, utils.StatusOf(err))
		assert.Equal(t, "Title and customer are required", err.Error())
	}
}

func TestNewLeadDefaultsAndClamps(t *testing.T) {
	author := primitive.NewObjectID()
	customer := primitive.NewObjectID()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	lead, err := NewLead(models.LeadCreateRequest{
		Title:          " Big deal ",
		CustomerID:     customer.Hex(),
		Status:         "Bogus",
		WinProbability: floatPtr(150),
		Notes:          " first call ",
	}, author, now)
	require.NoError(t, err)

	assert.Equal(t, "Big deal", lead.Title)
	assert.Equal(t, customer, lead.CustomerID)
	assert.Equal(t, models.LeadStatusNew, lead.Status)
	assert.Equal(t, 0.0, lead.Value)
	assert.Equal(t, 100.0, lead.WinProbability)
	require.Len(t, lead.Notes, 1)
	assert.Equal(t, "first call", lead.Notes[0].Text)
	assert.Equal(t, author, lead.Notes[0].CreatedBy)
	assert.Nil(t, lead.AssignedToID)

	lead, err = NewLead(models.LeadCreateRequest{
		Title:          "Small",
		CustomerID:     customer.Hex(),
		Status:         "Qualified",
		Value:          floatPtr(1200.5),
		WinProbability: floatPtr(-10),
	}, author, now)
	require.NoError(t, err)
	assert.Equal(t, models.LeadStatusQualified, lead.Status)
	assert.Equal(t, 1200.5, lead.Value)
	assert.Equal(t, 0.0, lead.WinProbability)
	assert.Empty(t, lead.Notes)
}

func TestNewLeadRejectsMalformedIDs(t *testing.T) {
	_, err := NewLead(models.LeadCreateRequest{Title: "x", CustomerID: "nope"}, primitive.NewObjectID(), time.Now())
	assert.Equal(t, 400, utils.StatusOf(err))

	_, err = NewLead(models.LeadCreateRequest{
		Title:        "x",
		CustomerID:   primitive.NewObjectID().Hex(),
		AssignedToID: "123",
	}, primitive.NewObjectID(), time.Now())
	assert.Equal(t, 400, utils.StatusOf(err))
}

func TestApplyLeadUpdateStatusChange(t *testing.T) {
	lead := &models.Lead{Title: "Deal", Status: models.LeadStatusNew, Value: 10}

	change, err := ApplyLeadUpdate(lead, models.LeadUpdateRequest{
		Status:         strPtr("Contacted"),
		Value:          floatPtr(50),
		WinProbability: floatPtr(101),
	})
	require.NoError(t, err)
	assert.True(t, change.StatusChanged)
	assert.Equal(t, models.LeadStatusContacted, lead.Status)
	assert.Equal(t, 50.0, lead.Value)
	assert.Equal(t, 100.0, lead.WinProbability)

	entry := LeadUpdateActivity(lead, change)
	assert.Equal(t, models.ActivityLeadStatusChanged, entry.Type)
	assert.Equal(t, `Changed lead status from "New" to "Contacted"`, entry.Description)
	assert.Equal(t, map[string]interface{}{"oldStatus": "New", "newStatus": "Contacted"}, entry.Metadata)
}

func TestApplyLeadUpdateGenericUpdate(t *testing.T) {
	cases := []struct {
		name string
		req  models.LeadUpdateRequest
	}{
		{"same status", models.LeadUpdateRequest{Status: strPtr("New"), Title: strPtr("Renamed")}},
		{"invalid status", models.LeadUpdateRequest{Status: strPtr("Won")}},
		{"no status", models.LeadUpdateRequest{Title: strPtr("")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lead := &models.Lead{Title: "Deal", Status: models.LeadStatusNew}
			change, err := ApplyLeadUpdate(lead, tc.req)
			require.NoError(t, err)
			assert.False(t, change.StatusChanged)
			assert.Equal(t, models.LeadStatusNew, lead.Status)

			entry := LeadUpdateActivity(lead, change)
			assert.Equal(t, models.ActivityLeadUpdated, entry.Type)
			assert.Equal(t, `Updated lead "`+lead.Title+`"`, entry.Description)
		})
	}
}

func TestApplyLeadUpdateAssignee(t *testing.T) {
	assignee := primitive.NewObjectID()
	lead := &models.Lead{Title: "Deal", Status: models.LeadStatusNew}

	_, err := ApplyLeadUpdate(lead, models.LeadUpdateRequest{AssignedToID: strPtr(assignee.Hex())})
	require.NoError(t, err)
	require.NotNil(t, lead.AssignedToID)
	assert.Equal(t, assignee, *lead.AssignedToID)

	_, err = ApplyLeadUpdate(lead, models.LeadUpdateRequest{AssignedToID: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, lead.AssignedToID)

	_, err = ApplyLeadUpdate(lead, models.LeadUpdateRequest{CustomerID: strPtr("bad")})
	assert.Equal(t, 400, utils.StatusOf(err))
}

func TestCustomerCreateAndUpdate(t *testing.T) {
	owner := primitive.NewObjectID()

	_, err := NewCustomer(models.CustomerCreateRequest{Name: "Ana"}, owner)
	require.Error(t, err)
	assert.Equal(t, "Name and email are required", err.Error())

	c, err := NewCustomer(models.CustomerCreateRequest{Name: " Ana ", Email: "ana@example.com", Company: "Acme"}, owner)
	require.NoError(t, err)
	assert.Equal(t, "Ana", c.Name)
	assert.Equal(t, owner, c.CreatedBy)
	assert.Equal(t, map[string]interface{}{"name": "Ana", "email": "ana@example.com"}, CustomerCreatedMetadata(c))

	ApplyCustomerUpdate(c, models.CustomerUpdateRequest{Company: strPtr(""), Phone: strPtr("123")})
	assert.Equal(t, "", c.Company)
	assert.Equal(t, "123", c.Phone)
	assert.Equal(t, "Ana", c.Name)
}
