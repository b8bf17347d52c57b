package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/repository"
	"github.com/BerniceZTT/clientiq/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memCustomerStore struct {
	customers  map[primitive.ObjectID]*models.Customer
	lastSearch string
	lastPage   utils.Pagination
}

func newMemCustomerStore(customers ...*models.Customer) *memCustomerStore {
	m := &memCustomerStore{customers: make(map[primitive.ObjectID]*models.Customer)}
	for _, c := range customers {
		m.customers[c.ID] = c
	}
	return m
}

func (m *memCustomerStore) List(_ context.Context, ownerID primitive.ObjectID, search string, p utils.Pagination) ([]models.Customer, int64, error) {
	m.lastSearch, m.lastPage = search, p
	out := []models.Customer{}
	for _, c := range m.customers {
		if c.CreatedBy == ownerID {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memCustomerStore) FindOwned(_ context.Context, id, ownerID primitive.ObjectID) (*models.Customer, error) {
	c, ok := m.customers[id]
	if !ok || c.CreatedBy != ownerID {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCustomerStore) Create(_ context.Context, customer *models.Customer) error {
	customer.ID = primitive.NewObjectID()
	m.customers[customer.ID] = customer
	return nil
}

func (m *memCustomerStore) Save(_ context.Context, customer *models.Customer) error {
	m.customers[customer.ID] = customer
	return nil
}

func (m *memCustomerStore) Delete(_ context.Context, id, ownerID primitive.ObjectID) (*models.Customer, error) {
	c, err := m.FindOwned(context.Background(), id, ownerID)
	if err != nil {
		return nil, err
	}
	delete(m.customers, id)
	return c, nil
}

func newCustomerFixture() (*memCustomerStore, *mockActivityLogger, *CustomerController, *models.Customer) {
	own := &models.Customer{ID: primitive.NewObjectID(), Name: "Acme Corp", Email: "hello@acme.test", CreatedBy: testUser.ID}
	store := newMemCustomerStore(own)
	activity := &mockActivityLogger{}
	expander := newExpander(stubUsers{testUser.ID: {ID: testUser.ID, Name: testUser.Name, Email: testUser.Email}}, nil, nil)
	return store, activity, NewCustomerController(store, expander, activity), own
}

func TestGetCustomerList(t *testing.T) {
	store, _, ctrl, _ := newCustomerFixture()
	store.customers[primitive.NewObjectID()] = &models.Customer{Name: "Someone else's", CreatedBy: primitive.NewObjectID()}
	r := newRouter(testUser, http.MethodGet, "/customers", ctrl.GetCustomerList)

	w := doRequest(r, http.MethodGet, "/customers?search=%20acme%20&limit=0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acme", store.lastSearch)
	assert.Equal(t, int64(10), store.lastPage.Limit)

	var body struct {
		Customers []models.Customer `json:"customers"`
		Total     int64             `json:"total"`
	}
	decodeBody(t, w, &body)
	assert.Len(t, body.Customers, 1)
	assert.Equal(t, int64(1), body.Total)
}

func TestGetCustomerDetail(t *testing.T) {
	_, _, ctrl, own := newCustomerFixture()
	r := newRouter(testUser, http.MethodGet, "/customers/:id", ctrl.GetCustomerDetail)

	w := doRequest(r, http.MethodGet, "/customers/"+own.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view models.CustomerView
	decodeBody(t, w, &view)
	require.NotNil(t, view.Owner)
	assert.Equal(t, testUser.Name, view.Owner.Name)

	other := &models.User{ID: primitive.NewObjectID(), Name: "Other"}
	r = newRouter(other, http.MethodGet, "/customers/:id", ctrl.GetCustomerDetail)
	w = doRequest(r, http.MethodGet, "/customers/"+own.ID.Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Customer not found", messageOf(t, w))
}

func TestCreateCustomer(t *testing.T) {
	_, activity, ctrl, _ := newCustomerFixture()
	r := newRouter(testUser, http.MethodPost, "/customers", ctrl.CreateCustomer)

	w := doRequest(r, http.MethodPost, "/customers", map[string]string{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Name and email are required", messageOf(t, w))

	w = doRequest(r, http.MethodPost, "/customers", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", messageOf(t, w))
	assert.Empty(t, activity.entries)

	w = doRequest(r, http.MethodPost, "/customers", map[string]string{"name": "Globex", "email": "ops@globex.test", "company": "Globex"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Customer
	decodeBody(t, w, &created)
	assert.Equal(t, testUser.ID, created.CreatedBy)

	require.Len(t, activity.entries, 1)
	assert.Equal(t, models.ActivityCustomerCreated, activity.entries[0].Type)
	assert.Equal(t, `Created customer "Globex"`, activity.entries[0].Description)
	assert.Equal(t, models.CustomerRef{ID: created.ID}, activity.entries[0].Ref)
	assert.Equal(t, "ops@globex.test", activity.entries[0].Metadata["email"])
}

func TestUpdateCustomer_MergesPresentFields(t *testing.T) {
	store, activity, ctrl, own := newCustomerFixture()
	own.Phone = "555-0100"
	r := newRouter(testUser, http.MethodPut, "/customers/:id", ctrl.UpdateCustomer)

	w := doRequest(r, http.MethodPut, "/customers/"+own.ID.Hex(), map[string]string{"company": "Acme Holdings"})
	require.Equal(t, http.StatusOK, w.Code)
	saved := store.customers[own.ID]
	assert.Equal(t, "Acme Holdings", saved.Company)
	assert.Equal(t, "555-0100", saved.Phone)
	require.Len(t, activity.entries, 1)
	assert.Equal(t, models.ActivityCustomerUpdated, activity.entries[0].Type)
}

func TestDeleteCustomer(t *testing.T) {
	_, activity, ctrl, own := newCustomerFixture()
	r := newRouter(testUser, http.MethodDelete, "/customers/:id", ctrl.DeleteCustomer)

	w := doRequest(r, http.MethodDelete, "/customers/"+own.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Customer removed", messageOf(t, w))
	require.Len(t, activity.entries, 1)
	assert.Equal(t, models.ActivityCustomerDeleted, activity.entries[0].Type)

	w = doRequest(r, http.MethodDelete, "/customers/"+own.ID.Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
