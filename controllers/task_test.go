package controllers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/repository"
	"github.com/BerniceZTT/clientiq/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memTaskStore struct {
	tasks      map[primitive.ObjectID]*models.Task
	lastFilter models.TaskFilter
	lastLimit  int64
}

func newMemTaskStore(tasks ...*models.Task) *memTaskStore {
	m := &memTaskStore{tasks: make(map[primitive.ObjectID]*models.Task)}
	for _, task := range tasks {
		m.tasks[task.ID] = task
	}
	return m
}

func (m *memTaskStore) List(_ context.Context, f models.TaskFilter, _ utils.Pagination) ([]models.Task, int64, error) {
	m.lastFilter = f
	out := []models.Task{}
	for _, task := range m.tasks {
		out = append(out, *task)
	}
	return out, int64(len(out)), nil
}

func (m *memTaskStore) Upcoming(_ context.Context, _ primitive.ObjectID, limit int64) ([]models.Task, error) {
	m.lastLimit = limit
	return []models.Task{}, nil
}

func (m *memTaskStore) FindOwned(_ context.Context, id, ownerID primitive.ObjectID) (*models.Task, error) {
	task, ok := m.tasks[id]
	if !ok || task.CreatedBy != ownerID {
		return nil, repository.ErrNotFound
	}
	cp := *task
	return &cp, nil
}

func (m *memTaskStore) Create(_ context.Context, task *models.Task) error {
	task.ID = primitive.NewObjectID()
	m.tasks[task.ID] = task
	return nil
}

func (m *memTaskStore) Save(_ context.Context, task *models.Task) error {
	m.tasks[task.ID] = task
	return nil
}

func (m *memTaskStore) Delete(_ context.Context, id, ownerID primitive.ObjectID) (*models.Task, error) {
	task, err := m.FindOwned(context.Background(), id, ownerID)
	if err != nil {
		return nil, err
	}
	delete(m.tasks, id)
	return task, nil
}

func newTaskFixture() (*memTaskStore, *mockActivityLogger, *TaskController, *models.Task) {
	task := &models.Task{
		ID:        primitive.NewObjectID(),
		Title:     "Call back",
		Priority:  models.TaskPriorityMedium,
		CreatedBy: testUser.ID,
	}
	store := newMemTaskStore(task)
	activity := &mockActivityLogger{}
	ctrl := NewTaskController(store, newExpander(nil, nil, nil), activity)
	ctrl.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	return store, activity, ctrl, task
}

func TestGetTaskList_Filters(t *testing.T) {
	store, _, ctrl, _ := newTaskFixture()
	r := newRouter(testUser, http.MethodGet, "/tasks", ctrl.GetTaskList)
	customerID := primitive.NewObjectID()

	w := doRequest(r, http.MethodGet, "/tasks?completed=false&customerId="+customerID.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, store.lastFilter.Completed)
	assert.False(t, *store.lastFilter.Completed)
	assert.Equal(t, &customerID, store.lastFilter.CustomerID)
	assert.Nil(t, store.lastFilter.LeadID)
	assert.Equal(t, testUser.ID, store.lastFilter.OwnerID)

	w = doRequest(r, http.MethodGet, "/tasks?leadId=xyz", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid leadId", messageOf(t, w))

	w = doRequest(r, http.MethodGet, "/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, store.lastFilter.Completed)
}

func TestGetUpcomingTasks_ReturnsArray(t *testing.T) {
	store, _, ctrl, _ := newTaskFixture()
	r := newRouter(testUser, http.MethodGet, "/tasks/upcoming", ctrl.GetUpcomingTasks)

	w := doRequest(r, http.MethodGet, "/tasks/upcoming", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.Equal(t, int64(10), store.lastLimit)
}

func TestCreateTask(t *testing.T) {
	_, activity, ctrl, _ := newTaskFixture()
	r := newRouter(testUser, http.MethodPost, "/tasks", ctrl.CreateTask)

	w := doRequest(r, http.MethodPost, "/tasks", map[string]string{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title is required", messageOf(t, w))

	w = doRequest(r, http.MethodPost, "/tasks", map[string]string{"title": "X", "customerId": "bad"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid customerId", messageOf(t, w))

	w = doRequest(r, http.MethodPost, "/tasks", map[string]string{"title": "X", "dueDate": "someday"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, activity.entries)

	w = doRequest(r, http.MethodPost, "/tasks", map[string]string{"title": "Send quote", "priority": "urgent", "dueDate": "2024-05-03"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var view models.TaskView
	decodeBody(t, w, &view)
	assert.Equal(t, models.TaskPriorityMedium, view.Priority)
	assert.Equal(t, testUser.ID, view.AssignedToID)
	require.NotNil(t, view.DueDate)
	assert.Nil(t, view.Customer)

	require.Len(t, activity.entries, 1)
	assert.Equal(t, models.ActivityTaskCreated, activity.entries[0].Type)
	assert.Equal(t, `Created task "Send quote"`, activity.entries[0].Description)
}

func TestUpdateTask_Completion(t *testing.T) {
	store, activity, ctrl, task := newTaskFixture()
	r := newRouter(testUser, http.MethodPut, "/tasks/:id", ctrl.UpdateTask)

	w := doRequest(r, http.MethodPut, "/tasks/"+task.ID.Hex(), map[string]bool{"completed": true})
	require.Equal(t, http.StatusOK, w.Code)
	saved := store.tasks[task.ID]
	assert.True(t, saved.Completed)
	require.NotNil(t, saved.CompletedAt)
	assert.Equal(t, ctrl.now(), *saved.CompletedAt)
	require.Len(t, activity.entries, 1)
	assert.Equal(t, models.ActivityTaskCompleted, activity.entries[0].Type)

	w = doRequest(r, http.MethodPut, "/tasks/"+task.ID.Hex(), map[string]string{"title": "Call back Friday"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, activity.entries, 2)
	assert.Equal(t, models.ActivityTaskUpdated, activity.entries[1].Type)
	assert.Equal(t, `Updated task "Call back Friday"`, activity.entries[1].Description)

	w = doRequest(r, http.MethodPut, "/tasks/"+task.ID.Hex(), map[string]bool{"completed": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, store.tasks[task.ID].CompletedAt)
}

func TestUpdateTask_ClearsDueDateWithNull(t *testing.T) {
	store, _, ctrl, task := newTaskFixture()
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	task.DueDate = &due
	r := newRouter(testUser, http.MethodPut, "/tasks/:id", ctrl.UpdateTask)

	w := doRequest(r, http.MethodPut, "/tasks/"+task.ID.Hex(), `{"dueDate":null}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, store.tasks[task.ID].DueDate)
}

func TestTaskDetailAndDelete_OwnerScoped(t *testing.T) {
	_, activity, ctrl, task := newTaskFixture()
	stranger := &models.User{ID: primitive.NewObjectID(), Name: "Stranger"}

	r := newRouter(stranger, http.MethodGet, "/tasks/:id", ctrl.GetTaskDetail)
	w := doRequest(r, http.MethodGet, "/tasks/"+task.ID.Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Task not found", messageOf(t, w))

	r = newRouter(stranger, http.MethodDelete, "/tasks/:id", ctrl.DeleteTask)
	w = doRequest(r, http.MethodDelete, "/tasks/"+task.ID.Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, activity.entries)

	r = newRouter(testUser, http.MethodDelete, "/tasks/:id", ctrl.DeleteTask)
	w = doRequest(r, http.MethodDelete, "/tasks/"+task.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Task removed", messageOf(t, w))
	require.Len(t, activity.entries, 1)
	assert.Equal(t, models.ActivityTaskDeleted, activity.entries[0].Type)
	assert.Equal(t, `Deleted task "Call back"`, activity.entries[0].Description)
}
