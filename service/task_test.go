package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/BerniceZTT/clientiq/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewTask(t *testing.T) {
	owner := primitive.NewObjectID()

	_, err := NewTask(models.TaskCreateRequest{Title: "  "}, owner)
	require.Error(t, err)
	assert.Equal(t, "Title is required", err.Error())

	lead := primitive.NewObjectID()
	task, err := NewTask(models.TaskCreateRequest{
		Title:    " Call back ",
		DueDate:  "2024-06-01",
		Priority: "urgent",
		LeadID:   lead.Hex(),
	}, owner)
	require.NoError(t, err)
	assert.Equal(t, "Call back", task.Title)
	assert.Equal(t, models.TaskPriorityMedium, task.Priority)
	assert.Equal(t, owner, task.AssignedToID)
	assert.Equal(t, owner, task.CreatedBy)
	assert.Nil(t, task.CustomerID)
	require.NotNil(t, task.LeadID)
	assert.Equal(t, lead, *task.LeadID)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2024-06-01", task.DueDate.Format("2006-01-02"))

	_, err = NewTask(models.TaskCreateRequest{Title: "x", DueDate: "next week"}, owner)
	assert.Error(t, err)
}

func TestApplyTaskUpdateCompletion(t *testing.T) {
	now := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
	task := &models.Task{Title: "Call", Priority: models.TaskPriorityLow}

	completedNow, err := ApplyTaskUpdate(task, models.TaskUpdateRequest{Completed: boolPtr(true)}, now)
	require.NoError(t, err)
	assert.True(t, completedNow)
	assert.True(t, task.Completed)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, now, *task.CompletedAt)
	assert.Equal(t, models.ActivityTaskCompleted, TaskUpdateActivity(task, completedNow).Type)

	// 已完成的任务再次标记完成不改变完成时间
	later := now.Add(time.Hour)
	completedNow, err = ApplyTaskUpdate(task, models.TaskUpdateRequest{Completed: boolPtr(true)}, later)
	require.NoError(t, err)
	assert.False(t, completedNow)
	assert.Equal(t, now, *task.CompletedAt)
	assert.Equal(t, models.ActivityTaskUpdated, TaskUpdateActivity(task, completedNow).Type)

	completedNow, err = ApplyTaskUpdate(task, models.TaskUpdateRequest{Completed: boolPtr(false)}, later)
	require.NoError(t, err)
	assert.False(t, completedNow)
	assert.False(t, task.Completed)
	assert.Nil(t, task.CompletedAt)
}

func TestApplyTaskUpdateFields(t *testing.T) {
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	task := &models.Task{Title: "Call", Priority: models.TaskPriorityLow, DueDate: &due}

	var req models.TaskUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":" Email ","priority":"bogus"}`), &req))
	_, err := ApplyTaskUpdate(task, req, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Email", task.Title)
	assert.Equal(t, models.TaskPriorityLow, task.Priority)
	assert.Equal(t, &due, task.DueDate)

	req = models.TaskUpdateRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":null,"priority":"high"}`), &req))
	_, err = ApplyTaskUpdate(task, req, time.Now())
	require.NoError(t, err)
	assert.Nil(t, task.DueDate)
	assert.Equal(t, models.TaskPriorityHigh, task.Priority)
}
