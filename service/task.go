package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewTask 根据请求构造任务，负责人为创建人
func NewTask(req models.TaskCreateRequest, ownerID primitive.ObjectID) (*models.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, utils.CreateBadRequestError("Title is required")
	}

	task := &models.Task{
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
		Priority:     models.TaskPriorityMedium,
		CustomerID:   utils.ParseOptionalObjectID(req.CustomerID),
		LeadID:       utils.ParseOptionalObjectID(req.LeadID),
		AssignedToID: ownerID,
		CreatedBy:    ownerID,
	}
	if p := models.TaskPriority(req.Priority); p.Valid() {
		task.Priority = p
	}
	if strings.TrimSpace(req.DueDate) != "" {
		due, err := utils.ParseDate(req.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = &due
	}
	return task, nil
}

// ApplyTaskUpdate 合并更新请求，返回本次是否由未完成变为完成
func ApplyTaskUpdate(t *models.Task, req models.TaskUpdateRequest, now time.Time) (bool, error) {
	if req.DueDate.Set {
		if req.DueDate.Value == nil || strings.TrimSpace(*req.DueDate.Value) == "" {
			t.DueDate = nil
		} else {
			due, err := utils.ParseDate(*req.DueDate.Value)
			if err != nil {
				return false, err
			}
			t.DueDate = &due
		}
	}
	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		t.Description = strings.TrimSpace(*req.Description)
	}
	if req.Priority != nil {
		if p := models.TaskPriority(*req.Priority); p.Valid() {
			t.Priority = p
		}
	}

	completedNow := false
	if req.Completed != nil {
		completedNow = *req.Completed && !t.Completed
		t.Completed = *req.Completed
		if t.Completed {
			if t.CompletedAt == nil || completedNow {
				t.CompletedAt = &now
			}
		} else {
			t.CompletedAt = nil
		}
	}
	return completedNow, nil
}

// TaskUpdateActivity 完成任务记为 task_completed，其他修改记为 task_updated
func TaskUpdateActivity(t *models.Task, completedNow bool) ActivityEntry {
	if completedNow {
		return ActivityEntry{
			Type:        models.ActivityTaskCompleted,
			Description: fmt.Sprintf("Completed task \"%s\"", t.Title),
		}
	}
	return ActivityEntry{
		Type:        models.ActivityTaskUpdated,
		Description: fmt.Sprintf("Updated task \"%s\"", t.Title),
	}
}
