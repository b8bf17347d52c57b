package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewLead 根据请求构造线索，标题和客户必填
func NewLead(req models.LeadCreateRequest, authorID primitive.ObjectID, now time.Time) (*models.Lead, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.CustomerID) == "" {
		return nil, utils.CreateBadRequestError("Title and customer are required")
	}
	customerID, ok := utils.ParseObjectID(req.CustomerID)
	if !ok {
		return nil, utils.CreateBadRequestError("Invalid customer ID")
	}

	lead := &models.Lead{
		Title:      title,
		CustomerID: customerID,
		Status:     models.LeadStatusNew,
		ImageURL:   req.ImageURL,
		Notes:      []models.LeadNote{},
	}
	if s := models.LeadStatus(req.Status); s.Valid() {
		lead.Status = s
	}
	if req.Value != nil {
		lead.Value = *req.Value
	}
	if req.WinProbability != nil {
		lead.WinProbability = utils.ClampFloat(*req.WinProbability, 0, 100)
	}
	if req.AssignedToID != "" {
		assignee, ok := utils.ParseObjectID(req.AssignedToID)
		if !ok {
			return nil, utils.CreateBadRequestError("Invalid assignee ID")
		}
		lead.AssignedToID = &assignee
	}
	if text := strings.TrimSpace(req.Notes); text != "" {
		lead.Notes = append(lead.Notes, models.NewLeadNote(text, authorID, now))
	}
	return lead, nil
}

// LeadChange 一次更新中状态的变化
type LeadChange struct {
	StatusChanged bool
	OldStatus     models.LeadStatus
	NewStatus     models.LeadStatus
}

// ApplyLeadUpdate 合并更新请求，非法状态被忽略，赢单概率限制在 [0,100]
func ApplyLeadUpdate(l *models.Lead, req models.LeadUpdateRequest) (LeadChange, error) {
	change := LeadChange{OldStatus: l.Status, NewStatus: l.Status}

	if req.CustomerID != nil {
		customerID, ok := utils.ParseObjectID(*req.CustomerID)
		if !ok {
			return change, utils.CreateBadRequestError("Invalid customer ID")
		}
		l.CustomerID = customerID
	}
	if req.AssignedToID != nil {
		if *req.AssignedToID == "" {
			l.AssignedToID = nil
		} else {
			assignee, ok := utils.ParseObjectID(*req.AssignedToID)
			if !ok {
				return change, utils.CreateBadRequestError("Invalid assignee ID")
			}
			l.AssignedToID = &assignee
		}
	}
	if req.Title != nil {
		l.Title = *req.Title
	}
	if req.Status != nil {
		if s := models.LeadStatus(*req.Status); s.Valid() {
			change.StatusChanged = s != l.Status
			change.NewStatus = s
			l.Status = s
		}
	}
	if req.Value != nil {
		l.Value = *req.Value
	}
	if req.WinProbability != nil {
		l.WinProbability = utils.ClampFloat(*req.WinProbability, 0, 100)
	}
	if req.ImageURL != nil {
		l.ImageURL = *req.ImageURL
	}
	return change, nil
}

// ActivityEntry 待记录的一条动态
type ActivityEntry struct {
	Type        models.ActivityType
	Description string
	Metadata    map[string]interface{}
}

// LeadUpdateActivity 一次更新只产生一条动态，状态变化优先
func LeadUpdateActivity(l *models.Lead, change LeadChange) ActivityEntry {
	if change.StatusChanged {
		return ActivityEntry{
			Type:        models.ActivityLeadStatusChanged,
			Description: fmt.Sprintf("Changed lead status from \"%s\" to \"%s\"", change.OldStatus, change.NewStatus),
			Metadata: map[string]interface{}{
				"oldStatus": string(change.OldStatus),
				"newStatus": string(change.NewStatus),
			},
		}
	}
	return ActivityEntry{
		Type:        models.ActivityLeadUpdated,
		Description: fmt.Sprintf("Updated lead \"%s\"", l.Title),
	}
}
