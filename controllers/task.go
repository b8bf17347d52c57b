package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/service"
	"github.com/BerniceZTT/clientiq/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStore 任务数据访问
type TaskStore interface {
	List(ctx context.Context, f models.TaskFilter, p utils.Pagination) ([]models.Task, int64, error)
	Upcoming(ctx context.Context, ownerID primitive.ObjectID, limit int64) ([]models.Task, error)
	FindOwned(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	Save(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Task, error)
}

// TaskPopulator 展开任务关联的客户和线索
type TaskPopulator interface {
	Tasks(ctx context.Context, tasks []models.Task) ([]models.TaskView, error)
	Task(ctx context.Context, task *models.Task) (*models.TaskView, error)
}

// TaskController 任务接口，数据按创建人隔离
type TaskController struct {
	store    TaskStore
	expander TaskPopulator
	activity ActivityLogger
	now      func() time.Time
}

// NewTaskController 创建任务控制器
func NewTaskController(store TaskStore, expander TaskPopulator, activity ActivityLogger) *TaskController {
	return &TaskController{store: store, expander: expander, activity: activity, now: time.Now}
}

// GetTaskList 获取任务列表，按截止日期升序
func (tc *TaskController) GetTaskList(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	p := utils.ParsePagination(c, 20)

	filter := models.TaskFilter{OwnerID: user.ID}
	if raw, exists := c.GetQuery("completed"); exists {
		completed := raw == "true"
		filter.Completed = &completed
	}
	var err error
	if filter.CustomerID, err = queryObjectID(c, "customerId"); err != nil {
		utils.HandleError(c, err)
		return
	}
	if filter.LeadID, err = queryObjectID(c, "leadId"); err != nil {
		utils.HandleError(c, err)
		return
	}

	tasks, total, err := tc.store.List(c.Request.Context(), filter, p)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	views, err := tc.expander.Tasks(c.Request.Context(), tasks)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.PaginatedResponse(c, "tasks", views, total, p)
}

// GetUpcomingTasks 未完成且未过期（或未设截止日期）的任务
func (tc *TaskController) GetUpcomingTasks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	limit := utils.ParseLimit(c.Query("limit"), 10)

	tasks, err := tc.store.Upcoming(c.Request.Context(), user.ID, limit)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	views, err := tc.expander.Tasks(c.Request.Context(), tasks)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetTaskDetail 获取任务详情
func (tc *TaskController) GetTaskDetail(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	task, err := tc.store.FindOwned(c.Request.Context(), id, user.ID)
	if err != nil {
		utils.HandleError(c, notFoundAs(err, "Task"))
		return
	}
	tc.respondView(c, http.StatusOK, task)
}

// CreateTask 创建任务，负责人为当前用户
func (tc *TaskController) CreateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.TaskCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := service.NewTask(req, user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if err := tc.store.Create(c.Request.Context(), task); err != nil {
		utils.HandleError(c, err)
		return
	}

	tc.activity.Record(c.Request.Context(), models.ActivityTaskCreated, models.TaskRef{ID: task.ID},
		fmt.Sprintf("Created task \"%s\"", task.Title), user.ID, nil)
	tc.respondView(c, http.StatusCreated, task)
}

// UpdateTask 更新任务
func (tc *TaskController) UpdateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.TaskUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := tc.store.FindOwned(c.Request.Context(), id, user.ID)
	if err != nil {
		utils.HandleError(c, notFoundAs(err, "Task"))
		return
	}
	completedNow, err := service.ApplyTaskUpdate(task, req, tc.now())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if err := tc.store.Save(c.Request.Context(), task); err != nil {
		utils.HandleError(c, notFoundAs(err, "Task"))
		return
	}

	entry := service.TaskUpdateActivity(task, completedNow)
	tc.activity.Record(c.Request.Context(), entry.Type, models.TaskRef{ID: task.ID}, entry.Description, user.ID, entry.Metadata)
	tc.respondView(c, http.StatusOK, task)
}

// DeleteTask 删除任务
func (tc *TaskController) DeleteTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	task, err := tc.store.Delete(c.Request.Context(), id, user.ID)
	if err != nil {
		utils.HandleError(c, notFoundAs(err, "Task"))
		return
	}

	tc.activity.Record(c.Request.Context(), models.ActivityTaskDeleted, models.TaskRef{ID: id},
		fmt.Sprintf("Deleted task \"%s\"", task.Title), user.ID, nil)
	utils.MessageResponse(c, "Task removed")
}

func (tc *TaskController) respondView(c *gin.Context, status int, task *models.Task) {
	view, err := tc.expander.Task(c.Request.Context(), task)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(status, view)
}
