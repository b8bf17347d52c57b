package repository

import (
	"context"
	"time"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskRepository 任务数据访问，按创建人隔离
type TaskRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewTaskRepository 创建任务仓储
func NewTaskRepository(database *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: database.Collection(TasksCollection), now: time.Now}
}

// TaskListFilter 构造任务列表查询条件
func TaskListFilter(f models.TaskFilter) bson.M {
	filter := bson.M{"createdBy": f.OwnerID}
	if f.Completed != nil {
		filter["completed"] = *f.Completed
	}
	if f.CustomerID != nil {
		filter["customer"] = *f.CustomerID
	}
	if f.LeadID != nil {
		filter["lead"] = *f.LeadID
	}
	return filter
}

// UpcomingFilter 未完成且未过期或没有截止日期的任务
func UpcomingFilter(ownerID primitive.ObjectID, now time.Time) bson.M {
	return bson.M{
		"createdBy": ownerID,
		"completed": false,
		"$or": []bson.M{
			{"dueDate": nil},
			{"dueDate": bson.M{"$gte": now}},
		},
	}
}

// linkedFilter 引用了客户或线索之一的文档，两者都为空时返回 nil
func linkedFilter(customerID, leadID *primitive.ObjectID) bson.M {
	var or []bson.M
	if customerID != nil {
		or = append(or, bson.M{"customer": *customerID})
	}
	if leadID != nil {
		or = append(or, bson.M{"lead": *leadID})
	}
	if len(or) == 0 {
		return nil
	}
	return bson.M{"$or": or}
}

// sortByDueDate 截止日期升序，其次创建时间倒序
func sortByDueDate() bson.D {
	return bson.D{{Key: "dueDate", Value: 1}, {Key: "createdAt", Value: -1}}
}

// List 分页查询任务
func (r *TaskRepository) List(ctx context.Context, f models.TaskFilter, p utils.Pagination) ([]models.Task, int64, error) {
	filter := TaskListFilter(f)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.coll.Find(ctx, filter, pageOptions(sortByDueDate(), p))
	if err != nil {
		return nil, 0, err
	}
	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Upcoming 即将到期的任务
func (r *TaskRepository) Upcoming(ctx context.Context, ownerID primitive.ObjectID, limit int64) ([]models.Task, error) {
	cursor, err := r.coll.Find(ctx,
		UpcomingFilter(ownerID, r.now()),
		options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ForContact 引用了客户或线索的任务，不限创建人
func (r *TaskRepository) ForContact(ctx context.Context, customerID, leadID *primitive.ObjectID, limit int64) ([]models.Task, error) {
	filter := linkedFilter(customerID, leadID)
	if filter == nil {
		return []models.Task{}, nil
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindOwned 查找当前用户的任务
func (r *TaskRepository) FindOwned(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	if err := r.coll.FindOne(ctx, ownedFilter(id, ownerID)).Decode(&task); err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

// Create 新建任务
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	now := r.now()
	task.ID = primitive.NewObjectID()
	task.CreatedAt = now
	task.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, task)
	return translateError(err)
}

// Save 整体覆盖已存在的任务
func (r *TaskRepository) Save(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = r.now()
	res, err := r.coll.ReplaceOne(ctx, ownedFilter(task.ID, task.CreatedBy), task)
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete 删除任务并返回被删除的文档
func (r *TaskRepository) Delete(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	if err := r.coll.FindOneAndDelete(ctx, ownedFilter(id, ownerID)).Decode(&task); err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

// Count 任务总数
func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

// CountCompleted 已完成任务数
func (r *TaskRepository) CountCompleted(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"completed": true})
}
