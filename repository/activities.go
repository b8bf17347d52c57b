package repository

import (
	"context"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivityRepository 动态数据访问，只追加
type ActivityRepository struct {
	coll *mongo.Collection
}

// NewActivityRepository 创建动态仓储
func NewActivityRepository(database *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: database.Collection(ActivitiesCollection)}
}

// ActivityListFilter 构造动态列表查询条件
func ActivityListFilter(f models.ActivityFilter) bson.M {
	filter := bson.M{"createdBy": f.AuthorID}
	if f.EntityType != "" {
		filter["entityType"] = f.EntityType
	}
	if f.EntityID != nil {
		filter["entityId"] = *f.EntityID
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	return filter
}

// EntityRefsFilter 匹配任一实体引用的动态，refs 为空时返回 nil
func EntityRefsFilter(refs ...models.EntityRef) bson.M {
	or := make([]bson.M, 0, len(refs))
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		or = append(or, bson.M{"entityType": ref.Type(), "entityId": ref.ObjectID()})
	}
	if len(or) == 0 {
		return nil
	}
	return bson.M{"$or": or}
}

// Insert 写入一条动态
func (r *ActivityRepository) Insert(ctx context.Context, activity *models.Activity) error {
	activity.ID = primitive.NewObjectID()
	_, err := r.coll.InsertOne(ctx, activity)
	return err
}

// List 分页查询动态
func (r *ActivityRepository) List(ctx context.Context, f models.ActivityFilter, p utils.Pagination) ([]models.Activity, int64, error) {
	filter := ActivityListFilter(f)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.coll.Find(ctx, filter, pageOptions(sortByCreatedDesc(), p))
	if err != nil {
		return nil, 0, err
	}
	activities := []models.Activity{}
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

// Recent 最新动态，authorID 为 nil 时不限作者
func (r *ActivityRepository) Recent(ctx context.Context, authorID *primitive.ObjectID, limit int64) ([]models.Activity, error) {
	filter := bson.M{}
	if authorID != nil {
		filter["createdBy"] = *authorID
	}
	return r.find(ctx, filter, limit)
}

// ForEntities 关联到任一实体的最新动态
func (r *ActivityRepository) ForEntities(ctx context.Context, limit int64, refs ...models.EntityRef) ([]models.Activity, error) {
	filter := EntityRefsFilter(refs...)
	if filter == nil {
		return []models.Activity{}, nil
	}
	return r.find(ctx, filter, limit)
}

func (r *ActivityRepository) find(ctx context.Context, filter bson.M, limit int64) ([]models.Activity, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(sortByCreatedDesc()).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	activities := []models.Activity{}
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// Count 动态总数
func (r *ActivityRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
