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

// LeadRepository 线索数据访问，线索全平台共享
type LeadRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewLeadRepository 创建线索仓储
func NewLeadRepository(database *mongo.Database) *LeadRepository {
	return &LeadRepository{coll: database.Collection(LeadsCollection), now: time.Now}
}

// LeadListFilter 只有合法状态才作为筛选条件
func LeadListFilter(status string) bson.M {
	filter := bson.M{}
	if s := models.LeadStatus(status); s.Valid() {
		filter["status"] = s
	}
	return filter
}

// List 分页查询线索
func (r *LeadRepository) List(ctx context.Context, status string, p utils.Pagination) ([]models.Lead, int64, error) {
	filter := LeadListFilter(status)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.coll.Find(ctx, filter, pageOptions(sortByCreatedDesc(), p))
	if err != nil {
		return nil, 0, err
	}
	leads := []models.Lead{}
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// FindByID 根据ID查找线索
func (r *LeadRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Lead, error) {
	var lead models.Lead
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&lead); err != nil {
		return nil, translateError(err)
	}
	return &lead, nil
}

// Create 新建线索
func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	now := r.now()
	lead.ID = primitive.NewObjectID()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	if lead.Notes == nil {
		lead.Notes = []models.LeadNote{}
	}
	_, err := r.coll.InsertOne(ctx, lead)
	return translateError(err)
}

// Save 整体覆盖已存在的线索
func (r *LeadRepository) Save(ctx context.Context, lead *models.Lead) error {
	lead.UpdatedAt = r.now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": lead.ID}, lead)
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddNote 追加一条备注，返回更新后的线索
func (r *LeadRepository) AddNote(ctx context.Context, id primitive.ObjectID, note models.LeadNote) (*models.Lead, error) {
	var lead models.Lead
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"notes": note},
			"$set":  bson.M{"updatedAt": r.now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&lead)
	if err != nil {
		return nil, translateError(err)
	}
	return &lead, nil
}

// Delete 删除线索并返回被删除的文档
func (r *LeadRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.Lead, error) {
	var lead models.Lead
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&lead); err != nil {
		return nil, translateError(err)
	}
	return &lead, nil
}

// Summaries 批量查询线索简要信息
func (r *LeadRepository) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.LeadSummary, error) {
	result := make(map[primitive.ObjectID]models.LeadSummary, len(ids))
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return result, nil
	}

	cursor, err := r.coll.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"_id": 1, "title": 1, "status": 1}),
	)
	if err != nil {
		return nil, err
	}
	var leads []models.LeadSummary
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, err
	}
	for _, l := range leads {
		result[l.ID] = l
	}
	return result, nil
}

// Recent 最新创建的 n 条线索
func (r *LeadRepository) Recent(ctx context.Context, n int64) ([]models.Lead, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(sortByCreatedDesc()).SetLimit(n))
	if err != nil {
		return nil, err
	}
	leads := []models.Lead{}
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// ListForExport 全部线索，按创建时间倒序
func (r *LeadRepository) ListForExport(ctx context.Context) ([]models.Lead, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(sortByCreatedDesc()))
	if err != nil {
		return nil, err
	}
	leads := []models.Lead{}
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// StatusStats 按状态分组统计数量和金额，只包含实际存在的状态
func (r *LeadRepository) StatusStats(ctx context.Context) ([]models.FunnelStage, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
			"value": bson.M{"$sum": "$value"},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	stages := []models.FunnelStage{}
	if err := cursor.All(ctx, &stages); err != nil {
		return nil, err
	}
	return stages, nil
}

// ClosedSince 指定时间之后创建的成交线索
func (r *LeadRepository) ClosedSince(ctx context.Context, since time.Time) ([]models.ClosedLeadValue, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"status": models.LeadStatusClosed, "createdAt": bson.M{"$gte": since}},
		options.Find().
			SetProjection(bson.M{"value": 1, "createdAt": 1}).
			SetSort(bson.D{{Key: "createdAt", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	leads := []models.ClosedLeadValue{}
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// Count 线索总数
func (r *LeadRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

// CountSince 指定时间之后创建的线索数
func (r *LeadRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return r.coll.CountDocuments(ctx, createdSince(since))
}
