package repository

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CustomerRepository 客户数据访问，除 FindByID 和 Summaries 外均按创建人隔离
type CustomerRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewCustomerRepository 创建客户仓储
func NewCustomerRepository(database *mongo.Database) *CustomerRepository {
	return &CustomerRepository{coll: database.Collection(CustomersCollection), now: time.Now}
}

// CustomerListFilter 构造客户列表查询条件，search 按字面匹配姓名、邮箱、公司
func CustomerListFilter(ownerID primitive.ObjectID, search string) bson.M {
	filter := bson.M{"createdBy": ownerID}
	search = strings.TrimSpace(search)
	if search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		filter["$or"] = []bson.M{
			{"name": pattern},
			{"email": pattern},
			{"company": pattern},
		}
	}
	return filter
}

// ownedFilter 按 ID 和创建人定位文档
func ownedFilter(id, ownerID primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "createdBy": ownerID}
}

// List 分页查询客户
func (r *CustomerRepository) List(ctx context.Context, ownerID primitive.ObjectID, search string, p utils.Pagination) ([]models.Customer, int64, error) {
	filter := CustomerListFilter(ownerID, search)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.coll.Find(ctx, filter, pageOptions(sortByCreatedDesc(), p))
	if err != nil {
		return nil, 0, err
	}
	customers := []models.Customer{}
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// FindOwned 查找当前用户的客户
func (r *CustomerRepository) FindOwned(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.coll.FindOne(ctx, ownedFilter(id, ownerID)).Decode(&customer); err != nil {
		return nil, translateError(err)
	}
	return &customer, nil
}

// FindByID 不限创建人查找客户
func (r *CustomerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&customer); err != nil {
		return nil, translateError(err)
	}
	return &customer, nil
}

// Create 新建客户
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	now := r.now()
	customer.ID = primitive.NewObjectID()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, customer)
	return translateError(err)
}

// Save 整体覆盖已存在的客户
func (r *CustomerRepository) Save(ctx context.Context, customer *models.Customer) error {
	customer.UpdatedAt = r.now()
	res, err := r.coll.ReplaceOne(ctx, ownedFilter(customer.ID, customer.CreatedBy), customer)
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete 删除客户并返回被删除的文档，不级联删除线索
func (r *CustomerRepository) Delete(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.coll.FindOneAndDelete(ctx, ownedFilter(id, ownerID)).Decode(&customer); err != nil {
		return nil, translateError(err)
	}
	return &customer, nil
}

// Summaries 批量查询客户简要信息
func (r *CustomerRepository) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.CustomerSummary, error) {
	result := make(map[primitive.ObjectID]models.CustomerSummary, len(ids))
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return result, nil
	}

	cursor, err := r.coll.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"_id": 1, "name": 1, "email": 1, "phone": 1, "company": 1, "image": 1}),
	)
	if err != nil {
		return nil, err
	}
	var customers []models.CustomerSummary
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	for _, c := range customers {
		result[c.ID] = c
	}
	return result, nil
}

// ListForExport 当前用户全部客户，按创建时间倒序
func (r *CustomerRepository) ListForExport(ctx context.Context, ownerID primitive.ObjectID) ([]models.Customer, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"createdBy": ownerID}, options.Find().SetSort(sortByCreatedDesc()))
	if err != nil {
		return nil, err
	}
	customers := []models.Customer{}
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// CountByOwner 当前用户的客户数
func (r *CustomerRepository) CountByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"createdBy": ownerID})
}

// Count 客户总数
func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

// CountSince 指定时间之后创建的客户数
func (r *CustomerRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return r.coll.CountDocuments(ctx, createdSince(since))
}
