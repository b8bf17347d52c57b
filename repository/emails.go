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

// EmailRepository 邮件记录数据访问
type EmailRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewEmailRepository 创建邮件仓储
func NewEmailRepository(database *mongo.Database) *EmailRepository {
	return &EmailRepository{coll: database.Collection(EmailsCollection), now: time.Now}
}

// EmailListFilter 构造邮件列表查询条件
func EmailListFilter(f models.EmailFilter) bson.M {
	filter := bson.M{"createdBy": f.OwnerID}
	if f.CustomerID != nil {
		filter["customer"] = *f.CustomerID
	}
	if f.LeadID != nil {
		filter["lead"] = *f.LeadID
	}
	return filter
}

// List 分页查询邮件
func (r *EmailRepository) List(ctx context.Context, f models.EmailFilter, p utils.Pagination) ([]models.Email, int64, error) {
	filter := EmailListFilter(f)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.coll.Find(ctx, filter, pageOptions(sortByCreatedDesc(), p))
	if err != nil {
		return nil, 0, err
	}
	emails := []models.Email{}
	if err := cursor.All(ctx, &emails); err != nil {
		return nil, 0, err
	}
	return emails, total, nil
}

// ForContact 引用了客户或线索的最新邮件，不限发件人
func (r *EmailRepository) ForContact(ctx context.Context, customerID, leadID *primitive.ObjectID, limit int64) ([]models.Email, error) {
	filter := linkedFilter(customerID, leadID)
	if filter == nil {
		return []models.Email{}, nil
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(sortByCreatedDesc()).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	emails := []models.Email{}
	if err := cursor.All(ctx, &emails); err != nil {
		return nil, err
	}
	return emails, nil
}

// Create 保存一条邮件记录
func (r *EmailRepository) Create(ctx context.Context, email *models.Email) error {
	now := r.now()
	email.ID = primitive.NewObjectID()
	email.CreatedAt = now
	email.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, email)
	return translateError(err)
}

// Count 邮件总数
func (r *EmailRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
