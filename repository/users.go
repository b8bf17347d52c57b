package repository

import (
	"context"
	"time"

	"github.com/BerniceZTT/clientiq/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository 用户数据访问
type UserRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewUserRepository 创建用户仓储
func NewUserRepository(database *mongo.Database) *UserRepository {
	return &UserRepository{coll: database.Collection(UsersCollection), now: time.Now}
}

// Create 新建用户，邮箱重复返回 ErrDuplicate
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	now := r.now()
	user.ID = primitive.NewObjectID()
	user.Email = NormalizeEmail(user.Email)
	if user.Role == "" {
		user.Role = models.UserRoleUser
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return nil, translateError(err)
	}
	return user, nil
}

// FindByID 根据ID查找用户
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByEmail 根据邮箱查找用户
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"email": NormalizeEmail(email)}).Decode(&user); err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// UpdateProfile 更新姓名和头像，返回更新后的用户
func (r *UserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, req models.UpdateProfileRequest) (*models.User, error) {
	set := bson.M{"updatedAt": r.now()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.AvatarURL != nil {
		set["avatar"] = *req.AvatarURL
	}

	var user models.User
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// SetRole 修改用户角色
func (r *UserRepository) SetRole(ctx context.Context, id primitive.ObjectID, role models.UserRole) error {
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"role": role, "updatedAt": r.now()}})
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Summaries 批量查询用户简要信息，缺失的 ID 不出现在结果中
func (r *UserRepository) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	result := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return result, nil
	}

	cursor, err := r.coll.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"_id": 1, "name": 1, "email": 1}),
	)
	if err != nil {
		return nil, err
	}
	var users []models.UserSummary
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

// Count 用户总数
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

// CountSince 指定时间之后注册的用户数
func (r *UserRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return r.coll.CountDocuments(ctx, createdSince(since))
}

// uniqueIDs 去重并过滤空 ID
func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// createdSince 创建时间不早于 since
func createdSince(since time.Time) bson.M {
	return bson.M{"createdAt": bson.M{"$gte": since}}
}
