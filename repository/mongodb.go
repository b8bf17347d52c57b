package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// 集合名
	UsersCollection      = "users"
	CustomersCollection  = "customers"
	LeadsCollection      = "leads"
	TasksCollection      = "tasks"
	EmailsCollection     = "emails"
	ActivitiesCollection = "activities"
)

// AllCollections 全部业务集合
var AllCollections = []string{
	UsersCollection,
	CustomersCollection,
	LeadsCollection,
	TasksCollection,
	EmailsCollection,
	ActivitiesCollection,
}

var (
	// ErrNotFound 文档不存在
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate 违反唯一索引
	ErrDuplicate = errors.New("duplicate key")
)

var client *mongo.Client

// InitMongoDB 初始化MongoDB连接
func InitMongoDB(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	client, err = mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("连接MongoDB失败: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping MongoDB失败: %w", err)
	}

	utils.Logger.Info().Str("database", dbName).Msg("已连接到MongoDB")

	return client.Database(dbName), nil
}

// CloseMongoDB 关闭MongoDB连接
func CloseMongoDB(ctx context.Context) {
	if client == nil {
		return
	}
	if err := client.Disconnect(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("断开MongoDB连接失败")
		return
	}
	utils.Logger.Info().Msg("已断开MongoDB连接")
}

// indexes 各集合需要的索引
var indexes = map[string][]mongo.IndexModel{
	UsersCollection: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	CustomersCollection: {
		{Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}}},
	},
	LeadsCollection: {
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "customer", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	},
	TasksCollection: {
		{Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "dueDate", Value: 1}}},
		{Keys: bson.D{{Key: "completed", Value: 1}}},
	},
	EmailsCollection: {
		{Keys: bson.D{{Key: "customer", Value: 1}}},
		{Keys: bson.D{{Key: "lead", Value: 1}}},
		{Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}}},
	},
	ActivitiesCollection: {
		{Keys: bson.D{{Key: "entityType", Value: 1}, {Key: "entityId", Value: 1}}},
		{Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	},
}

// InitializeCollections 初始化数据库集合和索引
func InitializeCollections(ctx context.Context, database *mongo.Database) error {
	existing, err := database.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("检查集合失败: %w", err)
	}
	exists := make(map[string]bool, len(existing))
	for _, name := range existing {
		exists[name] = true
	}

	for _, collName := range AllCollections {
		if !exists[collName] {
			if err := database.CreateCollection(ctx, collName); err != nil {
				return fmt.Errorf("创建集合 %s 失败: %w", collName, err)
			}
			utils.Logger.Info().Str("collection", collName).Msg("创建集合成功")
		}

		idx := indexes[collName]
		if len(idx) == 0 {
			continue
		}
		if _, err := database.Collection(collName).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("创建 %s 索引失败: %w", collName, err)
		}
	}

	return nil
}

// InitializeAdminAccount 按配置创建管理员账户，email 已存在时提升为管理员
func InitializeAdminAccount(ctx context.Context, users *UserRepository, name, email, password string) error {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		utils.Logger.Info().Msg("未配置管理员账户，跳过创建")
		return nil
	}

	existing, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			utils.Logger.Info().Str("email", email).Msg("管理员账户已存在，跳过创建")
			return nil
		}
		if err := users.SetRole(ctx, existing.ID, models.UserRoleAdmin); err != nil {
			return fmt.Errorf("提升管理员失败: %w", err)
		}
		utils.Logger.Info().Str("email", email).Msg("已将现有用户提升为管理员")
		return nil
	case !errors.Is(err, ErrNotFound):
		return fmt.Errorf("检查管理员账户失败: %w", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	if name == "" {
		name = "Admin"
	}
	if _, err := users.Create(ctx, &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     models.UserRoleAdmin,
	}); err != nil {
		return fmt.Errorf("创建管理员账户失败: %w", err)
	}

	utils.Logger.Info().Str("email", email).Msg("已创建管理员账户")
	return nil
}

// CollectionStatus 单个集合的状态
type CollectionStatus struct {
	Count int64  `json:"count"`
	Error string `json:"error,omitempty"`
}

// GetDatabaseStatus 获取数据库状态
func GetDatabaseStatus(ctx context.Context, database *mongo.Database) map[string]CollectionStatus {
	result := make(map[string]CollectionStatus, len(AllCollections))
	for _, collName := range AllCollections {
		count, err := database.Collection(collName).EstimatedDocumentCount(ctx)
		if err != nil {
			utils.Logger.Error().Err(err).Str("collection", collName).Msg("获取集合计数失败")
			result[collName] = CollectionStatus{Error: err.Error()}
			continue
		}
		result[collName] = CollectionStatus{Count: count}
	}
	return result
}

// NormalizeEmail 邮箱统一小写并去除空白
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// translateError 将驱动错误转换为仓储层错误
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

// sortByCreatedDesc 默认按创建时间倒序
func sortByCreatedDesc() bson.D {
	return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
}

// pageOptions 分页查询选项
func pageOptions(sort bson.D, p utils.Pagination) *options.FindOptions {
	return options.Find().
		SetSort(sort).
		SetSkip(p.Skip()).
		SetLimit(p.Limit)
}
