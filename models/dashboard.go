package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FunnelStage 漏斗中一个状态的统计
type FunnelStage struct {
	Status LeadStatus `bson:"_id" json:"_id"`
	Count  int64      `bson:"count" json:"count"`
	Value  float64    `bson:"value" json:"value"`
}

// RevenuePoint 按天汇总的成交金额
type RevenuePoint struct {
	Day   string  `json:"_id"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// RevenueReport 成交收入报表
type RevenueReport struct {
	Data         []RevenuePoint `json:"data"`
	TotalRevenue float64        `json:"totalRevenue"`
	Period       int            `json:"period"`
}

// ClosedLeadValue 成交线索的金额和创建时间
type ClosedLeadValue struct {
	Value     float64   `bson:"value"`
	CreatedAt time.Time `bson:"createdAt"`
}

// SummaryReport 汇总报表
type SummaryReport struct {
	TotalCustomers int64            `json:"totalCustomers"`
	TotalLeads     int64            `json:"totalLeads"`
	TotalRevenue   float64          `json:"totalRevenue"`
	ClosedCount    int64            `json:"closedCount"`
	LeadsByStatus  map[string]int64 `json:"leadsByStatus"`
}

// DashboardStats 首页看板数据
type DashboardStats struct {
	TotalCustomers int64            `json:"totalCustomers"`
	TotalLeads     int64            `json:"totalLeads"`
	TotalRevenue   float64          `json:"totalRevenue"`
	LeadsByStatus  map[string]int64 `json:"leadsByStatus"`
	RecentLeads    []LeadView       `json:"recentLeads"`
}

// PlatformOverview 平台总量
type PlatformOverview struct {
	TotalUsers      int64   `json:"totalUsers"`
	TotalCustomers  int64   `json:"totalCustomers"`
	TotalLeads      int64   `json:"totalLeads"`
	TotalActivities int64   `json:"totalActivities"`
	TotalEmails     int64   `json:"totalEmails"`
	TotalTasks      int64   `json:"totalTasks"`
	TasksCompleted  int64   `json:"tasksCompleted"`
	TotalRevenue    float64 `json:"totalRevenue"`
}

// RecentGrowth 近七天新增
type RecentGrowth struct {
	NewUsers     int64 `json:"newUsers"`
	NewCustomers int64 `json:"newCustomers"`
	NewLeads     int64 `json:"newLeads"`
}

// PlatformActivity 管理后台展示的动态
type PlatformActivity struct {
	ID          primitive.ObjectID `json:"_id"`
	Type        ActivityType       `json:"type"`
	Description string             `json:"description"`
	EntityType  EntityType         `json:"entityType"`
	CreatedAt   time.Time          `json:"createdAt"`
	CreatedBy   string             `json:"createdBy"`
}

// PlatformStats 管理后台统计
type PlatformStats struct {
	Overview         PlatformOverview   `json:"overview"`
	LeadsByStatus    map[string]int64   `json:"leadsByStatus"`
	Funnel           []FunnelStage      `json:"funnel"`
	Last7Days        RecentGrowth       `json:"last7Days"`
	RecentActivities []PlatformActivity `json:"recentActivities"`
}
