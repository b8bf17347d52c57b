package service

import (
	"sort"
	"strconv"
	"time"

	"github.com/BerniceZTT/clientiq/models"
)

const (
	// DefaultRevenuePeriod 收入报表默认天数
	DefaultRevenuePeriod = 30
	// MaxRevenuePeriod 收入报表最大天数
	MaxRevenuePeriod = 365
)

// ParseRevenuePeriod 解析天数，非法或为 0 时取 30，结果限制在 [1,365]
func ParseRevenuePeriod(raw string) int {
	days, err := strconv.Atoi(raw)
	if err != nil || days == 0 {
		days = DefaultRevenuePeriod
	}
	if days < 1 {
		return 1
	}
	if days > MaxRevenuePeriod {
		return MaxRevenuePeriod
	}
	return days
}

// RevenueWindowStart N 天前的本地零点
func RevenueWindowStart(now time.Time, days int) time.Time {
	y, m, d := now.AddDate(0, 0, -days).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// BuildRevenueReport 按本地日期汇总成交金额，日期升序
func BuildRevenueReport(leads []models.ClosedLeadValue, days int, loc *time.Location) models.RevenueReport {
	report := models.RevenueReport{Data: []models.RevenuePoint{}, Period: days}
	index := make(map[string]int)

	for _, l := range leads {
		day := l.CreatedAt.In(loc).Format("2006-01-02")
		i, ok := index[day]
		if !ok {
			i = len(report.Data)
			index[day] = i
			report.Data = append(report.Data, models.RevenuePoint{Day: day})
		}
		report.Data[i].Total += l.Value
		report.Data[i].Count++
		report.TotalRevenue += l.Value
	}

	// YYYY-MM-DD 的字符串顺序即日期顺序
	sort.Slice(report.Data, func(i, j int) bool { return report.Data[i].Day < report.Data[j].Day })
	return report
}

// FillFunnel 按固定顺序输出五个状态，缺失状态补零，未知状态丢弃
func FillFunnel(stats []models.FunnelStage) []models.FunnelStage {
	byStatus := make(map[models.LeadStatus]models.FunnelStage, len(stats))
	for _, s := range stats {
		byStatus[s.Status] = s
	}
	funnel := make([]models.FunnelStage, 0, len(models.LeadStatuses))
	for _, status := range models.LeadStatuses {
		stage, ok := byStatus[status]
		if !ok {
			stage = models.FunnelStage{Status: status}
		}
		funnel = append(funnel, stage)
	}
	return funnel
}

// StatusCounts 状态到数量的映射，只包含实际存在的状态
func StatusCounts(stats []models.FunnelStage) map[string]int64 {
	counts := make(map[string]int64, len(stats))
	for _, s := range stats {
		counts[string(s.Status)] = s.Count
	}
	return counts
}

// ClosedTotals 成交线索的金额合计和数量
func ClosedTotals(stats []models.FunnelStage) (float64, int64) {
	for _, s := range stats {
		if s.Status == models.LeadStatusClosed {
			return s.Value, s.Count
		}
	}
	return 0, 0
}
