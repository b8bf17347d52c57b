package service

import (
	"context"
	"time"

	"github.com/BerniceZTT/clientiq/models"
	"github.com/BerniceZTT/clientiq/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var activityRecordTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "clientiq_activity_record_total",
	Help: "Activity timeline writes by result",
}, []string{"result"})

// ActivityInserter 动态写入
type ActivityInserter interface {
	Insert(ctx context.Context, activity *models.Activity) error
}

// ActivityRecorder 尽力而为地写入动态，失败只记录日志，不影响主流程
type ActivityRecorder struct {
	store ActivityInserter
	now   func() time.Time
}

// NewActivityRecorder 创建动态记录器
func NewActivityRecorder(store ActivityInserter) *ActivityRecorder {
	return &ActivityRecorder{store: store, now: time.Now}
}

// Record 写入一条动态
func (r *ActivityRecorder) Record(ctx context.Context, activityType models.ActivityType, ref models.EntityRef, description string, authorID primitive.ObjectID, metadata map[string]interface{}) {
	activity := models.NewActivity(activityType, ref, description, authorID, metadata, r.now())
	if err := r.store.Insert(ctx, &activity); err != nil {
		activityRecordTotal.WithLabelValues("error").Inc()
		utils.Logger.Warn().
			Err(err).
			Str("type", string(activityType)).
			Str("entityType", string(ref.Type())).
			Str("entityId", ref.ObjectID().Hex()).
			Msg("记录动态失败")
		return
	}
	activityRecordTotal.WithLabelValues("ok").Inc()
}
