package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"gameshop_v1_202608/internal/service"
)

// ==================== EventReplayTask ====================

// EventReplayTask 定时重放 outbox 中未投递成功的事件。投递语义为
// 至少一次，重复与乱序由消费端按 EventID 兜底
type EventReplayTask struct {
	eventService *service.EventService
	Cron         *cron.Cron

	batchSize int
}

// NewEventReplayTask 创建事件重放任务
func NewEventReplayTask(eventService *service.EventService) *EventReplayTask {
	return &EventReplayTask{
		eventService: eventService,
		Cron:         cron.New(cron.WithSeconds()), // 支持秒级控制
		batchSize:    100,
	}
}

// Start 启动定时任务
func (t *EventReplayTask) Start() {
	// 首次执行，把服务重启期间积压的事件先清掉
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		t.replayJob(ctx)
	}()

	_, err := t.Cron.AddFunc("0 * * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		t.replayJob(ctx)
	})
	if err != nil {
		log.Fatalf("无法启动事件重放任务: %v", err)
	}

	t.Cron.Start()
	log.Println("事件重放任务已启动 (每分钟一次)")
}

// Stop 停止定时任务
func (t *EventReplayTask) Stop() {
	t.Cron.Stop()
}

func (t *EventReplayTask) replayJob(ctx context.Context) {
	published, err := t.eventService.ReplayUnpublished(ctx, t.batchSize)
	if err != nil {
		log.Printf("[Cron] 事件重放失败: %v", err)
		return
	}
	if published > 0 {
		log.Printf("[Cron] 重放投递 %d 条积压事件", published)
	}
}
