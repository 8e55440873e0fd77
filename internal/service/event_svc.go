package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"gameshop_v1_202608/internal/model"
	"gameshop_v1_202608/internal/repository"
)

// ==================== 依赖接口 ====================

// EventPublisher 把事件投递到外部总线
type EventPublisher interface {
	Publish(ctx context.Context, event *model.EventOutbox) error
}

// ==================== EventService ====================

// EventService 事件服务。事件先落 outbox 表再尽力投递，投递失败
// 由定时任务重放，语义为至少一次，消费端按 EventID 去重
type EventService struct {
	repo      repository.EventOutboxRepository
	publisher EventPublisher
}

// NewEventService 创建事件服务。publisher 为 nil 时事件只落库
func NewEventService(repo repository.EventOutboxRepository, publisher EventPublisher) *EventService {
	return &EventService{repo: repo, publisher: publisher}
}

// Emit 记录并投递事件。落库失败只记录日志，业务流程不因事件失败
// 而回滚
func (s *EventService) Emit(ctx context.Context, e EventEnvelope) {
	event := &model.EventOutbox{
		EventID:      uuid.NewString(),
		Name:         e.Name,
		GameServerID: e.GameServerID,
		PlayerID:     e.PlayerID,
		UserID:       e.UserID,
		Meta:         datatypes.JSONMap(e.Meta),
	}
	if err := s.repo.Create(ctx, event); err != nil {
		log.Printf("[event] record %s failed: %v", e.Name, err)
		return
	}
	s.tryPublish(ctx, event)
}

// ReplayUnpublished 重放未投递成功的事件，返回本轮成功投递数
func (s *EventService) ReplayUnpublished(ctx context.Context, limit int) (int, error) {
	if s.publisher == nil {
		return 0, nil
	}
	pending, err := s.repo.ListUnpublished(ctx, limit)
	if err != nil {
		return 0, err
	}
	published := 0
	for i := range pending {
		if s.tryPublish(ctx, &pending[i]) {
			published++
		}
	}
	return published, nil
}

func (s *EventService) tryPublish(ctx context.Context, event *model.EventOutbox) bool {
	if s.publisher == nil {
		return false
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("[event] publish %s (%s) failed: %v", event.Name, event.EventID, err)
		return false
	}
	if err := s.repo.MarkPublished(ctx, event.ID); err != nil {
		log.Printf("[event] mark published %s failed: %v", event.EventID, err)
		return false
	}
	return true
}
