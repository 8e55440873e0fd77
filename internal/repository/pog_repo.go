package repository

import (
	"context"
	"errors"

	"gameshop_v1_202608/internal/model"
	"gameshop_v1_202608/pkg/apperr"

	"gorm.io/gorm"
)

// ==================== PlayerOnGameServerRepository 玩家-服务器仓库 ====================

// PlayerOnGameServerRepository pog 仓库：玩家在单个服务器上的余额与在线状态。
// 余额是共享可变资源，扣款必须走带余额条件的原子 UPDATE，
// 保证并发下余额不为负、退款不丢失（等价于行级锁的串行化语义）
type PlayerOnGameServerRepository interface {
	Create(ctx context.Context, pog *model.PlayerOnGameServer) error
	GetByID(ctx context.Context, id int64) (*model.PlayerOnGameServer, error)
	GetByPlayerAndServer(ctx context.Context, playerID, gameServerID int64) (*model.PlayerOnGameServer, error)
	// DeductCurrency 扣款。余额不足返回 BadRequest，绝不把余额扣成负数
	DeductCurrency(ctx context.Context, id int64, amount int64) error
	// AddCurrency 加款（退款）。目标行必须存在
	AddCurrency(ctx context.Context, id int64, amount int64) error
	SetOnline(ctx context.Context, id int64, online bool) error
}

type pogRepository struct {
	db *gorm.DB
}

// NewPlayerOnGameServerRepository 创建 pog 仓库
func NewPlayerOnGameServerRepository(db *gorm.DB) PlayerOnGameServerRepository {
	return &pogRepository{db: db}
}

func (r *pogRepository) Create(ctx context.Context, pog *model.PlayerOnGameServer) error {
	return r.db.WithContext(ctx).Create(pog).Error
}

func (r *pogRepository) GetByID(ctx context.Context, id int64) (*model.PlayerOnGameServer, error) {
	var pog model.PlayerOnGameServer
	err := r.db.WithContext(ctx).First(&pog, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pog, nil
}

func (r *pogRepository) GetByPlayerAndServer(ctx context.Context, playerID, gameServerID int64) (*model.PlayerOnGameServer, error) {
	var pog model.PlayerOnGameServer
	err := r.db.WithContext(ctx).
		Where("player_id = ? AND game_server_id = ?", playerID, gameServerID).
		First(&pog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pog, nil
}

func (r *pogRepository) DeductCurrency(ctx context.Context, id int64, amount int64) error {
	if amount <= 0 {
		return apperr.BadRequest("Deduct amount must be positive")
	}

	// 条件 UPDATE：余额够才扣，数据库层面天然串行化
	res := r.db.WithContext(ctx).
		Model(&model.PlayerOnGameServer{}).
		Where("id = ? AND currency >= ?", id, amount).
		UpdateColumn("currency", gorm.Expr("currency - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// 区分行不存在与余额不足
		pog, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if pog == nil {
			return apperr.NotFound("Player not found on game server")
		}
		return apperr.BadRequest("Insufficient currency")
	}
	return nil
}

func (r *pogRepository) AddCurrency(ctx context.Context, id int64, amount int64) error {
	if amount <= 0 {
		return apperr.BadRequest("Add amount must be positive")
	}

	res := r.db.WithContext(ctx).
		Model(&model.PlayerOnGameServer{}).
		Where("id = ?", id).
		UpdateColumn("currency", gorm.Expr("currency + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Player not found on game server")
	}
	return nil
}

func (r *pogRepository) SetOnline(ctx context.Context, id int64, online bool) error {
	return r.db.WithContext(ctx).
		Model(&model.PlayerOnGameServer{}).
		Where("id = ?", id).
		Update("online", online).Error
}
