package order

import (
	"database/sql"
	"fmt"

	rd "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"supplierhub/internal/config"
	"supplierhub/internal/idempotency"
	"supplierhub/internal/order/controller"
	"supplierhub/internal/order/events"
	"supplierhub/internal/order/repository"
	"supplierhub/internal/order/service"
	"supplierhub/internal/order/usecase"
)

type Module struct {
	TransitionController *controller.TransitionController
	SyncController       *controller.SyncController
	EventHandler         *events.Handler
}

// NewModule wires the order side. rdb is only used by the redis guard and may
// be nil otherwise; publisher may be nil when the change feed is disabled.
func NewModule(
	db *sql.DB,
	cfg *config.Config,
	logger *zap.Logger,
	rdb *rd.Client,
	stock usecase.StockDecrementer,
	dispatcher usecase.NotificationDispatcher,
	publisher usecase.TransitionPublisher,
) (*Module, error) {
	subOrderRepo := repository.NewMySQLSubOrderRepository(db)
	masterOrderRepo := repository.NewMySQLMasterOrderRepository(db)

	guard, err := newGuard(cfg.Idempotency, subOrderRepo, rdb)
	if err != nil {
		return nil, err
	}

	synchronizer := service.NewSynchronizer(subOrderRepo, masterOrderRepo, logger)

	transitionUC := usecase.NewTransitionUseCase(
		subOrderRepo,
		guard,
		stock,
		dispatcher,
		synchronizer,
		publisher,
		logger,
		cfg.Stock.LowStockThreshold,
	)

	return &Module{
		TransitionController: controller.NewTransitionController(transitionUC, logger),
		SyncController:       controller.NewSyncController(synchronizer, logger),
		EventHandler:         events.NewHandler(synchronizer, transitionUC, logger),
	}, nil
}

func newGuard(cfg config.IdempotencyConfig, ledger idempotency.Ledger, rdb *rd.Client) (idempotency.Guard, error) {
	switch cfg.Backend {
	case config.GuardBackendLedger:
		return idempotency.NewLedgerGuard(ledger), nil
	case config.GuardBackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis idempotency guard needs a redis client")
		}
		return idempotency.NewRedisGuard(rdb, cfg.TTL), nil
	case config.GuardBackendMemory:
		return idempotency.NewMemoryGuard(), nil
	default:
		return nil, fmt.Errorf("unknown idempotency backend %q", cfg.Backend)
	}
}
