package product

import (
	"database/sql"

	"supplierhub/internal/config"
	"supplierhub/internal/product/repository"
	"supplierhub/internal/product/service"

	"go.uber.org/zap"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *service.StockService {
	repo := repository.NewMySQLRepository(db)
	return service.NewStockService(repo, logger, cfg.Stock.TxTimeout, cfg.Stock.MaxRetryAttempts)
}
