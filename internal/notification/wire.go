package notification

import (
	"database/sql"

	"go.uber.org/zap"

	"supplierhub/internal/config"
	"supplierhub/internal/notification/repository"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *Dispatcher {
	return NewDispatcher(
		repository.NewMySQLPreferenceRepository(db),
		repository.NewMySQLNotificationRepository(db),
		logger,
		cfg.Notifications.Location,
	)
}
