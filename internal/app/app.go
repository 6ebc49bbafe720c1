package app

import (
	"context"
	"database/sql"
	"errors"

	"go-leave/internal/config"
	"go-leave/internal/holiday"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/connection"
	"go-leave/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const connectRetries = 5

// Infra holds the long-lived connections shared by every binary.
type Infra struct {
	GormDB *gorm.DB
	SQLDB  *sql.DB
	Redis  *redis.Client
}

// Close releases every connection. It matches bootstrap.ShutdownHook.
func (i *Infra) Close(context.Context) error {
	var errs []error
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	if i.SQLDB != nil {
		errs = append(errs, i.SQLDB.Close())
	}
	return errors.Join(errs...)
}

func connectInfra(cfg *config.Config, logger *zap.Logger) (*Infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, connectRetries)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DB.Driver == "sqlite" {
		// sqlite serialises writers; one connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	}

	infra := &Infra{GormDB: gormDB, SQLDB: sqlDB}

	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set: read caches and idempotency disabled")
		return infra, nil
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	infra.Redis = rdb
	return infra, nil
}

// Migrate creates or updates every table the engine owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&leave.LeaveRequest{},
		&holiday.PublicHoliday{},
		&kafka.OutboxEventModel{},
	)
}

// BuildApp connects infrastructure, migrates the schema and mounts every
// module on router. The caller owns the returned Infra.
func BuildApp(router *gin.Engine, cfg *config.Config) (*Infra, error) {
	logger := zap.L().Named("app")

	infra, err := connectInfra(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := Migrate(infra.GormDB); err != nil {
		_ = infra.Close(context.Background())
		return nil, err
	}
	logger.Info("schema migrated", zap.String("driver", cfg.DB.Driver))

	if err := registerModules(router, cfg, infra, logger); err != nil {
		_ = infra.Close(context.Background())
		return nil, err
	}

	return infra, nil
}
