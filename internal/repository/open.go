// Package repository selects the storage backend named by DB_DRIVER.
package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/config"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/finance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/repository/mongodb"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/repository/postgresql"
)

type Repositories struct {
	Users      user.UserRepository
	Attendance attendance.AttendanceRepository
	Leaves     leave.LeaveRequestRepository
	Finance    finance.FinanceRepository

	close func(ctx context.Context) error
}

// Close releases the backend connection.
func (r *Repositories) Close(ctx context.Context) error {
	if r.close == nil {
		return nil
	}
	return r.close(ctx)
}

// Open connects to the configured backend and prepares its schema or indexes.
func Open(ctx context.Context, cfg *config.Config, loc *time.Location) (*Repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverMongoDB:
		db, err := database.NewMongoDB(cfg.MongoDB.URI, cfg.MongoDB.Database)
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = db.Close(ctx)
			return nil, fmt.Errorf("failed to ensure indexes: %w", err)
		}
		slog.InfoContext(ctx, "connected to mongodb", slog.String("database", cfg.MongoDB.Database))
		return &Repositories{
			Users:      mongodb.NewUserRepository(db),
			Attendance: mongodb.NewAttendanceRepository(db, loc),
			Leaves:     mongodb.NewLeaveRequestRepository(db, loc),
			Finance:    mongodb.NewFinanceRepository(db, loc),
			close:      db.Close,
		}, nil

	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, err
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
		slog.InfoContext(ctx, "connected to postgres", slog.String("database", cfg.Database.Name))
		return &Repositories{
			Users:      postgresql.NewUserRepository(db),
			Attendance: postgresql.NewAttendanceRepository(db, loc),
			Leaves:     postgresql.NewLeaveRequestRepository(db, loc),
			Finance:    postgresql.NewFinanceRepository(db, loc),
			close: func(context.Context) error {
				db.Close()
				return nil
			},
		}, nil

	case config.DriverMemory:
		slog.WarnContext(ctx, "using in-memory storage, data is lost on exit")
		store := memory.NewStore()
		return &Repositories{
			Users:      memory.NewUserRepository(store),
			Attendance: memory.NewAttendanceRepository(store),
			Leaves:     memory.NewLeaveRequestRepository(store),
			Finance:    memory.NewFinanceRepository(store),
		}, nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
}
