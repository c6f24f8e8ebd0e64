// Command seed loads fixture users and, on request, demo data into the
// configured backend. It never runs implicitly.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/config"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/logger"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/repository"
	serviceAuth "github.com/cmlabs-hris/dashpro-backend-go/internal/service/auth"
	"github.com/spf13/cobra"
)

func main() {
	var (
		file       string
		days       int
		randSeed   uint64
		withLeave  bool
		withLedger bool
	)

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Load fixture users and optional demo data",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), file, days, randSeed, withLeave, withLedger)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "seed YAML file (defaults to the built-in fixtures)")
	cmd.Flags().IntVar(&days, "attendance-days", 0, "generate demo attendance for this many past days")
	cmd.Flags().Uint64Var(&randSeed, "rand-seed", 1, "seed for generated attendance")
	cmd.Flags().BoolVar(&withLeave, "leave", false, "insert sample leave requests")
	cmd.Flags().BoolVar(&withLedger, "finance", false, "insert sample finance records")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, file string, days int, randSeed uint64, withLeave, withLedger bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(logger.New(os.Stdout, logger.Options{App: "dashpro-seed", Version: cfg.App.Version, Env: cfg.App.Env, Level: cfg.App.LogLevel}))

	seed, err := loadSeed(file)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	repos, err := repository.Open(ctx, cfg, loc)
	if err != nil {
		return err
	}
	defer repos.Close(ctx)

	userIDs := make(map[string]string, len(seed.Users))
	var adminID string
	var employeeIDs []string
	for _, u := range seed.Users {
		id, err := ensureUser(ctx, repos.Users, u)
		if err != nil {
			return err
		}
		userIDs[u.Username] = id
		if user.Role(u.Role) == user.RoleAdmin {
			if adminID == "" {
				adminID = id
			}
		} else {
			employeeIDs = append(employeeIDs, id)
		}
	}

	if days > 0 {
		records := fixtures.SampleAttendance(employeeIDs, days, time.Now().In(loc), randSeed)
		inserted := 0
		for _, att := range records {
			if _, err := repos.Attendance.Create(ctx, att); err != nil {
				slog.Warn("skipping attendance", slog.String("user_id", att.UserID), slog.Time("date", att.Date), slog.Any("error", err))
				continue
			}
			inserted++
		}
		slog.Info("seeded attendance", slog.Int("records", inserted))
	}

	if withLeave {
		for _, sample := range seed.LeaveRequests(userIDs, adminID, loc) {
			created, err := repos.Leaves.Create(ctx, sample.Request)
			if err != nil {
				return fmt.Errorf("create leave request: %w", err)
			}
			if sample.Decision != nil {
				if _, err := repos.Leaves.Decide(ctx, created.ID, *sample.Decision); err != nil {
					return fmt.Errorf("decide leave request: %w", err)
				}
			}
		}
		slog.Info("seeded leave requests", slog.Int("count", len(seed.Leaves)))
	}

	if withLedger {
		if adminID == "" {
			return errors.New("finance samples need an admin user in the seed file")
		}
		for _, rec := range seed.FinanceRecords(adminID, loc) {
			if _, err := repos.Finance.Create(ctx, rec); err != nil {
				return fmt.Errorf("create finance record: %w", err)
			}
		}
		slog.Info("seeded finance records", slog.Int("count", len(seed.Finance)))
	}
	return nil
}

func loadSeed(file string) (fixtures.Seed, error) {
	if file == "" {
		return fixtures.Default()
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return fixtures.Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	return fixtures.Parse(data)
}

// ensureUser creates u unless the username is taken, and returns its id.
func ensureUser(ctx context.Context, users user.UserRepository, u fixtures.UserFixture) (string, error) {
	existing, err := users.GetByUsername(ctx, u.Username)
	if err == nil {
		slog.Info("user exists", slog.String("username", u.Username))
		return existing.ID, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return "", err
	}

	hash, err := serviceAuth.HashPassword(u.Password)
	if err != nil {
		return "", err
	}
	created, err := users.Create(ctx, user.User{
		Username:     u.Username,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: hash,
		Role:         user.Role(u.Role),
		Department:   u.Department,
	})
	if err != nil {
		return "", fmt.Errorf("create user %s: %w", u.Username, err)
	}
	slog.Info("created user", slog.String("username", u.Username), slog.String("role", u.Role))
	return created.ID, nil
}
