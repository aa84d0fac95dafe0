package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/shiftwise/scheduler/internal/config"
	"github.com/shiftwise/scheduler/internal/domain"
	"github.com/shiftwise/scheduler/internal/repository"
	"github.com/shiftwise/scheduler/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var ownerID int64
	var scheduleID int64

	flag.IntVar(&op, "op", 0, "operation to run (1: insert random users, 2: insert random schedules, 3: insert random priorities)")
	flag.IntVar(&n, "n", 5, "number of records to insert")
	flag.Int64Var(&ownerID, "owner-id", 0, "user that owns the seeded schedules")
	flag.Int64Var(&scheduleID, "schedule-id", 0, "schedule the seeded priorities belong to")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open does not dial, ping to fail fast on a bad DSN
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("no operation given")
	case 1:
		if n <= 0 {
			slog.Error("number of users must be positive")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
			if err != nil {
				slog.Error("failed to generate user", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateUser(user); err != nil {
				slog.Error("failed to insert user", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("users inserted", slog.Int("count", n-cnt))
	case 2:
		if n <= 0 {
			slog.Error("number of schedules must be positive")
			return
		}
		if ownerID == 0 {
			slog.Error("owner-id is required")
			return
		}

		if _, err := repo.GetUserByID(ownerID); err != nil {
			slog.Error("failed to load owner", slog.String("error", err.Error()))
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			schedule := utils.GenerateRandomSchedule(ownerID)
			if err := repo.CreateSchedule(schedule); err != nil {
				slog.Error("failed to insert schedule", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("schedules inserted", slog.Int("count", n-cnt))
	case 3:
		if n <= 0 {
			slog.Error("number of priorities must be positive")
			return
		}
		if scheduleID == 0 {
			slog.Error("schedule-id is required")
			return
		}

		schedule, err := repo.GetScheduleByID(scheduleID)
		if err != nil {
			slog.Error("failed to load schedule", slog.String("error", err.Error()))
			return
		}

		// Each priority comes from a freshly seeded user that also joins
		// the schedule's roster, so the generated data mirrors a real
		// submission round.
		cnt := n
		for i := 0; i < n; i++ {
			user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
			if err != nil {
				slog.Error("failed to generate user", slog.String("error", err.Error()))
				continue
			}
			if err := repo.CreateUser(user); err != nil {
				slog.Error("failed to insert user", slog.String("error", err.Error()))
				continue
			}

			employee := &domain.ScheduleEmployee{
				ScheduleID: schedule.ID,
				Name:       user.Name,
				Email:      user.Email,
			}
			if err := repo.AddScheduleEmployee(employee); err != nil {
				slog.Error("failed to add employee", slog.String("error", err.Error()))
				continue
			}

			priority := utils.GenerateRandomPriority(schedule, user)
			if err := repo.UpsertPriority(priority); err != nil {
				slog.Error("failed to insert priority", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("priorities inserted", slog.Int("count", n-cnt))
	default:
		slog.Error("unknown operation", slog.Int("op", op))
	}
}
