package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/julis-sh/mitgliederinfo/internal/logger"
	"github.com/julis-sh/mitgliederinfo/internal/model"
)

// TaskAPI is the part of the groupware client the board overview needs.
type TaskAPI interface {
	FetchPlannerTasks(ctx context.Context, token string) ([]model.PlannerTask, error)
	FetchToDoTasks(ctx context.Context, token string) ([]model.ToDoTask, error)
}

// BoardOverview combines both task sources. A failed source is empty and
// its error kept alongside.
type BoardOverview struct {
	PlannerTasks []model.PlannerTask
	ToDoTasks    []model.ToDoTask
	PlannerErr   error
	ToDoErr      error
}

func (o BoardOverview) Err() error {
	return errors.Join(o.PlannerErr, o.ToDoErr)
}

type Board struct {
	api    TaskAPI
	logger *logger.Logger
}

func NewBoard(api TaskAPI, logger *logger.Logger) *Board {
	return &Board{
		api:    api,
		logger: logger,
	}
}

// LoadBoardOverview fetches planner and to-do tasks in parallel and waits
// for both.
func (b *Board) LoadBoardOverview(ctx context.Context, accessToken string) BoardOverview {
	var (
		out BoardOverview
		g   errgroup.Group
	)

	g.Go(func() error {
		tasks, err := b.api.FetchPlannerTasks(ctx, accessToken)
		if err != nil {
			out.PlannerErr = fmt.Errorf("failed to load planner tasks: %w", err)
			return nil
		}
		out.PlannerTasks = tasks
		return nil
	})
	g.Go(func() error {
		tasks, err := b.api.FetchToDoTasks(ctx, accessToken)
		if err != nil {
			out.ToDoErr = fmt.Errorf("failed to load todo tasks: %w", err)
			return nil
		}
		out.ToDoTasks = tasks
		return nil
	})
	_ = g.Wait()

	if err := out.Err(); err != nil {
		b.logger.Warn("Board service: board overview incomplete",
			"error", err.Error())
	}
	return out
}
