package graph

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julis-sh/mitgliederinfo/internal/api/rest"
	"github.com/julis-sh/mitgliederinfo/internal/model"
)

type rawPlannerTask struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	DueDateTime     string `json:"dueDateTime"`
	PercentComplete int    `json:"percentComplete"`
}

type rawToDoTask struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Status      string            `json:"status"`
	DueDateTime *dateTimeTimeZone `json:"dueDateTime"`
}

const todoCompleted = "completed"

// FetchPlannerTasks returns the planner tasks assigned to the token owner.
func (c *Client) FetchPlannerTasks(ctx context.Context, token string) ([]model.PlannerTask, error) {
	raw, err := collect[rawPlannerTask](ctx, c, token, rest.Request{Path: "me/planner/tasks"})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch planner tasks: %w", err)
	}

	tasks := make([]model.PlannerTask, 0, len(raw))
	for _, r := range raw {
		tasks = append(tasks, model.PlannerTask{
			ID:        r.ID,
			Title:     titleOrPlaceholder(r.Title),
			DueDate:   parseDue(r.DueDateTime, time.Local),
			Completed: r.PercentComplete == 100,
		})
	}
	return tasks, nil
}

// FetchToDoLists returns the token owner's to-do lists.
func (c *Client) FetchToDoLists(ctx context.Context, token string) ([]model.ToDoList, error) {
	lists, err := collect[model.ToDoList](ctx, c, token, rest.Request{Path: "me/todo/lists"})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch todo lists: %w", err)
	}
	return lists, nil
}

// FetchToDoTasks returns the tasks of every to-do list, tagged with the list
// name and ordered by list. A list whose tasks cannot be fetched contributes
// nothing; only a failure to fetch the lists themselves is returned.
func (c *Client) FetchToDoTasks(ctx context.Context, token string) ([]model.ToDoTask, error) {
	lists, err := c.FetchToDoLists(ctx, token)
	if err != nil {
		return nil, err
	}

	perList := make([][]model.ToDoTask, len(lists))

	var g errgroup.Group
	g.SetLimit(c.cfg.MaxParallelLists)
	for i, list := range lists {
		g.Go(func() error {
			tasks, err := c.fetchListTasks(ctx, token, list)
			if err != nil {
				c.logger.Warn("Graph client: failed to fetch todo list tasks",
					"list_id", list.ID,
					"list_name", list.DisplayName,
					"error", err.Error())
				return nil
			}
			perList[i] = tasks
			return nil
		})
	}
	_ = g.Wait()

	var merged []model.ToDoTask
	for _, tasks := range perList {
		merged = append(merged, tasks...)
	}
	return merged, nil
}

func (c *Client) fetchListTasks(ctx context.Context, token string, list model.ToDoList) ([]model.ToDoTask, error) {
	raw, err := collect[rawToDoTask](ctx, c, token, rest.Request{
		Method: http.MethodGet,
		Path:   "me/todo/lists/" + url.PathEscape(list.ID) + "/tasks",
	})
	if err != nil {
		return nil, err
	}

	tasks := make([]model.ToDoTask, 0, len(raw))
	for _, r := range raw {
		t := model.ToDoTask{
			ID:        r.ID,
			Title:     titleOrPlaceholder(r.Title),
			Completed: r.Status == todoCompleted,
			ListName:  list.DisplayName,
		}
		if r.DueDateTime != nil {
			t.DueDate = parseDue(r.DueDateTime.DateTime, ResolveZone(r.DueDateTime.TimeZone))
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func titleOrPlaceholder(title string) string {
	if title == "" {
		return model.UntitledTask
	}
	return title
}
