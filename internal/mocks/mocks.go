// Package mocks provides testify mocks of the stores and API clients the
// services depend on.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/julis-sh/mitgliederinfo/internal/model"
)

type CredentialStore struct {
	mock.Mock
}

func (m *CredentialStore) Put(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *CredentialStore) Get(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *CredentialStore) Delete(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type ClaimsParser struct {
	mock.Mock
}

func (m *ClaimsParser) ParseSessionClaims(token string) (model.SessionClaims, error) {
	args := m.Called(token)
	return args.Get(0).(model.SessionClaims), args.Error(1)
}

type MailAPI struct {
	mock.Mock
}

func (m *MailAPI) ListMailScenarios(ctx context.Context) ([]model.MailScenario, error) {
	args := m.Called(ctx)
	scenarios, _ := args.Get(0).([]model.MailScenario)
	return scenarios, args.Error(1)
}

func (m *MailAPI) ListKreise(ctx context.Context) ([]model.Kreis, error) {
	args := m.Called(ctx)
	kreise, _ := args.Get(0).([]model.Kreis)
	return kreise, args.Error(1)
}

func (m *MailAPI) SendMail(ctx context.Context, member model.Member, scenario string) error {
	args := m.Called(ctx, member, scenario)
	return args.Error(0)
}

type TaskAPI struct {
	mock.Mock
}

func (m *TaskAPI) FetchPlannerTasks(ctx context.Context, token string) ([]model.PlannerTask, error) {
	args := m.Called(ctx, token)
	tasks, _ := args.Get(0).([]model.PlannerTask)
	return tasks, args.Error(1)
}

func (m *TaskAPI) FetchToDoTasks(ctx context.Context, token string) ([]model.ToDoTask, error) {
	args := m.Called(ctx, token)
	tasks, _ := args.Get(0).([]model.ToDoTask)
	return tasks, args.Error(1)
}
