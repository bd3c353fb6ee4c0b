package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/julis-sh/mitgliederinfo/internal/logger"
	"github.com/julis-sh/mitgliederinfo/internal/model"
)

// MailAPI is the part of the membership client the mail form needs.
type MailAPI interface {
	ListMailScenarios(ctx context.Context) ([]model.MailScenario, error)
	ListKreise(ctx context.Context) ([]model.Kreis, error)
	SendMail(ctx context.Context, member model.Member, scenario string) error
}

// MailFormContext holds the lists the mail form is built from. A failed
// list is empty and its error kept alongside.
type MailFormContext struct {
	Scenarios    []model.MailScenario
	Kreise       []model.Kreis
	ScenariosErr error
	KreiseErr    error
}

// Err joins the list errors, nil when both lists loaded.
func (c MailFormContext) Err() error {
	return errors.Join(c.ScenariosErr, c.KreiseErr)
}

type Mail struct {
	api    MailAPI
	logger *logger.Logger
}

func NewMail(api MailAPI, logger *logger.Logger) *Mail {
	return &Mail{
		api:    api,
		logger: logger,
	}
}

// LoadMailFormContext fetches scenarios and districts in parallel. It waits
// for both; one failing does not cancel the other.
func (m *Mail) LoadMailFormContext(ctx context.Context) MailFormContext {
	var (
		out MailFormContext
		g   errgroup.Group
	)

	g.Go(func() error {
		scenarios, err := m.api.ListMailScenarios(ctx)
		if err != nil {
			out.ScenariosErr = fmt.Errorf("failed to load scenarios: %w", err)
			return nil
		}
		out.Scenarios = scenarios
		return nil
	})
	g.Go(func() error {
		kreise, err := m.api.ListKreise(ctx)
		if err != nil {
			out.KreiseErr = fmt.Errorf("failed to load kreise: %w", err)
			return nil
		}
		out.Kreise = kreise
		return nil
	})
	_ = g.Wait()

	if err := out.Err(); err != nil {
		m.logger.Warn("Mail service: mail form context incomplete",
			"error", err.Error())
	}
	return out
}

// RelevantFields returns the member data fields scenario requires.
func (m *Mail) RelevantFields(scenario string) ([]string, error) {
	fields, ok := model.ScenarioFields(scenario)
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownScenario, scenario)
	}
	return fields, nil
}

// Send validates member against scenario and sends the mails.
func (m *Mail) Send(ctx context.Context, scenario string, member model.Member) error {
	if err := model.ValidateMember(scenario, member); err != nil {
		m.logger.Debug("Mail service: member data rejected",
			"scenario", scenario,
			"error", err.Error())
		return err
	}

	if err := m.api.SendMail(ctx, member, scenario); err != nil {
		m.logger.Error("Mail service: failed to send mail",
			"scenario", scenario,
			"error", err.Error())
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.logger.Info("Mail service: mail sent",
		"scenario", scenario)
	return nil
}
