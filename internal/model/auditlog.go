package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// AuditLogType is the kind of audited action.
type AuditLogType string

const (
	AuditUserCreate AuditLogType = "user_create"
	AuditUserUpdate AuditLogType = "user_update"
	AuditUserDelete AuditLogType = "user_delete"
	AuditMitglied   AuditLogType = "mitglied"
	AuditEmpfaenger AuditLogType = "empfaenger"
	AuditOther      AuditLogType = "other"
)

// AuditLogEntry is a read-only audit trail record.
type AuditLogEntry struct {
	ID            int          `json:"id"`
	CreatedAt     string       `json:"createdAt"`
	User          *string      `json:"user,omitempty"`
	Scenario      *string      `json:"scenario,omitempty"`
	Kreis         *string      `json:"kreis,omitempty"`
	MitgliedEmail *string      `json:"mitgliedEmail,omitempty"`
	Empfaenger    []string     `json:"empfaenger,omitempty"`
	Type          AuditLogType `json:"type,omitempty"`
}

var errNoCreatedAt = errors.New("neither createdAt nor timestamp found")

// UnmarshalJSON accepts the legacy "timestamp" field in place of "createdAt".
// Optional fields with an unexpected JSON type are left empty.
func (e *AuditLogEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID            json.RawMessage `json:"id"`
		CreatedAt     json.RawMessage `json:"createdAt"`
		Timestamp     json.RawMessage `json:"timestamp"`
		User          json.RawMessage `json:"user"`
		Scenario      json.RawMessage `json:"scenario"`
		Kreis         json.RawMessage `json:"kreis"`
		MitgliedEmail json.RawMessage `json:"mitgliedEmail"`
		Empfaenger    json.RawMessage `json:"empfaenger"`
		Type          json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out AuditLogEntry
	if err := json.Unmarshal(raw.ID, &out.ID); err != nil {
		return fmt.Errorf("failed to decode audit log id: %w", err)
	}

	if s := optionalString(raw.CreatedAt); s != nil {
		out.CreatedAt = *s
	} else if s := optionalString(raw.Timestamp); s != nil {
		out.CreatedAt = *s
	} else {
		return errNoCreatedAt
	}

	out.User = optionalString(raw.User)
	out.Scenario = optionalString(raw.Scenario)
	out.Kreis = optionalString(raw.Kreis)
	out.MitgliedEmail = optionalString(raw.MitgliedEmail)
	if t := optionalString(raw.Type); t != nil {
		out.Type = AuditLogType(*t)
	}
	if len(raw.Empfaenger) > 0 {
		var recipients []string
		if json.Unmarshal(raw.Empfaenger, &recipients) == nil {
			out.Empfaenger = recipients
		}
	}

	*e = out
	return nil
}

func optionalString(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return s
}

// CreatedTime parses CreatedAt as an RFC 3339 timestamp.
func (e AuditLogEntry) CreatedTime() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, e.CreatedAt)
}

// FilterAuditLog keeps entries of the given type ("" keeps all) whose user,
// type, scenario, kreis, member email or recipients contain query,
// ignoring case.
func FilterAuditLog(entries []AuditLogEntry, typ AuditLogType, query string) []AuditLogEntry {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]AuditLogEntry, 0, len(entries))
	for _, e := range entries {
		if typ != "" && e.Type != typ {
			continue
		}
		if query != "" && !e.matches(query) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (e AuditLogEntry) matches(query string) bool {
	fields := []string{string(e.Type), strings.Join(e.Empfaenger, ", ")}
	for _, p := range []*string{e.User, e.Scenario, e.Kreis, e.MitgliedEmail} {
		if p != nil {
			fields = append(fields, *p)
		}
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}
