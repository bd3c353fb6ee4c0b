package model

import (
	"regexp"
	"strings"
)

// MailScenario is a mail template category.
type MailScenario struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Kreis is a district.
type Kreis struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Member data field names.
const (
	FieldVorname         = "vorname"
	FieldNachname        = "nachname"
	FieldGeschlecht      = "geschlecht"
	FieldGeburtsdatum    = "geburtsdatum"
	FieldStrasse         = "strasse"
	FieldHausnummer      = "hausnummer"
	FieldPLZ             = "plz"
	FieldOrt             = "ort"
	FieldEmail           = "email"
	FieldTelefon         = "telefon"
	FieldKreis           = "kreis"
	FieldKreisNeu        = "kreis_neu"
	FieldKreisAlt        = "kreis_alt"
	FieldMitgliedsnummer = "mitgliedsnummer"
	FieldEintrittsdatum  = "eintrittsdatum"
	FieldAustrittsdatum  = "austrittsdatum"
)

// Member is the member data sent along with a mail. Empty fields are
// omitted from the payload.
type Member struct {
	Vorname         string `json:"vorname,omitempty"`
	Nachname        string `json:"nachname,omitempty"`
	Geschlecht      string `json:"geschlecht,omitempty"`
	Geburtsdatum    string `json:"geburtsdatum,omitempty"`
	Strasse         string `json:"strasse,omitempty"`
	Hausnummer      string `json:"hausnummer,omitempty"`
	PLZ             string `json:"plz,omitempty"`
	Ort             string `json:"ort,omitempty"`
	Email           string `json:"email,omitempty"`
	Telefon         string `json:"telefon,omitempty"`
	Kreis           string `json:"kreis,omitempty"`
	KreisNeu        string `json:"kreis_neu,omitempty"`
	KreisAlt        string `json:"kreis_alt,omitempty"`
	Mitgliedsnummer string `json:"mitgliedsnummer,omitempty"`
	Eintrittsdatum  string `json:"eintrittsdatum,omitempty"`
	Austrittsdatum  string `json:"austrittsdatum,omitempty"`
}

// Field returns the value stored under a member data field name.
func (m Member) Field(name string) (string, bool) {
	switch name {
	case FieldVorname:
		return m.Vorname, true
	case FieldNachname:
		return m.Nachname, true
	case FieldGeschlecht:
		return m.Geschlecht, true
	case FieldGeburtsdatum:
		return m.Geburtsdatum, true
	case FieldStrasse:
		return m.Strasse, true
	case FieldHausnummer:
		return m.Hausnummer, true
	case FieldPLZ:
		return m.PLZ, true
	case FieldOrt:
		return m.Ort, true
	case FieldEmail:
		return m.Email, true
	case FieldTelefon:
		return m.Telefon, true
	case FieldKreis:
		return m.Kreis, true
	case FieldKreisNeu:
		return m.KreisNeu, true
	case FieldKreisAlt:
		return m.KreisAlt, true
	case FieldMitgliedsnummer:
		return m.Mitgliedsnummer, true
	case FieldEintrittsdatum:
		return m.Eintrittsdatum, true
	case FieldAustrittsdatum:
		return m.Austrittsdatum, true
	default:
		return "", false
	}
}

var scenarioFields = map[string][]string{
	"eintritt": {
		FieldVorname, FieldNachname, FieldEmail, FieldStrasse, FieldHausnummer, FieldPLZ, FieldOrt,
		FieldTelefon, FieldKreis, FieldGeburtsdatum, FieldEintrittsdatum, FieldMitgliedsnummer,
	},
	"austritt": {
		FieldVorname, FieldNachname, FieldEmail, FieldKreis, FieldAustrittsdatum, FieldMitgliedsnummer,
	},
	"veraenderung": {
		FieldVorname, FieldNachname, FieldStrasse, FieldHausnummer, FieldPLZ, FieldOrt,
		FieldTelefon, FieldEmail, FieldKreis, FieldMitgliedsnummer,
	},
	"verbandswechsel_eintritt": {
		FieldVorname, FieldNachname, FieldStrasse, FieldHausnummer, FieldPLZ, FieldOrt, FieldTelefon,
		FieldEmail, FieldGeburtsdatum, FieldKreisNeu, FieldEintrittsdatum, FieldMitgliedsnummer,
	},
	"verbandswechsel_austritt": {
		FieldVorname, FieldNachname, FieldEmail, FieldKreisAlt, FieldAustrittsdatum, FieldMitgliedsnummer,
	},
	"verbandswechsel_intern": {
		FieldVorname, FieldNachname, FieldEmail, FieldKreisAlt, FieldKreisNeu, FieldMitgliedsnummer,
	},
}

// DateFields are member data fields holding a date.
var DateFields = []string{FieldGeburtsdatum, FieldEintrittsdatum, FieldAustrittsdatum}

// ScenarioFields returns the ordered member data fields relevant for a
// scenario key.
func ScenarioFields(scenario string) ([]string, bool) {
	fields, ok := scenarioFields[scenario]
	if !ok {
		return nil, false
	}
	out := make([]string, len(fields))
	copy(out, fields)
	return out, true
}

var emailPattern = regexp.MustCompile(`^[A-Z0-9a-z._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidateMember checks that every field relevant for scenario is filled
// and that the email is well formed.
func ValidateMember(scenario string, m Member) error {
	fields, ok := scenarioFields[scenario]
	if !ok {
		return ErrUnknownScenario
	}

	problems := make(map[string]string)
	for _, name := range fields {
		value, _ := m.Field(name)
		value = strings.TrimSpace(value)
		switch {
		case value == "":
			problems[name] = "required"
		case name == FieldEmail && !ValidEmail(value):
			problems[name] = "invalid email address"
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Fields: problems}
	}
	return nil
}
