package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole(t *testing.T) {
	tests := []struct {
		role   Role
		known  bool
		label  string
		office bool
		board  bool
	}{
		{role: RoleAdmin, known: true, label: "Admin", office: true, board: true},
		{role: RoleOffice, known: true, label: "Landesgeschäftsstelle", office: true},
		{role: RoleBoard, known: true, label: "Landesvorstand", board: true},
		{role: RoleUser, known: true, label: "User"},
		{role: Role("kassenwart"), label: "kassenwart"},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.known, tt.role.Known())
			assert.Equal(t, tt.label, tt.role.Label())
			assert.Equal(t, tt.office, tt.role.CanAccessOffice())
			assert.Equal(t, tt.board, tt.role.CanAccessBoard())
		})
	}
}

func TestUpdateUserParams_OmitsEmptyPassword(t *testing.T) {
	data, err := json.Marshal(UpdateUserParams{Role: RoleUser})
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"user"}`, string(data))

	data, err = json.Marshal(UpdateUserParams{Role: RoleUser, Password: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"user","password":"x"}`, string(data))
}
