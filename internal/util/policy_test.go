package util

import (
	"testing"

	"github.com/keval2310/Expense-Manager/internal/models"
)

func TestCanModify(t *testing.T) {
	admin := &models.User{ID: "a1", Role: models.RoleAdmin}
	owner := &models.User{ID: "u1", Role: models.RoleUser}
	other := &models.User{ID: "u2", Role: models.RoleUser}

	tests := []struct {
		name    string
		caller  *models.User
		ownerID string
		want    bool
	}{
		{"owner on own row", owner, "u1", true},
		{"admin on anyone's row", admin, "u1", true},
		{"admin on own row", admin, "a1", true},
		{"other user denied", other, "u1", false},
		{"nil caller denied", nil, "u1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanModify(tt.caller, tt.ownerID); got != tt.want {
				t.Errorf("CanModify = %v, want %v", got, tt.want)
			}
		})
	}
}
