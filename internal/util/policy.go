package util

import "github.com/keval2310/Expense-Manager/internal/models"

// CanModify is the single ownership policy: a resource may be mutated
// by its owner or by an admin, nobody else.
func CanModify(caller *models.User, ownerID string) bool {
	if caller == nil {
		return false
	}
	return caller.IsAdmin() || caller.ID == ownerID
}
