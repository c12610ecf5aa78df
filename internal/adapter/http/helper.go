package http

import "strings"

// containsFieldMsg reports whether the validation details carry an entry for
// field whose message mentions substr. Shared by the handler and validator
// tests.
func containsFieldMsg(list []FieldError, field, substr string) bool {
	for i := range list {
		if list[i].Field != field {
			continue
		}
		if strings.Contains(list[i].Message, substr) {
			return true
		}
	}
	return false
}
