package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	lowerIdx := &pq.Error{Code: "23505", Constraint: "identities_email_lower_key"}
	plain := &pq.Error{Code: "23505", Constraint: "identities_email_key"}
	fk := &pq.Error{Code: "23503", Constraint: "identities_email_key"}

	assert.True(t, isUniqueViolation(lowerIdx, "identities_email_key", "identities_email_lower_key"))
	assert.True(t, isUniqueViolation(plain, "identities_email_key", "identities_email_lower_key"))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", lowerIdx)))
	assert.False(t, isUniqueViolation(lowerIdx, "teams_category_name_key"))
	assert.False(t, isUniqueViolation(fk))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}
