package identifier

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^D-[0-9a-f]{8}$`)
	id := New(DoctorPrefix)
	assert.True(t, pattern.MatchString(id), "unexpected id format: %s", id)
}

func TestNewUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := NewAppointmentID()
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id: %s", id)
		seen[id] = struct{}{}
	}
}
