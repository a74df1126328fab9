package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

func TestIsQualified(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *domain.StaffMember)
		want   bool
	}{
		{"qualified stylist", func(s *domain.StaffMember) {}, true},
		{"receptionist", func(s *domain.StaffMember) { s.Role = domain.RoleReceptionist }, false},
		{"manager", func(s *domain.StaffMember) { s.Role = domain.RoleManager }, false},
		{"inactive", func(s *domain.StaffMember) { s.IsActive = false }, false},
		{"emergency unavailable", func(s *domain.StaffMember) { s.EmergencyUnavailable = true }, false},
		{"missing skill", func(s *domain.StaffMember) { s.Skills = []int64{11} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stylist(1, 10)
			tt.mutate(s)
			assert.Equal(t, tt.want, IsQualified(s, 10))
		})
	}

	assert.False(t, IsQualified(nil, 10))
}

func TestFilterQualified_OrderedAndIdempotent(t *testing.T) {
	inactive := stylist(2, 10)
	inactive.IsActive = false

	input := []*domain.StaffMember{stylist(5, 10), inactive, stylist(3, 10, 11), stylist(4, 11), stylist(1, 10)}

	once := FilterQualified(input, 10)
	require.Len(t, once, 3)
	assert.Equal(t, []int64{1, 3, 5}, []int64{once[0].ID, once[1].ID, once[2].ID})

	twice := FilterQualified(once, 10)
	assert.Equal(t, once, twice)

	assert.Len(t, input, 5, "input must not be modified")
	assert.Equal(t, int64(5), input[0].ID)
}
