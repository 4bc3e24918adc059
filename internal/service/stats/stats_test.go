package stats

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heartmarshall/teamqueries/internal/domain"
)

func withStatuses(raw ...string) []domain.Request {
	out := make([]domain.Request, len(raw))
	for i, s := range raw {
		out[i] = domain.Request{ID: s, Status: domain.RequestStatus(s)}
	}
	return out
}

func TestProject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  []string
		want Counts
	}{
		{"empty", nil, Counts{}},
		{"mixed case and padding", []string{"Pending", "pending ", " Approved", "Cancelled"}, Counts{Pending: 2, Approved: 1, Cancelled: 1}},
		{"upper case", []string{"RESOLVED", "resolved"}, Counts{Resolved: 2}},
		{"unknown", []string{"Rejected", "", "Pending"}, Counts{Pending: 1, Other: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Project(slices.Values(withStatuses(tt.raw...)))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.raw), got.Total())
		})
	}
}

func TestCounts_Of(t *testing.T) {
	t.Parallel()

	c := Counts{Pending: 1, Approved: 2, Resolved: 3, Cancelled: 4, Other: 5}
	assert.Equal(t, 1, c.Of(domain.StatusPending))
	assert.Equal(t, 2, c.Of(domain.StatusApproved))
	assert.Equal(t, 3, c.Of(domain.StatusResolved))
	assert.Equal(t, 4, c.Of(domain.StatusCancelled))
	assert.Equal(t, 5, c.Of("Rejected"))
	assert.Equal(t, 15, c.Total())
}
