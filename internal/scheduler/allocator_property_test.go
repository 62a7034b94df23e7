package scheduler

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/placement/internal/domain"
	"github.com/stretchr/testify/assert"
)

// TestCheckAllocation_Invariants_AcceptedBookingsNeverExceedCapacity
// property-tests that greedily accepting every conflict-free window never
// pushes a resource past its capacity, and that a rejection always names a
// genuinely overlapping booking.
func TestCheckAllocation_Invariants_AcceptedBookingsNeverExceedCapacity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		res := &domain.Resource{ID: "r", Capacity: rng.Intn(3) + 1}

		for i := 0; i < 20; i++ {
			start := day.Add(time.Duration(rng.Intn(16)) * 30 * time.Minute)
			end := start.Add(time.Duration(rng.Intn(4)+1) * 30 * time.Minute)

			conflicts := CheckAllocation(AllocationRequest{Start: start, End: end, Resources: []*domain.Resource{res}})
			if len(conflicts) == 0 {
				res.Bookings = append(res.Bookings, domain.Booking{EventID: fmt.Sprintf("e-%d", i), Start: start, End: end})
				continue
			}
			for _, id := range conflicts[0].EventIDs {
				found := false
				for _, b := range res.Bookings {
					if b.EventID == id {
						found = true
						assert.True(t, Overlaps(b.Start, b.End, start, end),
							"trial %d: conflicting booking %s must overlap the window", trial, id)
					}
				}
				assert.True(t, found, "trial %d: conflict names unknown booking %s", trial, id)
			}
		}

		assert.LessOrEqual(t, PeakLoad(res), res.Capacity,
			"trial %d: peak load must not exceed capacity %d", trial, res.Capacity)
	}
}
