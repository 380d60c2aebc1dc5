package feed

import (
	"math"
	"time"
)

// Base priority per tier, before any per-viewer penalty.
var basePriority = map[Tier]float64{
	TierMutual:     100,
	TierFollowing:  85,
	TierFollowedBy: 70,
	TierNone:       40,
}

// Penalty per recorded view. Closer tiers decay faster.
var penaltyPerView = map[Tier]float64{
	TierMutual:     25,
	TierFollowing:  21.25,
	TierFollowedBy: 17.5,
	TierNone:       10,
}

// BasePriority returns the starting score of a tier.
func BasePriority(t Tier) float64 {
	return basePriority[t]
}

// ViewPenalty returns the amount to subtract from a post's priority after the
// viewer has seen it viewCount times. Never negative.
func ViewPenalty(t Tier, viewCount int) float64 {
	if viewCount <= 0 {
		return 0
	}
	return float64(viewCount) * penaltyPerView[t]
}

// Scorer computes final priorities.
//
// The view penalty only applies to page 1. Later pages rank on the
// unpenalized score, so deep-linking to page 2 shows a "fresh" ordering.
// This matches the behaviour the feed has always had and is pending a
// product decision.
type Scorer struct {
	// RecencyWeight enables an additive freshness term weight/(1+ageHours).
	// Zero disables it.
	RecencyWeight float64
	Now           func() time.Time
}

// Priority returns the final score of a post for a viewer on page.
func (s Scorer) Priority(t Tier, viewCount int, createdAt time.Time, page int) float64 {
	p := BasePriority(t)

	if s.RecencyWeight > 0 && !createdAt.IsZero() {
		now := time.Now
		if s.Now != nil {
			now = s.Now
		}
		ageHours := math.Max(0, now().Sub(createdAt).Hours())
		p += s.RecencyWeight / (1 + ageHours)
	}

	if page == 1 {
		p -= ViewPenalty(t, viewCount)
	}

	return math.Max(0, p)
}
