package ranking

// TierCount is the number of reputation tiers.
const TierCount = 15

// Tier describes one reputation level.
type Tier struct {
	Name      string
	Threshold int64
}

// tiers is the static rank table, ordered by strictly increasing
// thresholds. Index 0 is tier 1.
var tiers = [TierCount]Tier{
	{"1-Ply Newbie", 0},
	{"2-Ply Learner", 100},
	{"3-Ply Cruiser", 250},
	{"4-Ply Pusher", 450},
	{"5-Ply Rider", 700},
	{"6-Ply Skater", 1000},
	{"7-Ply Shredder", 1400},
	{"8-Ply Grinder", 1900},
	{"9-Ply Street", 2500},
	{"10-Ply Vert", 3200},
	{"11-Ply Pro", 4000},
	{"12-Ply Legend", 5000},
	{"13-Ply Master", 6200},
	{"14-Ply Godlike", 7600},
	{"15-Ply Mythical", 9200},
}

// Resolve maps accumulated points to a tier in [1, TierCount]: the
// largest tier whose threshold the total has reached. Pure and
// deterministic.
func Resolve(points int64) int {
	tier := 1
	for i := 1; i < TierCount; i++ {
		if points < tiers[i].Threshold {
			break
		}
		tier = i + 1
	}
	return tier
}

// TierName returns the display name for a tier. Out-of-range tiers fall
// back to tier 1.
func TierName(tier int) string {
	if tier < 1 || tier > TierCount {
		tier = 1
	}
	return tiers[tier-1].Name
}

// Threshold returns the points required to reach a tier.
func Threshold(tier int) int64 {
	if tier < 1 || tier > TierCount {
		tier = 1
	}
	return tiers[tier-1].Threshold
}

// NextThreshold returns the points needed for the next tier, or false
// when the tier is already the highest.
func NextThreshold(tier int) (int64, bool) {
	if tier < 1 || tier >= TierCount {
		return 0, false
	}
	return tiers[tier].Threshold, true
}
