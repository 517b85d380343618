package economy

import "clicker_webapp/internal/domain"

// inviteMilestones grant the referrer a bonus when their invited friends
// count hits one of these values exactly.
var inviteMilestones = [...]struct {
	Friends int
	Grant   domain.Grant
}{
	{Friends: 1, Grant: domain.Grant{Amount: 2000}},
	{Friends: 5, Grant: domain.Grant{Amount: 5000}},
	{Friends: 100, Grant: domain.Grant{Amount: 50000}},
	{Friends: 1000, Grant: domain.Grant{Amount: 250000}},
}

// InviteMilestone returns the bonus for reaching exactly count invited friends.
func InviteMilestone(count int) (domain.Grant, bool) {
	for _, m := range inviteMilestones {
		if m.Friends == count {
			return m.Grant, true
		}
	}
	return domain.Grant{}, false
}

// miningSharePercents is the cut of a mining yield paid up the referral
// chain: direct referrer first, then the referrer's referrer.
var miningSharePercents = [...]int64{5, 1}

// MiningShares splits a mining yield into per-level referral payouts,
// rounded down. The result is indexed by chain depth starting at the direct
// referrer.
func MiningShares(yield int64) []int64 {
	shares := make([]int64, len(miningSharePercents))
	if yield <= 0 {
		return shares
	}
	for i, pct := range miningSharePercents {
		shares[i] = yield * pct / 100
	}
	return shares
}
