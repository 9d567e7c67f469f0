package achievement

// AdvanceResult is the outcome of evaluating one track for one user.
type AdvanceResult struct {
	UserID        string    `json:"user_id"`
	Track         TrackName `json:"track"`
	Advanced      bool      `json:"advanced"`
	PreviousIndex int       `json:"previous_index"`
	TierIndex     int       `json:"tier_index"`
	Tier          *Tier     `json:"tier,omitempty"`
}

// CheckAndAdvance decides whether counter earns a higher tier than stored. It never demotes:
// a counter that decreased, or a table that was edited to raise thresholds, leaves the stored
// index untouched. It performs no I/O.
func CheckAndAdvance(userID string, track TrackName, counter int64, stored int, table Table) AdvanceResult {
	res := AdvanceResult{UserID: userID, Track: track, PreviousIndex: stored, TierIndex: stored}
	idx, tier := table.Evaluate(counter)
	if tier == nil || idx <= stored {
		return res
	}
	res.Advanced = true
	res.TierIndex = idx
	res.Tier = tier
	return res
}
