package conditionals

// Satisfies checks if all thresholds in a Requirements clause are met.
// Absent requirements always pass. Missing stats count as 0 and missing
// items simply fail the gate.
func Satisfies(req *Requirements, gsView GameStateView) bool {
	if req == nil {
		return true
	}

	// Check stat thresholds
	for stat, threshold := range req.Stats {
		if gsView == nil {
			if threshold > 0 {
				return false
			}
			continue
		}
		if gsView.GetStat(stat) < threshold {
			return false
		}
	}

	// Check inventory
	for _, item := range req.Inventory {
		if gsView == nil || !gsView.HasItem(item) {
			return false
		}
	}

	return true
}
