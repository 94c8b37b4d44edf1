/* scoring.go
 * Contains the scoring engine, which turns role summaries into a single score comparable across roles
 */

package logic

// minMax scales values to [0, 1]. A degenerate range maps every value to 0
func minMax(values []float64) []float64 {
	scaled := make([]float64, len(values))
	if len(values) == 0 {
		return scaled
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		return scaled
	}
	for i, v := range values {
		scaled[i] = (v - lo) / (hi - lo)
	}
	return scaled
}

// Function to score a whole batch of summaries in place
// Preconditions: Receives every summary of the tournament and a weight table
// Postconditions: Score is set on every summary, or an error is returned if the weights are invalid. For each
// weighted role, every weighted statistic is min-max scaled over the players of that role and the weighted sum is
// the raw score. Roles without weights get a raw score of 0. Raw scores are then min-max scaled over all summaries
// and multiplied by 100. Scores are relative to the cohort: they are only comparable inside one run
func Score(summaries []RoleSummary, w Weights) error {
	if err := w.Validate(); err != nil {
		return err
	}

	raw := make([]float64, len(summaries))
	for _, role := range w.Roles() {
		var cohort []int
		for i := range summaries {
			if summaries[i].Position == role {
				cohort = append(cohort, i)
			}
		}
		if len(cohort) == 0 {
			continue
		}

		stats := w[role]
		for _, stat := range sortedKeys(stats) {
			values := make([]float64, len(cohort))
			for j, i := range cohort {
				values[j] = summaries[i].Stat(stat)
			}
			for j, norm := range minMax(values) {
				raw[cohort[j]] += norm * stats[stat]
			}
		}
	}

	for i, scaled := range minMax(raw) {
		summaries[i].Score = scaled * 100
	}
	return nil
}
