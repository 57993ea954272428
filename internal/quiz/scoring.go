package quiz

import "math"

// ScoreSubmission returns the rounded percentage of submitted entries whose
// selection matches key. key maps canonical question ids to correct option
// indexes.
//
// Invariants:
//   - every submitted entry counts toward the denominator, duplicates included.
//   - malformed ids and ids missing from key never count as correct.
//   - an empty submission scores 0.
func ScoreSubmission(submitted []SubmittedAnswer, key map[string]int) int {
	if len(submitted) == 0 {
		return 0
	}

	correct := 0
	for _, item := range submitted {
		id, err := NormalizeID(item.QuestionID)
		if err != nil {
			continue
		}
		if correctIndex, ok := key[id]; ok && correctIndex == item.SelectedIndex {
			correct++
		}
	}

	return Percentage(correct, len(submitted))
}

// Percentage rounds half away from zero.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}
