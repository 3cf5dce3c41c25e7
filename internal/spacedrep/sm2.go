package spacedrep

import "time"

// Answer quality grades on the SM-2 0-5 scale.
const (
	QualityBlackout = 0 // complete failure
	QualityHard     = 2 // recalled with serious difficulty
	QualityGood     = 3 // recalled correctly
	QualityEasy     = 4 // recalled effortlessly
)

// QualityFor derives an answer quality when the caller supplied no
// explicit self-rating: a correct answer grades as "good", a wrong one
// as a blackout.
func QualityFor(correct bool, rating *int) int {
	if rating != nil {
		return *rating
	}
	if correct {
		return QualityGood
	}
	return QualityBlackout
}

// Schedule applies one SM-2 step for the given answer quality and
// returns the new next-review date. The interval sequence for an
// unbroken streak of "good" answers is 1, 6, then interval*ease
// compounding. Quality below 2 is a failure: the streak and interval
// reset and ease takes a 0.2 hit (floored at 1.3).
func (rs *ReviewState) Schedule(quality int, now time.Time) time.Time {
	if quality < 2 {
		rs.IntervalDays = DefaultIntervalDays
		rs.ConsecutiveCorrect = 0
		rs.EaseFactor = max(MinEaseFactor, rs.EaseFactor-0.2)
	} else {
		rs.ConsecutiveCorrect++

		switch rs.ConsecutiveCorrect {
		case 1:
			rs.IntervalDays = DefaultIntervalDays
		case 2:
			rs.IntervalDays = SecondIntervalDays
		default:
			rs.IntervalDays = rs.IntervalDays * rs.EaseFactor
		}

		switch {
		case quality == QualityHard:
			rs.EaseFactor = max(MinEaseFactor, rs.EaseFactor-0.15)
		case quality >= QualityEasy:
			// No ceiling on ease; only the floor is enforced.
			rs.EaseFactor += 0.1
		}
	}

	next := now.Add(daysToDuration(rs.IntervalDays))
	rs.NextReview = &next
	practiced := now
	rs.LastPracticed = &practiced
	return next
}

// daysToDuration converts a fractional day count to a time.Duration.
func daysToDuration(days float64) time.Duration {
	return time.Duration(days * 24 * float64(time.Hour))
}
