package rewards

import (
	"github.com/billix/billix-be/util"
)

const (
	PointsPerDollar = 100

	DailyCheckInPoints     = 25
	PointsPerCorrectAnswer = 10
	PerfectQuizBonus       = 50
	MaxQuizQuestions       = 50
	PostPoints             = 5

	// MaxReferenceIdLen matches reward_transaction.reference_id
	MaxReferenceIdLen = 64
)

var (
	ErrQuizAlreadySubmitted = util.NewKindError(util.ErrConflict, "quiz already submitted")
	ErrAlreadyCheckedIn     = util.NewKindError(util.ErrConflict, "already checked in today")
	ErrCatalogItemNotFound  = util.NewKindError(util.ErrNotFound, "catalog item not found")
	ErrInsufficientPoints   = util.NewKindError(util.ErrInsufficientPoints, "insufficient points")
)

// DonationPointCost is the number of points needed to donate a whole dollar amount
func DonationPointCost(dollars int64) int64 {
	if dollars <= 0 {
		return 0
	}
	return dollars * PointsPerDollar
}

// QuizScore is the fraction of correct answers. No questions scores zero.
func QuizScore(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return clamp01(float64(correct) / float64(total))
}

func QuizPoints(correct, total int) int64 {
	if total <= 0 || correct <= 0 {
		return 0
	}
	if correct > total {
		correct = total
	}
	points := int64(correct) * PointsPerCorrectAnswer
	if correct == total {
		points += PerfectQuizBonus
	}
	return points
}

func ValidateQuizSubmission(quizId string, correct, total int) error {
	if quizId == "" || len(quizId) > MaxReferenceIdLen {
		return util.Invalidf("quiz id must be between 1 and %v characters", MaxReferenceIdLen)
	}
	if total <= 0 || total > MaxQuizQuestions {
		return util.Invalidf("quiz must have between 1 and %v questions", MaxQuizQuestions)
	}
	if correct < 0 || correct > total {
		return util.Invalidf("correct answers must be between 0 and %v", total)
	}
	return nil
}
