package progression

import domainagg "github.com/kajkor/kajkor-backend/internal/domain/aggregates"

const (
	MsgAlreadyCompletedToday = "You have already completed today's task"
	MsgAlreadyLoggedToday    = "Today's progress has already been logged"
	MsgCompleteTodayFirst    = "Complete today's task first before starting tomorrow's task"
	MsgAlreadyOnFinalDay     = "You are already on the final day of this target"

	MsgNextDayStarted         = "Tomorrow's task is now available. Good luck!"
	MsgNextDayAlreadyUnlocked = "Tomorrow's task is already unlocked"
)

func errAlreadyCompletedToday(op string) error {
	return domainagg.NewError(domainagg.CodeAlreadyCompletedToday, op, MsgAlreadyCompletedToday, nil)
}

func errAlreadyLoggedToday(op string) error {
	return domainagg.NewError(domainagg.CodeAlreadyLoggedToday, op, MsgAlreadyLoggedToday, nil)
}

func errCompleteTodayFirst(op string) error {
	return domainagg.NewError(domainagg.CodeCompleteTodayFirst, op, MsgCompleteTodayFirst, nil)
}

func errAlreadyOnFinalDay(op string) error {
	return domainagg.NewError(domainagg.CodeAlreadyOnFinalDay, op, MsgAlreadyOnFinalDay, nil)
}

func errValidation(op, msg string) error {
	return domainagg.NewError(domainagg.CodeValidation, op, msg, nil)
}
