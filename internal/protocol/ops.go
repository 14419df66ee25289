// ABOUTME: Closed set of persistence operations understood by the engine host
// ABOUTME: Every Op listed here must have exactly one host handler (asserted by test)

package protocol

// Op tags a Request with the operation to perform. The set is closed:
// the host dispatcher matches every Op listed in Ops() and rejects
// anything else.
type Op string

const (
	// Habits
	OpHabitCreate    Op = "habit.create"
	OpHabitUpdate    Op = "habit.update"
	OpHabitArchive   Op = "habit.archive"
	OpHabitGet       Op = "habit.get"
	OpHabitList      Op = "habit.list"
	OpHabitPause     Op = "habit.pause"
	OpHabitResume    Op = "habit.resume"
	OpHabitPauseAll  Op = "habit.pauseAll"
	OpHabitResumeAll Op = "habit.resumeAll"
	OpHabitStreak    Op = "habit.streak"
	OpHabitIsDone    Op = "habit.isDone"

	// Schedules (exactly one active schedule per habit)
	OpScheduleReplace Op = "schedule.replace"
	OpScheduleGet     Op = "schedule.get"

	// Completions (boolean habits)
	OpCompletionToggle       Op = "completion.toggle"
	OpCompletionListForDate  Op = "completion.listForDate"
	OpCompletionListForHabit Op = "completion.listForHabit"

	// Numeric logs
	OpLogAdd           Op = "log.add"
	OpLogSetTotal      Op = "log.setTotal"
	OpLogListForHabit  Op = "log.listForHabit"
	OpLogListForDate   Op = "log.listForDate"
	OpLogDayTotal      Op = "log.dayTotal"
	OpLogDeleteForDate Op = "log.deleteForDate"

	// Habit reminders
	OpReminderCreate       Op = "reminder.create"
	OpReminderUpdate       Op = "reminder.update"
	OpReminderDelete       Op = "reminder.delete"
	OpReminderListForHabit Op = "reminder.listForHabit"
	OpReminderListAll      Op = "reminder.listAll"

	// Check-in reminders
	OpCheckinReminderCreate Op = "checkinReminder.create"
	OpCheckinReminderDelete Op = "checkinReminder.delete"
	OpCheckinReminderList   Op = "checkinReminder.listForTemplate"

	// Check-in templates and questions
	OpCheckinTemplateCreate  Op = "checkinTemplate.create"
	OpCheckinTemplateUpdate  Op = "checkinTemplate.update"
	OpCheckinTemplateArchive Op = "checkinTemplate.archive"
	OpCheckinTemplateList    Op = "checkinTemplate.list"
	OpCheckinQuestionCreate  Op = "checkinQuestion.create"
	OpCheckinQuestionUpdate  Op = "checkinQuestion.update"
	OpCheckinQuestionDelete  Op = "checkinQuestion.delete"
	OpCheckinQuestionList    Op = "checkinQuestion.listForTemplate"

	// Check-in responses and daily entries
	OpCheckinResponseUpsert          Op = "checkinResponse.upsert"
	OpCheckinResponseListForDate     Op = "checkinResponse.listForDate"
	OpCheckinResponseListForQuestion Op = "checkinResponse.listForQuestion"
	OpCheckinEntryUpsert             Op = "checkinEntry.upsert"
	OpCheckinEntryGet                Op = "checkinEntry.get"
	OpCheckinEntryList               Op = "checkinEntry.list"

	// Scribbles
	OpScribbleCreate Op = "scribble.create"
	OpScribbleUpdate Op = "scribble.update"
	OpScribbleDelete Op = "scribble.delete"
	OpScribbleGet    Op = "scribble.get"
	OpScribbleList   Op = "scribble.list"

	// Todos
	OpTodoCreate   Op = "todo.create"
	OpTodoUpdate   Op = "todo.update"
	OpTodoComplete Op = "todo.complete"
	OpTodoArchive  Op = "todo.archive"
	OpTodoGet      Op = "todo.get"
	OpTodoList     Op = "todo.list"

	// Bored suggestion pool
	OpBoredCategoryCreate  Op = "boredCategory.create"
	OpBoredCategoryUpdate  Op = "boredCategory.update"
	OpBoredCategoryArchive Op = "boredCategory.archive"
	OpBoredCategoryList    Op = "boredCategory.list"
	OpBoredActivityCreate  Op = "boredActivity.create"
	OpBoredActivityUpdate  Op = "boredActivity.update"
	OpBoredActivityArchive Op = "boredActivity.archive"
	OpBoredActivityList    Op = "boredActivity.list"
	OpBoredDraw            Op = "bored.draw"
	OpBoredMarkDone        Op = "bored.markDone"

	// Export/import and maintenance
	OpExport         Op = "export.run"
	OpImport         Op = "import.run"
	OpIntegrityCheck Op = "maintenance.integrityCheck"
	OpDiagnostics    Op = "maintenance.diagnostics"
)

// Ops returns every operation in the protocol. The host's dispatcher
// test iterates this list to prove each op has a handler.
func Ops() []Op {
	return []Op{
		OpHabitCreate, OpHabitUpdate, OpHabitArchive, OpHabitGet, OpHabitList,
		OpHabitPause, OpHabitResume, OpHabitPauseAll, OpHabitResumeAll,
		OpHabitStreak, OpHabitIsDone,
		OpScheduleReplace, OpScheduleGet,
		OpCompletionToggle, OpCompletionListForDate, OpCompletionListForHabit,
		OpLogAdd, OpLogSetTotal, OpLogListForHabit, OpLogListForDate,
		OpLogDayTotal, OpLogDeleteForDate,
		OpReminderCreate, OpReminderUpdate, OpReminderDelete,
		OpReminderListForHabit, OpReminderListAll,
		OpCheckinReminderCreate, OpCheckinReminderDelete, OpCheckinReminderList,
		OpCheckinTemplateCreate, OpCheckinTemplateUpdate, OpCheckinTemplateArchive,
		OpCheckinTemplateList,
		OpCheckinQuestionCreate, OpCheckinQuestionUpdate, OpCheckinQuestionDelete,
		OpCheckinQuestionList,
		OpCheckinResponseUpsert, OpCheckinResponseListForDate,
		OpCheckinResponseListForQuestion,
		OpCheckinEntryUpsert, OpCheckinEntryGet, OpCheckinEntryList,
		OpScribbleCreate, OpScribbleUpdate, OpScribbleDelete, OpScribbleGet,
		OpScribbleList,
		OpTodoCreate, OpTodoUpdate, OpTodoComplete, OpTodoArchive, OpTodoGet,
		OpTodoList,
		OpBoredCategoryCreate, OpBoredCategoryUpdate, OpBoredCategoryArchive,
		OpBoredCategoryList,
		OpBoredActivityCreate, OpBoredActivityUpdate, OpBoredActivityArchive,
		OpBoredActivityList,
		OpBoredDraw, OpBoredMarkDone,
		OpExport, OpImport, OpIntegrityCheck, OpDiagnostics,
	}
}
