// ABOUTME: Entity types crossing the persistence wire as command results
// ABOUTME: Dates are calendar strings (YYYY-MM-DD), timestamps RFC 3339 UTC

package protocol

// Habit type constants.
const (
	HabitBoolean = "BOOLEAN"
	HabitNumeric = "NUMERIC"
	HabitLimit   = "LIMIT"
)

// Schedule type constants.
const (
	ScheduleDaily        = "DAILY"
	ScheduleWeeklyFlex   = "WEEKLY_FLEX"
	ScheduleSpecificDays = "SPECIFIC_DAYS"
)

// Todo priority constants.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// Todo recurrence constants.
const (
	RecurrenceDaily   = "DAILY"
	RecurrenceWeekly  = "WEEKLY"
	RecurrenceMonthly = "MONTHLY"
)

// Habit is a trackable recurring behavior. Archived habits keep their
// rows (soft delete via ArchivedAt). Paused means PausedUntil is set
// and >= today; the comparison is on calendar-date strings, which for
// ISO dates orders the same as chronological.
type Habit struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Emoji       string            `json:"emoji,omitempty"`
	Color       string            `json:"color,omitempty"`
	Type        string            `json:"type"`
	TargetValue float64           `json:"target_value"`
	Unit        string            `json:"unit,omitempty"`
	PausedUntil *string           `json:"paused_until,omitempty"`
	ArchivedAt  *string           `json:"archived_at,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

// HabitSchedule is the cadence rule for one habit. FrequencyCount is
// meaningful only for WEEKLY_FLEX; DaysOfWeek (subset of 0..6, Sunday
// is 0) only for SPECIFIC_DAYS.
type HabitSchedule struct {
	ID             string `json:"id"`
	HabitID        string `json:"habit_id"`
	ScheduleType   string `json:"schedule_type"`
	FrequencyCount int    `json:"frequency_count,omitempty"`
	DaysOfWeek     []int  `json:"days_of_week,omitempty"`
	DueTime        string `json:"due_time,omitempty"`
}

// Completion is a boolean habit's done mark for one date. At most one
// row exists per (habit, date).
type Completion struct {
	ID        string `json:"id"`
	HabitID   string `json:"habit_id"`
	Date      string `json:"date"`
	CreatedAt string `json:"created_at"`
}

// HabitLog is one numeric entry for a habit on a date. Multiple rows
// per day accumulate by summation.
type HabitLog struct {
	ID        string  `json:"id"`
	HabitID   string  `json:"habit_id"`
	Date      string  `json:"date"`
	Value     float64 `json:"value"`
	CreatedAt string  `json:"created_at"`
}

// Reminder is a habit notification trigger. DaysActive empty means
// every day.
type Reminder struct {
	ID          string `json:"id"`
	HabitID     string `json:"habit_id"`
	TriggerTime string `json:"trigger_time"`
	DaysActive  []int  `json:"days_active,omitempty"`
}

// CheckinReminder is a notification trigger for a check-in template.
type CheckinReminder struct {
	ID          string `json:"id"`
	TemplateID  string `json:"template_id"`
	TriggerTime string `json:"trigger_time"`
	DaysActive  []int  `json:"days_active,omitempty"`
}

// CheckinTemplate owns an ordered list of questions.
type CheckinTemplate struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ArchivedAt *string `json:"archived_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

// CheckinQuestion is one prompt within a template, ordered by Position.
type CheckinQuestion struct {
	ID         string `json:"id"`
	TemplateID string `json:"template_id"`
	Prompt     string `json:"prompt"`
	Position   int    `json:"position"`
}

// CheckinResponse is the answer to one question on one date, keyed by
// (question, date).
type CheckinResponse struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id"`
	Date       string `json:"date"`
	Response   string `json:"response"`
}

// CheckinEntry is the free-text daily entry, keyed by date alone.
type CheckinEntry struct {
	Date      string `json:"date"`
	Body      string `json:"body"`
	UpdatedAt string `json:"updated_at"`
}

// Scribble is a freeform note.
type Scribble struct {
	ID          string            `json:"id"`
	Body        string            `json:"body"`
	Tags        []string          `json:"tags,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

// Todo is a task. ShowInBored makes it eligible for oracle draws;
// Recurrence, when set, advances DueDate on completion instead of
// marking the todo done.
type Todo struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Notes           string  `json:"notes,omitempty"`
	DueDate         *string `json:"due_date,omitempty"`
	Priority        string  `json:"priority"`
	Recurrence      string  `json:"recurrence,omitempty"`
	ShowInBored     bool    `json:"show_in_bored"`
	EstimateMinutes *int    `json:"estimate_minutes,omitempty"`
	CategoryID      *string `json:"bored_category_id,omitempty"`
	DoneAt          *string `json:"done_at,omitempty"`
	ArchivedAt      *string `json:"archived_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// BoredCategory groups suggestion-pool activities.
type BoredCategory struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ArchivedAt *string `json:"archived_at,omitempty"`
}

// BoredActivity is one suggestion-pool item.
type BoredActivity struct {
	ID              string  `json:"id"`
	CategoryID      string  `json:"category_id"`
	Title           string  `json:"title"`
	EstimateMinutes *int    `json:"estimate_minutes,omitempty"`
	DoneCount       int     `json:"done_count"`
	IsDone          bool    `json:"is_done"`
	Recurring       bool    `json:"recurring"`
	ArchivedAt      *string `json:"archived_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// ExportDocument is the versioned backup format. Only tables selected
// at export time are populated; the rest stay empty.
type ExportDocument struct {
	Version          int               `json:"version"`
	ExportedAt       string            `json:"exported_at"`
	Habits           []Habit           `json:"habits"`
	Completions      []Completion      `json:"completions"`
	HabitLogs        []HabitLog        `json:"habit_logs"`
	HabitSchedules   []HabitSchedule   `json:"habit_schedules"`
	CheckinTemplates []CheckinTemplate `json:"checkin_templates"`
	CheckinQuestions []CheckinQuestion `json:"checkin_questions"`
	CheckinResponses []CheckinResponse `json:"checkin_responses"`
	Reminders        []Reminder        `json:"reminders"`
	CheckinReminders []CheckinReminder `json:"checkin_reminders"`
	Scribbles        []Scribble        `json:"scribbles"`
	CheckinEntries   []CheckinEntry    `json:"checkin_entries"`
}

// ExportVersion is the current ExportDocument version.
const ExportVersion = 1

// SchemaObject describes one table or index for diagnostics.
type SchemaObject struct {
	Name string `json:"name"`
	SQL  string `json:"sql,omitempty"`
}

// Diagnostics is the support/debugging snapshot of the store layout.
type Diagnostics struct {
	SchemaVersion int            `json:"schema_version"`
	Tables        []SchemaObject `json:"tables"`
	Indexes       []SchemaObject `json:"indexes"`
}

// IntegrityResult carries the storage engine's consistency check
// outcome, with the diagnostic text verbatim.
type IntegrityResult struct {
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
}

// DrawResult is one oracle draw. Exactly one of Activity/Todo is set;
// both nil means the eligible pool was empty.
type DrawResult struct {
	Activity *BoredActivity `json:"activity,omitempty"`
	Todo     *Todo          `json:"todo,omitempty"`
}

// StreakResult is the derived consecutive-day count for a habit.
type StreakResult struct {
	Days int `json:"days"`
}

// DoneResult reports whether a habit counts as done for a date.
type DoneResult struct {
	Done bool `json:"done"`
}

// TotalResult is the summed log value for a (habit, date).
type TotalResult struct {
	Total float64 `json:"total"`
}

// ToggleResult reports the completion state after a toggle.
type ToggleResult struct {
	Completed bool `json:"completed"`
}

// ImportResult summarizes how many rows each table accepted.
type ImportResult struct {
	Inserted map[string]int `json:"inserted"`
}
