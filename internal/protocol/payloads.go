// ABOUTME: Parameter structs for each persistence operation, with host-side validation
// ABOUTME: Validation covers required fields, enum membership and calendar-date format

package protocol

import (
	"fmt"
	"time"
)

// ValidDate reports whether s is a calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func requireDate(field, s string) error {
	if s == "" {
		return fmt.Errorf("%s is required", field)
	}
	if !ValidDate(s) {
		return fmt.Errorf("%s must be a YYYY-MM-DD date, got %q", field, s)
	}
	return nil
}

func validHabitType(t string) bool {
	return t == HabitBoolean || t == HabitNumeric || t == HabitLimit
}

func validScheduleType(t string) bool {
	return t == ScheduleDaily || t == ScheduleWeeklyFlex || t == ScheduleSpecificDays
}

func validPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

func validRecurrence(r string) bool {
	return r == "" || r == RecurrenceDaily || r == RecurrenceWeekly || r == RecurrenceMonthly
}

// ScheduleParams describes the single active schedule for a habit.
type ScheduleParams struct {
	ScheduleType   string `json:"schedule_type"`
	FrequencyCount int    `json:"frequency_count,omitempty"`
	DaysOfWeek     []int  `json:"days_of_week,omitempty"`
	DueTime        string `json:"due_time,omitempty"`
}

func (p *ScheduleParams) Validate() error {
	if !validScheduleType(p.ScheduleType) {
		return fmt.Errorf("invalid schedule_type %q", p.ScheduleType)
	}
	if p.ScheduleType == ScheduleWeeklyFlex && p.FrequencyCount < 1 {
		return fmt.Errorf("frequency_count must be >= 1 for WEEKLY_FLEX")
	}
	if p.ScheduleType == ScheduleSpecificDays && len(p.DaysOfWeek) == 0 {
		return fmt.Errorf("days_of_week is required for SPECIFIC_DAYS")
	}
	for _, d := range p.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("days_of_week entries must be in 0..6, got %d", d)
		}
	}
	return nil
}

// CreateHabitParams creates a habit together with its schedule, so the
// one-active-schedule invariant holds from the first row.
type CreateHabitParams struct {
	Name        string            `json:"name"`
	Emoji       string            `json:"emoji,omitempty"`
	Color       string            `json:"color,omitempty"`
	Type        string            `json:"type"`
	TargetValue float64           `json:"target_value,omitempty"`
	Unit        string            `json:"unit,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
	Schedule    ScheduleParams    `json:"schedule"`
}

func (p *CreateHabitParams) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !validHabitType(p.Type) {
		return fmt.Errorf("invalid habit type %q", p.Type)
	}
	return p.Schedule.Validate()
}

// UpdateHabitParams replaces a habit's display attributes, tags and
// annotations. Type and schedule change through their own operations.
type UpdateHabitParams struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Emoji       string            `json:"emoji,omitempty"`
	Color       string            `json:"color,omitempty"`
	TargetValue float64           `json:"target_value,omitempty"`
	Unit        string            `json:"unit,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

func (p *UpdateHabitParams) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// IDParams addresses one entity by id.
type IDParams struct {
	ID string `json:"id"`
}

func (p *IDParams) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("id is required")
	}
	return nil
}

// ListHabitsParams controls habit listing.
type ListHabitsParams struct {
	IncludeArchived bool `json:"include_archived,omitempty"`
}

// PauseHabitParams pauses one habit until a date (inclusive).
type PauseHabitParams struct {
	ID    string `json:"id"`
	Until string `json:"until"`
}

func (p *PauseHabitParams) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("id is required")
	}
	return requireDate("until", p.Until)
}

// PauseAllParams pauses every non-archived habit until a date.
type PauseAllParams struct {
	Until string `json:"until"`
}

func (p *PauseAllParams) Validate() error {
	return requireDate("until", p.Until)
}

// HabitDateParams addresses one (habit, date) pair.
type HabitDateParams struct {
	HabitID string `json:"habit_id"`
	Date    string `json:"date"`
}

func (p *HabitDateParams) Validate() error {
	if p.HabitID == "" {
		return fmt.Errorf("habit_id is required")
	}
	return requireDate("date", p.Date)
}

// DateParams addresses one calendar date.
type DateParams struct {
	Date string `json:"date"`
}

func (p *DateParams) Validate() error {
	return requireDate("date", p.Date)
}

// ReplaceScheduleParams swaps a habit's active schedule.
type ReplaceScheduleParams struct {
	HabitID  string         `json:"habit_id"`
	Schedule ScheduleParams `json:"schedule"`
}

func (p *ReplaceScheduleParams) Validate() error {
	if p.HabitID == "" {
		return fmt.Errorf("habit_id is required")
	}
	return p.Schedule.Validate()
}

// AddLogParams appends one numeric log entry. Entries are additive;
// use log.setTotal for absolute-value semantics.
type AddLogParams struct {
	HabitID string  `json:"habit_id"`
	Date    string  `json:"date"`
	Value   float64 `json:"value"`
}

func (p *AddLogParams) Validate() error {
	if p.HabitID == "" {
		return fmt.Errorf("habit_id is required")
	}
	return requireDate("date", p.Date)
}

// CreateReminderParams adds a trigger for a habit.
type CreateReminderParams struct {
	HabitID     string `json:"habit_id"`
	TriggerTime string `json:"trigger_time"`
	DaysActive  []int  `json:"days_active,omitempty"`
}

func (p *CreateReminderParams) Validate() error {
	if p.HabitID == "" {
		return fmt.Errorf("habit_id is required")
	}
	if p.TriggerTime == "" {
		return fmt.Errorf("trigger_time is required")
	}
	for _, d := range p.DaysActive {
		if d < 0 || d > 6 {
			return fmt.Errorf("days_active entries must be in 0..6, got %d", d)
		}
	}
	return nil
}

// UpdateReminderParams replaces a reminder's trigger.
type UpdateReminderParams struct {
	ID          string `json:"id"`
	TriggerTime string `json:"trigger_time"`
	DaysActive  []int  `json:"days_active,omitempty"`
}

func (p *UpdateReminderParams) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("id is required")
	}
	if p.TriggerTime == "" {
		return fmt.Errorf("trigger_time is required")
	}
	return nil
}

// CreateCheckinReminderParams adds a trigger for a check-in template.
type CreateCheckinReminderParams struct {
	TemplateID  string `json:"template_id"`
	TriggerTime string `json:"trigger_time"`
	DaysActive  []int  `json:"days_active,omitempty"`
}

func (p *CreateCheckinReminderParams) Validate() error {
	if p.TemplateID == "" {
		return fmt.Errorf("template_id is required")
	}
	if p.TriggerTime == "" {
		return fmt.Errorf("trigger_time is required")
	}
	return nil
}

// NameParams carries a bare required name.
type NameParams struct {
	Name string `json:"name"`
}

func (p *NameParams) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// RenameParams renames an entity by id.
type RenameParams struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (p *RenameParams) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// CreateQuestionParams appends a question to a template.
type CreateQuestionParams struct {
	TemplateID string `json:"template_id"`
	Prompt     string `json:"prompt"`
	Position   int    `json:"position"`
}

func (p *CreateQuestionParams) Validate() error {
	if p.TemplateID == "" {
		return fmt.Errorf("template_id is required")
	}
	if p.Prompt == "" {
		return fmt.Errorf("prompt is required")
	}
	return nil
}

// UpdateQuestionParams rewrites a question's prompt and position.
type UpdateQuestionParams struct {
	ID       string `json:"id"`
	Prompt   string `json:"prompt"`
	Position int    `json:"position"`
}

func (p *UpdateQuestionParams) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("id is required")
	}
	if p.Prompt == "" {
		return fmt.Errorf("prompt is required")
	}
	return nil
}

// UpsertResponseParams records the answer for (question, date),
// replacing any earlier answer for the same key.
type UpsertResponseParams struct {
	QuestionID string `json:"question_id"`
	Date       string `json:"date"`
	Response   string `json:"response"`
}

func (p *UpsertResponseParams) Validate() error {
	if p.QuestionID == "" {
		return fmt.Errorf("question_id is required")
	}
	return requireDate("date", p.Date)
}

// UpsertEntryParams records the free-text daily entry for a date.
type UpsertEntryParams struct {
	Date string `json:"date"`
	Body string `json:"body"`
}

func (p *UpsertEntryParams) Validate() error {
	return requireDate("date", p.Date)
}

// CreateScribbleParams adds a freeform note.
type CreateScribbleParams struct {
	Body        string            `json:"body"`
	Tags        []string          `json:"tags,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

func (p *CreateScribbleParams) Validate() error {
	if p.Body == "" {
		return fmt.Errorf("body is required")
	}
	return nil
}

// UpdateScribbleParams replaces a scribble's body, tags and annotations.
type UpdateScribbleParams struct {
	ID          string            `json:"id"`
	Body        string            `json:"body"`
	Tags        []string          `json:"tags,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

func (p *UpdateScribbleParams) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("id is required")
	}
	if p.Body == "" {
		return fmt.Errorf("body is required")
	}
	return nil
}

// CreateTodoParams adds a task.
type CreateTodoParams struct {
	Title           string  `json:"title"`
	Notes           string  `json:"notes,omitempty"`
	DueDate         *string `json:"due_date,omitempty"`
	Priority        string  `json:"priority"`
	Recurrence      string  `json:"recurrence,omitempty"`
	ShowInBored     bool    `json:"show_in_bored,omitempty"`
	EstimateMinutes *int    `json:"estimate_minutes,omitempty"`
	CategoryID      *string `json:"bored_category_id,omitempty"`
}

func (p *CreateTodoParams) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("title is required")
	}
	if !validPriority(p.Priority) {
		return fmt.Errorf("invalid priority %q", p.Priority)
	}
	if !validRecurrence(p.Recurrence) {
		return fmt.Errorf("invalid recurrence %q", p.Recurrence)
	}
	if p.DueDate != nil {
		return requireDate("due_date", *p.DueDate)
	}
	return nil
}

// UpdateTodoParams replaces a task's mutable fields.
type UpdateTodoParams struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Notes           string  `json:"notes,omitempty"`
	DueDate         *string `json:"due_date,omitempty"`
	Priority        string  `json:"priority"`
	Recurrence      string  `json:"recurrence,omitempty"`
	ShowInBored     bool    `json:"show_in_bored,omitempty"`
	EstimateMinutes *int    `json:"estimate_minutes,omitempty"`
	CategoryID      *string `json:"bored_category_id,omitempty"`
}

func (p *UpdateTodoParams) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("id is required")
	}
	if p.Title == "" {
		return fmt.Errorf("title is required")
	}
	if !validPriority(p.Priority) {
		return fmt.Errorf("invalid priority %q", p.Priority)
	}
	if !validRecurrence(p.Recurrence) {
		return fmt.Errorf("invalid recurrence %q", p.Recurrence)
	}
	if p.DueDate != nil {
		return requireDate("due_date", *p.DueDate)
	}
	return nil
}

// ListTodosParams controls todo listing.
type ListTodosParams struct {
	IncludeDone     bool `json:"include_done,omitempty"`
	IncludeArchived bool `json:"include_archived,omitempty"`
}

// CreateActivityParams adds a suggestion-pool item.
type CreateActivityParams struct {
	CategoryID      string `json:"category_id"`
	Title           string `json:"title"`
	EstimateMinutes *int   `json:"estimate_minutes,omitempty"`
	Recurring       bool   `json:"recurring,omitempty"`
}

func (p *CreateActivityParams) Validate() error {
	if p.CategoryID == "" {
		return fmt.Errorf("category_id is required")
	}
	if p.Title == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// UpdateActivityParams replaces a suggestion-pool item's fields.
type UpdateActivityParams struct {
	ID              string `json:"id"`
	CategoryID      string `json:"category_id"`
	Title           string `json:"title"`
	EstimateMinutes *int   `json:"estimate_minutes,omitempty"`
	Recurring       bool   `json:"recurring,omitempty"`
}

func (p *UpdateActivityParams) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("id is required")
	}
	if p.CategoryID == "" {
		return fmt.Errorf("category_id is required")
	}
	if p.Title == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// DrawParams filters the oracle's eligible pool.
type DrawParams struct {
	ExcludedCategoryIDs []string `json:"excluded_category_ids,omitempty"`
	MaxMinutes          *int     `json:"max_minutes,omitempty"`
}

// Import modes.
const (
	ImportModeReplace = "replace"
	ImportModeMerge   = "merge"
)

// ExportParams selects tables to serialize. Empty means all tables.
type ExportParams struct {
	Tables []string `json:"tables,omitempty"`
}

// ImportParams carries a document plus the per-table conflict policy:
// replace clears each selected table first, merge upserts by id.
type ImportParams struct {
	Document ExportDocument `json:"document"`
	Mode     string         `json:"mode"`
}

func (p *ImportParams) Validate() error {
	if p.Mode != ImportModeReplace && p.Mode != ImportModeMerge {
		return fmt.Errorf("invalid import mode %q", p.Mode)
	}
	if p.Document.Version != ExportVersion {
		return fmt.Errorf("unsupported export document version %d", p.Document.Version)
	}
	return nil
}
