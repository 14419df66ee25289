// ABOUTME: Typed convenience API over the raw bridge call surface
// ABOUTME: One method per protocol operation, decoding responses into entity types

package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tendril-app/tendril/internal/protocol"
)

// Client wraps a Bridge with one typed method per operation. All
// methods honor the bridge's disabled state and the given context.
type Client struct {
	bridge *Bridge
}

// NewClient creates a typed client over a started bridge.
func NewClient(b *Bridge) *Client {
	return &Client{bridge: b}
}

// call runs an op and decodes the response data into out. Pass nil
// out for operations with no result.
func (c *Client) call(ctx context.Context, op protocol.Op, payload, out any) error {
	data, err := c.bridge.Call(ctx, op, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", op, err)
	}
	return nil
}

func (c *Client) CreateHabit(ctx context.Context, p *protocol.CreateHabitParams) (*protocol.Habit, error) {
	var h protocol.Habit
	if err := c.call(ctx, protocol.OpHabitCreate, p, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) UpdateHabit(ctx context.Context, p *protocol.UpdateHabitParams) (*protocol.Habit, error) {
	var h protocol.Habit
	if err := c.call(ctx, protocol.OpHabitUpdate, p, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) ArchiveHabit(ctx context.Context, id string) error {
	return c.call(ctx, protocol.OpHabitArchive, &protocol.IDParams{ID: id}, nil)
}

func (c *Client) GetHabit(ctx context.Context, id string) (*protocol.Habit, error) {
	var h protocol.Habit
	if err := c.call(ctx, protocol.OpHabitGet, &protocol.IDParams{ID: id}, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) ListHabits(ctx context.Context, includeArchived bool) ([]protocol.Habit, error) {
	var habits []protocol.Habit
	p := &protocol.ListHabitsParams{IncludeArchived: includeArchived}
	if err := c.call(ctx, protocol.OpHabitList, p, &habits); err != nil {
		return nil, err
	}
	return habits, nil
}

func (c *Client) PauseHabit(ctx context.Context, id, until string) error {
	return c.call(ctx, protocol.OpHabitPause, &protocol.PauseHabitParams{ID: id, Until: until}, nil)
}

func (c *Client) ResumeHabit(ctx context.Context, id string) error {
	return c.call(ctx, protocol.OpHabitResume, &protocol.IDParams{ID: id}, nil)
}

func (c *Client) PauseAll(ctx context.Context, until string) error {
	return c.call(ctx, protocol.OpHabitPauseAll, &protocol.PauseAllParams{Until: until}, nil)
}

func (c *Client) ResumeAll(ctx context.Context) error {
	return c.call(ctx, protocol.OpHabitResumeAll, nil, nil)
}

func (c *Client) Streak(ctx context.Context, habitID, from string) (int, error) {
	var r protocol.StreakResult
	p := &protocol.HabitDateParams{HabitID: habitID, Date: from}
	if err := c.call(ctx, protocol.OpHabitStreak, p, &r); err != nil {
		return 0, err
	}
	return r.Days, nil
}

func (c *Client) IsHabitDone(ctx context.Context, habitID, date string) (bool, error) {
	var r protocol.DoneResult
	p := &protocol.HabitDateParams{HabitID: habitID, Date: date}
	if err := c.call(ctx, protocol.OpHabitIsDone, p, &r); err != nil {
		return false, err
	}
	return r.Done, nil
}

func (c *Client) ReplaceSchedule(ctx context.Context, habitID string, s *protocol.ScheduleParams) (*protocol.HabitSchedule, error) {
	var out protocol.HabitSchedule
	p := &protocol.ReplaceScheduleParams{HabitID: habitID, Schedule: *s}
	if err := c.call(ctx, protocol.OpScheduleReplace, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetSchedule(ctx context.Context, habitID string) (*protocol.HabitSchedule, error) {
	var out protocol.HabitSchedule
	if err := c.call(ctx, protocol.OpScheduleGet, &protocol.IDParams{ID: habitID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ToggleCompletion(ctx context.Context, habitID, date string) (bool, error) {
	var r protocol.ToggleResult
	p := &protocol.HabitDateParams{HabitID: habitID, Date: date}
	if err := c.call(ctx, protocol.OpCompletionToggle, p, &r); err != nil {
		return false, err
	}
	return r.Completed, nil
}

func (c *Client) ListCompletionsForDate(ctx context.Context, date string) ([]protocol.Completion, error) {
	var out []protocol.Completion
	if err := c.call(ctx, protocol.OpCompletionListForDate, &protocol.DateParams{Date: date}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListCompletionsForHabit(ctx context.Context, habitID string) ([]protocol.Completion, error) {
	var out []protocol.Completion
	if err := c.call(ctx, protocol.OpCompletionListForHabit, &protocol.IDParams{ID: habitID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddLog(ctx context.Context, habitID, date string, value float64) (*protocol.HabitLog, error) {
	var out protocol.HabitLog
	p := &protocol.AddLogParams{HabitID: habitID, Date: date, Value: value}
	if err := c.call(ctx, protocol.OpLogAdd, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetLogTotal(ctx context.Context, habitID, date string, value float64) (*protocol.HabitLog, error) {
	var out protocol.HabitLog
	p := &protocol.AddLogParams{HabitID: habitID, Date: date, Value: value}
	if err := c.call(ctx, protocol.OpLogSetTotal, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListLogsForHabit(ctx context.Context, habitID string) ([]protocol.HabitLog, error) {
	var out []protocol.HabitLog
	if err := c.call(ctx, protocol.OpLogListForHabit, &protocol.IDParams{ID: habitID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListLogsForDate(ctx context.Context, date string) ([]protocol.HabitLog, error) {
	var out []protocol.HabitLog
	if err := c.call(ctx, protocol.OpLogListForDate, &protocol.DateParams{Date: date}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DayTotal(ctx context.Context, habitID, date string) (float64, error) {
	var r protocol.TotalResult
	p := &protocol.HabitDateParams{HabitID: habitID, Date: date}
	if err := c.call(ctx, protocol.OpLogDayTotal, p, &r); err != nil {
		return 0, err
	}
	return r.Total, nil
}

func (c *Client) DeleteLogsForDate(ctx context.Context, habitID, date string) error {
	p := &protocol.HabitDateParams{HabitID: habitID, Date: date}
	return c.call(ctx, protocol.OpLogDeleteForDate, p, nil)
}

func (c *Client) CreateReminder(ctx context.Context, p *protocol.CreateReminderParams) (*protocol.Reminder, error) {
	var out protocol.Reminder
	if err := c.call(ctx, protocol.OpReminderCreate, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateReminder(ctx context.Context, p *protocol.UpdateReminderParams) error {
	return c.call(ctx, protocol.OpReminderUpdate, p, nil)
}

func (c *Client) DeleteReminder(ctx context.Context, id string) error {
	return c.call(ctx, protocol.OpReminderDelete, &protocol.IDParams{ID: id}, nil)
}

func (c *Client) ListRemindersForHabit(ctx context.Context, habitID string) ([]protocol.Reminder, error) {
	var out []protocol.Reminder
	if err := c.call(ctx, protocol.OpReminderListForHabit, &protocol.IDParams{ID: habitID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListReminders(ctx context.Context) ([]protocol.Reminder, error) {
	var out []protocol.Reminder
	if err := c.call(ctx, protocol.OpReminderListAll, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCheckinReminder(ctx context.Context, p *protocol.CreateCheckinReminderParams) (*protocol.CheckinReminder, error) {
	var out protocol.CheckinReminder
	if err := c.call(ctx, protocol.OpCheckinReminderCreate, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCheckinReminder(ctx context.Context, id string) error {
	return c.call(ctx, protocol.OpCheckinReminderDelete, &protocol.IDParams{ID: id}, nil)
}

func (c *Client) ListCheckinReminders(ctx context.Context, templateID string) ([]protocol.CheckinReminder, error) {
	var out []protocol.CheckinReminder
	if err := c.call(ctx, protocol.OpCheckinReminderList, &protocol.IDParams{ID: templateID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCheckinTemplate(ctx context.Context, name string) (*protocol.CheckinTemplate, error) {
	var out protocol.CheckinTemplate
	if err := c.call(ctx, protocol.OpCheckinTemplateCreate, &protocol.NameParams{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RenameCheckinTemplate(ctx context.Context, id, name string) error {
	return c.call(ctx, protocol.OpCheckinTemplateUpdate, &protocol.RenameParams{ID: id, Name: name}, nil)
}

func (c *Client) ArchiveCheckinTemplate(ctx context.Context, id string) error {
	return c.call(ctx, protocol.OpCheckinTemplateArchive, &protocol.IDParams{ID: id}, nil)
}

func (c *Client) ListCheckinTemplates(ctx context.Context) ([]protocol.CheckinTemplate, error) {
	var out []protocol.CheckinTemplate
	if err := c.call(ctx, protocol.OpCheckinTemplateList, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCheckinQuestion(ctx context.Context, p *protocol.CreateQuestionParams) (*protocol.CheckinQuestion, error) {
	var out protocol.CheckinQuestion
	if err := c.call(ctx, protocol.OpCheckinQuestionCreate, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCheckinQuestion(ctx context.Context, p *protocol.UpdateQuestionParams) error {
	return c.call(ctx, protocol.OpCheckinQuestionUpdate, p, nil)
}

func (c *Client) DeleteCheckinQuestion(ctx context.Context, id string) error {
	return c.call(ctx, protocol.OpCheckinQuestionDelete, &protocol.IDParams{ID: id}, nil)
}

func (c *Client) ListCheckinQuestions(ctx context.Context, templateID string) ([]protocol.CheckinQuestion, error) {
	var out []protocol.CheckinQuestion
	if err := c.call(ctx, protocol.OpCheckinQuestionList, &protocol.IDParams{ID: templateID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpsertCheckinResponse(ctx context.Context, p *protocol.UpsertResponseParams) (*protocol.CheckinResponse, error) {
	var out protocol.CheckinResponse
	if err := c.call(ctx, protocol.OpCheckinResponseUpsert, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCheckinResponsesForDate(ctx context.Context, date string) ([]protocol.CheckinResponse, error) {
	var out []protocol.CheckinResponse
	if err := c.call(ctx, protocol.OpCheckinResponseListForDate, &protocol.DateParams{Date: date}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListCheckinResponsesForQuestion(ctx context.Context, questionID string) ([]protocol.CheckinResponse, error) {
	var out []protocol.CheckinResponse
	if err := c.call(ctx, protocol.OpCheckinResponseListForQuestion, &protocol.IDParams{ID: questionID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpsertCheckinEntry(ctx context.Context, date, body string) (*protocol.CheckinEntry, error) {
	var out protocol.CheckinEntry
	p := &protocol.UpsertEntryParams{Date: date, Body: body}
	if err := c.call(ctx, protocol.OpCheckinEntryUpsert, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCheckinEntry(ctx context.Context, date string) (*protocol.CheckinEntry, error) {
	var out protocol.CheckinEntry
	if err := c.call(ctx, protocol.OpCheckinEntryGet, &protocol.DateParams{Date: date}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCheckinEntries(ctx context.Context) ([]protocol.CheckinEntry, error) {
	var out []protocol.CheckinEntry
	if err := c.call(ctx, protocol.OpCheckinEntryList, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateScribble(ctx context.Context, p *protocol.CreateScribbleParams) (*protocol.Scribble, error) {
	var out protocol.Scribble
	if err := c.call(ctx, protocol.OpScribbleCreate, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateScribble(ctx context.Context, p *protocol.UpdateScribbleParams) (*protocol.Scribble, error) {
	var out protocol.Scribble
	if err := c.call(ctx, protocol.OpScribbleUpdate, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteScribble(ctx context.Context, id string) error {
	return c.call(ctx, protocol.OpScribbleDelete, &protocol.IDParams{ID: id}, nil)
}

func (c *Client) GetScribble(ctx context.Context, id string) (*protocol.Scribble, error) {
	var out protocol.Scribble
	if err := c.call(ctx, protocol.OpScribbleGet, &protocol.IDParams{ID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListScribbles(ctx context.Context) ([]protocol.Scribble, error) {
	var out []protocol.Scribble
	if err := c.call(ctx, protocol.OpScribbleList, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTodo(ctx context.Context, p *protocol.CreateTodoParams) (*protocol.Todo, error) {
	var out protocol.Todo
	if err := c.call(ctx, protocol.OpTodoCreate, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTodo(ctx context.Context, p *protocol.UpdateTodoParams) (*protocol.Todo, error) {
	var out protocol.Todo
	if err := c.call(ctx, protocol.OpTodoUpdate, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CompleteTodo(ctx context.Context, id string) (*protocol.Todo, error) {
	var out protocol.Todo
	if err := c.call(ctx, protocol.OpTodoComplete, &protocol.IDParams{ID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ArchiveTodo(ctx context.Context, id string) error {
	return c.call(ctx, protocol.OpTodoArchive, &protocol.IDParams{ID: id}, nil)
}

func (c *Client) GetTodo(ctx context.Context, id string) (*protocol.Todo, error) {
	var out protocol.Todo
	if err := c.call(ctx, protocol.OpTodoGet, &protocol.IDParams{ID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTodos(ctx context.Context, includeDone, includeArchived bool) ([]protocol.Todo, error) {
	var out []protocol.Todo
	p := &protocol.ListTodosParams{IncludeDone: includeDone, IncludeArchived: includeArchived}
	if err := c.call(ctx, protocol.OpTodoList, p, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBoredCategory(ctx context.Context, name string) (*protocol.BoredCategory, error) {
	var out protocol.BoredCategory
	if err := c.call(ctx, protocol.OpBoredCategoryCreate, &protocol.NameParams{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RenameBoredCategory(ctx context.Context, id, name string) error {
	return c.call(ctx, protocol.OpBoredCategoryUpdate, &protocol.RenameParams{ID: id, Name: name}, nil)
}

func (c *Client) ArchiveBoredCategory(ctx context.Context, id string) error {
	return c.call(ctx, protocol.OpBoredCategoryArchive, &protocol.IDParams{ID: id}, nil)
}

func (c *Client) ListBoredCategories(ctx context.Context) ([]protocol.BoredCategory, error) {
	var out []protocol.BoredCategory
	if err := c.call(ctx, protocol.OpBoredCategoryList, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBoredActivity(ctx context.Context, p *protocol.CreateActivityParams) (*protocol.BoredActivity, error) {
	var out protocol.BoredActivity
	if err := c.call(ctx, protocol.OpBoredActivityCreate, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBoredActivity(ctx context.Context, p *protocol.UpdateActivityParams) error {
	return c.call(ctx, protocol.OpBoredActivityUpdate, p, nil)
}

func (c *Client) ArchiveBoredActivity(ctx context.Context, id string) error {
	return c.call(ctx, protocol.OpBoredActivityArchive, &protocol.IDParams{ID: id}, nil)
}

func (c *Client) ListBoredActivities(ctx context.Context) ([]protocol.BoredActivity, error) {
	var out []protocol.BoredActivity
	if err := c.call(ctx, protocol.OpBoredActivityList, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Draw(ctx context.Context, p *protocol.DrawParams) (*protocol.DrawResult, error) {
	var out protocol.DrawResult
	if err := c.call(ctx, protocol.OpBoredDraw, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MarkActivityDone(ctx context.Context, id string) (*protocol.BoredActivity, error) {
	var out protocol.BoredActivity
	if err := c.call(ctx, protocol.OpBoredMarkDone, &protocol.IDParams{ID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Export(ctx context.Context, tables []string) (*protocol.ExportDocument, error) {
	var out protocol.ExportDocument
	if err := c.call(ctx, protocol.OpExport, &protocol.ExportParams{Tables: tables}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Import(ctx context.Context, doc *protocol.ExportDocument, mode string) (*protocol.ImportResult, error) {
	var out protocol.ImportResult
	p := &protocol.ImportParams{Document: *doc, Mode: mode}
	if err := c.call(ctx, protocol.OpImport, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CheckIntegrity(ctx context.Context) (*protocol.IntegrityResult, error) {
	var out protocol.IntegrityResult
	if err := c.call(ctx, protocol.OpIntegrityCheck, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Diagnostics(ctx context.Context) (*protocol.Diagnostics, error) {
	var out protocol.Diagnostics
	if err := c.call(ctx, protocol.OpDiagnostics, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
