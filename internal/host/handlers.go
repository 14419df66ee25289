// ABOUTME: Operation dispatch table mapping protocol ops onto engine calls
// ABOUTME: Shared by the host loop and the direct transport, one handler per op

package host

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tendril-app/tendril/internal/engine"
	"github.com/tendril-app/tendril/internal/protocol"
)

// handlerFunc executes one operation against the engine. The returned
// value is serialized into the response's data field.
type handlerFunc func(ctx context.Context, payload json.RawMessage) (any, error)

// Dispatcher routes requests to engine operations. It performs no
// locking of its own; callers are responsible for serializing calls
// (the host loop does this by construction, the direct transport with
// a mutex).
type Dispatcher struct {
	engine   *engine.Engine
	logger   *slog.Logger
	handlers map[protocol.Op]handlerFunc
}

// NewDispatcher builds the full dispatch table for an engine.
func NewDispatcher(eng *engine.Engine, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		engine: eng,
		logger: logger.With("component", "dispatcher"),
	}
	d.handlers = map[protocol.Op]handlerFunc{
		protocol.OpHabitCreate:    d.habitCreate,
		protocol.OpHabitUpdate:    d.habitUpdate,
		protocol.OpHabitArchive:   d.habitArchive,
		protocol.OpHabitGet:       d.habitGet,
		protocol.OpHabitList:      d.habitList,
		protocol.OpHabitPause:     d.habitPause,
		protocol.OpHabitResume:    d.habitResume,
		protocol.OpHabitPauseAll:  d.habitPauseAll,
		protocol.OpHabitResumeAll: d.habitResumeAll,
		protocol.OpHabitStreak:    d.habitStreak,
		protocol.OpHabitIsDone:    d.habitIsDone,

		protocol.OpScheduleReplace: d.scheduleReplace,
		protocol.OpScheduleGet:     d.scheduleGet,

		protocol.OpCompletionToggle:       d.completionToggle,
		protocol.OpCompletionListForDate:  d.completionListForDate,
		protocol.OpCompletionListForHabit: d.completionListForHabit,

		protocol.OpLogAdd:           d.logAdd,
		protocol.OpLogSetTotal:      d.logSetTotal,
		protocol.OpLogListForHabit:  d.logListForHabit,
		protocol.OpLogListForDate:   d.logListForDate,
		protocol.OpLogDayTotal:      d.logDayTotal,
		protocol.OpLogDeleteForDate: d.logDeleteForDate,

		protocol.OpReminderCreate:       d.reminderCreate,
		protocol.OpReminderUpdate:       d.reminderUpdate,
		protocol.OpReminderDelete:       d.reminderDelete,
		protocol.OpReminderListForHabit: d.reminderListForHabit,
		protocol.OpReminderListAll:      d.reminderListAll,

		protocol.OpCheckinReminderCreate: d.checkinReminderCreate,
		protocol.OpCheckinReminderDelete: d.checkinReminderDelete,
		protocol.OpCheckinReminderList:   d.checkinReminderList,

		protocol.OpCheckinTemplateCreate:  d.checkinTemplateCreate,
		protocol.OpCheckinTemplateUpdate:  d.checkinTemplateUpdate,
		protocol.OpCheckinTemplateArchive: d.checkinTemplateArchive,
		protocol.OpCheckinTemplateList:    d.checkinTemplateList,

		protocol.OpCheckinQuestionCreate: d.checkinQuestionCreate,
		protocol.OpCheckinQuestionUpdate: d.checkinQuestionUpdate,
		protocol.OpCheckinQuestionDelete: d.checkinQuestionDelete,
		protocol.OpCheckinQuestionList:   d.checkinQuestionList,

		protocol.OpCheckinResponseUpsert:          d.checkinResponseUpsert,
		protocol.OpCheckinResponseListForDate:     d.checkinResponseListForDate,
		protocol.OpCheckinResponseListForQuestion: d.checkinResponseListForQuestion,

		protocol.OpCheckinEntryUpsert: d.checkinEntryUpsert,
		protocol.OpCheckinEntryGet:    d.checkinEntryGet,
		protocol.OpCheckinEntryList:   d.checkinEntryList,

		protocol.OpScribbleCreate: d.scribbleCreate,
		protocol.OpScribbleUpdate: d.scribbleUpdate,
		protocol.OpScribbleDelete: d.scribbleDelete,
		protocol.OpScribbleGet:    d.scribbleGet,
		protocol.OpScribbleList:   d.scribbleList,

		protocol.OpTodoCreate:   d.todoCreate,
		protocol.OpTodoUpdate:   d.todoUpdate,
		protocol.OpTodoComplete: d.todoComplete,
		protocol.OpTodoArchive:  d.todoArchive,
		protocol.OpTodoGet:      d.todoGet,
		protocol.OpTodoList:     d.todoList,

		protocol.OpBoredCategoryCreate:  d.boredCategoryCreate,
		protocol.OpBoredCategoryUpdate:  d.boredCategoryUpdate,
		protocol.OpBoredCategoryArchive: d.boredCategoryArchive,
		protocol.OpBoredCategoryList:    d.boredCategoryList,

		protocol.OpBoredActivityCreate:  d.boredActivityCreate,
		protocol.OpBoredActivityUpdate:  d.boredActivityUpdate,
		protocol.OpBoredActivityArchive: d.boredActivityArchive,
		protocol.OpBoredActivityList:    d.boredActivityList,

		protocol.OpBoredDraw:     d.boredDraw,
		protocol.OpBoredMarkDone: d.boredMarkDone,

		protocol.OpExport:         d.exportRun,
		protocol.OpImport:         d.importRun,
		protocol.OpIntegrityCheck: d.integrityCheck,
		protocol.OpDiagnostics:    d.diagnostics,
	}
	return d
}

// Handles reports whether an op has a registered handler.
func (d *Dispatcher) Handles(op protocol.Op) bool {
	_, ok := d.handlers[op]
	return ok
}

// Dispatch executes one request and always produces a response with
// the request's id. Handler failures become {ok:false} responses, so
// a bad request never takes down the host.
func (d *Dispatcher) Dispatch(ctx context.Context, req *protocol.Request) *protocol.Response {
	h, ok := d.handlers[req.Op]
	if !ok {
		d.logger.Warn("unknown operation", "op", req.Op, "request_id", req.ID)
		return protocol.Fail(req.ID, fmt.Sprintf("unknown operation %q", req.Op))
	}

	result, err := h(ctx, req.Payload)
	if err != nil {
		d.logger.Debug("operation failed", "op", req.Op, "request_id", req.ID, "error", err)
		return protocol.Fail(req.ID, err.Error())
	}
	return protocol.OK(req.ID, result)
}

// decode unmarshals and validates a payload in one step.
func decode[T any](payload json.RawMessage, out *T) error {
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if v, ok := any(out).(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) habitCreate(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.CreateHabitParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.CreateHabit(ctx, &p)
}

func (d *Dispatcher) habitUpdate(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.UpdateHabitParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.UpdateHabit(ctx, &p)
}

func (d *Dispatcher) habitArchive(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return nil, d.engine.ArchiveHabit(ctx, p.ID)
}

func (d *Dispatcher) habitGet(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.GetHabit(ctx, p.ID)
}

func (d *Dispatcher) habitList(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.ListHabitsParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.ListHabits(ctx, p.IncludeArchived)
}

func (d *Dispatcher) habitPause(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.PauseHabitParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return nil, d.engine.PauseHabit(ctx, p.ID, p.Until)
}

func (d *Dispatcher) habitResume(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return nil, d.engine.ResumeHabit(ctx, p.ID)
}

func (d *Dispatcher) habitPauseAll(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.PauseAllParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return nil, d.engine.PauseAll(ctx, p.Until)
}

func (d *Dispatcher) habitResumeAll(ctx context.Context, payload json.RawMessage) (any, error) {
	return nil, d.engine.ResumeAll(ctx)
}

func (d *Dispatcher) habitStreak(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.HabitDateParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	days, err := d.engine.Streak(ctx, p.HabitID, p.Date)
	if err != nil {
		return nil, err
	}
	return &protocol.StreakResult{Days: days}, nil
}

func (d *Dispatcher) habitIsDone(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.HabitDateParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	done, err := d.engine.IsHabitDone(ctx, p.HabitID, p.Date)
	if err != nil {
		return nil, err
	}
	return &protocol.DoneResult{Done: done}, nil
}

func (d *Dispatcher) scheduleReplace(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.ReplaceScheduleParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.ReplaceSchedule(ctx, p.HabitID, &p.Schedule)
}

func (d *Dispatcher) scheduleGet(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.GetSchedule(ctx, p.ID)
}

func (d *Dispatcher) completionToggle(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.HabitDateParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	completed, err := d.engine.ToggleCompletion(ctx, p.HabitID, p.Date)
	if err != nil {
		return nil, err
	}
	return &protocol.ToggleResult{Completed: completed}, nil
}

func (d *Dispatcher) completionListForDate(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.DateParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.ListCompletionsForDate(ctx, p.Date)
}

func (d *Dispatcher) completionListForHabit(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.ListCompletionsForHabit(ctx, p.ID)
}

func (d *Dispatcher) logAdd(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.AddLogParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.AddLog(ctx, p.HabitID, p.Date, p.Value)
}

func (d *Dispatcher) logSetTotal(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.AddLogParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.SetLogTotal(ctx, p.HabitID, p.Date, p.Value)
}

func (d *Dispatcher) logListForHabit(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.ListLogsForHabit(ctx, p.ID)
}

func (d *Dispatcher) logListForDate(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.DateParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.ListLogsForDate(ctx, p.Date)
}

func (d *Dispatcher) logDayTotal(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.HabitDateParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	total, err := d.engine.DayTotal(ctx, p.HabitID, p.Date)
	if err != nil {
		return nil, err
	}
	return &protocol.TotalResult{Total: total}, nil
}

func (d *Dispatcher) logDeleteForDate(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.HabitDateParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return nil, d.engine.DeleteLogsForDate(ctx, p.HabitID, p.Date)
}

func (d *Dispatcher) reminderCreate(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.CreateReminderParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.CreateReminder(ctx, &p)
}

func (d *Dispatcher) reminderUpdate(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.UpdateReminderParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return nil, d.engine.UpdateReminder(ctx, &p)
}

func (d *Dispatcher) reminderDelete(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return nil, d.engine.DeleteReminder(ctx, p.ID)
}

func (d *Dispatcher) reminderListForHabit(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.ListRemindersForHabit(ctx, p.ID)
}

func (d *Dispatcher) reminderListAll(ctx context.Context, payload json.RawMessage) (any, error) {
	return d.engine.ListReminders(ctx)
}

func (d *Dispatcher) checkinReminderCreate(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.CreateCheckinReminderParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.CreateCheckinReminder(ctx, &p)
}

func (d *Dispatcher) checkinReminderDelete(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return nil, d.engine.DeleteCheckinReminder(ctx, p.ID)
}

func (d *Dispatcher) checkinReminderList(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.ListCheckinReminders(ctx, p.ID)
}

func (d *Dispatcher) checkinTemplateCreate(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.NameParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.CreateCheckinTemplate(ctx, p.Name)
}

func (d *Dispatcher) checkinTemplateUpdate(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.RenameParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return nil, d.engine.RenameCheckinTemplate(ctx, p.ID, p.Name)
}

func (d *Dispatcher) checkinTemplateArchive(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return nil, d.engine.ArchiveCheckinTemplate(ctx, p.ID)
}

func (d *Dispatcher) checkinTemplateList(ctx context.Context, payload json.RawMessage) (any, error) {
	return d.engine.ListCheckinTemplates(ctx)
}

func (d *Dispatcher) checkinQuestionCreate(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.CreateQuestionParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.CreateCheckinQuestion(ctx, &p)
}

func (d *Dispatcher) checkinQuestionUpdate(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.UpdateQuestionParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return nil, d.engine.UpdateCheckinQuestion(ctx, &p)
}

func (d *Dispatcher) checkinQuestionDelete(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return nil, d.engine.DeleteCheckinQuestion(ctx, p.ID)
}

func (d *Dispatcher) checkinQuestionList(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.ListCheckinQuestions(ctx, p.ID)
}

func (d *Dispatcher) checkinResponseUpsert(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.UpsertResponseParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.UpsertCheckinResponse(ctx, &p)
}

func (d *Dispatcher) checkinResponseListForDate(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.DateParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.ListCheckinResponsesForDate(ctx, p.Date)
}

func (d *Dispatcher) checkinResponseListForQuestion(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.ListCheckinResponsesForQuestion(ctx, p.ID)
}

func (d *Dispatcher) checkinEntryUpsert(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.UpsertEntryParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.UpsertCheckinEntry(ctx, p.Date, p.Body)
}

func (d *Dispatcher) checkinEntryGet(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.DateParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.GetCheckinEntry(ctx, p.Date)
}

func (d *Dispatcher) checkinEntryList(ctx context.Context, payload json.RawMessage) (any, error) {
	return d.engine.ListCheckinEntries(ctx)
}

func (d *Dispatcher) scribbleCreate(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.CreateScribbleParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.CreateScribble(ctx, &p)
}

func (d *Dispatcher) scribbleUpdate(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.UpdateScribbleParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.UpdateScribble(ctx, &p)
}

func (d *Dispatcher) scribbleDelete(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return nil, d.engine.DeleteScribble(ctx, p.ID)
}

func (d *Dispatcher) scribbleGet(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.GetScribble(ctx, p.ID)
}

func (d *Dispatcher) scribbleList(ctx context.Context, payload json.RawMessage) (any, error) {
	return d.engine.ListScribbles(ctx)
}

func (d *Dispatcher) todoCreate(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.CreateTodoParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.CreateTodo(ctx, &p)
}

func (d *Dispatcher) todoUpdate(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.UpdateTodoParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.UpdateTodo(ctx, &p)
}

func (d *Dispatcher) todoComplete(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.CompleteTodo(ctx, p.ID)
}

func (d *Dispatcher) todoArchive(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return nil, d.engine.ArchiveTodo(ctx, p.ID)
}

func (d *Dispatcher) todoGet(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.GetTodo(ctx, p.ID)
}

func (d *Dispatcher) todoList(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.ListTodosParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.ListTodos(ctx, p.IncludeDone, p.IncludeArchived)
}

func (d *Dispatcher) boredCategoryCreate(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.NameParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.CreateBoredCategory(ctx, p.Name)
}

func (d *Dispatcher) boredCategoryUpdate(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.RenameParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return nil, d.engine.RenameBoredCategory(ctx, p.ID, p.Name)
}

func (d *Dispatcher) boredCategoryArchive(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return nil, d.engine.ArchiveBoredCategory(ctx, p.ID)
}

func (d *Dispatcher) boredCategoryList(ctx context.Context, payload json.RawMessage) (any, error) {
	return d.engine.ListBoredCategories(ctx)
}

func (d *Dispatcher) boredActivityCreate(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.CreateActivityParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.CreateBoredActivity(ctx, &p)
}

func (d *Dispatcher) boredActivityUpdate(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.UpdateActivityParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return nil, d.engine.UpdateBoredActivity(ctx, &p)
}

func (d *Dispatcher) boredActivityArchive(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return nil, d.engine.ArchiveBoredActivity(ctx, p.ID)
}

func (d *Dispatcher) boredActivityList(ctx context.Context, payload json.RawMessage) (any, error) {
	return d.engine.ListBoredActivities(ctx)
}

func (d *Dispatcher) boredDraw(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.DrawParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.Draw(ctx, p.ExcludedCategoryIDs, p.MaxMinutes)
}

func (d *Dispatcher) boredMarkDone(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.IDParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.MarkActivityDone(ctx, p.ID)
}

func (d *Dispatcher) exportRun(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.ExportParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.Export(ctx, p.Tables)
}

func (d *Dispatcher) importRun(ctx context.Context, payload json.RawMessage) (any, error) {
	var p protocol.ImportParams
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return d.engine.Import(ctx, &p.Document, p.Mode)
}

func (d *Dispatcher) integrityCheck(ctx context.Context, payload json.RawMessage) (any, error) {
	return d.engine.CheckIntegrity(ctx)
}

func (d *Dispatcher) diagnostics(ctx context.Context, payload json.RawMessage) (any, error) {
	return d.engine.Diagnostics(ctx)
}
