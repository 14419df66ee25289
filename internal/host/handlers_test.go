// ABOUTME: Tests for the command dispatcher: coverage, decoding and failure shapes
// ABOUTME: Asserts every protocol operation has exactly one handler

package host

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendril-app/tendril/internal/engine"
	"github.com/tendril-app/tendril/internal/protocol"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	eng, err := engine.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })
	return NewDispatcher(eng, nil)
}

func TestDispatcher_CoversEveryOp(t *testing.T) {
	d := newTestDispatcher(t)

	for _, op := range protocol.Ops() {
		assert.True(t, d.Handles(op), "no handler for op %q", op)
	}
}

func TestDispatch_UnknownOp(t *testing.T) {
	d := newTestDispatcher(t)

	resp := d.Dispatch(t.Context(), &protocol.Request{ID: "r1", Op: "no.suchOp"})
	assert.Equal(t, "r1", resp.ID)
	assert.False(t, resp.OK)
	assert.Contains(t, resp.Error, "unknown operation")
}

func TestDispatch_CreateAndGetHabit(t *testing.T) {
	d := newTestDispatcher(t)
	ctx := t.Context()

	payload, err := json.Marshal(&protocol.CreateHabitParams{
		Name:     "Meditate",
		Type:     protocol.HabitBoolean,
		Schedule: protocol.ScheduleParams{ScheduleType: protocol.ScheduleDaily},
	})
	require.NoError(t, err)

	resp := d.Dispatch(ctx, &protocol.Request{ID: "r1", Op: protocol.OpHabitCreate, Payload: payload})
	require.True(t, resp.OK, "create failed: %s", resp.Error)
	require.Equal(t, "r1", resp.ID)

	var habit protocol.Habit
	require.NoError(t, json.Unmarshal(resp.Data, &habit))
	assert.Equal(t, "Meditate", habit.Name)
	require.NotEmpty(t, habit.ID)

	getPayload, err := json.Marshal(&protocol.IDParams{ID: habit.ID})
	require.NoError(t, err)
	resp = d.Dispatch(ctx, &protocol.Request{ID: "r2", Op: protocol.OpHabitGet, Payload: getPayload})
	require.True(t, resp.OK)

	var got protocol.Habit
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Equal(t, habit.ID, got.ID)
}

func TestDispatch_ValidationFailure(t *testing.T) {
	d := newTestDispatcher(t)

	// Missing name fails validation before touching the engine.
	payload, err := json.Marshal(&protocol.CreateHabitParams{
		Type:     protocol.HabitBoolean,
		Schedule: protocol.ScheduleParams{ScheduleType: protocol.ScheduleDaily},
	})
	require.NoError(t, err)

	resp := d.Dispatch(t.Context(), &protocol.Request{ID: "r1", Op: protocol.OpHabitCreate, Payload: payload})
	assert.False(t, resp.OK)
	assert.Contains(t, resp.Error, "name is required")
}

func TestDispatch_MalformedPayload(t *testing.T) {
	d := newTestDispatcher(t)

	resp := d.Dispatch(t.Context(), &protocol.Request{
		ID:      "r1",
		Op:      protocol.OpHabitCreate,
		Payload: json.RawMessage(`{not json`),
	})
	assert.False(t, resp.OK)
	assert.Contains(t, resp.Error, "invalid payload")
}

func TestDispatch_EmptyPayloadListOps(t *testing.T) {
	d := newTestDispatcher(t)
	ctx := t.Context()

	// Parameterless operations accept an absent payload.
	for _, op := range []protocol.Op{
		protocol.OpHabitList,
		protocol.OpTodoList,
		protocol.OpScribbleList,
		protocol.OpCheckinTemplateList,
		protocol.OpBoredCategoryList,
		protocol.OpReminderListAll,
		protocol.OpCheckinEntryList,
		protocol.OpDiagnostics,
		protocol.OpIntegrityCheck,
	} {
		resp := d.Dispatch(ctx, &protocol.Request{ID: string(op), Op: op})
		assert.True(t, resp.OK, "op %q failed: %s", op, resp.Error)
	}
}

func TestDispatch_NotFoundBecomesFailure(t *testing.T) {
	d := newTestDispatcher(t)

	payload, err := json.Marshal(&protocol.IDParams{ID: "missing"})
	require.NoError(t, err)

	resp := d.Dispatch(t.Context(), &protocol.Request{ID: "r1", Op: protocol.OpHabitGet, Payload: payload})
	assert.False(t, resp.OK)
	assert.NotEmpty(t, resp.Error)
}
