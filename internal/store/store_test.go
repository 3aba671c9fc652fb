package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasker/internal/service"
	"tasker/internal/store"
	"tasker/internal/testutil"
)

var errUnreachable = errors.New("dial tcp: connection refused")

func newStore(t *testing.T, svc *testutil.FakeService) (*store.Store, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	return store.New(svc, nil, logrus.NewEntry(logger)), hook
}

func refreshed(t *testing.T, svc *testutil.FakeService) (*store.Store, *logtest.Hook) {
	t.Helper()
	s, hook := newStore(t, svc)
	require.NoError(t, s.Refresh(context.Background()))
	return s, hook
}

func TestPolicies(t *testing.T) {
	assert.Equal(t, store.Resync, store.PolicyFor(store.OpCreate))
	assert.Equal(t, store.Resync, store.PolicyFor(store.OpUpdate))
	assert.Equal(t, store.PatchLocal, store.PolicyFor(store.OpToggle))
	assert.Equal(t, store.PatchLocal, store.PolicyFor(store.OpDelete))
}

func TestRefresh_SortsByCreatedAt(t *testing.T) {
	svc := testutil.NewFakeService()
	base := testutil.Epoch
	svc.AddTaskAt(3, "third", base.Add(2*time.Hour))
	svc.AddTaskAt(1, "first", base)
	svc.AddTaskAt(2, "second", base.Add(time.Hour))

	s, _ := refreshed(t, svc)

	tasks := s.Tasks()
	require.Len(t, tasks, 3)
	for i := 1; i < len(tasks); i++ {
		assert.False(t, tasks[i].CreatedAt.Before(tasks[i-1].CreatedAt), "list not sorted at %d", i)
	}
	assert.Equal(t, "first", tasks[0].Title)
	assert.Equal(t, "third", tasks[2].Title)
}

func TestRefresh_FailureKeepsList(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", "2%", false)
	s, hook := refreshed(t, svc)

	svc.AddTask("Walk dog", "", false)
	svc.ListTasksErr = errUnreachable

	err := s.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, service.IsRequestError(err))
	assert.Len(t, s.Tasks(), 1)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "Error fetching tasks", entry.Message)
}

func TestCreate_ResetsDraftAndRefetches(t *testing.T) {
	svc := testutil.NewFakeService()
	s, _ := refreshed(t, svc)

	s.Form().SetTitle("Buy milk")
	s.Form().SetDescription("2%")
	require.NoError(t, s.Submit(context.Background()))

	assert.Equal(t, service.Draft{}, s.Form().Draft())
	assert.Equal(t, 1, svc.InsertCalls)
	assert.Equal(t, 2, svc.ListCalls)

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, service.TaskID(1), tasks[0].ID)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.Equal(t, "2%", tasks[0].Description)
	assert.False(t, tasks[0].IsComplete)
	assert.Equal(t, testutil.Epoch, tasks[0].CreatedAt)
}

func TestCreate_EmptyDraftIsSubmitted(t *testing.T) {
	svc := testutil.NewFakeService()
	s, _ := newStore(t, svc)

	require.NoError(t, s.Submit(context.Background()))
	assert.Equal(t, 1, svc.InsertCalls)
	assert.Len(t, s.Tasks(), 1)
}

func TestCreate_FailureKeepsDraft(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.InsertTaskErr = errUnreachable
	s, hook := newStore(t, svc)

	s.Form().SetTitle("Buy milk")
	err := s.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Buy milk", s.Form().Draft().Title)
	assert.Equal(t, 0, svc.ListCalls)
	assert.Empty(t, s.Tasks())
	assert.Equal(t, "Error adding task", hook.LastEntry().Message)
}

func TestCreate_RefetchFailureStillSucceeds(t *testing.T) {
	svc := testutil.NewFakeService()
	s, hook := newStore(t, svc)
	svc.ListTasksErr = errUnreachable

	s.Form().SetTitle("Buy milk")
	require.NoError(t, s.Submit(context.Background()))

	assert.Equal(t, service.Draft{}, s.Form().Draft())
	assert.Empty(t, s.Tasks())
	assert.Equal(t, "Error fetching tasks", hook.LastEntry().Message)
}

func TestUpdate_ExitsEditModeAndRefetches(t *testing.T) {
	svc := testutil.NewFakeService()
	milk := svc.AddTask("Buy milk", "2%", false)
	s, _ := refreshed(t, svc)

	s.BeginEdit(milk)
	assert.Equal(t, store.Editing, s.Form().Mode())
	assert.Equal(t, service.DraftOf(milk), s.Form().Draft())

	s.Form().SetTitle("Buy oat milk")
	require.NoError(t, s.Submit(context.Background()))

	_, editing := s.Form().Editing()
	assert.False(t, editing)
	assert.Equal(t, store.Creating, s.Form().Mode())
	assert.Equal(t, service.Draft{}, s.Form().Draft())
	assert.Equal(t, 2, svc.ListCalls)
	assert.Equal(t, 0, svc.InsertCalls)

	got, ok := s.Find(milk.ID)
	require.True(t, ok)
	assert.Equal(t, "Buy oat milk", got.Title)
	assert.Equal(t, "2%", got.Description)
}

func TestUpdate_UnreachableKeepsStateAndEditMode(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", "2%", false)
	s, hook := refreshed(t, svc)

	milk, ok := s.Find(1)
	require.True(t, ok)
	s.BeginEdit(milk)
	s.Form().SetTitle("Buy oat milk")
	s.Form().SetDescription("2%")

	svc.UpdateTaskErr = errUnreachable
	require.Error(t, s.Submit(context.Background()))

	got, _ := s.Find(1)
	assert.Equal(t, "Buy milk", got.Title)
	id, editing := s.Form().Editing()
	assert.True(t, editing)
	assert.Equal(t, service.TaskID(1), id)
	assert.Equal(t, "Buy oat milk", s.Form().Draft().Title)
	assert.Equal(t, "Error updating task", hook.LastEntry().Message)
	assert.Equal(t, store.OpUpdate, hook.LastEntry().Data["op"])
}

func TestToggle_PatchesWithoutRefetch(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", "2%", false)
	svc.AddTask("Walk dog", "", false)
	s, _ := refreshed(t, svc)

	require.NoError(t, s.Toggle(context.Background(), 1, false))

	assert.Equal(t, 1, svc.ListCalls)
	assert.Equal(t, 1, svc.CompleteCalls)
	tasks := s.Tasks()
	assert.True(t, tasks[0].IsComplete)
	assert.False(t, tasks[1].IsComplete)

	remote, _ := svc.Get(1)
	assert.True(t, remote.IsComplete)
}

func TestToggle_TwiceRestoresFlag(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", "", false)
	svc.AddTask("Walk dog", "", true)
	s, _ := refreshed(t, svc)
	before := s.Tasks()

	ctx := context.Background()
	task, _ := s.Find(2)
	require.NoError(t, s.Toggle(ctx, task.ID, task.IsComplete))
	task, _ = s.Find(2)
	assert.False(t, task.IsComplete)
	require.NoError(t, s.Toggle(ctx, task.ID, task.IsComplete))

	assert.Equal(t, before, s.Tasks())
}

func TestToggle_FailureNoChange(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", "", false)
	s, hook := refreshed(t, svc)
	svc.SetCompleteErr = errUnreachable

	require.Error(t, s.Toggle(context.Background(), 1, false))

	task, _ := s.Find(1)
	assert.False(t, task.IsComplete)
	assert.Equal(t, "Error toggling complete", hook.LastEntry().Message)
}

func TestDelete_FiltersLocally(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "", false)
	svc.AddTask("b", "", true)
	svc.AddTask("c", "", false)
	s, _ := refreshed(t, svc)
	before := s.Tasks()

	require.NoError(t, s.Delete(context.Background(), 2))

	assert.Equal(t, 1, svc.ListCalls)
	_, found := s.Find(2)
	assert.False(t, found)
	assert.Equal(t, []service.Task{before[0], before[2]}, s.Tasks())
	assert.Equal(t, "b", before[1].Title, "earlier snapshot must not change")
}

func TestDelete_FailureNoChange(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "", false)
	s, hook := refreshed(t, svc)
	svc.DeleteTaskErr = errUnreachable

	require.Error(t, s.Delete(context.Background(), 1))
	assert.Len(t, s.Tasks(), 1)
	assert.Equal(t, "Error deleting task", hook.LastEntry().Message)
}

func TestMissingIDIsNoop(t *testing.T) {
	svc := testutil.NewFakeService()
	s, _ := newStore(t, svc)
	ctx := context.Background()

	assert.NoError(t, s.Toggle(ctx, service.NoID, false))
	assert.NoError(t, s.Delete(ctx, service.NoID))

	s.BeginEdit(service.Task{ID: -5, Title: "ghost"})
	assert.NoError(t, s.Submit(ctx))

	assert.Equal(t, 0, svc.Calls())
}

func TestInjectedState(t *testing.T) {
	svc := testutil.NewFakeService()
	state := &store.State{Tasks: []service.Task{{ID: 9, Title: "cached"}}}
	state.Form.SetTitle("pending")

	s := store.New(svc, state, nil)
	assert.Same(t, state, s.State())

	require.NoError(t, s.Toggle(context.Background(), 9, false))
	assert.True(t, state.Tasks[0].IsComplete)
	assert.Equal(t, "pending", state.Form.Draft().Title)
}

// Buy milk: create, fetch, toggle, then update while the backend is down.
func TestScenario_BuyMilk(t *testing.T) {
	svc := testutil.NewFakeService()
	s, _ := newStore(t, svc)
	ctx := context.Background()

	s.Form().SetTitle("Buy milk")
	s.Form().SetDescription("2%")
	require.NoError(t, s.Submit(ctx))

	require.Equal(t, []service.Task{{
		ID:          1,
		Title:       "Buy milk",
		Description: "2%",
		IsComplete:  false,
		CreatedAt:   testutil.Epoch,
	}}, s.Tasks())

	lists := svc.ListCalls
	require.NoError(t, s.Toggle(ctx, 1, false))
	assert.Equal(t, lists, svc.ListCalls)
	task, _ := s.Find(1)
	assert.True(t, task.IsComplete)

	s.BeginEdit(task)
	s.Form().SetTitle("Buy oat milk")
	svc.UpdateTaskErr = errUnreachable
	require.Error(t, s.Submit(ctx))

	task, _ = s.Find(1)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, store.Editing, s.Form().Mode())
}
