package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasker/internal/service"
)

var epoch = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// newTestClient connects under a throwaway prefix to TASKER_TEST_REDIS_URL
// when it is set, and to an in-process miniredis otherwise.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	url := os.Getenv("TASKER_TEST_REDIS_URL")
	if url == "" {
		url = "redis://" + miniredis.RunT(t).Addr()
	}

	next := epoch
	c, err := New(context.Background(), Options{
		URL:     url,
		Table:   fmt.Sprintf("tasker_test_%d", time.Now().UnixNano()),
		Timeout: 5 * time.Second,
		Now: func() time.Time {
			now := next
			next = next.Add(time.Minute)
			return now
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := c.rdb.Keys(ctx, c.prefix+":*").Result()
		if len(keys) > 0 {
			c.rdb.Del(ctx, keys...)
		}
		c.Close()
	})
	return c
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New(context.Background(), Options{URL: "http://not-redis"})
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	task, err := decode("7", map[string]string{
		"title":       "Buy milk",
		"description": "2%",
		"is_complete": "true",
		"created_at":  fmt.Sprint(epoch.UnixMicro()),
	})
	require.NoError(t, err)
	assert.Equal(t, service.Task{ID: 7, Title: "Buy milk", Description: "2%", IsComplete: true, CreatedAt: epoch}, task)

	task, err = decode("8", map[string]string{"created_at": "0"})
	require.NoError(t, err)
	assert.False(t, task.IsComplete, "missing is_complete reads as false")

	_, err = decode("x", map[string]string{"created_at": "0"})
	assert.Error(t, err)
	_, err = decode("9", map[string]string{})
	assert.Error(t, err)
}

func TestClient_CRUD(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.InsertTask(ctx, service.Draft{Title: "Buy milk", Description: "2%"}))
	require.NoError(t, c.InsertTask(ctx, service.Draft{Title: "Walk dog"}))

	tasks, err := c.ListTasks(ctx)
	require.NoError(t, err)
	require.Equal(t, []service.Task{
		{ID: 1, Title: "Buy milk", Description: "2%", CreatedAt: epoch},
		{ID: 2, Title: "Walk dog", CreatedAt: epoch.Add(time.Minute)},
	}, tasks)

	require.NoError(t, c.SetComplete(ctx, 1, true))
	require.NoError(t, c.UpdateTask(ctx, 2, service.Draft{Title: "Walk cat", Description: "later"}))
	require.NoError(t, c.UpdateTask(ctx, 99, service.Draft{Title: "ghost"}))

	tasks, err = c.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.True(t, tasks[0].IsComplete)
	assert.Equal(t, "Walk cat", tasks[1].Title)

	exists, err := c.rdb.Exists(ctx, c.taskKey(99)).Result()
	require.NoError(t, err)
	assert.Zero(t, exists, "update must not create missing rows")

	require.NoError(t, c.DeleteTask(ctx, 1))
	tasks, err = c.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, service.TaskID(2), tasks[0].ID)
}

func TestClient_UpdateAfterDeleteDoesNotResurrect(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.InsertTask(ctx, service.Draft{Title: "Buy milk"}))
	require.NoError(t, c.DeleteTask(ctx, 1))

	require.NoError(t, c.UpdateTask(ctx, 1, service.Draft{Title: "Buy oat milk"}))
	require.NoError(t, c.SetComplete(ctx, 1, true))

	exists, err := c.rdb.Exists(ctx, c.taskKey(1)).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	tasks, err := c.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestClient_EqualCreationTimes(t *testing.T) {
	c := newTestClient(t)
	c.now = func() time.Time { return epoch }
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		require.NoError(t, c.InsertTask(ctx, service.Draft{Title: title}))
	}

	tasks, err := c.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	for i, task := range tasks {
		assert.Equal(t, service.TaskID(i+1), task.ID)
	}
}

func TestClient_ServerError(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := New(context.Background(), Options{URL: "redis://" + mr.Addr(), Timeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	mr.SetError("LOADING dataset in memory")
	_, err = c.ListTasks(context.Background())
	var re *service.RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, service.OpList, re.Op)
}
