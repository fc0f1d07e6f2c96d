package query

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerdash/storage"
	"ledgerdash/storage/storemock"
)

func revenueMock() *storemock.Store {
	m := storemock.New(storemock.Config{})
	m.On("FROM revenue").ReturnRows([]string{"month", "revenue"},
		storage.Row{"month": "Jan", "revenue": int64(2000)},
		storage.Row{"month": "Feb", "revenue": int64(1800)},
	)
	return m
}

func TestResult_AllAndAwaitAgree(t *testing.T) {
	ctx := context.Background()
	c := NewClient(revenueMock())

	awaited, err := c.Query("SELECT * FROM revenue").Await(ctx)
	require.NoError(t, err)
	all, err := c.Query("SELECT * FROM revenue").All(ctx)
	require.NoError(t, err)

	assert.Equal(t, all, awaited)
	require.Len(t, all, 2)
	assert.Equal(t, "Jan", all[0]["month"])
}

func TestResult_ExecutesOncePerResult(t *testing.T) {
	ctx := context.Background()
	m := revenueMock()
	c := NewClient(m)

	r := c.Query("SELECT * FROM revenue")
	_, err := r.Await(ctx)
	require.NoError(t, err)
	_, err = r.All(ctx)
	require.NoError(t, err)
	_, err = r.Async(ctx).Wait()
	require.NoError(t, err)
	assert.Equal(t, 1, m.CallCount("FROM revenue"))

	// A new template call is a new statement.
	for i := 0; i < 3; i++ {
		_, err := c.Query("SELECT * FROM revenue").All(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 4, m.CallCount("FROM revenue"))
}

func TestResult_ConcurrentAwaitSharesExecution(t *testing.T) {
	ctx := context.Background()
	m := revenueMock()
	r := NewClient(m).Query("SELECT * FROM revenue")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rows, err := r.Await(ctx)
			assert.NoError(t, err)
			assert.Len(t, rows, 2)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, m.CallCount("FROM revenue"))
}

func TestResult_EmptyResultSet(t *testing.T) {
	ctx := context.Background()
	c := NewClient(storemock.New(storemock.Config{}))

	rows, err := c.Query("SELECT * FROM invoices WHERE id = ${}", "nope").All(ctx)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	row, ok, err := c.Query("SELECT * FROM invoices WHERE id = ${}", "nope").First(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, row)

	raw, err := c.Query("SELECT * FROM invoices").Raw(ctx)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestResult_FirstAndRaw(t *testing.T) {
	ctx := context.Background()
	c := NewClient(revenueMock())

	row, ok, err := c.Query("SELECT * FROM revenue").First(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Jan", row["month"])

	raw, err := c.Query("SELECT * FROM revenue").Raw(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"Jan", int64(2000)}, {"Feb", int64(1800)}}, raw)
}

func TestResult_RunBindsParams(t *testing.T) {
	ctx := context.Background()
	m := storemock.New(storemock.Config{})
	m.On("DELETE FROM invoices").ReturnMeta(storage.Meta{Changes: 1, ChangedDB: true})
	c := NewClient(m)

	out, err := c.Query("DELETE FROM invoices WHERE id = ${}", "inv-9").Run(ctx)
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, int64(1), out.Meta.Changes)

	calls := m.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, storemock.OpRun, calls[0].Op)
	assert.Equal(t, "DELETE FROM invoices WHERE id = ?", calls[0].SQL)
	assert.Equal(t, []any{"inv-9"}, calls[0].Params)
}

func TestResult_StoreErrorPropagatesOnce(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("syntax error near SELEC")
	m := storemock.New(storemock.Config{})
	m.On("SELEC").ReturnError(boom)

	r := NewClient(m).Query("SELEC * FROM revenue")
	_, err := r.All(ctx)
	require.ErrorIs(t, err, ErrStatement)
	require.ErrorIs(t, err, boom)

	_, err = r.Await(ctx)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, m.CallCount("SELEC"), "no retry")
}

func TestResult_TemplateErrorSkipsStore(t *testing.T) {
	m := storemock.New(storemock.Config{})
	r := NewClient(m).SQL([]string{"SELECT ", " FROM ", ""}, 1)

	_, err := r.All(context.Background())
	require.ErrorIs(t, err, ErrTemplateShape)
	_, _, err = r.First(context.Background())
	require.ErrorIs(t, err, ErrTemplateShape)
	assert.Empty(t, m.Calls())
}

func TestResult_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(revenueMock()).Query("SELECT * FROM revenue").All(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFuture_Done(t *testing.T) {
	f := NewClient(revenueMock()).Query("SELECT * FROM revenue").Async(context.Background())
	<-f.Done()
	rows, err := f.Wait()
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
