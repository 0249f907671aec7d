package fetch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   string   `json:"id"`
	Tags []string `json:"tags"`
}

func TestQuery_LoadsAndResets(t *testing.T) {
	release := make(chan struct{})
	q := NewQuery(context.Background(), func(ctx context.Context) (record, error) {
		<-release
		return record{ID: "1", Tags: []string{"a"}}, nil
	}, QueryOptions[record]{})

	assert.True(t, q.State().IsLoading)
	close(release)

	st := q.Wait()
	assert.False(t, st.IsLoading)
	assert.Equal(t, record{ID: "1", Tags: []string{"a"}}, st.Data)
	assert.Nil(t, st.Error)

	q.SetData(func(r *record) {
		r.ID = "edited"
		r.Tags[0] = "changed"
	})
	assert.Equal(t, "edited", q.State().Data.ID)

	q.Reset()
	assert.Equal(t, record{ID: "1", Tags: []string{"a"}}, q.State().Data)

	q.SetData(func(r *record) { r.Tags[0] = "again" })
	q.Reset()
	assert.Equal(t, "a", q.State().Data.Tags[0])
}

func TestQuery_HTTPErrorPayload(t *testing.T) {
	var got any
	q := NewQuery(context.Background(), func(ctx context.Context) (record, error) {
		return record{}, &services.HTTPError{StatusCode: 404, Body: map[string]any{"message": "missing"}}
	}, QueryOptions[record]{OnError: func(p any) { got = p }})

	st := q.Wait()
	assert.Equal(t, map[string]any{"message": "missing"}, st.Error)
	assert.Equal(t, st.Error, got)
}

func TestQuery_RawError(t *testing.T) {
	boom := errors.New("boom")
	q := NewQuery(context.Background(), func(ctx context.Context) (record, error) {
		return record{}, boom
	}, QueryOptions[record]{})

	st := q.Wait()
	assert.Equal(t, boom, st.Error)

	transport := &services.HTTPError{Err: errors.New("dial tcp: refused")}
	q2 := NewQuery(context.Background(), func(ctx context.Context) (record, error) {
		return record{}, transport
	}, QueryOptions[record]{})
	assert.Equal(t, transport, q2.Wait().Error)
}

func TestQuery_Refetch(t *testing.T) {
	var calls int
	var mu sync.Mutex
	q := NewQuery(context.Background(), func(ctx context.Context) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return calls, nil
	}, QueryOptions[int]{})
	q.Wait()

	q.Refetch(context.Background())
	st := q.State()
	assert.False(t, st.IsLoading)
	assert.Equal(t, 2, st.Data)
}

func TestQuery_LastSettleWins(t *testing.T) {
	gates := map[int]chan struct{}{1: make(chan struct{}), 2: make(chan struct{})}
	var mu sync.Mutex
	n := 0
	q := NewQuery(context.Background(), func(ctx context.Context) (int, error) {
		mu.Lock()
		n++
		id := n
		mu.Unlock()
		if g, ok := gates[id]; ok {
			<-g
		}
		return id, nil
	}, QueryOptions[int]{})

	done := make(chan struct{})
	go func() {
		q.Refetch(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return n == 2
	}, time.Second, time.Millisecond)

	close(gates[2])
	<-done
	assert.True(t, q.State().IsLoading, "first fetch still in flight")

	close(gates[1])
	st := q.Wait()
	assert.Equal(t, 1, st.Data)
	assert.False(t, st.IsLoading)
}

func TestQuery_CustomClone(t *testing.T) {
	var cloned int
	q := NewQuery(context.Background(), func(ctx context.Context) ([]int, error) {
		return []int{1, 2}, nil
	}, QueryOptions[[]int]{Clone: func(v []int) ([]int, error) {
		cloned++
		return append([]int(nil), v...), nil
	}})
	q.Wait()
	q.Reset()
	// snapshot, Wait's state copy, reset
	assert.Equal(t, 3, cloned)
	assert.Equal(t, []int{1, 2}, q.State().Data)
}

func TestQuery_StateIsACopy(t *testing.T) {
	q := NewQuery(context.Background(), func(ctx context.Context) (record, error) {
		return record{ID: "1", Tags: []string{"a"}}, nil
	}, QueryOptions[record]{})

	st := q.Wait()
	st.Data.Tags[0] = "changed"
	st.Data.ID = "2"
	assert.Equal(t, record{ID: "1", Tags: []string{"a"}}, q.State().Data)

	q.SetData(func(r *record) { r.Tags[0] = "edited" })
	assert.Equal(t, []string{"edited"}, q.State().Data.Tags)
}

func TestQuery_StateSharesWhenCopyFails(t *testing.T) {
	calls := 0
	q := NewQuery(context.Background(), func(ctx context.Context) ([]int, error) {
		return []int{1}, nil
	}, QueryOptions[[]int]{Clone: func(v []int) ([]int, error) {
		calls++
		return nil, errors.New("not cloneable")
	}})

	st := q.Wait()
	assert.Equal(t, []int{1}, st.Data)
	assert.Equal(t, 2, calls)
}

func TestMutation_WrapsScalarBody(t *testing.T) {
	var got any
	m := NewMutation(func(ctx context.Context, id string) (record, error) {
		return record{}, &services.HTTPError{StatusCode: 400, Body: "bad request"}
	}, MutationOptions[record]{OnError: func(p any) { got = p }})

	assert.False(t, m.IsLoading())
	_, err := m.Mutate(context.Background(), "1")
	require.Error(t, err)

	assert.Equal(t, map[string]any{"error": "bad request"}, m.Error())
	assert.Equal(t, m.Error(), got)
	assert.False(t, m.IsLoading())
}

func TestMutation_KeepsObjectBody(t *testing.T) {
	body := map[string]any{"name": "is required"}
	m := NewMutation(func(ctx context.Context, _ struct{}) (int, error) {
		return 0, &services.HTTPError{StatusCode: 400, Body: body}
	}, MutationOptions[int]{})

	_, _ = m.Mutate(context.Background(), struct{}{})
	assert.Equal(t, body, m.Error())
}

func TestMutation_NonHTTPError(t *testing.T) {
	boom := errors.New("boom")
	m := NewMutation(func(ctx context.Context, _ int) (int, error) {
		return 0, boom
	}, MutationOptions[int]{})

	_, _ = m.Mutate(context.Background(), 1)
	assert.Equal(t, boom, m.Error())
}

func TestMutation_Success(t *testing.T) {
	var got record
	m := NewMutation(func(ctx context.Context, id string) (record, error) {
		return record{ID: id}, nil
	}, MutationOptions[record]{OnSuccess: func(r record) { got = r }})

	out, err := m.Mutate(context.Background(), "9")
	require.NoError(t, err)
	assert.Equal(t, "9", out.ID)
	assert.Equal(t, "9", got.ID)
	assert.Nil(t, m.Error())
}

func TestMutation_ThenQueryReset(t *testing.T) {
	q := NewQuery(context.Background(), func(ctx context.Context) (record, error) {
		return record{ID: "1"}, nil
	}, QueryOptions[record]{})
	q.Wait()

	q.SetData(func(r *record) { r.ID = "draft" })
	m := NewMutation(func(ctx context.Context, r record) (record, error) {
		return record{}, &services.HTTPError{StatusCode: 422, Body: "rejected"}
	}, MutationOptions[record]{OnError: func(any) { q.Reset() }})

	_, _ = m.Mutate(context.Background(), q.State().Data)
	assert.Equal(t, "1", q.State().Data.ID)
}
