package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophadmin/pkg/api"
)

// replica тестовая реплика со счетчиком обращений
type replica struct {
	server *httptest.Server
	hits   atomic.Int32
}

func newReplica(t *testing.T, handler http.HandlerFunc) *replica {
	t.Helper()
	r := &replica{}
	r.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.hits.Add(1)
		handler(w, req)
	}))
	t.Cleanup(r.server.Close)
	return r
}

// deadURL возвращает адрес, на котором никто не слушает
func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func writeEnvelope(w http.ResponseWriter, code, message string, data any) {
	raw, _ := json.Marshal(data)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(api.Envelope{Code: code, Message: message, Data: raw})
}

func okHandler(data any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, api.CodeSuccess, "success", data)
	}
}

func getBuilder(path string) RequestBuilder {
	return func(ctx context.Context, baseURL string) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
	}
}

func postBuilder(path, body string) RequestBuilder {
	return func(ctx context.Context, baseURL string) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+path, strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}
}

func TestResolve_FallsThroughToSecondEndpoint(t *testing.T) {
	b := newReplica(t, okHandler([]string{"from-b"}))
	c := newReplica(t, okHandler([]string{"from-c"}))

	r := New([]string{deadURL(t), b.server.URL, c.server.URL})
	res, err := r.Resolve(context.Background(), getBuilder("/user/getAll"))

	require.NoError(t, err)
	assert.Equal(t, b.server.URL, res.Endpoint)
	assert.Equal(t, 1, res.Index)

	data, err := DecodeData[[]string](res)
	require.NoError(t, err)
	assert.Equal(t, []string{"from-b"}, data)

	assert.Equal(t, int32(1), b.hits.Load())
	assert.Equal(t, int32(0), c.hits.Load(), "третья реплика не должна опрашиваться")
}

func TestResolve_ApplicationErrorIsTerminal(t *testing.T) {
	a := newReplica(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, "E001", "bad request", nil)
	})
	b := newReplica(t, okHandler(nil))

	r := New([]string{a.server.URL, b.server.URL})
	res, err := r.Resolve(context.Background(), getBuilder("/user/getAll"))

	require.Error(t, err)
	assert.Nil(t, res)

	var appErr *ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "E001", appErr.Code)
	assert.Equal(t, "bad request", appErr.Message)
	assert.Equal(t, a.server.URL, appErr.Endpoint)

	assert.NotErrorIs(t, err, ErrAllUnavailable)
	var transportErr *TransportError
	assert.False(t, errors.As(err, &transportErr))
	assert.Equal(t, int32(0), b.hits.Load())
}

func TestResolve_SingleEndpointApplicationError(t *testing.T) {
	a := newReplica(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, "E001", "bad request", nil)
	})

	_, err := New([]string{a.server.URL}).Resolve(context.Background(), getBuilder("/x"))

	var appErr *ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "API Error: bad request (code E001)", appErr.Error())
}

func TestResolve_AllUnavailable(t *testing.T) {
	first, second := deadURL(t), deadURL(t)

	res, err := New([]string{first, second}).Resolve(context.Background(), getBuilder("/user/getAll"))

	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrAllUnavailable)

	var agg *AggregateFailure
	require.ErrorAs(t, err, &agg)
	require.Len(t, agg.Attempts, 2)
	assert.Equal(t, first, agg.Attempts[0].Endpoint)
	assert.Equal(t, second, agg.Attempts[1].Endpoint)
	assert.Equal(t, agg.Attempts[1], agg.Last())
	assert.Contains(t, err.Error(), "all servers unavailable")
}

func TestResolve_UnparsableBodyIsTransportFailure(t *testing.T) {
	tests := []struct {
		handler http.HandlerFunc
		name    string
	}{
		{
			name: "html from proxy",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte("<html>bad gateway</html>"))
			},
		},
		{
			name: "json without code",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":"ok"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newReplica(t, tt.handler)
			b := newReplica(t, okHandler("ok"))

			res, err := New([]string{a.server.URL, b.server.URL}).Resolve(context.Background(), getBuilder("/x"))
			require.NoError(t, err)
			assert.Equal(t, b.server.URL, res.Endpoint)
			assert.Equal(t, int32(1), a.hits.Load())
		})
	}
}

func TestResolve_NoEndpoints(t *testing.T) {
	_, err := New(nil).Resolve(context.Background(), getBuilder("/x"))
	assert.ErrorIs(t, err, ErrNoEndpoints)
}

func TestResolve_AttemptTimeout(t *testing.T) {
	slow := newReplica(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		writeEnvelope(w, api.CodeSuccess, "late", nil)
	})
	fast := newReplica(t, okHandler("fast"))

	r := New([]string{slow.server.URL, fast.server.URL}, WithAttemptTimeout(50*time.Millisecond))
	res, err := r.Resolve(context.Background(), getBuilder("/x"))

	require.NoError(t, err)
	assert.Equal(t, fast.server.URL, res.Endpoint)
}

func TestResolve_BuildErrorIsTerminal(t *testing.T) {
	b := newReplica(t, okHandler(nil))
	build := func(ctx context.Context, baseURL string) (*http.Request, error) {
		return nil, errors.New("boom")
	}

	_, err := New([]string{b.server.URL}).Resolve(context.Background(), build)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, int32(0), b.hits.Load())
}

func TestResolve_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := newReplica(t, okHandler(nil))
	_, err := New([]string{deadURL(t), b.server.URL}).Resolve(ctx, getBuilder("/x"))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), b.hits.Load())
}

func TestResolveWrite_RefusedConnectionFallsThrough(t *testing.T) {
	// Соединение не установлено - запрос точно не применен, можно идти дальше
	b := newReplica(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["name"])
		writeEnvelope(w, api.CodeSuccess, "saved", nil)
	})

	res, err := New([]string{deadURL(t), b.server.URL}).ResolveWrite(context.Background(), postBuilder("/user/save", `{"name":"alice"}`))

	require.NoError(t, err)
	assert.Equal(t, b.server.URL, res.Endpoint)
	assert.Equal(t, int32(1), b.hits.Load())
}

func TestResolveWrite_AmbiguousAfterSend(t *testing.T) {
	tests := []struct {
		handler http.HandlerFunc
		name    string
		timeout time.Duration
	}{
		{
			name: "garbage response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
		{
			name:    "timeout after send",
			timeout: 50 * time.Millisecond,
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newReplica(t, tt.handler)
			b := newReplica(t, okHandler(nil))

			r := New([]string{a.server.URL, b.server.URL}, WithAttemptTimeout(tt.timeout))
			res, err := r.ResolveWrite(context.Background(), postBuilder("/user/update", `{"id":"1","name":"x"}`))

			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrAmbiguousWrite)
			assert.NotErrorIs(t, err, ErrAllUnavailable)

			var ambiguous *AmbiguousWriteError
			require.ErrorAs(t, err, &ambiguous)
			assert.Equal(t, a.server.URL, ambiguous.Endpoint)

			assert.Equal(t, int32(0), b.hits.Load(), "запись не должна повторяться на другой реплике")
		})
	}
}

func TestResolve_ReadRetriesAfterSendFailure(t *testing.T) {
	// Для чтения та же ситуация не опасна: идем к следующей реплике
	a := newReplica(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})
	b := newReplica(t, okHandler(nil))

	res, err := New([]string{a.server.URL, b.server.URL}).Resolve(context.Background(), getBuilder("/x"))
	require.NoError(t, err)
	assert.Equal(t, b.server.URL, res.Endpoint)
}

func TestEach(t *testing.T) {
	a := newReplica(t, okHandler([]int{1}))
	c := newReplica(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, "E500", "db down", nil)
	})
	dead := deadURL(t)

	outcomes := New([]string{a.server.URL, dead, c.server.URL}).Each(context.Background(), getBuilder("/x"))

	require.Len(t, outcomes, 3)

	require.NoError(t, outcomes[0].Err)
	assert.Equal(t, 0, outcomes[0].Index)
	assert.Equal(t, a.server.URL, outcomes[0].Result.Endpoint)

	var transportErr *TransportError
	assert.ErrorAs(t, outcomes[1].Err, &transportErr)
	assert.Equal(t, dead, outcomes[1].Endpoint)

	var appErr *ApplicationError
	assert.ErrorAs(t, outcomes[2].Err, &appErr)
	assert.Equal(t, "db down", appErr.Message)
}

func TestEach_QueriesReplicasConcurrently(t *testing.T) {
	// Каждая реплика ждет, пока запрос дойдет до другой
	var arrived sync.WaitGroup
	arrived.Add(2)
	barrier := func(w http.ResponseWriter, r *http.Request) {
		arrived.Done()
		arrived.Wait()
		writeEnvelope(w, api.CodeSuccess, "success", []int{1})
	}
	a := newReplica(t, barrier)
	b := newReplica(t, barrier)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	outcomes := New([]string{a.server.URL, b.server.URL}).Each(ctx, getBuilder("/x"))

	require.Len(t, outcomes, 2)
	for i, o := range outcomes {
		require.NoError(t, o.Err)
		assert.Equal(t, i, o.Index)
	}
}

func TestDecodeData(t *testing.T) {
	t.Run("null data", func(t *testing.T) {
		res := &Result{Envelope: &api.Envelope{Code: api.CodeSuccess, Data: json.RawMessage("null")}}
		got, err := DecodeData[[]string](res)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("missing data", func(t *testing.T) {
		res := &Result{Envelope: &api.Envelope{Code: api.CodeSuccess}}
		got, err := DecodeData[[]string](res)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("wrong shape", func(t *testing.T) {
		res := &Result{
			Endpoint: "http://a",
			Envelope: &api.Envelope{Code: api.CodeSuccess, Data: json.RawMessage(`{"not":"a list"}`)},
		}
		_, err := DecodeData[[]string](res)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnexpectedResponse)

		var formatErr *FormatError
		require.ErrorAs(t, err, &formatErr)
		assert.Equal(t, "http://a", formatErr.Endpoint)
	})
}

func TestNew_CopiesEndpoints(t *testing.T) {
	endpoints := []string{"http://a", "http://b"}
	r := New(endpoints)
	endpoints[0] = "http://changed"

	assert.Equal(t, []string{"http://a", "http://b"}, r.Endpoints())
}

func TestFetch_FirstReplicaServingFileWins(t *testing.T) {
	missing := newReplica(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	image := newReplica(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bg.jpg", r.URL.Query().Get("fileName"))
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
	})
	third := newReplica(t, okHandler(nil))

	r := New([]string{deadURL(t), missing.server.URL, image.server.URL, third.server.URL})
	res, err := r.Fetch(context.Background(), getBuilder("/static/lookup?fileName=bg.jpg"))

	require.NoError(t, err)
	assert.Equal(t, 2, res.Index)
	assert.Equal(t, "image/jpeg", res.ContentType)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, res.Body)
	assert.Equal(t, int32(1), missing.hits.Load())
	assert.Equal(t, int32(0), third.hits.Load())
}

func TestFetch_AllMissing(t *testing.T) {
	missing := newReplica(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	r := New([]string{missing.server.URL, deadURL(t)})
	_, err := r.Fetch(context.Background(), getBuilder("/static/lookup?fileName=bg.jpg"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllUnavailable)

	var agg *AggregateFailure
	require.ErrorAs(t, err, &agg)
	assert.Len(t, agg.Attempts, 2)
}
