package update

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestChecker(t *testing.T, handler http.HandlerFunc) *Checker {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewChecker("jaspreet-dot-casa/bootstrap")
	c.BaseURL = server.URL
	c.Client = server.Client()
	c.RetryDelay = time.Millisecond
	return c
}

func release(tag string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tag_name":"` + tag + `"}`))
	}
}

func TestCheck_Outdated(t *testing.T) {
	var path string
	c := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		release("v1.2.0")(w, r)
	})

	result, err := c.Check(context.Background(), "v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "/repos/jaspreet-dot-casa/bootstrap/releases/latest", path)
	assert.Equal(t, CheckResult{Current: "1.0.0", Latest: "1.2.0", Outdated: true}, result)
}

func TestCheck_UpToDate(t *testing.T) {
	c := newTestChecker(t, release("v1.2.0"))

	result, err := c.Check(context.Background(), "1.2.0")
	require.NoError(t, err)
	assert.False(t, result.Outdated)

	result, err = c.Check(context.Background(), "1.10.0")
	require.NoError(t, err)
	assert.False(t, result.Outdated)
}

func TestCheck_DevBuild(t *testing.T) {
	c := newTestChecker(t, release("v2.0.0"))

	result, err := c.Check(context.Background(), "dev")
	require.NoError(t, err)
	assert.True(t, result.CurrentIsDev)
	assert.False(t, result.Outdated)
	assert.Equal(t, "2.0.0", result.Latest)
}

func TestCheck_InvalidCurrent(t *testing.T) {
	c := newTestChecker(t, release("v2.0.0"))

	_, err := c.Check(context.Background(), "banana")
	assert.ErrorContains(t, err, "invalid current version")
}

func TestCheck_InvalidTag(t *testing.T) {
	c := newTestChecker(t, release("nightly"))

	_, err := c.Check(context.Background(), "1.0.0")
	assert.ErrorContains(t, err, "invalid latest release tag")
}

func TestCheck_MissingTag(t *testing.T) {
	c := newTestChecker(t, release(""))

	_, err := c.Check(context.Background(), "1.0.0")
	assert.ErrorContains(t, err, "no tag")
}

func TestCheck_RetriesServerError(t *testing.T) {
	var calls atomic.Int32
	c := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		release("v1.1.0")(w, r)
	})

	result, err := c.Check(context.Background(), "1.0.0")
	require.NoError(t, err)
	assert.True(t, result.Outdated)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCheck_GivesUpAfterOneRetry(t *testing.T) {
	var calls atomic.Int32
	c := newTestChecker(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Check(context.Background(), "1.0.0")
	assert.ErrorContains(t, err, "500")
	assert.Equal(t, int32(2), calls.Load())
}

func TestCheck_NotFoundNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestChecker(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.Check(context.Background(), "1.0.0")
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCheck_RateLimit(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		remaining string
		limited   bool
	}{
		{"429", http.StatusTooManyRequests, "", true},
		{"403 exhausted", http.StatusForbidden, "0", true},
		{"403 with quota", http.StatusForbidden, "12", false},
		{"403 no header", http.StatusForbidden, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChecker(t, func(w http.ResponseWriter, _ *http.Request) {
				if tt.remaining != "" {
					w.Header().Set("X-RateLimit-Remaining", tt.remaining)
				}
				w.WriteHeader(tt.status)
			})

			_, err := c.Check(context.Background(), "1.0.0")
			require.Error(t, err)
			assert.Equal(t, tt.limited, IsRateLimitError(err))
		})
	}
}

func TestCheck_NetworkErrorRetried(t *testing.T) {
	var calls int
	c := NewChecker("o/r")
	c.RetryDelay = time.Millisecond
	c.Client = &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		calls++
		return nil, &timeoutError{}
	})}

	_, err := c.Check(context.Background(), "1.0.0")
	assert.ErrorContains(t, err, "failed to fetch latest release")
	assert.Equal(t, 2, calls)
}

func TestCheck_InvalidRepo(t *testing.T) {
	c := NewChecker("bootstrap")

	_, err := c.Check(context.Background(), "1.0.0")
	assert.ErrorContains(t, err, "owner/name")
}

func TestRateLimitError_Error(t *testing.T) {
	remaining := 0
	err := &RateLimitError{StatusCode: 403, Status: "403 Forbidden", Remaining: &remaining}
	assert.Equal(t, "github api rate limit exceeded (403 Forbidden, remaining=0)", err.Error())

	err = &RateLimitError{StatusCode: 429, Status: "429 Too Many Requests"}
	assert.Contains(t, err.Error(), "remaining=unknown")
	assert.False(t, IsRateLimitError(errors.New("other")))
}

func TestNormalize(t *testing.T) {
	v, err := Normalize(" v1.4.2 ")
	require.NoError(t, err)
	assert.Equal(t, "1.4.2", v)

	_, err = Normalize("latest")
	assert.Error(t, err)

	assert.True(t, IsDev(""))
	assert.True(t, IsDev("dev"))
	assert.False(t, IsDev("1.0.0"))
}

func TestWarnIfOutdated(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		current string
		want    string
	}{
		{"outdated", release("v1.3.0"), "1.0.0", "bootstrap 1.3.0 is available (you have 1.0.0)"},
		{"current", release("v1.0.0"), "1.0.0", ""},
		{"dev", release("v1.0.0"), "dev", "development build"},
		{"rate limited", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}, "1.0.0", ""},
		{"failure", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}, "1.0.0", "update check failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChecker(t, tt.handler)
			var buf bytes.Buffer
			c.WarnIfOutdated(context.Background(), tt.current, &buf)
			if tt.want == "" {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }
