package poller_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/poller"
)

func TestNew(t *testing.T) {
	t.Run("invalid URL", func(t *testing.T) {
		_, err := poller.New("localhost:8080")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrInvalidOption))
	})

	t.Run("valid URL", func(t *testing.T) {
		gt.R1(poller.New("http://localhost:8080/")).NoError(t)
	})
}

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("success envelope", func(t *testing.T) {
		var path string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"data":{"id":"a-1","status":"BUILDING","logs":[{"step":"build","level":"info","message":"go"}],"staticAnalysisReport":null}}`))
		}))
		defer ts.Close()

		c := gt.R1(poller.New(ts.URL)).NoError(t)
		got := gt.R1(c.Fetch(ctx, "a-1")).NoError(t)
		gt.V(t, path).Equal("/api/analyses/a-1")
		gt.V(t, got.Status).Equal(types.AnalysisStatusBuilding)
		gt.A(t, got.Logs).Length(1)
		gt.True(t, got.StaticAnalysisReport.IsEmpty())
	})

	t.Run("failure envelope", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success":false,"error":"Analysis not found"}`))
		}))
		defer ts.Close()

		c := gt.R1(poller.New(ts.URL)).NoError(t)
		_, err := c.Fetch(ctx, "a-1")
		gt.Error(t, err)
	})

	t.Run("non-2xx response", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer ts.Close()

		c := gt.R1(poller.New(ts.URL)).NoError(t)
		_, err := c.Fetch(ctx, "a-1")
		gt.Error(t, err)
	})

	t.Run("broken body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success":tr`))
		}))
		defer ts.Close()

		c := gt.R1(poller.New(ts.URL)).NoError(t)
		_, err := c.Fetch(ctx, "a-1")
		gt.Error(t, err)
	})
}
