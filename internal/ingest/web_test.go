package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stationCSV = `Weather_station_ID,Message
0,Temperature: 27.5C
1,Rainfall measured at 10 mm
2,
`

func TestCSVFetcher_FetchTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(stationCSV))
	}))
	defer srv.Close()

	f := NewCSVFetcher(5*time.Second, discardLogger())
	table, err := f.FetchTable(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, []string{"Weather_station_ID", "Message"}, table.Columns)
	require.Equal(t, 3, table.Len())
	assert.Equal(t, int64(0), table.Rows[0]["Weather_station_ID"], "integer cells infer int64")
	assert.Equal(t, "Temperature: 27.5C", table.Rows[0]["Message"])
	assert.Nil(t, table.Rows[2]["Message"], "empty cells infer nil")
}

func TestCSVFetcher_FetchTable_TypeInference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("a,b,c,d\n7,3.5,tea,\n"))
	}))
	defer srv.Close()

	f := NewCSVFetcher(5*time.Second, discardLogger())
	table, err := f.FetchTable(context.Background(), srv.URL)
	require.NoError(t, err)

	require.Equal(t, 1, table.Len())
	assert.Equal(t, int64(7), table.Rows[0]["a"])
	assert.Equal(t, 3.5, table.Rows[0]["b"])
	assert.Equal(t, "tea", table.Rows[0]["c"])
	assert.Nil(t, table.Rows[0]["d"])
}

func TestCSVFetcher_FetchTable_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewCSVFetcher(5*time.Second, discardLogger())
	_, err := f.FetchTable(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source unavailable")
}

func TestCSVFetcher_FetchTable_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // shut down before the request

	f := NewCSVFetcher(time.Second, discardLogger())
	_, err := f.FetchTable(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source unavailable")
}

func TestCSVFetcher_FetchTable_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	f := NewCSVFetcher(time.Second, discardLogger())
	_, err := f.FetchTable(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing header row")
}
