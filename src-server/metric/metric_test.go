package metric_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"calendar/src-server/metric"
	"calendar/src-server/model"
	"calendar/src-server/utils"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func waitForCount(t *testing.T, name string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		got, err := testutil.GatherAndCount(prometheus.DefaultGatherer, name)
		if err != nil {
			t.Fatal(err)
		}
		if got == want {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("%s: got %d series, want %d", name, got, want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestInit(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("METRIC_COLLECTION_INTERVAL", "1h")

	rawDB, err := sql.Open(sqliteshim.ShimName, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	if err != nil {
		t.Fatal(err)
	}
	rawDB.SetMaxOpenConns(1)
	as := &utils.AppState{
		Config:      utils.NewConfig(),
		RawDB:       rawDB,
		BunDB:       utils.NewBunDB(rawDB),
		MetricChans: utils.NewMetricChans(),
	}
	if err := model.CreateSchema(context.Background(), as.BunDB); err != nil {
		t.Fatal(err)
	}

	metric.Init(as)
	waitForCount(t, "calendar_database_read_microsec", 1)

	as.MetricChans.ObserveRequest(utils.RequestSample{Method: "GET", Route: "/api/events", Status: 200, Latency: time.Millisecond})
	as.MetricChans.ObserveRequest(utils.RequestSample{Method: "GET", Route: "/api/events/{id}", Status: 404, Latency: time.Millisecond})
	waitForCount(t, "calendar_http_requests_total", 2)

	// collectors unregister on shutdown
	as.GracefulShutdown()
	waitForCount(t, "calendar_http_requests_total", 0)
	waitForCount(t, "calendar_database_read_microsec", 0)
}
