package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	app "github.com/okian/plains/internal/app"
	"github.com/okian/plains/internal/config"
	"github.com/okian/plains/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given a mux over a started service", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		svc := app.New(app.WithLogger(logger.Nop()))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		convey.Reset(func() { _ = svc.Stop(ctx) })
		mux := newMux(svc, cfg)

		convey.Convey("Then API and docs routes are served", func() {
			for _, path := range []string{"/healthz", "/stats", "/metrics", "/standings", "/openapi.yaml", "/api-docs"} {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest("GET", path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("Then the configured standings limit applies", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/standings?limit=101", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a configuration bound to an ephemeral port", t, func() {
		_ = os.Setenv("PLAINS_ADDR", "127.0.0.1:0")
		_ = os.Setenv("PLAINS_WORKER_COUNT", "2")
		defer func() {
			_ = os.Unsetenv("PLAINS_ADDR")
			_ = os.Unsetenv("PLAINS_WORKER_COUNT")
		}()
		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When the server runs until cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			ready := make(chan string, 1)
			done := make(chan error, 1)
			go func() { done <- run(ctx, cfg, ready) }()

			var addr string
			select {
			case addr = <-ready:
			case <-time.After(5 * time.Second):
				convey.So("server did not start", convey.ShouldBeEmpty)
			}

			resp, err := http.Post("http://"+addr+"/teams", "application/json", strings.NewReader(`{"team_id":1}`))
			convey.So(err, convey.ShouldBeNil)
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()

			stats, err := http.Get("http://" + addr + "/stats")
			convey.So(err, convey.ShouldBeNil)
			var payload map[string]any
			convey.So(json.NewDecoder(stats.Body).Decode(&payload), convey.ShouldBeNil)
			_ = stats.Body.Close()

			cancel()

			convey.Convey("Then requests are served and shutdown is clean", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(string(body), convey.ShouldContainSubstring, "SUCCESS")
				convey.So(payload["worker_count"], convey.ShouldEqual, float64(2))
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(10 * time.Second):
					convey.So("server did not stop", convey.ShouldBeEmpty)
				}
			})
		})
	})

	convey.Convey("Given an unknown tracing exporter", t, func() {
		cfg := config.New(context.Background())
		cfg.Addr = "127.0.0.1:0"
		cfg.TracingEnabled = true
		cfg.TracingExporter = "carrier-pigeon"

		convey.Convey("Then run fails before serving", func() {
			err := run(context.Background(), cfg, nil)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
