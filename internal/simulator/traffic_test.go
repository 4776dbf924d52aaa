package simulator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/plains/internal/adapters/http/api"
	service "github.com/okian/plains/internal/app"
	"github.com/okian/plains/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newLeagueServer() (*httptest.Server, *service.Service) {
	svc := service.New(service.WithLogger(logger.Nop()))
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc).Register(mux)
	return httptest.NewServer(mux), svc
}

func TestRunTraffic(t *testing.T) {
	Convey("Given a fresh league server", t, func() {
		ctx := context.Background()
		srv, svc := newLeagueServer()
		Reset(func() {
			srv.Close()
			_ = svc.Stop(ctx)
		})

		Convey("When random traffic is replayed against it", func() {
			report, err := RunTraffic(ctx, TrafficConfig{BaseURL: srv.URL, Commands: 1_500, Seed: 11})

			Convey("Then the server agrees with the local league", func() {
				So(err, ShouldBeNil)
				So(report.Commands, ShouldEqual, 1_500)
				So(report.Mismatches, ShouldBeEmpty)
				So(report.ByStatus["SUCCESS"], ShouldBeGreaterThan, 0)
				So(report.ByStatus["FAILURE"], ShouldBeGreaterThan, 0)
				So(svc.Verify(), ShouldBeNil)
			})

			Convey("Then a second run is refused unless forced", func() {
				_, err := RunTraffic(ctx, TrafficConfig{BaseURL: srv.URL, Commands: 10, Seed: 11})
				So(errors.Is(err, ErrDirtyServer), ShouldBeTrue)

				report, err := RunTraffic(ctx, TrafficConfig{BaseURL: srv.URL, Commands: 200, Seed: 11, Force: true})
				So(errors.Is(err, ErrMismatch), ShouldBeTrue)
				So(report.Mismatches, ShouldNotBeEmpty)
			})
		})
	})

	Convey("Given a stopped league server", t, func() {
		srv, svc := newLeagueServer()
		defer srv.Close()
		So(svc.Stop(context.Background()), ShouldBeNil)

		Convey("Then the health check fails", func() {
			_, err := RunTraffic(context.Background(), TrafficConfig{BaseURL: srv.URL, Commands: 10})
			So(errors.Is(err, ErrUnhealthy), ShouldBeTrue)
		})
	})
}
