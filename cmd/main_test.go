package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/prochallenge/internal/config"
	"github.com/okian/prochallenge/internal/sheetmock"
	"github.com/okian/prochallenge/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	upstream := httptest.NewServer(sheetmock.New(sheetmock.WithLogger(logger.Nop())))
	t.Cleanup(upstream.Close)

	cfg := config.New(context.Background())
	cfg.RemoteURL = upstream.URL
	cfg.StatePath = ""
	cfg.Location = "UTC"
	cfg.RefreshInterval = 0
	cfg.CORSOrigins = []string{"https://hub.example.com"}
	return cfg
}

func TestMainWiring(t *testing.T) {
	convey.Convey("Given a service wired from config", t, func() {
		ctx := context.Background()
		cfg := testConfig(t)
		convey.So(cfg.Validate(ctx), convey.ShouldBeNil)

		svc, err := newService(ctx, cfg, logger.Nop())
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.ChallengeName(), convey.ShouldEqual, "fitness")
		convey.So(svc.TopLimit(), convey.ShouldEqual, cfg.TopLimit)

		h := newHandler(ctx, cfg, svc, logger.Nop())
		serve := func(req *http.Request) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			return w
		}

		convey.Convey("Then the dashboard, docs and API are routed", func() {
			convey.So(serve(httptest.NewRequest(http.MethodGet, "/", http.NoBody)).Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(httptest.NewRequest(http.MethodGet, "/api-docs", http.NoBody)).Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(httptest.NewRequest(http.MethodGet, "/openapi.yaml", http.NoBody)).Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(httptest.NewRequest(http.MethodGet, "/stats", http.NoBody)).Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve(httptest.NewRequest(http.MethodGet, "/leaderboard", http.NoBody)).Code, convey.ShouldEqual, http.StatusUnauthorized)
		})

		convey.Convey("Then a login opens the protected routes", func() {
			login := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(`{"user":"asha"}`))
			convey.So(serve(login).Code, convey.ShouldEqual, http.StatusCreated)
			convey.So(serve(httptest.NewRequest(http.MethodGet, "/leaderboard", http.NoBody)).Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then CORS preflights from allowed origins succeed", func() {
			req := httptest.NewRequest(http.MethodOptions, "/weights", http.NoBody)
			req.Header.Set("Origin", "https://hub.example.com")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			w := serve(req)
			convey.So(w.Header().Get("Access-Control-Allow-Origin"), convey.ShouldEqual, "https://hub.example.com")
		})

		convey.Convey("Then other origins get no CORS headers", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats", http.NoBody)
			req.Header.Set("Origin", "https://evil.example.com")
			w := serve(req)
			convey.So(w.Header().Get("Access-Control-Allow-Origin"), convey.ShouldBeEmpty)
		})

		convey.Convey("Then the metric updaters do not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})
	})
}

func TestMainRun(t *testing.T) {
	convey.Convey("Given a config listening on a free port", t, func() {
		cfg := testConfig(t)
		cfg.Addr = "127.0.0.1:0"
		cfg.ShutdownTimeout = time.Second

		convey.Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- run(ctx, cfg, logger.Nop()) }()
			time.Sleep(50 * time.Millisecond)
			cancel()

			convey.Convey("Then run shuts down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					t.Fatal("run did not return")
				}
			})
		})

		convey.Convey("When the address is unusable", func() {
			cfg.Addr = "256.0.0.1:99999"
			err := run(context.Background(), cfg, logger.Nop())

			convey.Convey("Then run reports the listen error", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})

	convey.Convey("Given a config with an unknown location", t, func() {
		cfg := testConfig(t)
		cfg.Location = "Nowhere/Special"

		convey.Convey("Then the service cannot be built", func() {
			_, err := newService(context.Background(), cfg, logger.Nop())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
