package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/tastesearch/internal/adapters/http/api"
	"github.com/okian/tastesearch/internal/adapters/http/swagger"
	"github.com/okian/tastesearch/internal/adapters/repository"
	app "github.com/okian/tastesearch/internal/app"
	"github.com/okian/tastesearch/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

const testCatalog = `{
  "people": [
    {"name": "John Smith", "musicGenres": ["Rock"], "movies": ["The Godfather"], "location": "New York"}
  ],
  "musicArtists": {"Rock": ["The Beatles"]}
}`

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should stop with its context", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx, 10*time.Millisecond)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing service metrics updater", func() {
			svc := app.New()

			convey.Convey("Then it should stop with its context", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startServiceMetricsUpdater(ctx, svc, 10*time.Millisecond)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing metric updates", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			convey.So(func() { updateServiceMetrics(app.New()) }, convey.ShouldNotPanic)
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given a catalog file and environment configuration", t, func() {
		path := filepath.Join(t.TempDir(), "data.json")
		convey.So(os.WriteFile(path, []byte(testCatalog), 0o644), convey.ShouldBeNil)

		_ = os.Setenv("TASTE_DATA_PATH", path)
		_ = os.Setenv("TASTE_ADDR", ":0")
		defer func() {
			_ = os.Unsetenv("TASTE_DATA_PATH")
			_ = os.Unsetenv("TASTE_ADDR")
		}()

		convey.Convey("When wiring the application the way main does", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldBeNil)

			store, err := repository.Load(ctx, cfg.DataPath)
			convey.So(err, convey.ShouldBeNil)

			svc := app.New(app.WithStore(store))
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			mux := http.NewServeMux()
			swagger.Register(ctx, mux)
			server := api.NewServer(svc, svc, nil)
			server.Register(ctx, mux)
			srv := httptest.NewServer(server.Handler(mux))
			defer srv.Close()

			convey.Convey("Then the example query is answered end to end", func() {
				resp, err := http.Get(srv.URL + "/search?query=the")
				convey.So(err, convey.ShouldBeNil)
				defer func() { _ = resp.Body.Close() }()

				var body struct {
					Message []struct {
						Name    string   `json:"name"`
						Score   int      `json:"score"`
						Matches []string `json:"matches"`
					} `json:"message"`
				}
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(json.NewDecoder(resp.Body).Decode(&body), convey.ShouldBeNil)
				convey.So(len(body.Message), convey.ShouldEqual, 1)
				convey.So(body.Message[0].Score, convey.ShouldEqual, 3)
				convey.So(body.Message[0].Matches, convey.ShouldResemble, []string{"movie", "artist"})
			})

			convey.Convey("And the OpenAPI document is served", func() {
				resp, err := http.Get(srv.URL + "/openapi.yaml")
				convey.So(err, convey.ShouldBeNil)
				_ = resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When the configuration is invalid", func() {
			_ = os.Setenv("TASTE_ADDR", "")
			defer func() { _ = os.Unsetenv("TASTE_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the catalog file is missing", func() {
			_, err := repository.Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"))

			convey.Convey("Then the load error is reported", func() {
				convey.So(errors.Is(err, repository.ErrLoadCatalog), convey.ShouldBeTrue)
			})
		})
	})
}
