package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given a router with an API route and the site", t, func() {
		ctx := context.Background()
		r := mux.NewRouter()
		r.HandleFunc("/stats", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
		Register(ctx, r)

		serve := func(method, path string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(method, path, http.NoBody)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			return w
		}

		Convey("Then / serves the dashboard shell", func() {
			w := serve(http.MethodGet, "/")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, "ProChallenge Hub")
		})

		Convey("And the assets are served", func() {
			So(serve(http.MethodGet, "/app.js").Code, ShouldEqual, http.StatusOK)
			So(serve(http.MethodGet, "/style.css").Code, ShouldEqual, http.StatusOK)
		})

		Convey("And earlier routes keep precedence", func() {
			So(serve(http.MethodGet, "/stats").Code, ShouldEqual, http.StatusTeapot)
		})

		Convey("And unknown files are not found", func() {
			So(serve(http.MethodGet, "/missing.png").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And writes are not accepted", func() {
			So(serve(http.MethodPost, "/").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestSiteHandlerWithNilRouter(t *testing.T) {
	Convey("Given a nil router", t, func() {
		Convey("Then registering panics", func() {
			So(func() { Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}
