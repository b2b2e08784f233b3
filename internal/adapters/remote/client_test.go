package remote_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/prochallenge/internal/adapters/remote"
	"github.com/okian/prochallenge/internal/domain/challenge"
	"github.com/okian/prochallenge/internal/sheetmock"
	"github.com/okian/prochallenge/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func newClient(h http.Handler, opts ...remote.Option) (*remote.Client, func()) {
	srv := httptest.NewServer(h)
	opts = append([]remote.Option{remote.WithLogger(logger.Nop())}, opts...)
	return remote.NewClient(srv.URL, opts...), srv.Close
}

func TestClientAgainstStandIn(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)

	Convey("Given a client of the stand-in", t, func() {
		sheet := sheetmock.New(sheetmock.WithClock(func() time.Time { return now }), sheetmock.WithLogger(logger.Nop()))
		c, done := newClient(sheet)
		defer done()

		Convey("When registering", func() {
			reg, err := c.RegisterChallenge(ctx, "asha", challenge.Fitness, now)
			So(err, ShouldBeNil)
			So(reg.AlreadyRegistered, ShouldBeFalse)

			ok, err := c.CheckRegistration(ctx, "asha", challenge.Fitness)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			Convey("Then registering again counts as success", func() {
				again, err := c.RegisterChallenge(ctx, "asha", challenge.Fitness, now)
				So(err, ShouldBeNil)
				So(again.AlreadyRegistered, ShouldBeTrue)
			})
		})

		Convey("When logging and reading weights", func() {
			_, err := c.AddWeight(ctx, "asha", 80)
			So(err, ShouldBeNil)
			_, err = c.AddWeight(ctx, "ravi", 95.5)
			So(err, ShouldBeNil)

			rows, err := c.GetAllWeights(ctx)

			Convey("Then the header row is removed", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
				So(rows[0][0], ShouldEqual, "asha")
				So(rows[1][2], ShouldEqual, 95.5)
			})
		})

		Convey("When saving a goal", func() {
			g, _ := challenge.NewCalendar().NewGoal(85, 75)
			So(c.SaveGoal(ctx, "asha", g), ShouldBeNil)
		})

		Convey("When the endpoint rejects a call", func() {
			sheet.Reject(remote.ActionAddWeight, "")
			_, err := c.AddWeight(ctx, "asha", 80)

			Convey("Then the rejection falls back to the generic message", func() {
				So(errors.Is(err, remote.ErrRejected), ShouldBeTrue)
				var rejected *remote.RejectedError
				So(errors.As(err, &rejected), ShouldBeTrue)
				So(rejected.UserMessage(), ShouldEqual, remote.UnknownErrorMessage)
			})
		})

		Convey("When the endpoint fails at the HTTP level", func() {
			sheet.Fail(remote.ActionGetAllWeights, http.StatusInternalServerError)
			_, err := c.GetAllWeights(ctx)
			So(errors.Is(err, remote.ErrTransport), ShouldBeTrue)
		})

		Convey("When tracking finances", func() {
			budget, err := c.GetMonthlyBudget(ctx, "asha")
			So(err, ShouldBeNil)
			So(budget.Set, ShouldBeFalse)

			So(c.SetMonthlyBudget(ctx, "asha", 5000), ShouldBeNil)
			So(c.AddExpense(ctx, "asha", remote.Expense{Amount: 1200, Category: "food", Note: "groceries"}), ShouldBeNil)

			budget, err = c.GetMonthlyBudget(ctx, "asha")
			So(err, ShouldBeNil)
			So(budget, ShouldResemble, remote.Budget{TargetAmount: 5000, Set: true})

			expenses, err := c.GetUserExpenses(ctx, "asha")
			So(err, ShouldBeNil)
			So(expenses, ShouldHaveLength, 1)
			So(expenses[0].Amount.Float64(), ShouldEqual, 1200)
			So(expenses[0].Date, ShouldEqual, "2026-02-09")

			summary, err := c.GetExpenseSummary(ctx, "asha")
			So(err, ShouldBeNil)
			So(summary.Remaining.Float64(), ShouldEqual, 3800)

			board, err := c.GetFinanceLeaderboard(ctx, "asha")
			So(err, ShouldBeNil)
			So(board, ShouldHaveLength, 1)
			So(board[0].SavedPct.Float64(), ShouldEqual, 76)
		})
	})
}

func TestClientValidation(t *testing.T) {
	ctx := context.Background()

	respond := func(status int, body string) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, body)
		})
	}

	Convey("Given malformed responses", t, func() {
		bodies := []string{
			`<html>oops</html>`,
			`{"isRegistered": true}`,
			`{"success": "yes"}`,
		}
		for _, body := range bodies {
			c, done := newClient(respond(http.StatusOK, body))
			_, err := c.CheckRegistration(ctx, "asha", challenge.Fitness)
			done()
			So(errors.Is(err, remote.ErrMalformedResponse), ShouldBeTrue)
		}
	})

	Convey("Given a weights response that is not an array of rows", t, func() {
		for _, body := range []string{`{"rows": []}`, `[["h"], "row"]`, ``} {
			c, done := newClient(respond(http.StatusOK, body))
			_, err := c.GetAllWeights(ctx)
			done()
			So(errors.Is(err, remote.ErrMalformedResponse), ShouldBeTrue)
		}
	})

	Convey("Given a weights response with success=false", t, func() {
		c, done := newClient(respond(http.StatusOK, `{"success": false, "message": "Sheet missing"}`))
		defer done()
		_, err := c.GetAllWeights(ctx)
		So(errors.Is(err, remote.ErrRejected), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "Sheet missing")
	})

	Convey("Given spreadsheet cells returned as strings", t, func() {
		c, done := newClient(respond(http.StatusOK, `{"success": true, "targetAmount": "2500"}`))
		defer done()
		b, err := c.GetMonthlyBudget(ctx, "asha")
		So(err, ShouldBeNil)
		So(b.TargetAmount, ShouldEqual, 2500)
	})

	Convey("Given a summary response without a summary", t, func() {
		c, done := newClient(respond(http.StatusOK, `{"success": true}`))
		defer done()
		_, err := c.GetExpenseSummary(ctx, "asha")
		So(errors.Is(err, remote.ErrMalformedResponse), ShouldBeTrue)
	})

	Convey("Given an endpoint that hangs", t, func() {
		release := make(chan struct{})
		slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		})
		c, done := newClient(slow, remote.WithTimeout(50*time.Millisecond))
		defer done()
		defer close(release)

		Convey("Then the call times out as a transport failure", func() {
			_, err := c.CheckRegistration(ctx, "asha", challenge.Fitness)
			So(errors.Is(err, remote.ErrTransport), ShouldBeTrue)
		})
	})

	Convey("Given a request", t, func() {
		var gotType, gotMethod string
		capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotType, gotMethod = r.Header.Get("Content-Type"), r.Method
			_, _ = io.WriteString(w, `{"success": true, "isRegistered": false}`)
		})
		c, done := newClient(capture)
		defer done()

		Convey("Then it is a plain-text POST", func() {
			_, err := c.CheckRegistration(ctx, "asha", challenge.Fitness)
			So(err, ShouldBeNil)
			So(gotMethod, ShouldEqual, http.MethodPost)
			So(gotType, ShouldEqual, "text/plain;charset=utf-8")
		})
	})
}
