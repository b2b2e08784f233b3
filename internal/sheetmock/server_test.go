package sheetmock_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/prochallenge/internal/sheetmock"
	. "github.com/smartystreets/goconvey/convey"
)

func post(h http.Handler, body map[string]any) (*httptest.ResponseRecorder, map[string]any) {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestServerActions(t *testing.T) {
	now := time.Date(2026, 2, 9, 7, 30, 0, 0, time.UTC)

	Convey("Given an empty stand-in", t, func() {
		s := sheetmock.New(sheetmock.WithClock(func() time.Time { return now }))

		Convey("When registering twice", func() {
			_, first := post(s, map[string]any{"action": "registerChallenge", "username": "asha", "challenge": "fitness"})
			_, second := post(s, map[string]any{"action": "registerChallenge", "username": "asha", "challenge": "fitness"})
			_, check := post(s, map[string]any{"action": "checkRegistration", "username": "asha", "challenge": "fitness"})

			Convey("Then the second attempt reports the existing registration", func() {
				So(first["success"], ShouldEqual, true)
				So(second["success"], ShouldEqual, false)
				So(second["message"], ShouldEqual, sheetmock.MsgAlreadyRegistered)
				So(check["isRegistered"], ShouldEqual, true)
				So(s.Calls("registerChallenge"), ShouldEqual, 2)
			})
		})

		Convey("When logging a weight", func() {
			_, resp := post(s, map[string]any{"action": "addWeight", "username": "asha", "weight": 79.5})

			Convey("Then it appears in the sheet after the header", func() {
				So(resp["success"], ShouldEqual, true)

				raw, _ := json.Marshal(map[string]any{"action": "getAllWeights"})
				rec := httptest.NewRecorder()
				s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw)))
				var rows [][]any
				So(json.Unmarshal(rec.Body.Bytes(), &rows), ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
				So(rows[0][0], ShouldEqual, "Username")
				So(rows[1], ShouldResemble, []any{"asha", "2026-02-09T07:30:00Z", 79.5})
			})
		})

		Convey("When logging an invalid weight", func() {
			_, resp := post(s, map[string]any{"action": "addWeight", "username": "asha", "weight": -1})
			So(resp["success"], ShouldEqual, false)
			So(s.Rows(), ShouldBeEmpty)
		})

		Convey("When tracking finances", func() {
			post(s, map[string]any{"action": "setMonthlyBudget", "username": "asha", "targetAmount": 1000})
			post(s, map[string]any{"action": "addExpense", "username": "asha", "amount": 250, "category": "food"})
			post(s, map[string]any{"action": "setMonthlyBudget", "username": "ravi", "targetAmount": 1000})
			post(s, map[string]any{"action": "addExpense", "username": "ravi", "amount": 900, "category": "rent"})

			_, summary := post(s, map[string]any{"action": "getExpenseSummary", "username": "asha"})
			_, board := post(s, map[string]any{"action": "getFinanceLeaderboard", "username": "asha"})
			_, budget := post(s, map[string]any{"action": "getMonthlyBudget", "username": "asha"})
			_, none := post(s, map[string]any{"action": "getMonthlyBudget", "username": "meera"})

			Convey("Then summaries and the savings board are derived", func() {
				sum := summary["summary"].(map[string]any)
				So(sum["totalSpent"], ShouldEqual, 250)
				So(sum["remaining"], ShouldEqual, 750)
				lb := board["leaderboard"].([]any)
				So(lb, ShouldHaveLength, 2)
				So(lb[0].(map[string]any)["username"], ShouldEqual, "asha")
				So(lb[0].(map[string]any)["savedPct"], ShouldEqual, 75)
				So(budget["targetAmount"], ShouldEqual, 1000)
				_, has := none["targetAmount"]
				So(has, ShouldBeFalse)
			})
		})

		Convey("When the action is unknown or the user is missing", func() {
			_, unknown := post(s, map[string]any{"action": "explode", "username": "asha"})
			_, anon := post(s, map[string]any{"action": "addWeight", "weight": 80})
			So(unknown["message"], ShouldEqual, sheetmock.MsgUnknownAction)
			So(anon["message"], ShouldEqual, sheetmock.MsgMissingUser)
		})

		Convey("When faults are installed", func() {
			s.Reject("saveGoal", "Sheet locked")
			_, rejected := post(s, map[string]any{"action": "saveGoal", "username": "asha", "startWeight": 80, "targetWeight": 70})
			So(rejected["success"], ShouldEqual, false)
			So(rejected["message"], ShouldEqual, "Sheet locked")

			s.Fail("saveGoal", http.StatusBadGateway)
			rec, _ := post(s, map[string]any{"action": "saveGoal", "username": "asha"})
			So(rec.Code, ShouldEqual, http.StatusBadGateway)

			s.Heal("saveGoal")
			_, ok := post(s, map[string]any{"action": "saveGoal", "username": "asha", "startWeight": 80, "targetWeight": 70})
			So(ok["success"], ShouldEqual, true)
		})

		Convey("When the method is not POST", func() {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			So(rec.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestGenerate(t *testing.T) {
	Convey("Given a generator configuration", t, func() {
		cfg := sheetmock.GeneratorConfig{
			Participants: 5,
			Weeks:        4,
			Start:        time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
			Seed:         7,
		}

		Convey("When generating", func() {
			rows, err := sheetmock.Generate(context.Background(), cfg)

			Convey("Then every participant has a Monday weigh-in per week", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 20)
				for _, r := range rows {
					So(r.Date.Weekday(), ShouldEqual, time.Monday)
					So(r.Weight, ShouldBeGreaterThanOrEqualTo, 35)
				}
				So(rows[0].Date.Day(), ShouldEqual, 9)
			})

			Convey("Then the same seed yields the same weights", func() {
				again, _ := sheetmock.Generate(context.Background(), cfg)
				So(again[3].Weight, ShouldEqual, rows[3].Weight)
			})
		})

		Convey("When the configuration is invalid", func() {
			_, err := sheetmock.Generate(context.Background(), sheetmock.GeneratorConfig{})
			So(err, ShouldNotBeNil)
			_, err = sheetmock.Generate(context.Background(), sheetmock.GeneratorConfig{Participants: 1, Weeks: 1, SkipRate: 1})
			So(err, ShouldNotBeNil)
		})

		Convey("When seeding a server", func() {
			rows, _ := sheetmock.Generate(context.Background(), cfg)
			s := sheetmock.New(sheetmock.WithRows(rows))
			So(s.Rows(), ShouldHaveLength, 20)
		})
	})
}
