package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/prochallenge/internal/domain/challenge"
	model "github.com/okian/prochallenge/internal/domain/model"
	"github.com/okian/prochallenge/pkg/logger"
	"github.com/okian/prochallenge/pkg/metrics"
)

const (
	defaultTimeout  = 15 * time.Second
	defaultMaxBody  = 8 << 20
	contentType     = "text/plain;charset=utf-8"
	requestIDHeader = "X-Request-Id"
	alreadyRegMsg   = "Already registered"
)

// Call outcomes recorded in metrics.
const (
	outcomeOK        = "ok"
	outcomeTransport = "transport"
	outcomeMalformed = "malformed"
	outcomeRejected  = "rejected"
)

// Client calls the endpoint. Calls are never retried: writes are not
// idempotent on the remote side.
type Client struct {
	url        string
	httpClient *http.Client
	timeout    time.Duration
	maxBody    int64
	logger     logger.Logger
}

// NewClient creates a client of the endpoint at url.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:        url,
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
		maxBody:    defaultMaxBody,
		logger:     logger.Get().Named("remote"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckRegistration reports whether user is registered for the challenge.
func (c *Client) CheckRegistration(ctx context.Context, user, challengeName string) (bool, error) {
	var resp struct {
		envelope
		IsRegistered bool `json:"isRegistered"`
	}
	err := c.callObject(ctx, Request{Action: ActionCheckRegistration, Username: user, Challenge: challengeName}, &resp, &resp.envelope)
	if err != nil {
		return false, err
	}
	return resp.IsRegistered, nil
}

// RegisterChallenge registers user. A rejection saying the user is already
// registered counts as success.
func (c *Client) RegisterChallenge(ctx context.Context, user, challengeName string, at time.Time) (Registration, error) {
	req := Request{Action: ActionRegisterChallenge, Username: user, Challenge: challengeName}
	if !at.IsZero() {
		req.Timestamp = at.UTC().Format(time.RFC3339)
	}
	var resp envelope
	err := c.callObject(ctx, req, &resp, &resp)
	var rejected *RejectedError
	if errors.As(err, &rejected) && strings.Contains(rejected.Message, alreadyRegMsg) {
		return Registration{AlreadyRegistered: true, Message: rejected.Message}, nil
	}
	if err != nil {
		return Registration{}, err
	}
	return Registration{Message: resp.Message}, nil
}

// AddWeight logs a weigh-in and returns the remote message, if any.
func (c *Client) AddWeight(ctx context.Context, user string, kg float64) (string, error) {
	var resp envelope
	if err := c.callObject(ctx, Request{Action: ActionAddWeight, Username: user, Weight: &kg}, &resp, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// GetAllWeights returns every weigh-in row with the header row removed.
func (c *Client) GetAllWeights(ctx context.Context) ([]model.RawRow, error) {
	req := Request{Action: ActionGetAllWeights}
	var rows []model.RawRow
	err := c.do(ctx, req, func(body []byte) error {
		trimmed := bytes.TrimSpace(body)
		if len(trimmed) == 0 {
			return malformedErr(req.Action, "empty body")
		}
		if trimmed[0] == '{' {
			var env envelope
			if err := json.Unmarshal(trimmed, &env); err == nil && env.Success != nil && !*env.Success {
				return &RejectedError{Action: req.Action, Message: env.Message}
			}
			return malformedErr(req.Action, "expected an array of rows")
		}
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return malformedErr(req.Action, err.Error())
		}
		if len(raw) == 0 {
			rows = []model.RawRow{}
			return nil
		}
		rows = make([]model.RawRow, 0, len(raw)-1)
		for i, r := range raw[1:] {
			var row []any
			if err := json.Unmarshal(r, &row); err != nil {
				return malformedErr(req.Action, fmt.Sprintf("row %d is not an array", i+1))
			}
			rows = append(rows, model.RawRow(row))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SaveGoal stores the participant's goal.
func (c *Client) SaveGoal(ctx context.Context, user string, g challenge.Goal) error {
	start, target := g.StartWeight, g.TargetWeight
	req := Request{
		Action:       ActionSaveGoal,
		Username:     user,
		StartWeight:  &start,
		TargetWeight: &target,
		StartDate:    g.StartDate,
		EndDate:      g.EndDate,
	}
	var resp envelope
	return c.callObject(ctx, req, &resp, &resp)
}

// SetMonthlyBudget stores the participant's monthly target.
func (c *Client) SetMonthlyBudget(ctx context.Context, user string, amount float64) error {
	var resp envelope
	return c.callObject(ctx, Request{Action: ActionSetMonthlyBudget, Username: user, TargetAmount: &amount}, &resp, &resp)
}

// GetMonthlyBudget returns the participant's monthly target; Set is false
// when none was stored.
func (c *Client) GetMonthlyBudget(ctx context.Context, user string) (Budget, error) {
	var resp struct {
		envelope
		TargetAmount *Number `json:"targetAmount"`
	}
	if err := c.callObject(ctx, Request{Action: ActionGetMonthlyBudget, Username: user}, &resp, &resp.envelope); err != nil {
		return Budget{}, err
	}
	if resp.TargetAmount == nil {
		return Budget{}, nil
	}
	return Budget{TargetAmount: resp.TargetAmount.Float64(), Set: true}, nil
}

// AddExpense logs an expense.
func (c *Client) AddExpense(ctx context.Context, user string, e Expense) error {
	amount := e.Amount.Float64()
	req := Request{Action: ActionAddExpense, Username: user, Amount: &amount, Category: e.Category, Note: e.Note}
	var resp envelope
	return c.callObject(ctx, req, &resp, &resp)
}

// GetUserExpenses lists the participant's expenses.
func (c *Client) GetUserExpenses(ctx context.Context, user string) ([]Expense, error) {
	var resp struct {
		envelope
		Expenses []Expense `json:"expenses"`
	}
	if err := c.callObject(ctx, Request{Action: ActionGetUserExpenses, Username: user}, &resp, &resp.envelope); err != nil {
		return nil, err
	}
	if resp.Expenses == nil {
		resp.Expenses = []Expense{}
	}
	return resp.Expenses, nil
}

// GetExpenseSummary returns the participant's monthly summary.
func (c *Client) GetExpenseSummary(ctx context.Context, user string) (ExpenseSummary, error) {
	var resp struct {
		envelope
		Summary *ExpenseSummary `json:"summary"`
	}
	if err := c.callObject(ctx, Request{Action: ActionGetExpenseSummary, Username: user}, &resp, &resp.envelope); err != nil {
		return ExpenseSummary{}, err
	}
	if resp.Summary == nil {
		return ExpenseSummary{}, malformedErr(ActionGetExpenseSummary, "missing summary")
	}
	return *resp.Summary, nil
}

// GetFinanceLeaderboard returns the savings leaderboard.
func (c *Client) GetFinanceLeaderboard(ctx context.Context, user string) ([]FinanceStanding, error) {
	var resp struct {
		envelope
		Leaderboard *[]FinanceStanding `json:"leaderboard"`
	}
	if err := c.callObject(ctx, Request{Action: ActionGetFinanceLeaderboard, Username: user}, &resp, &resp.envelope); err != nil {
		return nil, err
	}
	if resp.Leaderboard == nil {
		return nil, malformedErr(ActionGetFinanceLeaderboard, "missing leaderboard")
	}
	return *resp.Leaderboard, nil
}

// callObject decodes an object response into out and validates its envelope.
func (c *Client) callObject(ctx context.Context, req Request, out any, env *envelope) error {
	return c.do(ctx, req, func(body []byte) error {
		if err := json.Unmarshal(body, out); err != nil {
			return malformedErr(req.Action, err.Error())
		}
		if env.Success == nil {
			return malformedErr(req.Action, "missing success flag")
		}
		if !*env.Success {
			return &RejectedError{Action: req.Action, Message: env.Message}
		}
		return nil
	})
}

// do posts req and hands the body to decode, recording metrics and logs.
func (c *Client) do(ctx context.Context, req Request, decode func([]byte) error) error {
	start := time.Now()
	requestID := uuid.NewString()
	log := c.logger.With(logger.String("action", req.Action), logger.String("request_id", requestID))

	err := c.roundTrip(ctx, req, requestID, decode)

	elapsed := time.Since(start)
	outcome := outcomeOf(err)
	metrics.RecordRemoteCall(req.Action, outcome, float64(elapsed.Milliseconds()))
	if err != nil {
		if outcome != outcomeRejected {
			metrics.RecordErrorByComponent("remote", outcome)
		}
		log.Warn(ctx, "remote call failed", logger.String("outcome", outcome), logger.Duration("elapsed", elapsed), logger.Error(err))
		return err
	}
	log.Debug(ctx, "remote call completed", logger.Duration("elapsed", elapsed))
	return nil
}

func (c *Client) roundTrip(ctx context.Context, req Request, requestID string, decode func([]byte) error) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", req.Action, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return transportErr(req.Action, err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(requestIDHeader, requestID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return transportErr(req.Action, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return transportErr(req.Action, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return transportErr(req.Action, err)
	}
	if int64(len(body)) > c.maxBody {
		return malformedErr(req.Action, "response body too large")
	}
	return decode(body)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrRejected):
		return outcomeRejected
	case errors.Is(err, ErrMalformedResponse):
		return outcomeMalformed
	default:
		return outcomeTransport
	}
}
