// Package coach answers fitness questions with short scripted replies that
// carry the participant's current standing.
package coach

import (
	"context"
	"fmt"
	"strings"
)

// Fixed replies.
const (
	OffTopicReply = "I'm your fitness coach — ask me about workouts, nutrition, weight loss, or motivation! 💪"
	unknownValue  = "--"
)

// Topic is the subject a query was routed to.
type Topic string

// Topics.
const (
	TopicWorkout    Topic = "workout"
	TopicNutrition  Topic = "nutrition"
	TopicWeightLoss Topic = "weight_loss"
	TopicBMI        Topic = "bmi"
	TopicRecovery   Topic = "recovery"
	TopicMotivation Topic = "motivation"
	TopicOffTopic   Topic = "off_topic"
)

// Context is what the coach knows about the asking participant.
type Context struct {
	User          string `json:"user"`
	Rank          string `json:"rank"`
	TotalLoss     string `json:"total_loss"`
	DaysRemaining string `json:"days_remaining"`
}

// Line renders the context line shown above every reply.
func (c Context) Line() string {
	return fmt.Sprintf("User: %s | Rank: %s | Total Loss: %s | Days Remaining: %s",
		orUnknown(c.User), orUnknown(c.Rank), orUnknown(c.TotalLoss), orUnknown(c.DaysRemaining))
}

// Reply is one coach answer. Text is markdown.
type Reply struct {
	Topic   Topic  `json:"topic"`
	Query   string `json:"query"`
	Text    string `json:"text"`
	Context string `json:"context"`
}

// Coach routes queries to topics and answers them.
type Coach struct{}

// New creates a coach.
func New() *Coach {
	return &Coach{}
}

// Reply answers query for the participant described by pc.
func (c *Coach) Reply(_ context.Context, pc Context, query string) (Reply, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Reply{}, ErrEmptyQuery
	}

	out := Reply{Query: EscapeHTML(query), Context: pc.Line()}
	out.Topic = Route(query)
	if out.Topic == TopicOffTopic {
		out.Text = OffTopicReply
		return out, nil
	}

	out.Text = scripted(out.Topic, pc)
	return out, nil
}

// EscapeHTML escapes the characters that could open markup in user text.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknownValue
	}
	return s
}
