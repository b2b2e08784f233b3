package coach

import (
	"fmt"
	"strings"
)

var topicOrder = []Topic{
	TopicBMI,
	TopicWeightLoss,
	TopicNutrition,
	TopicWorkout,
	TopicRecovery,
	TopicMotivation,
}

var keywords = map[Topic][]string{
	TopicBMI:        {"bmi", "body mass"},
	TopicWeightLoss: {"weight", "lose", "losing", "loss", "fat", "plateau", "scale", "kg", "slim"},
	TopicNutrition:  {"diet", "eat", "food", "meal", "protein", "carb", "calorie", "nutrition", "macro", "snack", "water", "drink"},
	TopicWorkout:    {"workout", "exercise", "train", "gym", "cardio", "strength", "run", "walk", "squat", "push", "hiit", "yoga", "steps"},
	TopicRecovery:   {"sleep", "rest", "recover", "sore", "injury", "stretch", "pain"},
	TopicMotivation: {"motivat", "tired", "give up", "lazy", "stuck", "rank", "goal", "help", "tip", "advice", "coach"},
}

// Route picks the topic with the most keyword hits; ties go to the earlier
// topic. A query without any hit is off topic.
func Route(query string) Topic {
	q := strings.ToLower(query)
	best, bestHits := TopicOffTopic, 0
	for _, topic := range topicOrder {
		hits := 0
		for _, kw := range keywords[topic] {
			if strings.Contains(q, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = topic, hits
		}
	}
	return best
}

func scripted(topic Topic, pc Context) string {
	rank, loss, days := orUnknown(pc.Rank), orUnknown(pc.TotalLoss), orUnknown(pc.DaysRemaining)
	switch topic {
	case TopicBMI:
		return "BMI is a rough guide, not a verdict 📏. Use the **BMI calculator** for your ideal range, then focus on steady weekly progress."
	case TopicWeightLoss:
		return fmt.Sprintf("You're at **%s** total loss and ranked **%s** 📉. Aim for 0.5–1 kg a week with a moderate calorie deficit and log every Monday weigh-in.", loss, rank)
	case TopicNutrition:
		return "Build every plate around protein and vegetables 🥗. Keep carbs whole-grain, drink plenty of water, and watch liquid calories."
	case TopicWorkout:
		return "Mix 3 strength sessions with 150+ minutes of cardio a week 🏋️. Progress a little each week and keep your daily steps high."
	case TopicRecovery:
		return "Recovery is where progress sticks 😴. Sleep 7–9 hours, stretch after sessions, and take a rest day when you're sore."
	default:
		return fmt.Sprintf("You're ranked **%s** with **%s** days to go 🔥. Small wins every day add up, one weigh-in at a time!", rank, days)
	}
}
