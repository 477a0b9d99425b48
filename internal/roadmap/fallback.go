package roadmap

import (
	"fmt"
	"math"

	"github.com/benvon/launch-coach/internal/models"
	"github.com/benvon/launch-coach/internal/timeline"
)

// skeletonTask is one hand-authored fallback task. Day offsets are authored
// at the 1.0 pacing baseline and scaled by the plan multiplier.
type skeletonTask struct {
	baseDay      int
	title        string
	description  string
	criteria     string
	timeEstimate string
	taskType     models.TaskType
	isMilestone  bool
}

// fallbackSkeleton is the deterministic plan used when the generative
// provider is unavailable. It keeps the founder moving through the same
// arc an AI-authored plan would: pitch, discovery, MVP, pricing, outreach,
// first sale.
var fallbackSkeleton = []skeletonTask{
	{1, "Write your one-sentence pitch",
		"Describe what you sell, who it is for, and why they would pay, in a single sentence you could say out loud to a stranger.",
		"You can deliver the pitch from memory and it takes under 20 seconds.",
		"1 hour", models.TaskTypeCreation, true},
	{3, "List 20 potential customers",
		"Name real people or companies who have the problem you solve. Pull from your network, communities, and directories.",
		"A spreadsheet with 20 rows, each with a name and a way to reach them.",
		"2 hours", models.TaskTypeResearch, false},
	{5, "Run 5 customer discovery conversations",
		"Talk to five people from your list. Ask about their problem and what they do about it today. Do not pitch yet.",
		"Notes from five conversations, each naming the person's current workaround.",
		"4 hours", models.TaskTypeOutreach, false},
	{8, "Summarize what you heard",
		"Read your discovery notes and write down the three most common pains and the words customers used for them.",
		"A one-page summary you could show a cofounder.",
		"1 hour", models.TaskTypeReview, false},
	{10, "Define your MVP",
		"Decide the smallest version of your offer that solves the top pain. Cut everything that is not needed for a first sale.",
		"A written scope: what is in, what is explicitly out, and how long it takes to deliver once.",
		"2 hours", models.TaskTypeCreation, true},
	{14, "Build or assemble the MVP",
		"Create the first deliverable version. Favor manual work and existing tools over building software.",
		"Something you could hand to a customer tomorrow.",
		"8 hours", models.TaskTypeCreation, false},
	{20, "Set your initial price",
		"Pick a price anchored to the value of solving the pain, not to your costs. Decide what is included at that price.",
		"A price and a one-paragraph justification you believe.",
		"1 hour", models.TaskTypeAction, true},
	{24, "Prepare your outreach message",
		"Draft a short, personal message that names the pain in the customer's own words and offers your MVP.",
		"A message template under 120 words with one clear ask.",
		"1 hour", models.TaskTypeCreation, false},
	{28, "Send your first 10 outreach messages",
		"Contact ten people from your customer list with the message. Personalize the first line of each.",
		"Ten messages sent and logged with a follow-up date.",
		"2 hours", models.TaskTypeOutreach, true},
	{32, "Follow up and book conversations",
		"Follow up with everyone who has not replied after three days. Book calls with anyone interested.",
		"Every non-responder has received exactly one follow-up.",
		"2 hours", models.TaskTypeOutreach, false},
	{38, "Pitch and ask for the sale",
		"Walk interested prospects through the MVP and ask them to buy. Silence after the ask; let them answer.",
		"You have made a direct ask to at least three prospects.",
		"3 hours", models.TaskTypeAction, false},
	{42, "Close your first sale",
		"Convert the warmest prospect. If nobody buys, collect one concrete objection per prospect and adjust the offer.",
		"Money received, or a written list of objections to address.",
		"2 hours", models.TaskTypeMilestone, true},
	{49, "Review and plan the next cycle",
		"Look at what worked across outreach and delivery. Double down on the channel that produced conversations.",
		"A written decision on the next 10 customers to target.",
		"1 hour", models.TaskTypeReview, false},
}

var fallbackPhases = []models.Phase{
	{Number: 1, Title: "Foundation", WeekStart: 1, WeekEnd: 1,
		Description: "Sharpen the pitch and find real prospects."},
	{Number: 2, Title: "Validation", WeekStart: 2, WeekEnd: 2,
		Description: "Talk to customers before building anything."},
	{Number: 3, Title: "Build", WeekStart: 3, WeekEnd: 3,
		Description: "Scope and assemble the smallest sellable offer."},
	{Number: 4, Title: "Launch", WeekStart: 4, WeekEnd: 6,
		Description: "Price it, pitch it, and close the first sale."},
}

// FallbackRoadmap builds the deterministic roadmap. Day offsets scale with
// the pacing multiplier so the plan still spans the computed duration, and
// every task satisfies the [1, totalDays] invariant.
func FallbackRoadmap(intake models.IntakeProfile, multiplier float64, totalWeeks, totalDays, startPhase int) models.Roadmap {
	tasks := make([]models.Task, 0, len(fallbackSkeleton))
	var milestones []models.Milestone

	for i, st := range fallbackSkeleton {
		day := scaleDay(st.baseDay, multiplier, totalDays)
		task := models.Task{
			ID:           fmt.Sprintf("task-%d", i+1),
			Day:          day,
			Week:         timeline.WeekForDay(day),
			Phase:        phaseForWeek(timeline.WeekForDay(day), multiplier),
			Title:        st.title,
			Description:  st.description,
			Criteria:     st.criteria,
			TimeEstimate: st.timeEstimate,
			Type:         st.taskType,
			IsMilestone:  st.isMilestone,
		}
		tasks = append(tasks, task)
		if st.isMilestone {
			milestones = append(milestones, models.Milestone{Day: day, Title: st.title})
		}
	}

	phases := make([]models.Phase, 0, len(fallbackPhases))
	for _, p := range fallbackPhases {
		scaled := p
		scaled.WeekStart = scaleWeek(p.WeekStart, multiplier, totalWeeks)
		scaled.WeekEnd = scaleWeek(p.WeekEnd, multiplier, totalWeeks)
		if scaled.Number >= startPhase {
			phases = append(phases, scaled)
		}
	}
	if len(phases) == 0 {
		last := fallbackPhases[len(fallbackPhases)-1]
		last.WeekStart = scaleWeek(last.WeekStart, multiplier, totalWeeks)
		last.WeekEnd = scaleWeek(last.WeekEnd, multiplier, totalWeeks)
		phases = append(phases, last)
	}

	return models.Roadmap{
		Tasks:      tasks,
		Phases:     phases,
		Milestones: milestones,
	}
}

func scaleDay(baseDay int, multiplier float64, totalDays int) int {
	day := int(math.Round(float64(baseDay) * multiplier))
	if day < 1 {
		day = 1
	}
	if day > totalDays {
		day = totalDays
	}
	return day
}

func scaleWeek(baseWeek int, multiplier float64, totalWeeks int) int {
	week := int(math.Round(float64(baseWeek) * multiplier))
	if week < 1 {
		week = 1
	}
	if week > totalWeeks {
		week = totalWeeks
	}
	return week
}

func phaseForWeek(week int, multiplier float64) int {
	for _, p := range fallbackPhases {
		start := int(math.Round(float64(p.WeekStart) * multiplier))
		end := int(math.Round(float64(p.WeekEnd) * multiplier))
		if start < 1 {
			start = 1
		}
		if week >= start && week <= end {
			return p.Number
		}
	}
	return fallbackPhases[len(fallbackPhases)-1].Number
}
