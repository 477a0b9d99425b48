package models

// CoachingStyle selects the tone used when composing nudge messages.
// It never affects scheduling.
type CoachingStyle string

const (
	CoachingStyleDirect      CoachingStyle = "direct"
	CoachingStyleExplainWhy  CoachingStyle = "explain_why"
	CoachingStyleHandHolding CoachingStyle = "hand_holding"
	CoachingStyleChallenging CoachingStyle = "challenging"

	// DefaultCoachingStyle is used when an unknown style is encountered.
	DefaultCoachingStyle = CoachingStyleDirect
)

// NudgeFrequency is the user-chosen notification cadence.
type NudgeFrequency string

const (
	FrequencyDaily        NudgeFrequency = "daily"
	FrequencyEveryFewDays NudgeFrequency = "every_few_days"
	FrequencyWeekly       NudgeFrequency = "weekly"
	FrequencyOnRequest    NudgeFrequency = "on_request"

	// DefaultFrequency is used when an unknown frequency is encountered.
	DefaultFrequency = FrequencyWeekly
)

// ContentDepth controls how much task detail appears in a composed message.
type ContentDepth string

const (
	DepthEssential ContentDepth = "essential"
	DepthBalanced  ContentDepth = "balanced"
	DepthDeepDive  ContentDepth = "deep_dive"

	// DefaultDepth is used when an unknown depth is encountered.
	DefaultDepth = DepthBalanced
)

// BusinessStage describes how far along the user's business is at intake time.
type BusinessStage string

const (
	StageIdea           BusinessStage = "just_an_idea"
	StageValidating     BusinessStage = "validating"
	StageBuilding       BusinessStage = "building"
	StageEarlyCustomers BusinessStage = "early_customers"
	StageGrowing        BusinessStage = "growing"

	// DefaultStage is used when an unknown stage is encountered.
	DefaultStage = StageIdea
)

// IntakeProfile captures the user's intake answers. It is written once by the
// intake flow and read-only afterward; plans copy the preference fields so the
// user can change them without touching the original intake.
type IntakeProfile struct {
	BusinessDescription string        `json:"business_description" validate:"required,min=1,max=5000"`
	BusinessType        string        `json:"business_type" validate:"required,min=1,max=200"`
	BusinessStage       BusinessStage `json:"business_stage" validate:"required,business_stage"`

	CustomerDescription string `json:"customer_description" validate:"max=5000"`
	Industry            string `json:"industry" validate:"max=200"`

	HoursPerWeek string   `json:"hours_per_week" validate:"required,max=20"`
	Budget       string   `json:"budget" validate:"max=200"`
	Strengths    []string `json:"strengths" validate:"max=20,dive,max=200"`
	BiggestGap   string   `json:"biggest_gap" validate:"max=2000"`

	TimelineTarget string `json:"timeline_target" validate:"max=200"`
	RevenueTarget  string `json:"revenue_target" validate:"max=200"`

	CoachingStyle  CoachingStyle  `json:"coaching_style" validate:"required,coaching_style"`
	NudgeFrequency NudgeFrequency `json:"nudge_frequency" validate:"required,nudge_frequency"`
	ContentDepth   ContentDepth   `json:"content_depth" validate:"required,content_depth"`
}
