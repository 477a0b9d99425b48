package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/benvon/launch-coach/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	// These should never fail in normal operation, but log if they do
	if err := Validate.RegisterValidation("coaching_style", validateCoachingStyle); err != nil {
		panic(fmt.Sprintf("failed to register coaching_style validator: %v", err))
	}
	if err := Validate.RegisterValidation("nudge_frequency", validateNudgeFrequency); err != nil {
		panic(fmt.Sprintf("failed to register nudge_frequency validator: %v", err))
	}
	if err := Validate.RegisterValidation("content_depth", validateContentDepth); err != nil {
		panic(fmt.Sprintf("failed to register content_depth validator: %v", err))
	}
	if err := Validate.RegisterValidation("business_stage", validateBusinessStage); err != nil {
		panic(fmt.Sprintf("failed to register business_stage validator: %v", err))
	}
	if err := Validate.RegisterValidation("plan_status", validatePlanStatus); err != nil {
		panic(fmt.Sprintf("failed to register plan_status validator: %v", err))
	}
}

func validateCoachingStyle(fl validator.FieldLevel) bool {
	return ValidateCoachingStyle(fl.Field().String()) == nil
}

func validateNudgeFrequency(fl validator.FieldLevel) bool {
	return ValidateNudgeFrequency(fl.Field().String()) == nil
}

func validateContentDepth(fl validator.FieldLevel) bool {
	return ValidateContentDepth(fl.Field().String()) == nil
}

func validateBusinessStage(fl validator.FieldLevel) bool {
	return ValidateBusinessStage(fl.Field().String()) == nil
}

func validatePlanStatus(fl validator.FieldLevel) bool {
	return ValidatePlanStatus(fl.Field().String()) == nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateCoachingStyle validates a CoachingStyle string value
func ValidateCoachingStyle(value string) error {
	switch models.CoachingStyle(value) {
	case models.CoachingStyleDirect, models.CoachingStyleExplainWhy,
		models.CoachingStyleHandHolding, models.CoachingStyleChallenging:
		return nil
	default:
		return fmt.Errorf("invalid coaching_style: %s (must be 'direct', 'explain_why', 'hand_holding', or 'challenging')", value)
	}
}

// ValidateNudgeFrequency validates a NudgeFrequency string value
func ValidateNudgeFrequency(value string) error {
	switch models.NudgeFrequency(value) {
	case models.FrequencyDaily, models.FrequencyEveryFewDays,
		models.FrequencyWeekly, models.FrequencyOnRequest:
		return nil
	default:
		return fmt.Errorf("invalid nudge_frequency: %s (must be 'daily', 'every_few_days', 'weekly', or 'on_request')", value)
	}
}

// ValidateContentDepth validates a ContentDepth string value
func ValidateContentDepth(value string) error {
	switch models.ContentDepth(value) {
	case models.DepthEssential, models.DepthBalanced, models.DepthDeepDive:
		return nil
	default:
		return fmt.Errorf("invalid content_depth: %s (must be 'essential', 'balanced', or 'deep_dive')", value)
	}
}

// ValidateBusinessStage validates a BusinessStage string value
func ValidateBusinessStage(value string) error {
	switch models.BusinessStage(value) {
	case models.StageIdea, models.StageValidating, models.StageBuilding,
		models.StageEarlyCustomers, models.StageGrowing:
		return nil
	default:
		return fmt.Errorf("invalid business_stage: %s (must be 'just_an_idea', 'validating', 'building', 'early_customers', or 'growing')", value)
	}
}

// ValidatePlanStatus validates a PlanStatus string value
func ValidatePlanStatus(value string) error {
	switch models.PlanStatus(value) {
	case models.PlanStatusActive, models.PlanStatusCompleted, models.PlanStatusPaused:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'active', 'completed', or 'paused')", value)
	}
}
