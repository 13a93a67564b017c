package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"trips-club/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// TripDraft is a proposal as produced by the external draft generator or
// typed in by an admin. It is validated before anything is persisted.
type TripDraft struct {
	Title         string                `json:"title" validate:"required,min=3,max=300"`
	Summary       string                `json:"summary" validate:"max=1000"`
	Description   string                `json:"description" validate:"required"`
	Destination   string                `json:"destination" validate:"required,max=200"`
	StartDate     *time.Time            `json:"start_date"`
	EndDate       *time.Time            `json:"end_date"`
	PriceCents    int64                 `json:"price_cents" validate:"gte=0"`
	HeroImageURL  string                `json:"hero_image_url" validate:"omitempty,url,max=500"`
	ViabilityRule *models.ViabilityRule `json:"viability_rule"`
}

// ValidateDraft checks a draft and returns an error wrapping ErrValidation
// that names every offending field
func ValidateDraft(draft *TripDraft) error {
	if draft == nil {
		return fmt.Errorf("%w: draft is required", ErrValidation)
	}

	var problems []string
	if err := validate.Struct(draft); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}

	if strings.TrimSpace(draft.Title) == "" && len(problems) == 0 {
		problems = append(problems, "Title is blank")
	}
	if draft.StartDate != nil && draft.EndDate != nil && draft.EndDate.Before(*draft.StartDate) {
		problems = append(problems, "EndDate is before StartDate")
	}
	if rule := draft.ViabilityRule; rule != nil {
		if rule.MinInterested < 0 {
			problems = append(problems, "ViabilityRule.MinInterested is negative")
		}
		if rule.MinVotes != nil && *rule.MinVotes < 0 {
			problems = append(problems, "ViabilityRule.MinVotes is negative")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}
