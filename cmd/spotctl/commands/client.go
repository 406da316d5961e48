// Package commands holds the spotctl sub-commands.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"spotfinder/internal/models"
	"spotfinder/internal/observability"
	contextutils "spotfinder/internal/utils"

	"gopkg.in/yaml.v3"
)

// SpotAPI is the part of the backend client the commands use
type SpotAPI interface {
	ListStudySpots(ctx context.Context) ([]models.StudySpot, error)
	GetStudySpot(ctx context.Context, id int) (*models.StudySpot, error)
	CreateStudySpot(ctx context.Context, spot models.StudySpot) (*models.StudySpot, error)
	UpdateStudySpot(ctx context.Context, id int, patch models.SpotPatch) (*models.StudySpot, error)
	DeleteStudySpot(ctx context.Context, id int) error
	GetRecommendations(ctx context.Context, prefs models.SurveyResponse) ([]models.StudySpot, error)
	ListReviews(ctx context.Context, spotID int) ([]models.Review, error)
	ListReviewsByQuery(ctx context.Context, spotID int) ([]models.Review, error)
	CreateReview(ctx context.Context, review models.NewReview) (*models.Review, error)
}

// ClientFactory builds the backend client once flags are parsed
type ClientFactory func(logger *observability.Logger) SpotAPI

// Output formats
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, contextutils.WrapErrorf(contextutils.ErrInvalidInput, "invalid spot id %q", arg)
	}
	return id, nil
}

// printStructured writes v as JSON or YAML
func printStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return contextutils.WrapErrorf(contextutils.ErrInvalidInput, "unknown output format %q", format)
	}
}

func printSpots(w io.Writer, format string, spots []models.StudySpot) error {
	if format != outputTable {
		return printStructured(w, format, spots)
	}
	fmt.Fprintf(w, "%-5s %-30s %-8s %-10s %-8s %-12s %-10s %s\n", "ID", "Location", "Busyness", "Noise", "Power", "Food", "Lighting", "Match")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, s := range spots {
		match := ""
		if s.MatchScore != nil {
			match = fmt.Sprintf("%d%%", *s.MatchScore)
		}
		fmt.Fprintf(w, "%-5d %-30s %-8s %-10s %-8s %-12s %-10s %s\n",
			s.ID, s.DisplayName(), s.BusynessLabel(), orNA(s.NoiseLevel), models.PowerLabel(s.PowerOptions),
			orNA(s.NearbyFoodDrinkOptions), orNA(s.NaturalLighting), match)
	}
	return nil
}

func printReviews(w io.Writer, format string, reviews []models.Review) error {
	if format != outputTable {
		return printStructured(w, format, reviews)
	}
	if len(reviews) == 0 {
		fmt.Fprintln(w, "No reviews yet.")
		return nil
	}
	for _, r := range reviews {
		stars := strings.Repeat("★", models.ClampStars(r.Stars)) + strings.Repeat("☆", models.MaxStars-models.ClampStars(r.Stars))
		fmt.Fprintf(w, "%s %s %s\n  %s\n", r.Name, stars, r.CreatedAt.Display(), r.Review)
	}
	return nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
