package commands

import (
	"fmt"
	"sort"
	"strings"

	"spotfinder/internal/config"
	"spotfinder/internal/models"
	"spotfinder/internal/observability"
	"spotfinder/internal/preferences"
	"spotfinder/internal/survey"
	contextutils "spotfinder/internal/utils"

	"github.com/spf13/cobra"
)

// RecommendCommand returns the command asking the backend for recommendations
func RecommendCommand(newClient ClientFactory, logger *observability.Logger, cfg *config.Config) *cobra.Command {
	var (
		answers map[string]string
		save    bool
		output  string
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Get study spot recommendations",
		Long: fmt.Sprintf(`Get study spot recommendations for a set of survey answers.

Answers are given as --answer key=value; without any, the saved preferences
of the terminal client are used. Keys: %s.`, strings.Join(models.SurveyKeys, ", ")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := preferencesStore(cfg, logger)
			if err != nil {
				return err
			}

			prefs := store.Load(ctx)
			if len(answers) > 0 {
				if prefs, err = surveyResponse(answers); err != nil {
					return err
				}
			}
			if !prefs.HasAnswers() {
				return contextutils.WrapError(contextutils.ErrMissingRequired, "no saved preferences; pass --answer key=value or take the survey in spotctl tui")
			}

			if save {
				if err := store.Save(ctx, prefs); err != nil {
					return contextutils.WrapError(err, "failed to save preferences")
				}
			}

			spots, err := newClient(logger).GetRecommendations(ctx, prefs)
			if err != nil {
				return contextutils.WrapError(err, "failed to get recommendations")
			}
			if len(spots) == 0 && output == outputTable {
				fmt.Fprintln(cmd.OutOrStdout(), "No recommendations.")
				return nil
			}
			return printSpots(cmd.OutOrStdout(), output, spots)
		},
	}
	cmd.Flags().StringToStringVar(&answers, "answer", nil, "survey answer as key=value (repeatable)")
	cmd.Flags().BoolVar(&save, "save", false, "store the answers as the saved preferences")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json or yaml")
	return cmd
}

// surveyResponse checks every key and value against the questionnaire
func surveyResponse(answers map[string]string) (models.SurveyResponse, error) {
	prefs := models.NewSurveyResponse()
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		q, ok := questionFor(k)
		if !ok {
			return nil, contextutils.WrapErrorf(contextutils.ErrInvalidInput, "unknown survey key %q", k)
		}
		if !q.HasOption(answers[k]) {
			return nil, contextutils.WrapErrorf(contextutils.ErrInvalidInput, "%q is not an option for %s (choose one of: %s)",
				answers[k], k, strings.Join(q.Options, ", "))
		}
		prefs[k] = answers[k]
	}
	return prefs, nil
}

func questionFor(key string) (survey.Question, bool) {
	for _, q := range survey.Questions {
		if q.Key == key {
			return q, true
		}
	}
	return survey.Question{}, false
}

// preferencesStore opens the terminal client's preference file
func preferencesStore(cfg *config.Config, logger *observability.Logger) (*preferences.FileStore, error) {
	path := cfg.Survey.PreferencesFile
	if path == "" {
		var err error
		if path, err = preferences.DefaultFilePath(); err != nil {
			return nil, err
		}
	}
	return preferences.NewFileStore(path, cfg.Survey.CookieTTLDays, logger), nil
}
