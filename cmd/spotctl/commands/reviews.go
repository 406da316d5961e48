package commands

import (
	"fmt"

	"spotfinder/internal/detail"
	"spotfinder/internal/observability"
	contextutils "spotfinder/internal/utils"

	"github.com/spf13/cobra"
)

// ReviewCommands returns the review commands
func ReviewCommands(newClient ClientFactory, logger *observability.Logger) *cobra.Command {
	reviewsCmd := &cobra.Command{
		Use:   "reviews",
		Short: "Study spot review commands",
		Long: `Study spot review commands.

Available commands:
  list  - List the reviews of a study spot
  add   - Review a study spot`,
	}

	reviewsCmd.AddCommand(listReviewsCmd(newClient, logger))
	reviewsCmd.AddCommand(addReviewCmd(newClient, logger))

	return reviewsCmd
}

func listReviewsCmd(newClient ClientFactory, logger *observability.Logger) *cobra.Command {
	var (
		byQuery bool
		output  string
	)
	cmd := &cobra.Command{
		Use:   "list [spot-id]",
		Short: "List the reviews of a study spot",
		Long:  `List the reviews of a study spot. --query uses /reviews?studySpotId= instead of /study_spots/{id}/reviews.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client := newClient(logger)
			list := client.ListReviews
			if byQuery {
				list = client.ListReviewsByQuery
			}
			reviews, err := list(cmd.Context(), id)
			if err != nil {
				return contextutils.WrapErrorf(err, "failed to list reviews of study spot %d", id)
			}
			return printReviews(cmd.OutOrStdout(), output, reviews)
		},
	}
	cmd.Flags().BoolVar(&byQuery, "query", false, "list through the /reviews query endpoint")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json or yaml")
	return cmd
}

func addReviewCmd(newClient ClientFactory, logger *observability.Logger) *cobra.Command {
	form := detail.NewReviewForm()
	cmd := &cobra.Command{
		Use:   "add [spot-id]",
		Short: "Review a study spot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := form.Validate(); err != nil {
				return contextutils.WrapError(err, detail.MessageIncomplete)
			}
			created, err := newClient(logger).CreateReview(cmd.Context(), form.Request(id))
			if err != nil {
				return contextutils.WrapError(err, detail.MessageReviewFailed)
			}
			if created == nil {
				fmt.Fprintln(cmd.OutOrStdout(), detail.MessageReviewSubmitted)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (review %d)\n", detail.MessageReviewSubmitted, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "your name")
	cmd.Flags().IntVar(&form.Stars, "stars", form.Stars, "rating from 1 to 5")
	cmd.Flags().StringVar(&form.Text, "text", "", "review text")
	return cmd
}
