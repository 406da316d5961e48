package commands

import (
	"fmt"
	"strings"

	"spotfinder/internal/models"
	"spotfinder/internal/observability"
	contextutils "spotfinder/internal/utils"

	"github.com/spf13/cobra"
)

// SpotCommands returns the study spot management commands
func SpotCommands(newClient ClientFactory, logger *observability.Logger) *cobra.Command {
	spotsCmd := &cobra.Command{
		Use:   "spots",
		Short: "Study spot management commands",
		Long: `Study spot management commands.

Available commands:
  list    - List all study spots
  get     - Show one study spot
  create  - Create a study spot
  update  - Change fields of a study spot
  delete  - Delete a study spot`,
	}

	spotsCmd.AddCommand(listSpotsCmd(newClient, logger))
	spotsCmd.AddCommand(getSpotCmd(newClient, logger))
	spotsCmd.AddCommand(createSpotCmd(newClient, logger))
	spotsCmd.AddCommand(updateSpotCmd(newClient, logger))
	spotsCmd.AddCommand(deleteSpotCmd(newClient, logger))

	return spotsCmd
}

func listSpotsCmd(newClient ClientFactory, logger *observability.Logger) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all study spots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spots, err := newClient(logger).ListStudySpots(cmd.Context())
			if err != nil {
				return contextutils.WrapError(err, "failed to list study spots")
			}
			return printSpots(cmd.OutOrStdout(), output, spots)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json or yaml")
	return cmd
}

func getSpotCmd(newClient ClientFactory, logger *observability.Logger) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show one study spot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			spot, err := newClient(logger).GetStudySpot(cmd.Context(), id)
			if err != nil {
				return contextutils.WrapErrorf(err, "failed to get study spot %d", id)
			}
			if output == outputTable {
				output = outputYAML
			}
			return printStructured(cmd.OutOrStdout(), output, spot)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "output format: json or yaml")
	return cmd
}

// spotFlags are the editable fields of a spot
type spotFlags struct {
	location string
	lat, lng float64
	busyness int
	noise    string
	power    string
	food     string
	lighting string
}

func (f *spotFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.location, "location", "", "location name")
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&f.lng, "lng", 0, "longitude")
	cmd.Flags().IntVar(&f.busyness, "busyness", 0, fmt.Sprintf("busyness estimate (%d-%d)", models.MinBusyness, models.MaxBusyness))
	cmd.Flags().StringVar(&f.noise, "noise", "", "noise level")
	cmd.Flags().StringVar(&f.power, "power", "", "power outlets: Y, N or Limited")
	cmd.Flags().StringVar(&f.food, "food", "", "nearby food and drink")
	cmd.Flags().StringVar(&f.lighting, "lighting", "", "natural lighting")
}

func (f *spotFlags) validateBusyness() error {
	if f.busyness < int(models.MinBusyness) || f.busyness > int(models.MaxBusyness) {
		return contextutils.WrapErrorf(contextutils.ErrInvalidInput, "busyness must be between %d and %d", models.MinBusyness, models.MaxBusyness)
	}
	return nil
}

func createSpotCmd(newClient ClientFactory, logger *observability.Logger) *cobra.Command {
	var f spotFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a study spot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(f.location) == "" {
				return contextutils.WrapError(contextutils.ErrMissingRequired, "--location is required")
			}
			spot := models.StudySpot{
				Location:               strings.TrimSpace(f.location),
				NoiseLevel:             f.noise,
				PowerOptions:           f.power,
				NearbyFoodDrinkOptions: f.food,
				NaturalLighting:        f.lighting,
			}
			// coordinates are sent only as a pair
			if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
				spot.Latitude, spot.Longitude = &f.lat, &f.lng
			}
			if cmd.Flags().Changed("busyness") {
				if err := f.validateBusyness(); err != nil {
					return err
				}
				spot.BusynessEstimate = models.NewBusyness(f.busyness)
			}

			created, err := newClient(logger).CreateStudySpot(cmd.Context(), spot)
			if err != nil {
				return contextutils.WrapError(err, "failed to create study spot")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created study spot %d (%s)\n", created.ID, created.DisplayName())
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func updateSpotCmd(newClient ClientFactory, logger *observability.Logger) *cobra.Command {
	var f spotFlags
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Change fields of a study spot",
		Long:  `Change fields of a study spot. Only the flags that are given are sent.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var patch models.SpotPatch
			changed := cmd.Flags().Changed
			if changed("location") {
				patch.Location = &f.location
			}
			if changed("lat") {
				patch.Latitude = &f.lat
			}
			if changed("lng") {
				patch.Longitude = &f.lng
			}
			if changed("busyness") {
				if err := f.validateBusyness(); err != nil {
					return err
				}
				patch.BusynessEstimate = models.NewBusyness(f.busyness)
			}
			if changed("noise") {
				patch.NoiseLevel = &f.noise
			}
			if changed("power") {
				patch.PowerOptions = &f.power
			}
			if changed("food") {
				patch.NearbyFoodDrinkOptions = &f.food
			}
			if changed("lighting") {
				patch.NaturalLighting = &f.lighting
			}
			if patch == (models.SpotPatch{}) {
				return contextutils.WrapError(contextutils.ErrMissingRequired, "nothing to update")
			}

			updated, err := newClient(logger).UpdateStudySpot(cmd.Context(), id, patch)
			if err != nil {
				return contextutils.WrapErrorf(err, "failed to update study spot %d", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated study spot %d (%s)\n", updated.ID, updated.DisplayName())
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func deleteSpotCmd(newClient ClientFactory, logger *observability.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a study spot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := newClient(logger).DeleteStudySpot(cmd.Context(), id); err != nil {
				return contextutils.WrapErrorf(err, "failed to delete study spot %d", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted study spot %d\n", id)
			return nil
		},
	}
}
