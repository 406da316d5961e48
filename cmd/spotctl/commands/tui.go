package commands

import (
	"os"
	"path/filepath"

	"spotfinder/internal/config"
	"spotfinder/internal/observability"
	"spotfinder/internal/tui"
	contextutils "spotfinder/internal/utils"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// TUICommand returns the command starting the interactive terminal client
func TUICommand(newClient ClientFactory, cfg *config.Config) *cobra.Command {
	var (
		logFile  string
		logLevel string
		style    string
	)
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse study spots interactively",
		Long: `Browse study spots interactively: the dashboard with filters and
recommendations, the preference survey, spot details with reviews, and a
campus map. Logs go to a file since the terminal is in use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return contextutils.WrapError(contextutils.ErrInvalidInput, "spotctl tui needs an interactive terminal")
			}

			logger, err := observability.NewFileLogger(logFile, observability.ParseLevel(logLevel))
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			store, err := preferencesStore(cfg, logger)
			if err != nil {
				return err
			}
			logger.Info(cmd.Context(), "Starting terminal client", map[string]interface{}{
				"api":         cfg.API.BaseURL,
				"preferences": store.Path(),
			})

			return tui.Run(cmd.Context(), tui.Options{
				Client:        newClient(logger),
				Store:         store,
				Config:        cfg,
				Logger:        logger,
				MarkdownStyle: style,
			})
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", filepath.Join(os.TempDir(), "spotctl.log"), "where the terminal client writes its log")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	cmd.Flags().StringVar(&style, "style", "dark", "review text style: dark, light or notty")
	return cmd
}
