package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mutsol.dev/pkg/mutsol/internal/domain"
	m "mutsol.dev/pkg/mutsol/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse a finished run's mutants",
		Long:  "Browse the mutants of a finished generation run from its output directory's report.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := effectiveRunConfig()
			if err != nil {
				return err
			}

			return engineFactory(cfg).View(context.Background(), domain.ViewArgs{
				OutDir:   m.Path(viper.GetString(outKey)),
				ShowDiff: viper.GetBool(diffKey),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
