package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mutsol.dev/pkg/mutsol/internal/domain"
	m "mutsol.dev/pkg/mutsol/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List source files and mutation point counts",
		Long:  listLongDescription,
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := effectiveRunConfig()
			if err != nil {
				return err
			}

			paths := parsePaths(args)
			if len(paths) == 0 {
				paths = []m.Path{"."}
			}

			return engineFactory(cfg).List(context.Background(), domain.ListArgs{
				Paths:   paths,
				Exclude: viper.GetStringSlice(excludeKey),
				Config:  cfg,
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
