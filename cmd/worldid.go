package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"stash/session"
	"stash/storage"
)

func newWorldIDCmd() *cobra.Command {
	var world worldFlags
	cmd := &cobra.Command{
		Use:   "worldid",
		Short: "Print the world id and folder file path for a world",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			id := storage.WorldID(world.info())
			path := storage.FolderFilePath(cfg.ConfigRoot(), session.DefaultNamespace, id)
			if cfg.Storage.Driver == storage.DriverSQLite {
				path = storage.FolderDBPath(cfg.ConfigRoot(), session.DefaultNamespace, id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	world.register(cmd)
	return cmd
}
