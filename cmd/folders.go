package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"stash/model"
	"stash/session"
)

func newFoldersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "Inspect, export and import a world's folders",
	}
	cmd.AddCommand(newFoldersListCmd(), newFoldersExportCmd(), newFoldersImportCmd())
	return cmd
}

// openWorld joins a world without any recipe viewer, for offline edits.
func openWorld(world worldFlags) (*session.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return session.Join(session.Options{
		ConfigRoot:    cfg.ConfigRoot(),
		World:         world.info(),
		Driver:        cfg.Storage.Driver,
		WriteAttempts: cfg.Storage.WriteAttempts,
	})
}

func newFoldersListCmd() *cobra.Command {
	var world worldFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List folders and their ingredients",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openWorld(world)
			if err != nil {
				return err
			}
			defer sess.Leave()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s (%s)\n", sess.WorldID, sess.Store.Location())
			for _, f := range sess.Store.Folders() {
				marker := " "
				if f.Active {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s (%d)\n", marker, f.Name, len(f.Ingredients))
				for _, ref := range f.Ingredients {
					fmt.Fprintf(out, "    %s\n", ref)
				}
			}
			return nil
		},
	}
	world.register(cmd)
	return cmd
}

func encodeFolders(w io.Writer, folders []model.Folder, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(folders)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(folders); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (json or yaml)", format)
	}
}

func decodeFolders(data []byte, format string) ([]model.Folder, error) {
	var folders []model.Folder
	var err error
	switch strings.ToLower(format) {
	case "json":
		err = json.Unmarshal(data, &folders)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &folders)
	default:
		return nil, fmt.Errorf("unknown format %q (json or yaml)", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse folders: %w", err)
	}
	return folders, nil
}

// formatFor guesses the format from a file extension.
func formatFor(path, flag string) string {
	if flag != "" {
		return flag
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func newFoldersExportCmd() *cobra.Command {
	var (
		world  worldFlags
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the folders as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openWorld(world)
			if err != nil {
				return err
			}
			defer sess.Leave()

			if output == "" || output == "-" {
				return encodeFolders(cmd.OutOrStdout(), sess.Store.Folders(), formatFor("", format))
			}
			f, err := os.OpenFile(output, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			defer f.Close()
			if err := encodeFolders(f, sess.Store.Folders(), formatFor(output, format)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d folders to %s\n", sess.Store.Len(), output)
			return nil
		},
	}
	world.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml (default from the file extension, else json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func newFoldersImportCmd() *cobra.Command {
	var (
		world  worldFlags
		format string
		merge  bool
	)
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace (or merge into) the folders from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}
			imported, err := decodeFolders(data, formatFor(args[0], format))
			if err != nil {
				return err
			}

			sess, err := openWorld(world)
			if err != nil {
				return err
			}
			defer sess.Leave()

			folders := imported
			if merge {
				folders = mergeFolders(sess.Store.Folders(), imported)
			}
			if err := sess.Store.Replace(folders); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d folders into %s\n", len(imported), sess.WorldID)
			return nil
		},
	}
	world.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml (default from the file extension)")
	cmd.Flags().BoolVar(&merge, "merge", false, "Keep existing folders; imported folders with the same id replace them")
	return cmd
}

func mergeFolders(existing, imported []model.Folder) []model.Folder {
	out := make([]model.Folder, 0, len(existing)+len(imported))
	index := make(map[uuid.UUID]int, len(existing))
	for _, f := range existing {
		index[f.ID] = len(out)
		out = append(out, f)
	}
	for _, f := range imported {
		if i, ok := index[f.ID]; ok {
			out[i] = f
			continue
		}
		out = append(out, f)
	}
	return out
}
