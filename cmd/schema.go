package cmd

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"stash/model"
)

// GenerateFolderSchema returns the JSON Schema of a folder file.
func GenerateFolderSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(uuid.UUID{}) {
				return &jsonschema.Schema{Type: "string", Format: "uuid"}
			}
			return nil
		},
	}

	schema := r.Reflect(&[]model.Folder{})
	schema.Title = "Stash Folder File"
	schema.Description = "Per-world list of ingredient folders (folders.json)."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the folder file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := GenerateFolderSchema()
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
