package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pathmuseum/museum/internal/content"
)

type specimenRow struct {
	Key        string `json:"key"`
	Title      string `json:"title"`
	SpecimenID string `json:"specimen_id,omitempty"`
	Video      string `json:"video"`
	Model      string `json:"model"`
}

func newSpecimensCmd() *cobra.Command {
	var (
		file   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "specimens",
		Short: "List the specimen catalogue",
		Long: `Loads the specimen catalogue the server would serve and prints it.
Without --file the embedded catalogue is used. A file that fails to load
is reported the same way the server would report it at startup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				registry *content.Registry
				err      error
			)
			if file == "" {
				registry, err = content.Default()
			} else {
				registry, err = content.LoadFile(file)
			}
			if err != nil {
				return fmt.Errorf("load specimens: %w", err)
			}

			rows := make([]specimenRow, 0, registry.Len())
			for _, s := range registry.Specimens() {
				rows = append(rows, specimenRow{
					Key:        s.Key,
					Title:      s.Title,
					SpecimenID: s.SpecimenID,
					Video:      s.Video,
					Model:      s.Model,
				})
			}

			switch format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			case "table":
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "KEY\tTITLE\tID\tVIDEO\tMODEL")
				for _, r := range rows {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Key, r.Title, r.SpecimenID, r.Video, r.Model)
				}
				return tw.Flush()
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "specimen YAML file (defaults to the embedded catalogue)")
	cmd.Flags().StringVar(&format, "format", "table", "output format: table or json")

	return cmd
}
