package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newLsCmd(a *app) *cobra.Command {
	var (
		long    bool
		sources bool
		subroot string
	)
	cmd := &cobra.Command{
		Use:   "ls <file|dir|url>",
		Short: "List the files or sources of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCollection(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if subroot != "" {
				if c, err = c.Subroot(subroot); err != nil {
					return err
				}
			}
			c.Alphabetical()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if sources {
				for _, s := range c.Sources() {
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.UUID, s.RelativePath, s.Size, s.BaseURL)
				}
				return w.Flush()
			}
			for f := range c.All() {
				if !long {
					fmt.Fprintln(w, f.RelativePath)
					continue
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", f.Size, formatMillis(f.LastModified), f.SourceUUID, f.RelativePath)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "show size, modification time and source")
	cmd.Flags().BoolVar(&sources, "sources", false, "list sources instead of files")
	cmd.Flags().StringVar(&subroot, "subroot", "", "only list files below this path, relative to it")
	return cmd
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
