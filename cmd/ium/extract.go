package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cheminfo/filelist/internal/extract"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		overwrite     bool
		preserveTimes bool
		workers       int
		subroot       string
	)
	cmd := &cobra.Command{
		Use:   "extract <file|dir|url> <dir>",
		Short: "Write the files of a collection to a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.loadCollection(ctx, args[0])
			if err != nil {
				return err
			}
			if subroot != "" {
				if c, err = c.Subroot(subroot); err != nil {
					return err
				}
			}
			sink := extract.NewSink(args[1],
				extract.WithOverwrite(overwrite),
				extract.WithPreserveTimes(preserveTimes),
				extract.WithWorkers(workers),
			)
			n, err := sink.Collection(ctx, c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "extracted %d of %d files to %s\n", n, c.Len(), args[1])
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace existing files")
	cmd.Flags().BoolVar(&preserveTimes, "preserve-times", true, "set modification times from the collection")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent writes (0 = number of CPUs, -1 = serial)")
	cmd.Flags().StringVar(&subroot, "subroot", "", "only extract files below this path, relative to it")
	return cmd
}
