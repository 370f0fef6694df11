package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cheminfo/filelist"
)

func newZipCmd(a *app) *cobra.Command {
	var (
		out  string
		zstd bool
	)
	cmd := &cobra.Command{
		Use:   "zip <file|dir|url> -o <file.zip>",
		Short: "Write the files of a collection into a plain zip archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCollection(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var opts []filelist.ZipOption
			if zstd {
				opts = append(opts, filelist.WithZstd())
			}
			data, err := c.ToZip(cmd.Context(), opts...)
			if err != nil {
				return err
			}
			if err := writeOutput(out, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d files to %s (%d bytes)\n", c.Len(), out, len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output zip file")
	cmd.Flags().BoolVar(&zstd, "zstd", false, "compress entries with zstd instead of deflate")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
