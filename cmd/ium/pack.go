package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cheminfo/filelist"
)

func newPackCmd(a *app) *cobra.Command {
	var (
		out    string
		noData bool
		flat   bool
	)
	cmd := &cobra.Command{
		Use:   "pack <path>... -o <file.ium>",
		Short: "Pack files and directories into an IUM container",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := filelist.New(a.collectionOptions()...)
			for _, p := range args {
				if err := c.AppendPath(ctx, p, filelist.WithKeepBasename(!flat)); err != nil {
					return err
				}
			}
			data, err := c.ToIum(ctx,
				filelist.WithMimetype(a.mimetype),
				filelist.WithIncludeData(!noData),
			)
			if err != nil {
				return err
			}
			if err := writeOutput(out, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "packed %d files from %d sources into %s (%d bytes)\n",
				c.Len(), len(c.Sources()), out, len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output IUM file")
	cmd.Flags().BoolVar(&noData, "no-data", false, "store only the manifest, without file contents")
	cmd.Flags().BoolVar(&flat, "flat", false, "drop the directory basename from relative paths")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
