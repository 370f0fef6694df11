package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cheminfo/filelist"
)

func newMergeCmd(a *app) *cobra.Command {
	var (
		out      string
		subPath  string
		strategy string
	)
	cmd := &cobra.Command{
		Use:   "merge <input>... -o <file.ium>",
		Short: "Merge several collections into one IUM container",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := parseStrategy(strategy)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			merged := filelist.New(a.collectionOptions()...)
			for _, input := range args {
				c, err := a.loadCollection(ctx, input)
				if err != nil {
					return err
				}
				err = merged.AppendCollection(c, subPath,
					filelist.WithMergeStrategy(s),
					filelist.WithMergeLogger(a.logger),
				)
				if err != nil {
					return fmt.Errorf("merge %s: %w", input, err)
				}
			}
			data, err := merged.ToIum(ctx, filelist.WithMimetype(a.mimetype))
			if err != nil {
				return err
			}
			if err := writeOutput(out, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "merged %d files from %d sources into %s\n",
				merged.Len(), len(merged.Sources()), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output IUM file")
	cmd.Flags().StringVar(&subPath, "sub-path", "", "prefix added to every merged path")
	cmd.Flags().StringVar(&strategy, "strategy", string(filelist.MergeError), "collision strategy (error, ignore-similar, ignore)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func parseStrategy(s string) (filelist.MergeStrategy, error) {
	switch st := filelist.MergeStrategy(s); st {
	case filelist.MergeError, filelist.MergeIgnoreSimilar, filelist.MergeIgnore:
		return st, nil
	default:
		return "", fmt.Errorf("unknown --strategy %q", s)
	}
}
