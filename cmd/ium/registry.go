package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cheminfo/filelist"
	"github.com/cheminfo/filelist/internal/extract"
	"github.com/cheminfo/filelist/registry"
)

func newPushCmd(a *app) *cobra.Command {
	var (
		tags        []string
		annotations map[string]string
		title       string
	)
	cmd := &cobra.Command{
		Use:   "push <file|dir|url> <ref>",
		Short: "Push a collection to an OCI registry",
		Long: `push stores a collection as a single IUM layer in an OCI registry.
IUM files are pushed as they are; anything else is packed first.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			input, ref := args[0], args[1]

			opts := []registry.PushOption{registry.WithMediaType(a.mimetype)}
			if len(tags) > 0 {
				opts = append(opts, registry.WithTags(tags...))
			}
			if len(annotations) > 0 {
				opts = append(opts, registry.WithAnnotations(annotations))
			}
			if title != "" {
				opts = append(opts, registry.WithTitle(title))
			}

			client := a.registryClient()
			if data, ok := a.iumFile(input); ok {
				desc, err := client.PushIum(ctx, ref, data, opts...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pushed %s@%s\n", ref, desc.Digest)
				return nil
			}

			c, err := a.loadCollection(ctx, input)
			if err != nil {
				return err
			}
			desc, err := client.Push(ctx, ref, c, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pushed %d files to %s@%s\n", c.Len(), ref, desc.Digest)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "additional tags for the pushed manifest")
	cmd.Flags().StringToStringVar(&annotations, "annotation", nil, "manifest annotation as key=value")
	cmd.Flags().StringVar(&title, "title", "", "layer title annotation")
	return cmd
}

// iumFile returns the content of input when it is a local IUM container.
func (a *app) iumFile(input string) ([]byte, bool) {
	if isURL(input) {
		return nil, false
	}
	info, err := os.Stat(input)
	if err != nil || info.IsDir() {
		return nil, false
	}
	data, err := os.ReadFile(input)
	if err != nil || !filelist.IsIum(data, a.mimetype) {
		return nil, false
	}
	return data, true
}

func newPullCmd(a *app) *cobra.Command {
	var (
		out     string
		dest    string
		maxSize int64
	)
	cmd := &cobra.Command{
		Use:   "pull <ref> (-o <file.ium> | --extract <dir>)",
		Short: "Pull a collection from an OCI registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" && dest == "" {
				return errors.New("one of --output or --extract is required")
			}
			ctx := cmd.Context()
			ref := args[0]
			client := a.registryClient()

			var opts []registry.PullOption
			if maxSize > 0 {
				opts = append(opts, registry.WithMaxLayerSize(maxSize))
			}
			data, manifest, err := client.PullIum(ctx, ref, opts...)
			if err != nil {
				return err
			}
			if out != "" {
				if err := writeOutput(out, data); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pulled %s (%s) to %s\n", ref, manifest.Digest(), out)
			}
			if dest == "" {
				return nil
			}

			c, err := filelist.FromIum(ctx, data,
				filelist.WithMimetypeValidation(manifest.Layer().MediaType),
				filelist.WithCollectionOptions(a.collectionOptions()...),
			)
			if err != nil {
				return err
			}
			n, err := extract.NewSink(dest).Collection(ctx, c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "extracted %d files from %s to %s\n", n, ref, dest)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write the IUM layer to this file")
	cmd.Flags().StringVar(&dest, "extract", "", "extract the collection files into this directory")
	cmd.Flags().Int64Var(&maxSize, "max-size", 0, "reject layers larger than this many bytes")
	return cmd
}
