package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cheminfo/filelist"
	"github.com/cheminfo/filelist/cache"
	"github.com/cheminfo/filelist/cache/disk"
	"github.com/cheminfo/filelist/cache/memory"
	"github.com/cheminfo/filelist/registry"
)

// app holds the state shared by every subcommand. Flags are bound to the
// first group of fields; setup derives the rest.
type app struct {
	configPath string
	logLevel   string
	cacheKind  string
	cacheDir   string
	baseURL    string
	mimetype   string
	plainHTTP  bool

	cfg        fileConfig
	logger     *slog.Logger
	fetchCache cache.Cache
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "ium",
		Short: "Pack, inspect and share file collections",
		Long: `ium builds virtual file collections from directories, zip archives,
web listings and OCI registries, and stores them as IUM containers.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	fs := cmd.PersistentFlags()
	fs.StringVar(&a.configPath, "config", "", "YAML or JSONC file with collection, cache and registry settings")
	fs.StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	fs.StringVar(&a.cacheKind, "cache", "none", "cache for fetched remote files and registry layers (none, memory, disk)")
	fs.StringVar(&a.cacheDir, "cache-dir", "", "directory of the disk cache (defaults to the user cache dir)")
	fs.StringVar(&a.baseURL, "base-url", "", "default base URL for relative web sources")
	fs.StringVar(&a.mimetype, "mimetype", filelist.DefaultMimetype, "mimetype written to and expected from IUM containers")
	fs.BoolVar(&a.plainHTTP, "plain-http", false, "talk to registries over plain HTTP")

	cmd.AddCommand(
		newPackCmd(a),
		newLsCmd(a),
		newZipCmd(a),
		newExtractCmd(a),
		newMergeCmd(a),
		newSniffCmd(a),
		newPushCmd(a),
		newPullCmd(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.configPath != "" {
		cfg, err := loadConfig(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	fs := cmd.Flags()
	overlay(fs, "log-level", &a.logLevel, a.cfg.LogLevel)
	overlay(fs, "cache", &a.cacheKind, a.cfg.Cache.Kind)
	overlay(fs, "cache-dir", &a.cacheDir, a.cfg.Cache.Dir)
	overlay(fs, "base-url", &a.baseURL, a.cfg.BaseURL)
	overlay(fs, "mimetype", &a.mimetype, a.cfg.Mimetype)
	if !fs.Changed("plain-http") && a.cfg.Registry.PlainHTTP {
		a.plainHTTP = true
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", a.logLevel, err)
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	fc, err := a.openCache()
	if err != nil {
		return err
	}
	a.fetchCache = fc
	return nil
}

// overlay copies a config file value into target unless the flag was set
// on the command line.
func overlay(fs *pflag.FlagSet, name string, target *string, value string) {
	if value == "" || fs.Changed(name) {
		return
	}
	*target = value
}

func (a *app) openCache() (cache.Cache, error) {
	switch strings.ToLower(a.cacheKind) {
	case "", "none":
		return nil, nil
	case "memory":
		var opts []memory.Option
		if a.cfg.Cache.MaxBytes > 0 {
			opts = append(opts, memory.WithMaxBytes(a.cfg.Cache.MaxBytes))
		}
		return memory.New(opts...)
	case "disk":
		dir := a.cacheDir
		if dir == "" {
			base, err := os.UserCacheDir()
			if err != nil {
				return nil, fmt.Errorf("locate cache dir: %w", err)
			}
			dir = filepath.Join(base, "filelist")
		}
		var opts []disk.Option
		if a.cfg.Cache.MaxBytes > 0 {
			opts = append(opts, disk.WithMaxBytes(a.cfg.Cache.MaxBytes))
		}
		return disk.New(dir, opts...)
	default:
		return nil, fmt.Errorf("unknown --cache %q (want none, memory or disk)", a.cacheKind)
	}
}

func (a *app) collectionOptions() []filelist.Option {
	opts := []filelist.Option{
		filelist.WithOptions(a.cfg.Options),
		filelist.WithLogger(a.logger),
	}
	if a.baseURL != "" {
		opts = append(opts, filelist.WithBaseURL(a.baseURL))
	}
	if a.fetchCache != nil {
		opts = append(opts, filelist.WithFetchCache(a.fetchCache))
	}
	return opts
}

func (a *app) registryClient() *registry.Client {
	opts := []registry.Option{
		registry.WithLogger(a.logger),
		registry.WithPlainHTTP(a.plainHTTP),
		registry.WithCollectionOptions(a.collectionOptions()...),
	}
	rc := a.cfg.Registry
	switch {
	case rc.Host != "" && rc.Token != "":
		opts = append(opts, registry.WithStaticToken(rc.Host, rc.Token))
	case rc.Host != "" && rc.Username != "":
		opts = append(opts, registry.WithStaticCredentials(rc.Host, rc.Username, rc.Password))
	default:
		opts = append(opts, registry.WithDockerConfig())
	}
	if a.fetchCache != nil {
		opts = append(opts, registry.WithCache(a.fetchCache))
	}
	return registry.New(opts...)
}
