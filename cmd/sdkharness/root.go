package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aexvir/sdkharness"
	"github.com/aexvir/sdkharness/config"
	"github.com/aexvir/sdkharness/provision"
)

type cli struct {
	v      *viper.Viper
	opts   []provision.Option
	config string
	export bool
}

func newRootCommand(opts ...provision.Option) *cobra.Command {
	c := cli{v: config.New(), opts: opts}

	root := &cobra.Command{
		Use:   "sdkharness",
		Short: "Locate, install and update the Android SDK",
		Long: `sdkharness makes sure the Android SDK command-line tools are installed and
installs the sdk packages an Android project needs.

On macOS the tools are installed with the android-commandlinetools homebrew cask,
on linux the archive is downloaded and extracted into the sdk directory.

Settings are read from flags, FL_ANDROID_* environment variables and an optional
config file, in that order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// stdout only carries the KEY=value lines so it can be eval'd
			if c.export {
				sdkharness.SetOutput(cmd.ErrOrStderr())
			}
			return config.ReadFile(c.v, c.config)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.config, "config", "", "config file (yaml, toml or json)")
	flags.BoolVar(&c.export, "export", false, "print the sdk environment as KEY=value lines")
	flags.String("sdk-dir", "", "sdk install directory on linux")
	flags.String("download-url", "", "download url of the command-line tools archive")
	flags.String("revision", "", "revision of the command-line tools archive")
	flags.String("fetch-method", "", "how the archive is fetched: auto, command or native")
	flags.String("cask", "", "homebrew cask installed on macOS")

	bind(c.v, flags.Lookup, map[string]string{
		config.KeySDKDir:      "sdk-dir",
		config.KeyDownloadURL: "download-url",
		config.KeyRevision:    "revision",
		config.KeyFetchMethod: "fetch-method",
		config.KeyCask:        "cask",
	})

	root.AddCommand(c.locateCommand(), c.updateCommand())

	return root
}

func (c *cli) locateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locate",
		Short: "Find the Android SDK, installing the command-line tools when missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prov := provision.New(config.Provision(c.v), c.opts...)

			location, err := prov.Locate(cmd.Context())
			if err != nil {
				return err
			}

			return c.report(cmd.OutOrStdout(), provision.Result{Location: location})
		},
	}
}

func (c *cli) updateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Install and update the sdk packages of a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prov := provision.New(config.Provision(c.v), c.opts...)

			result, err := prov.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("%w (stopped at %s)", err, prov.State())
			}

			return c.report(cmd.OutOrStdout(), result)
		},
	}

	flags := cmd.Flags()
	flags.String("compile-sdk-version", "", "compile sdk version, read from gradle.properties when empty")
	flags.String("build-tools-version", "", "build tools version, read from gradle.properties when empty")
	flags.StringSlice("package", nil, "additional sdk package, can be repeated")
	flags.Bool("override-local-properties", true, "point sdk.dir in local.properties at the sdk")
	flags.Bool("update-installed", false, "update all installed packages first")
	flags.String("channel", "", "sdkmanager release channel")
	flags.String("project-dir", "", "directory of the Android project")

	bind(c.v, flags.Lookup, map[string]string{
		config.KeyCompileSDKVersion:       "compile-sdk-version",
		config.KeyBuildToolsVersion:       "build-tools-version",
		config.KeyAdditionalPackages:      "package",
		config.KeyOverrideLocalProperties: "override-local-properties",
		config.KeyUpdateInstalledPackages: "update-installed",
		config.KeyChannel:                 "channel",
		config.KeyProjectDir:              "project-dir",
	})

	return cmd
}

func (c *cli) report(out io.Writer, result provision.Result) error {
	if c.export {
		for _, env := range result.Env() {
			if _, err := fmt.Fprintln(out, env); err != nil {
				return err
			}
		}
		return nil
	}

	sdkharness.LogStep("android sdk found at " + result.Location.Root)
	if result.PropertiesFile != "" {
		sdkharness.LogDetail("sdk.dir written to " + result.PropertiesFile)
	}

	return nil
}

// bind links viper keys to flags; an unset flag leaves the key to the env,
// the config file or the default.
func bind(v *viper.Viper, lookup func(string) *pflag.Flag, keys map[string]string) {
	for key, flag := range keys {
		// only fails on a nil flag
		_ = v.BindPFlag(key, lookup(flag))
	}
}

// run executes the command tree with the given arguments, as main does.
func run(ctx context.Context, out io.Writer, args []string, opts ...provision.Option) error {
	defer sdkharness.SetOutput(nil)

	root := newRootCommand(opts...)
	root.SetOut(out)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
