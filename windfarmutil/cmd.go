/*
Copyright © 2025 the windfarm authors.
This file is part of windfarm.

windfarm is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

windfarm is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with windfarm.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package windfarmutil contains the command-line interface for the
// windfarm annual energy production model and layout optimizer.
package windfarmutil

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/spatialmodel/windfarm"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to windfarm.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "loglevel",
			usage: `
              loglevel specifies the minimum level of log messages to print:
              one of debug, info, warning, or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "site",
			usage: `
              site specifies the location of a TOML site configuration file.
              If it is empty, the built-in site given by --preset is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{aepCmd.Flags(), optimizeCmd.Flags()},
		},
		{
			name: "preset",
			usage: `
              preset specifies the built-in site to use when --site is not
              set. Run 'windfarm sites' for a list of built-in sites.`,
			shorthand:  "p",
			defaultVal: "coastal-virginia",
			flagsets:   []*pflag.FlagSet{aepCmd.Flags(), optimizeCmd.Flags(), sitesCmd.Flags()},
		},
		{
			name: "datadir",
			usage: `
              datadir specifies the directory containing the turbine and
              boundary GeoJSON files of the built-in sites.`,
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{aepCmd.Flags(), optimizeCmd.Flags(), sitesCmd.Flags()},
		},
		{
			name: "turbines",
			usage: `
              turbines, if not empty, replaces the site's GeoJSON file of
              turbine locations.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{aepCmd.Flags(), optimizeCmd.Flags()},
		},
		{
			name: "boundary",
			usage: `
              boundary, if not empty, replaces the site's GeoJSON file
              containing the lease boundary.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{aepCmd.Flags(), optimizeCmd.Flags()},
		},
		{
			name: "directions",
			usage: `
              directions, if not empty, replaces the wind directions [degrees]
              evaluated for each resource sector. There must be one direction
              per sector.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{aepCmd.Flags(), optimizeCmd.Flags()},
		},
		{
			name: "outdir",
			usage: `
              outdir specifies a directory to write layout files, plots,
              and tables to. If it is empty, only the text summary is printed.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{aepCmd.Flags(), optimizeCmd.Flags()},
		},
		{
			name: "Optimizer.Method",
			usage: `
              Optimizer.Method specifies the gonum optimization method:
              LBFGS, BFGS, GradientDescent, or NelderMead. If it is empty,
              the site configuration value is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{optimizeCmd.Flags()},
		},
		{
			name: "Optimizer.MaxIterations",
			usage: `
              Optimizer.MaxIterations specifies the maximum number of
              optimizer iterations. If it is zero, the site configuration
              value is used.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{optimizeCmd.Flags()},
		},
		{
			name: "Optimizer.Tolerance",
			usage: `
              Optimizer.Tolerance specifies the convergence tolerance of the
              relative AEP. If it is zero, the site configuration value is used.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{optimizeCmd.Flags()},
		},
		{
			name: "progress",
			usage: `
              progress specifies whether to show a progress bar during
              optimization.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{optimizeCmd.Flags()},
		},
		{
			name: "show",
			usage: `
              show specifies whether to open the layout and convergence plots
              after optimization. It has no effect if --outdir is empty.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{optimizeCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("WINDFARM")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
			case bool:
				set.Bool(option.name, option.defaultVal.(bool), option.usage)
			case int:
				set.Int(option.name, option.defaultVal.(int), option.usage)
			case float64:
				set.Float64(option.name, option.defaultVal.(float64), option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(aepCmd)
	Root.AddCommand(optimizeCmd)
	Root.AddCommand(sitesCmd)
}

// Log is the logger used by the commands.
var Log = logrus.New()

// setConfig finds and reads in the configuration file, if there is one,
// and sets the log level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("windfarm: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("loglevel"))
	if err != nil {
		return fmt.Errorf("windfarm: %v", err)
	}
	Log.Level = level
	Log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "windfarm",
	Short: "An offshore wind farm energy yield model and layout optimizer.",
	Long: `windfarm estimates the annual energy production (AEP) of offshore wind
farms, accounting for wake losses between turbines, and optimizes turbine
layouts within a lease boundary to maximize AEP.
Use the subcommands specified below to access the model functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'WINDFARM_var' where 'var' is the
name of the variable to be set. File paths are additionally allowed to
contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of windfarm.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "windfarm v%s\n", windfarm.Version)
	},
	DisableAutoGenTag: true,
}

var aepCmd = &cobra.Command{
	Use:   "aep",
	Short: "Calculate the annual energy production of a wind farm.",
	Long: `aep calculates the wake-reduced annual energy production of the
existing turbine layout at a site and prints a summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := SiteConfig(Cfg)
		if err != nil {
			return err
		}
		return AEP(cmd.OutOrStdout(), c, os.ExpandEnv(Cfg.GetString("outdir")))
	},
	DisableAutoGenTag: true,
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Optimize the turbine layout of a wind farm.",
	Long: `optimize moves the turbines of a site within its lease boundary, keeping
the minimum spacing between turbines, to maximize annual energy production.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := SiteConfig(Cfg)
		if err != nil {
			return err
		}
		return Optimize(cmd.OutOrStdout(), c, OptimizeOptions{
			OutputDir: os.ExpandEnv(Cfg.GetString("outdir")),
			Progress:  Cfg.GetBool("progress"),
			Show:      Cfg.GetBool("show"),
		})
	},
	DisableAutoGenTag: true,
}

var sitesCmd = &cobra.Command{
	Use:   "sites [name]",
	Short: "List the built-in sites or print one of their configurations.",
	Long: `sites lists the names of the built-in sites. If a site name is given,
it prints the TOML configuration of that site instead, which can be edited
and used with the --site flag.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for _, name := range windfarm.PresetNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}
		c, err := windfarm.Preset(args[0], os.ExpandEnv(Cfg.GetString("datadir")))
		if err != nil {
			return err
		}
		return c.Write(cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}
