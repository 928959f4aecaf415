/*
Copyright © 2023 the Swath authors.
This file is part of Swath.

Swath is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Swath is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Swath.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package swathutil wires the swath library into a command-line
// interface.
package swathutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/zxdawn/swath"
	"github.com/zxdawn/swath/hyc"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var logger *logrus.Logger

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	logger = logrus.StandardLogger()
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	})

	// Options are the configuration options available to the commands.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the location of a configuration file
              holding dataset reading instructions.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "verbose",
			usage: `
              verbose enables debug logging.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "calibration",
			usage: `
              calibration overrides the calibration level for the
              dataset command ("counts" or "radiance").`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{datasetCmd.Flags()},
		},
		{
			name: "fileKeys",
			usage: `
              fileKeys maps dataset names to addresses inside the file,
              overriding the configured file keys.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{datasetCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("SWATH")

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
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(infoCmd)
	Root.AddCommand(resolveCmd)
	Root.AddCommand(datasetCmd)
}

// setup reads the configuration file, if there is one, and applies the
// logging options.
func setup() error {
	if Cfg.GetBool("verbose") {
		logger.SetLevel(logrus.DebugLevel)
	}
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("swath: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "swath",
	Short: "Inspect satellite swath data files.",
	Long: `swath reads satellite-instrument data files (NetCDF and HDF5 based)
and exposes their content as labeled multidimensional arrays. Use the
subcommands specified below to inspect a file, resolve a flat address
inside it, or load a calibrated dataset.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'SWATH_var' where 'var' is
the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setup() },
}

// infoCmd prints the global attributes of a file.
var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Print the global attributes of a file.",
	Long: `info opens a NetCDF or HDF5 file and prints its root-level
attributes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := swath.OpenNetCDF(args[0])
		if err != nil {
			return err
		}
		defer c.Close()
		return printInfo(cmd, c)
	},
	DisableAutoGenTag: true,
}

// resolveCmd resolves a single flat address inside a file.
var resolveCmd = &cobra.Command{
	Use:   "resolve [file] [address]",
	Short: "Resolve a flat address inside a file.",
	Long: `resolve opens a NetCDF or HDF5 file and resolves one flat string
address, such as "group/var", "group/var/attr/units", or
"/attr/platform_short_name", printing the result.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := swath.OpenNetCDF(args[0])
		if err != nil {
			return err
		}
		defer c.Close()
		val, err := swath.NewResolver(c).Resolve(args[1])
		if err != nil {
			return err
		}
		printResolved(cmd, val)
		return nil
	},
	DisableAutoGenTag: true,
}

// datasetCmd loads a calibrated dataset from a PRISMA HYC L1 file.
var datasetCmd = &cobra.Command{
	Use:   "dataset [file] [name]",
	Short: "Load a calibrated dataset from a PRISMA HYC L1 file.",
	Long: `dataset opens a PRISMA HYC L1 file (zipped or not), loads the named
dataset, calibrates it, and prints a summary. Dataset reading
instructions come from the configuration file, falling back to the
standard HCO product layout.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, name := args[0], args[1]
		cfg, err := datasetConfig()
		if err != nil {
			return err
		}
		info, ok := cfg.Datasets[name]
		if !ok {
			return fmt.Errorf("swath: no dataset %q in the configuration", name)
		}
		if cal := Cfg.GetString("calibration"); cal != "" {
			info.Calibration = cal
		}
		fileKeys, err := GetStringMapString("fileKeys", Cfg)
		if err != nil {
			return err
		}
		if k, ok := fileKeys[name]; ok {
			info.FileKey = k
		}

		h, err := hyc.Open(file)
		if err != nil {
			return err
		}
		defer h.Close()

		v, err := h.Dataset(name, info)
		if err != nil {
			return err
		}
		printDataset(cmd, h, v)
		return nil
	},
	DisableAutoGenTag: true,
}

// datasetConfig loads dataset reading instructions from the
// configuration file, or falls back to the built-in HCO layout.
func datasetConfig() (*hyc.Config, error) {
	cfgpath := Cfg.GetString("config")
	if cfgpath == "" {
		return hyc.DefaultConfig(), nil
	}
	f, err := os.Open(cfgpath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return hyc.LoadConfig(f)
}

func printInfo(cmd *cobra.Command, c *swath.NC4Container) error {
	for _, name := range sortedAttrNames(c) {
		val, err := c.GlobalAttribute(name)
		if err != nil {
			return err
		}
		cmd.Printf("%s = %v\n", name, val)
	}
	for _, name := range c.VariableNames() {
		cmd.Printf("%s\n", name)
	}
	return nil
}

// sortedAttrNames lists the global attribute names a container exposes.
// Only the NetCDF4 and in-memory containers can enumerate attributes.
func sortedAttrNames(c swath.Container) []string {
	var names []string
	switch t := c.(type) {
	case *swath.NC4Container:
		names = t.GlobalAttributeNames()
	case *swath.MemContainer:
		for name := range t.GlobalAttrs {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func printResolved(cmd *cobra.Command, val interface{}) {
	switch t := val.(type) {
	case *swath.Variable:
		cmd.Printf("variable %s\n", t.Name)
		cmd.Printf("  dims:  %v\n", t.Dims)
		cmd.Printf("  shape: %v\n", t.Shape())
		for _, name := range sortedKeys(t.Attrs) {
			cmd.Printf("  %s = %v\n", name, t.Attrs[name])
		}
	case []int:
		cmd.Printf("shape %v\n", t)
	default:
		cmd.Printf("%v\n", t)
	}
}

func printDataset(cmd *cobra.Command, h *hyc.Handler, v *swath.Variable) {
	start, err := h.StartTime()
	if err == nil {
		cmd.Printf("start: %v\n", start)
	}
	cmd.Printf("dataset %s\n", v.Name)
	cmd.Printf("  dims:  %v\n", v.Dims)
	cmd.Printf("  shape: %v\n", v.Shape())
	if u, ok := v.Attrs["units"]; ok {
		cmd.Printf("  units: %v\n", u)
	}
	if area, ok := v.Attrs["area"].(*swath.SwathDefinition); ok {
		b := area.Bounds()
		cmd.Printf("  area:  [%g, %g] to [%g, %g]\n", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
