// Copyright (c) 2026 The minic Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package config binds the cobra flag set to viper, so every setting
// resolves as flag > MINIC_* environment variable > default. The
// compiler's passes take no configuration of their own; this only
// names the external collaborator binary and an optional debug dump
// location, matching the non-goal that there are no optimization
// levels or target variants to configure.
package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the fully resolved set of driver knobs for one run.
type Config struct {
	CC      string // preprocessor/assembler/linker binary, e.g. "cc"
	DumpDir string // when non-empty, per-pass JSON debug dumps land here
	Verbose bool
}

// Bind registers --cc, --dump-dir and --verbose on cmd and wires viper
// so MINIC_CC / MINIC_DUMP_DIR / MINIC_VERBOSE can supply the same
// values, falling back to "cc", "", false respectively.
func Bind(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("MINIC")
	v.AutomaticEnv()

	flags := cmd.Flags()
	flags.String("cc", "cc", "C compiler driver used to preprocess and assemble")
	flags.String("dump-dir", "", "write one JSON debug dump per pass to this directory")
	flags.BoolP("verbose", "v", false, "enable debug-level logging")

	_ = v.BindPFlag("cc", flags.Lookup("cc"))
	_ = v.BindPFlag("dump-dir", flags.Lookup("dump-dir"))
	_ = v.BindPFlag("verbose", flags.Lookup("verbose"))

	v.SetDefault("cc", "cc")

	return v
}

// Resolve reads the bound viper instance into a Config.
func Resolve(v *viper.Viper) Config {
	return Config{
		CC:      v.GetString("cc"),
		DumpDir: v.GetString("dump-dir"),
		Verbose: v.GetBool("verbose"),
	}
}
