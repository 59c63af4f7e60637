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

// Command minic compiles a single translation unit of a minimal C
// subset to a native x86-64 executable.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"minic/internal/ccerr"
	"minic/internal/config"
	"minic/internal/driver"
	"minic/internal/slogx"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		lex          bool
		parse        bool
		codegen      bool
		tacky        bool
		assembleOnly bool
	)

	cmd := &cobra.Command{
		Use:           "minic FILE.c",
		Short:         "A self-hosted compiler for a minimal subset of C",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	v := config.Bind(cmd)
	cmd.Flags().BoolVar(&lex, "lex", false, "stop after lexing")
	cmd.Flags().BoolVar(&parse, "parse", false, "stop after parsing")
	cmd.Flags().BoolVar(&codegen, "codegen", false, "stop after instruction selection and legalization")
	cmd.Flags().BoolVar(&tacky, "tacky", false, "stop after lowering to the three-address IR")
	cmd.Flags().BoolVar(&tacky, "irc", false, "alias for --tacky")
	cmd.Flags().BoolVarP(&assembleOnly, "assembly", "S", false, "emit assembly only, skip assembling and linking")

	cmd.RunE = func(c *cobra.Command, args []string) error {
		cfg := config.Resolve(v)
		log, err := slogx.New(cfg.Verbose, cfg.DumpDir)
		if err != nil {
			return err
		}

		stage := driver.StageFull
		switch {
		case lex:
			stage = driver.StageLex
		case parse:
			stage = driver.StageParse
		case tacky:
			stage = driver.StageTacky
		case codegen:
			stage = driver.StageCodegen
		case assembleOnly:
			stage = driver.StageAssembly
		}

		d := driver.New(cfg.CC, log)
		out, err := d.Run(c.Context(), args[0], driver.Options{CC: cfg.CC, Stage: stage})
		if err != nil {
			printErr(err)
			return err
		}
		if out != "" {
			fmt.Fprintf(c.OutOrStdout(), "%s\n", out)
		}
		return nil
	}

	return cmd
}

func printErr(err error) {
	var ce *ccerr.Error
	if e, ok := err.(*ccerr.Error); ok {
		ce = e
	}
	if ce != nil {
		fmt.Fprintf(os.Stderr, "minic: %s\n", ce.Error())
		return
	}
	fmt.Fprintf(os.Stderr, "minic: %s\n", err)
}
