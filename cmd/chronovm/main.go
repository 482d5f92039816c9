// Copyright 2024 The chronovm Authors
// This file is part of chronovm.
//
// chronovm is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// chronovm is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with chronovm. If not, see <http://www.gnu.org/licenses/>.

// Command chronovm is a batch-mode front end over the debugger package: it
// runs a program to completion, or steps through it forward and backward,
// without an interactive REPL.
package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/chronovm/chronovm/log"
)

var app = cli.NewApp()

func init() {
	app.Name = "chronovm"
	app.Usage = "a reversible bytecode VM and time-travel debugger"
	app.Version = "0.1.0"
	app.Commands = []cli.Command{
		runCommand,
		stepCommand,
		disasmCommand,
	}
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "enable debug-level logging",
		},
	}
	app.Before = func(ctx *cli.Context) error {
		if !ctx.GlobalBool("verbose") {
			root := log.Root()
			root.SetHandler(log.LvlFilterHandler(log.LvlInfo, root.GetHandler()))
		}
		return nil
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "chronovm:", err)
		os.Exit(1)
	}
}
