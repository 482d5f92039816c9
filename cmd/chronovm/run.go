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

package main

import (
	"fmt"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/chronovm/chronovm/bytecode"
	"github.com/chronovm/chronovm/debugger"
	"github.com/chronovm/chronovm/log"
	"github.com/chronovm/chronovm/vm"
)

var programFlag = cli.StringFlag{
	Name:  "program",
	Usage: "path to a TOML program file",
}

var runCommand = cli.Command{
	Name:   "run",
	Usage:  "execute a program to completion and print the result",
	Flags:  []cli.Flag{programFlag},
	Action: runAction,
}

func runAction(ctx *cli.Context) error {
	path := ctx.String("program")
	if path == "" {
		return fmt.Errorf("--program is required")
	}
	dbg, err := newDebuggerFromConfig(path)
	if err != nil {
		return err
	}

	result, err := dbg.RunForward(0)
	if err != nil {
		if reason, ok := debugger.AsStopReason(err); ok {
			fmt.Println(reason.String())
			return nil
		}
		return err
	}

	fmt.Printf("%s\n", result.Halt)
	fmt.Printf("success=%v gas_used=%d return_data=0x%x\n", result.Success, result.GasUsed, result.ReturnData)
	printState(dbg.State())
	return nil
}

var stepsFlag = cli.IntFlag{Name: "steps", Usage: "number of forward steps to take", Value: 1}
var rewindFlag = cli.IntFlag{Name: "rewind", Usage: "number of backward steps to take after stepping forward"}

var stepCommand = cli.Command{
	Name:   "step",
	Usage:  "step a program forward and/or backward, printing state after each phase",
	Flags:  []cli.Flag{programFlag, stepsFlag, rewindFlag},
	Action: stepAction,
}

func stepAction(ctx *cli.Context) error {
	path := ctx.String("program")
	if path == "" {
		return fmt.Errorf("--program is required")
	}
	dbg, err := newDebuggerFromConfig(path)
	if err != nil {
		return err
	}

	steps := ctx.Int("steps")
	for i := 0; i < steps; i++ {
		result, err := dbg.StepForward()
		if err != nil {
			return err
		}
		if result.Halted {
			fmt.Printf("%s\n", result.Halt)
			break
		}
	}
	fmt.Println("-- after forward steps --")
	printState(dbg.State())

	if rewind := ctx.Int("rewind"); rewind > 0 {
		undone := dbg.Rewind(rewind)
		fmt.Printf("-- after rewinding %d step(s) --\n", undone)
		printState(dbg.State())
	}
	return nil
}

var disasmCommand = cli.Command{
	Name:  "disasm",
	Usage: "disassemble a hex bytecode string",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "bytecode", Usage: "hex-encoded bytecode, with or without 0x prefix"},
	},
	Action: func(ctx *cli.Context) error {
		code, err := decodeBytecode(ctx.String("bytecode"))
		if err != nil {
			return fmt.Errorf("chronovm: decode bytecode: %w", err)
		}
		fmt.Println(bytecode.DisassembleToString(code))
		return nil
	},
}

func newDebuggerFromConfig(path string) (*debugger.TimeTravel, error) {
	cfg, err := loadProgramConfig(path)
	if err != nil {
		return nil, err
	}
	code, err := decodeBytecode(cfg.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("chronovm: decode bytecode: %w", err)
	}
	blockCtx, err := cfg.Block.blockContext()
	if err != nil {
		return nil, err
	}

	gas := cfg.InitialGas
	if gas == 0 {
		gas = 10_000_000
	}
	v := vm.New(code, gas, blockCtx)
	log.Info("loaded program", "path", path, "bytes", len(code), "gas", gas)
	return debugger.New(v, cfg.CheckpointInterval, cfg.JournalSoftCap), nil
}

func printState(state *vm.VmState) {
	fmt.Printf("pc=%d gas=%d stack_depth=%d memory_size=%d\n",
		state.PC, state.Gas, state.Stack.Len(), state.Memory.Size())
	for i, w := range state.Stack.ToSlice() {
		fmt.Printf("  [%d] %s\n", i, w)
	}
}
