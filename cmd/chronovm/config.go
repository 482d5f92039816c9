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
	"encoding/hex"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/naoina/toml"

	"github.com/chronovm/chronovm/vm"
)

// tomlSettings mirrors the field-name normalization the teacher's own
// config loader applies: TOML keys are matched to Go struct fields
// case-insensitively, without requiring `toml:"..."` tags on every field.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return strings.ToLower(key)
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return strings.ToLower(field)
	},
}

// BlockConfig is the TOML representation of a vm.BlockContext; hex-encoded
// fields keep the file human-editable without a custom unmarshaler per
// Word.
type BlockConfig struct {
	Number     uint64
	Timestamp  uint64
	GasLimit   uint64
	Coinbase   string
	Difficulty string
	ChainID    uint64
	BaseFee    string
}

// ProgramConfig is the full TOML program file `run` and `step` load: the
// bytecode to execute plus the execution parameters around it.
type ProgramConfig struct {
	Bytecode           string
	InitialGas         uint64
	CheckpointInterval int
	JournalSoftCap     int
	Block              BlockConfig
}

// loadProgramConfig reads and decodes a TOML program file at path.
func loadProgramConfig(path string) (*ProgramConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("chronovm: open config: %w", err)
	}
	defer f.Close()

	var cfg ProgramConfig
	if err := tomlSettings.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("chronovm: parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// decodeBytecode strips an optional "0x" prefix and hex-decodes s.
func decodeBytecode(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	return hex.DecodeString(s)
}

// blockContext builds a vm.BlockContext from its TOML representation,
// defaulting hex fields that are left blank to zero.
func (c BlockConfig) blockContext() (vm.BlockContext, error) {
	ctx := vm.DefaultBlockContext()
	ctx.Number = c.Number
	ctx.Timestamp = c.Timestamp
	if c.GasLimit != 0 {
		ctx.GasLimit = c.GasLimit
	}
	if c.ChainID != 0 {
		ctx.ChainID = vm.WordFromUint64(c.ChainID)
	}

	if c.Coinbase != "" {
		b, err := decodeBytecode(c.Coinbase)
		if err != nil {
			return ctx, fmt.Errorf("chronovm: parse coinbase: %w", err)
		}
		ctx.Coinbase = vm.AddressFromSlice(b)
	}
	if c.Difficulty != "" {
		w, err := wordFromHex(c.Difficulty)
		if err != nil {
			return ctx, fmt.Errorf("chronovm: parse difficulty: %w", err)
		}
		ctx.Difficulty = w
	}
	if c.BaseFee != "" {
		w, err := wordFromHex(c.BaseFee)
		if err != nil {
			return ctx, fmt.Errorf("chronovm: parse base fee: %w", err)
		}
		ctx.BaseFee = w
	}
	return ctx, nil
}

func wordFromHex(s string) (vm.Word, error) {
	b, err := decodeBytecode(s)
	if err != nil {
		return vm.WordZero(), err
	}
	var be [32]byte
	if len(b) > 32 {
		b = b[len(b)-32:]
	}
	copy(be[32-len(b):], b)
	return vm.WordFromBigEndian(be), nil
}
