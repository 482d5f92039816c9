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

package vm

// BlockContext is the immutable environment an execution runs against. It
// is fixed at Vm construction and never mutated by journal replay.
type BlockContext struct {
	Number     uint64
	Timestamp  uint64
	GasLimit   uint64
	Coinbase   Address
	Difficulty Word
	ChainID    Word
	BaseFee    Word
}

// DefaultBlockContext returns a context with every field zero except a chain
// id of one and a gas limit large enough for typical test programs.
func DefaultBlockContext() BlockContext {
	return BlockContext{
		Number:     0,
		Timestamp:  0,
		GasLimit:   30_000_000,
		Coinbase:   AddressZero,
		Difficulty: WordZero(),
		ChainID:    WordOne(),
		BaseFee:    WordZero(),
	}
}
