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

import "encoding/hex"

// Address is a 20-byte Ethereum-style account identifier, used by
// BlockContext.Coinbase and CallFrame.
type Address [20]byte

// AddressZero is the zero address.
var AddressZero = Address{}

// AddressFromSlice right-aligns up to 20 bytes of src into an Address,
// matching go-ethereum's common.Address construction.
func AddressFromSlice(src []byte) Address {
	var a Address
	if len(src) > 20 {
		src = src[len(src)-20:]
	}
	copy(a[20-len(src):], src)
	return a
}

func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }
