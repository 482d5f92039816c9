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

package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Format renders a Record to bytes.
type Format interface {
	Format(r *Record) []byte
}

// FormatFunc turns a plain function into a Format.
type FormatFunc func(r *Record) []byte

func (f FormatFunc) Format(r *Record) []byte { return f(r) }

var levelColor = map[Lvl]*color.Color{
	LvlCrit:  color.New(color.FgMagenta, color.Bold),
	LvlError: color.New(color.FgRed),
	LvlWarn:  color.New(color.FgYellow),
	LvlInfo:  color.New(color.FgGreen),
	LvlDebug: color.New(color.FgCyan),
	LvlTrace: color.New(color.FgBlue),
}

// TerminalFormat renders records the way go-ethereum's own "pretty"
// terminal formatter does: colorized level, timestamp, message, then
// sorted key=value pairs. usecolor is typically isTerminal(w).
func TerminalFormat(usecolor bool) Format {
	return FormatFunc(func(r *Record) []byte {
		var b bytes.Buffer
		ts := r.Time.Format("01-02|15:04:05.000")

		lvl := r.Lvl.String()
		if usecolor {
			lvl = levelColor[r.Lvl].Sprint(lvl)
		}
		fmt.Fprintf(&b, "%s[%s] %s", lvl, ts, r.Msg)

		keys := make([]string, 0, len(r.Ctx)/2)
		values := make(map[string]interface{}, len(r.Ctx)/2)
		for i := 0; i+1 < len(r.Ctx); i += 2 {
			k := fmt.Sprintf("%v", r.Ctx[i])
			keys = append(keys, k)
			values[k] = r.Ctx[i+1]
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := formatValue(values[k])
			if usecolor {
				b.WriteString(" " + color.New(color.Faint).Sprint(k) + "=" + v)
			} else {
				b.WriteString(" " + k + "=" + v)
			}
		}
		b.WriteByte('\n')
		return b.Bytes()
	})
}

func formatValue(v interface{}) string {
	s := fmt.Sprintf("%+v", v)
	if strings.ContainsAny(s, " \t\n\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

// isTerminal reports whether f is attached to an interactive terminal,
// via mattn/go-isatty.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Colorable wraps f so ANSI escapes degrade gracefully on terminals (like
// older Windows consoles) that don't natively understand them, via
// mattn/go-colorable.
func Colorable(f *os.File) io.Writer {
	return colorable.NewColorable(f)
}
