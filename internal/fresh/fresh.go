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

// Package fresh holds the single monotonically increasing counter that
// passes 3 through 5 thread through as an explicit argument, never as
// process-wide state, so every synthesized temporary and label name is
// globally unique within one compilation.
package fresh

type Counter struct {
	n int
}

func NewCounter() *Counter {
	return &Counter{}
}

// Next returns a new, never-before-issued integer.
func (c *Counter) Next() int {
	c.n++
	return c.n
}
