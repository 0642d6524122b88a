/*
Copyright © 2025 the windfarm authors.
This file is part of windfarm.

windfarm is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

windfarm is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with windfarm.  If not, see <http://www.gnu.org/licenses/>.
*/

package hash

import "testing"

func TestLayout(t *testing.T) {
	a := Layout([]float64{1, 2}, []float64{3, 4})
	if b := Layout([]float64{1, 2}, []float64{3, 4}); a != b {
		t.Errorf("identical layouts have different keys: %s, %s", a, b)
	}
	for _, l := range [][2][]float64{
		{{1, 2}, {3, 4.000000000001}},
		{{2, 1}, {3, 4}},
		{{1, 2, 3}, {4}},
		{{1}, {2, 3, 4}},
	} {
		if b := Layout(l[0], l[1]); a == b {
			t.Errorf("%v has the same key as the reference layout", l)
		}
	}
}
