package flow

import "testing"

func TestParseCommand(t *testing.T) {
	cases := []struct {
		input string
		want  Command
		ok    bool
	}{
		{"exit", CommandExit, true},
		{"EXIT", CommandExit, true},
		{"  save ", CommandSave, true},
		{"Help", CommandHelp, true},
		{"back", CommandBack, true},
		{"backwards", CommandNone, false},
		{"1", CommandNone, false},
		{"", CommandNone, false},
	}

	for _, tc := range cases {
		got, ok := ParseCommand(tc.input)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseCommand(%q) = (%v, %v), want (%v, %v)", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}
