package theme

import "testing"

func TestSelectionCodec_RoundTrip(t *testing.T) {
	c := SelectionCodec{Keys: []string{"theme1", "theme2"}}
	for _, key := range c.Keys {
		for _, mode := range []Mode{ModeSystem, ModeLight, ModeDark} {
			s := Selection{Key: key, Mode: mode}
			got, err := c.Decode(c.Encode(s))
			if err != nil {
				t.Fatalf("Decode(Encode(%+v)) error: %v", s, err)
			}
			if got != s {
				t.Errorf("Decode(Encode(%+v)) = %+v", s, got)
			}
		}
	}
}

func TestSelectionCodec_Encode(t *testing.T) {
	c := SelectionCodec{Keys: []string{"theme1"}}
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeSystem, "theme1#|#"},
		{ModeLight, "theme1#|#0"},
		{ModeDark, "theme1#|#1"},
	}
	for _, tt := range tests {
		if got := c.Encode(Selection{Key: "theme1", Mode: tt.mode}); got != tt.want {
			t.Errorf("Encode(%v) = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestSelectionCodec_DecodeRejects(t *testing.T) {
	c := SelectionCodec{Keys: []string{"theme1"}}
	for _, token := range []string{"", "theme1", "other#|#", "theme1#|#2", "theme1#|#01"} {
		if _, err := c.Decode(token); err == nil {
			t.Errorf("Decode(%q) should fail", token)
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeSystem, ModeLight, ModeDark} {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMode("dim"); err == nil {
		t.Error("ParseMode(dim) should fail")
	}
}
