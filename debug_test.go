package termatlas

import "testing"

func TestParseDebugMode(t *testing.T) {
	tests := []struct {
		in      string
		want    DebugMode
		wantErr bool
	}{
		{"", DebugOff, false},
		{"off", DebugOff, false},
		{"hot-reload", DebugHotReload, false},
		{"frame-dump, atlas-colorize", DebugFrameDump | DebugAtlasColorize, false},
		{"dirty-rects,bogus", DebugOff, true},
	}
	for _, tt := range tests {
		got, err := ParseDebugMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDebugMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDebugMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDebugMode_String(t *testing.T) {
	m := DebugHotReload | DebugDirtyRects
	if got := m.String(); got != "hot-reload,dirty-rects" {
		t.Errorf("String() = %q", got)
	}
	if got := DebugOff.String(); got != "off" {
		t.Errorf("DebugOff.String() = %q", got)
	}
	if DebugOff.Has(DebugOff) {
		t.Error("Has(DebugOff) should be false")
	}
}
