package utils

import (
	"testing"
	"time"
)

func TestParseSizeToMB(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"32G", 32768, false},
		{"32GB", 32768, false},
		{"8192M", 8192, false},
		{"1024", 1024, false},
		{"1T", 1048576, false},
		{" 16g ", 16384, false},
		{"", 0, true},
		{"ten", 0, true},
		{"12K", 0, true},
	}

	for _, c := range cases {
		got, err := ParseSizeToMB(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseSizeToMB(%q): expected error, got %d", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSizeToMB(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseSizeToMB(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"2h", 2 * time.Hour, false},
		{"1h30m", 90 * time.Minute, false},
		{"2d", 48 * time.Hour, false},
		{"24:00:00", 24 * time.Hour, false},
		{"2:30:00", 150 * time.Minute, false},
		{"2:30", 150 * time.Minute, false},
		{"", 0, true},
		{"1:2:3:4", 0, true},
		{"soon", 0, true},
	}

	for _, c := range cases {
		got, err := ParseDuration(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseDuration(%q): expected error, got %v", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDuration(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
