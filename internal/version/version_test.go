package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	// GitCommit and BuildDate are optional
	_ = GitCommit
	_ = BuildDate
}

func override(t *testing.T, version, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
	Version, GitCommit, BuildDate = version, commit, date
}

func TestLine(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    string
	}{
		{"plain", "1.2.3", "", "", "stylc 1.2.3"},
		{"commit", "1.2.3", "abc123", "", "stylc 1.2.3 (abc123)"},
		{"commit and date", "1.2.3", "abc123", "2024-01-15", "stylc 1.2.3 (abc123, 2024-01-15)"},
		{"date only", "0.1.0-dev", "", "2024-01-15T10:30:00Z", "stylc 0.1.0-dev (2024-01-15T10:30:00Z)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			override(t, tt.version, tt.commit, tt.date)
			if got := Line(false); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColored(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	for _, v := range []string{"0.1.0", "1.0.0-beta.1", "1.2.3-rc.1+build.123", "dev"} {
		override(t, v, "", "")
		if got := Colored(); got != v {
			t.Errorf("Colored() without colours = %q, want %q", got, v)
		}
	}

	color.NoColor = false
	override(t, "1.2.3-rc.1", "", "")
	got := Colored()
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-rc.1") {
		t.Errorf("Colored() = %q, want escape codes and plain suffix", got)
	}
}

// BenchmarkVersionAccess benchmarks building the version line
func BenchmarkVersionAccess(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Line(false)
	}
}
