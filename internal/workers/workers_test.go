package workers

import (
	"runtime"
	"testing"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestCountFrom(t *testing.T) {
	cpus := runtime.GOMAXPROCS(0)
	none := env(nil)

	tests := []struct {
		name       string
		getenv     func(string) string
		multiplier float64
		limit      int
		want       int
	}{
		{"one per cpu", none, 1.0, 0, cpus},
		{"two per cpu", none, 2.0, 0, cpus * 2},
		{"limit caps computed value", none, 100.0, 3, 3},
		{"zero multiplier floors at one", none, 0.0, 0, 1},
		{"negative multiplier floors at one", none, -1.0, 0, 1},
		{"override", env(map[string]string{EnvOverride: "8"}), 1.0, 0, 8},
		{"override capped by limit", env(map[string]string{EnvOverride: "20"}), 1.0, 10, 10},
		{"override below limit", env(map[string]string{EnvOverride: "5"}), 1.0, 10, 5},
		{"non-numeric override ignored", env(map[string]string{EnvOverride: "many"}), 1.0, 0, cpus},
		{"zero override ignored", env(map[string]string{EnvOverride: "0"}), 1.0, 0, cpus},
		{"negative override ignored", env(map[string]string{EnvOverride: "-5"}), 1.0, 0, cpus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countFrom(tt.getenv, tt.multiplier, tt.limit); got != tt.want {
				t.Errorf("countFrom(%v, %d) = %d, want %d", tt.multiplier, tt.limit, got, tt.want)
			}
		})
	}
}

func TestCountReadsEnvironment(t *testing.T) {
	t.Setenv(EnvOverride, "6")

	if got := Count(1.0, 0); got != 6 {
		t.Errorf("Count with %s=6 = %d, want 6", EnvOverride, got)
	}
	if got := ForIO(4); got != 4 {
		t.Errorf("ForIO(4) with %s=6 = %d, want 4", EnvOverride, got)
	}
}

func TestForKind(t *testing.T) {
	t.Setenv(EnvOverride, "")
	cpus := runtime.GOMAXPROCS(0)

	if got := ForCPU(0); got != cpus {
		t.Errorf("ForCPU(0) = %d, want %d", got, cpus)
	}
	if got := ForIO(0); got != cpus*2 {
		t.Errorf("ForIO(0) = %d, want %d", got, cpus*2)
	}
	if got, want := ForMixed(0), max(1, int(float64(cpus)*1.5)); got != want {
		t.Errorf("ForMixed(0) = %d, want %d", got, want)
	}
	if got := For(Mixed, 1); got != 1 {
		t.Errorf("For(Mixed, 1) = %d, want 1", got)
	}
}

func TestForBatch(t *testing.T) {
	t.Setenv(EnvOverride, "16")

	tests := []struct {
		name  string
		kind  Kind
		jobs  int
		limit int
		want  int
	}{
		{"fewer jobs than workers", IO, 3, 0, 3},
		{"limit below jobs", CPU, 100, 8, 8},
		{"jobs above override", Mixed, 100, 0, 16},
		{"empty batch", CPU, 0, 0, 16},
		{"single job", Mixed, 1, 8, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForBatch(tt.kind, tt.jobs, tt.limit); got != tt.want {
				t.Errorf("ForBatch(%v, %d, %d) = %d, want %d", tt.kind, tt.jobs, tt.limit, got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	for kind, want := range map[Kind]string{CPU: "cpu", IO: "io", Mixed: "mixed", Kind(9): "unknown"} {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}

func BenchmarkCount(b *testing.B) {
	b.Run("no override", func(b *testing.B) {
		getenv := env(nil)
		for i := 0; i < b.N; i++ {
			_ = countFrom(getenv, 1.5, 10)
		}
	})

	b.Run("override", func(b *testing.B) {
		getenv := env(map[string]string{EnvOverride: "8"})
		for i := 0; i < b.N; i++ {
			_ = countFrom(getenv, 1.5, 10)
		}
	})
}
