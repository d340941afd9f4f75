package stats

import (
	"math"
	"testing"
)

func TestSessionMetrics(t *testing.T) {
	wpm, spm, acc := SessionMetrics(100, 25, 60000)
	if math.Abs(wpm-20) > 1e-9 {
		t.Fatalf("wpm = %v, want 20", wpm)
	}
	if math.Abs(spm-100) > 1e-9 {
		t.Fatalf("spm = %v, want 100", spm)
	}
	if math.Abs(acc-0.8) > 1e-9 {
		t.Fatalf("accuracy = %v, want 0.8", acc)
	}
}

func TestSessionMetricsZeroDuration(t *testing.T) {
	wpm, spm, acc := SessionMetrics(10, 0, 0)
	if wpm != 0 || spm != 0 || acc != 0 {
		t.Fatalf("zero duration must yield zero metrics: %v %v %v", wpm, spm, acc)
	}
}

func TestMovingAverage(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	out := MovingAverage(values, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-9 {
			t.Fatalf("index %d: got %v, want %v", i, out[i], want[i])
		}
	}
}

func TestMovingAverageWindowOne(t *testing.T) {
	values := []float64{3, 1, 2}
	out := MovingAverage(values, 1)
	for i := range values {
		if out[i] != values[i] {
			t.Fatalf("window 1 must copy values, got %v", out)
		}
	}
}

func TestSparklineFlat(t *testing.T) {
	line := Sparkline([]float64{2, 2, 2})
	if len(line) != 3 {
		t.Fatalf("unexpected sparkline %q", line)
	}
	if line[0] != line[1] || line[1] != line[2] {
		t.Fatalf("flat input must render one level: %q", line)
	}
}

func TestSparklineRange(t *testing.T) {
	line := Sparkline([]float64{0, 10})
	if line[0] != sparkChars[0] {
		t.Fatalf("minimum must use lowest glyph: %q", line)
	}
	if line[1] != sparkChars[len(sparkChars)-1] {
		t.Fatalf("maximum must use highest glyph: %q", line)
	}
}
