package layout

import (
	"errors"
	"testing"
)

func TestResolveStandaloneVowel(t *testing.T) {
	table := NewTamil99()
	seq, err := table.Resolve("அ")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(seq) != 1 || seq[0].Key != 'a' || seq[0].Shift {
		t.Fatalf("unexpected sequence for அ: %+v", seq)
	}
}

func TestResolveConsonantVowelLigature(t *testing.T) {
	table := NewTamil99()
	seq, err := table.Resolve("கா")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := []KeyStroke{{Key: 'h'}, {Key: 'q'}}
	if len(seq) != 2 || seq[0] != want[0] || seq[1] != want[1] {
		t.Fatalf("unexpected sequence for கா: %+v", seq)
	}
}

func TestResolvePulliForm(t *testing.T) {
	table := NewTamil99()
	seq, err := table.Resolve("க்")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(seq) != 2 || seq[0].Key != 'h' || seq[1].Key != 'f' {
		t.Fatalf("unexpected sequence for க்: %+v", seq)
	}
}

func TestResolveGranthaNeedsShift(t *testing.T) {
	table := NewTamil99()
	seq, err := table.Resolve("ஸ")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(seq) != 1 || seq[0].Key != 'q' || !seq[0].Shift {
		t.Fatalf("expected shifted q for ஸ, got %+v", seq)
	}
}

func TestResolveNumeralPrefix(t *testing.T) {
	table := NewTamil99()
	seq, err := table.Resolve("௧")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := []KeyStroke{{Key: '^'}, {Key: '#'}, {Key: '1'}}
	if len(seq) != 3 {
		t.Fatalf("expected 3 strokes, got %+v", seq)
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("stroke %d: got %+v, want %+v", i, seq[i], want[i])
		}
	}
}

func TestResolveUnmapped(t *testing.T) {
	table := NewTamil99()
	_, err := table.Resolve("ß")
	var unmapped *UnmappedCharError
	if !errors.As(err, &unmapped) {
		t.Fatalf("expected UnmappedCharError, got %v", err)
	}
	if unmapped.Char != "ß" {
		t.Fatalf("unexpected char in error: %q", unmapped.Char)
	}
}

func TestSegmentPrefersLigature(t *testing.T) {
	table := NewTamil99()
	chars, err := table.Segment("காடு")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	if len(chars) != 2 || chars[0] != "கா" || chars[1] != "டு" {
		t.Fatalf("unexpected segmentation: %v", chars)
	}
}

func TestSegmentDoubleConsonant(t *testing.T) {
	table := NewTamil99()
	// க்க is three code points: pulli form first, then the bare consonant.
	chars, err := table.Segment("க்க")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	if len(chars) != 2 || chars[0] != "க்" || chars[1] != "க" {
		t.Fatalf("unexpected segmentation: %v", chars)
	}
}

func TestSegmentMixedScriptAndSpace(t *testing.T) {
	table := NewTamil99()
	chars, err := table.Segment("அ b")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	if len(chars) != 3 || chars[0] != "அ" || chars[1] != " " || chars[2] != "b" {
		t.Fatalf("unexpected segmentation: %v", chars)
	}
}

func TestSegmentUnmappedFails(t *testing.T) {
	table := NewTamil99()
	_, err := table.Segment("அßம")
	var unmapped *UnmappedCharError
	if !errors.As(err, &unmapped) {
		t.Fatalf("expected UnmappedCharError, got %v", err)
	}
}

func TestSequenceFlattensLine(t *testing.T) {
	table := NewTamil99()
	seq, err := table.Sequence("கா ")
	if err != nil {
		t.Fatalf("sequence: %v", err)
	}
	want := []KeyStroke{{Key: 'h'}, {Key: 'q'}, {Key: ' '}}
	if len(seq) != len(want) {
		t.Fatalf("expected %d strokes, got %+v", len(want), seq)
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("stroke %d: got %+v, want %+v", i, seq[i], want[i])
		}
	}
}

func TestUppercaseASCIIPassthroughShift(t *testing.T) {
	table := NewTamil99()
	seq, err := table.Resolve("A")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(seq) != 1 || seq[0].Key != 'a' || !seq[0].Shift {
		t.Fatalf("expected shifted a for A, got %+v", seq)
	}
}
