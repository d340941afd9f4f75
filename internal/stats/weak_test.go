package stats

import (
	"testing"

	"github.com/poriyaalar/suvadi/internal/model"
)

func TestSelectWeakKeysPicksLowestAccuracy(t *testing.T) {
	aggs := []model.KeyAggregate{
		{Key: "h", Correct: 9, Incorrect: 1},
		{Key: "q", Correct: 2, Incorrect: 8},
		{Key: "f", Correct: 5, Incorrect: 5},
	}
	weak := SelectWeakKeys(aggs, 2)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak keys, got %v", weak)
	}
	if _, ok := weak['q']; !ok {
		t.Fatalf("q should be weak: %v", weak)
	}
	if _, ok := weak['f']; !ok {
		t.Fatalf("f should be weak: %v", weak)
	}
}

func TestSelectWeakKeysEmpty(t *testing.T) {
	if weak := SelectWeakKeys(nil, 3); len(weak) != 0 {
		t.Fatalf("expected empty set, got %v", weak)
	}
}

func TestSelectWeakKeysTopLargerThanInput(t *testing.T) {
	aggs := []model.KeyAggregate{{Key: "h", Correct: 1, Incorrect: 1}}
	if weak := SelectWeakKeys(aggs, 10); len(weak) != 1 {
		t.Fatalf("expected 1 weak key, got %v", weak)
	}
}
