// Package generator builds review drill lines from existing level tasks.
package generator

import (
	"math/rand"
	"time"

	"github.com/poriyaalar/suvadi/internal/layout"
)

// Generator produces randomized review drills.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Pick selects count task lines uniformly.
func (g *Generator) Pick(tasks []string, count int) []string {
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, tasks[g.rnd.Intn(len(tasks))])
	}
	return result
}

// PickWeighted selects task lines with a bias toward lines whose keystroke
// sequences hit weak keys. A task that fails to resolve keeps base weight.
func (g *Generator) PickWeighted(table *layout.Table, tasks []string, count int, weakSet map[rune]struct{}, factor float64) []string {
	weights := make([]float64, len(tasks))
	total := 0.0
	for i, task := range tasks {
		weakCount := 0
		if seq, err := table.Sequence(task); err == nil {
			for _, stroke := range seq {
				if _, ok := weakSet[stroke.Key]; ok {
					weakCount++
				}
			}
		}
		w := 1.0 + float64(weakCount)*factor
		weights[i] = w
		total += w
	}

	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := 0
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		result = append(result, tasks[idx])
	}
	return result
}
