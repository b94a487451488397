package payoff

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/loan-payoff/internal/model"
)

func TestPermutations_VisitsEveryOrderingOnce(t *testing.T) {
	for n := 1; n <= 6; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			perms := NewPermutations(n)
			seen := make(map[string]bool)
			count := 0

			for perms.Next() {
				ordering := perms.Ordering()
				assert.True(t, ordering.IsPermutation(n), "not a permutation: %v", ordering)

				key := fmt.Sprint(ordering)
				assert.False(t, seen[key], "duplicate ordering %v", ordering)
				seen[key] = true
				count++
			}

			assert.Equal(t, Count(n), count)
			assert.False(t, perms.Next(), "generator must stay exhausted")
		})
	}
}

func TestPermutations_SingleSwapBetweenSteps(t *testing.T) {
	perms := NewPermutations(4)
	var previous model.Ordering

	for perms.Next() {
		current := perms.Ordering()
		if previous != nil {
			diff := 0
			for i := range current {
				if current[i] != previous[i] {
					diff++
				}
			}
			assert.Equal(t, 2, diff, "%v -> %v", previous, current)
		}
		previous = current
	}
}

func TestPermutations_Sequence(t *testing.T) {
	perms := NewPermutations(3)
	var got []model.Ordering
	for perms.Next() {
		got = append(got, perms.Ordering())
	}

	assert.Equal(t, []model.Ordering{
		{0, 1, 2},
		{1, 0, 2},
		{2, 0, 1},
		{0, 2, 1},
		{1, 2, 0},
		{2, 1, 0},
	}, got)
}

func TestPermutations_Empty(t *testing.T) {
	assert.False(t, NewPermutations(0).Next())
}

func TestPermutations_OrderingIsACopy(t *testing.T) {
	perms := NewPermutations(3)
	perms.Next()
	first := perms.Ordering()
	first[0] = 99

	assert.Equal(t, model.Ordering{0, 1, 2}, perms.Ordering())
}

func TestCount(t *testing.T) {
	assert.Equal(t, 1, Count(0))
	assert.Equal(t, 1, Count(1))
	assert.Equal(t, 2, Count(2))
	assert.Equal(t, 120, Count(5))
	assert.Equal(t, 40320, Count(8))
}
