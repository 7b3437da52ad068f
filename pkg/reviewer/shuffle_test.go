package reviewer

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/codeGROOVE-dev/reviewporter/pkg/internal/testutil"
	"github.com/codeGROOVE-dev/reviewporter/pkg/types"
)

func TestIdentityShuffler(t *testing.T) {
	first, second := testutil.Members("1", "2", "3"), testutil.Members("4", "5")

	gotFirst, gotSecond := IdentityShuffler{}.Shuffle(first, second)

	if diff := cmp.Diff(testutil.Members("1", "2", "3"), gotFirst); diff != "" {
		t.Errorf("first pool changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(testutil.Members("4", "5"), gotSecond); diff != "" {
		t.Errorf("second pool changed (-want +got):\n%s", diff)
	}
}

func TestRandomShuffler_Permutes(t *testing.T) {
	first, second := testutil.MemberRange(0, 20), testutil.MemberRange(20, 30)
	byID := cmpopts.SortSlices(func(a, b types.TeamMember) bool { return a.ID < b.ID })

	gotFirst, gotSecond := NewRandomShuffler().Shuffle(first, second)

	if diff := cmp.Diff(first, gotFirst, byID); diff != "" {
		t.Errorf("first pool is not a permutation (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(second, gotSecond, byID); diff != "" {
		t.Errorf("second pool is not a permutation (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(testutil.MemberRange(0, 20), first); diff != "" {
		t.Errorf("input was modified (-want +got):\n%s", diff)
	}
}

func TestRandomShuffler_SeededIsReproducible(t *testing.T) {
	members := testutil.MemberRange(0, 20)

	a, _ := NewSeededShuffler(7, 11).Shuffle(members, nil)
	b, _ := NewSeededShuffler(7, 11).Shuffle(members, nil)

	if !slices.Equal(a, b) {
		t.Errorf("same seed produced different orders: %v vs %v", a, b)
	}
}

func TestRandomShuffler_Empty(t *testing.T) {
	first, second := NewRandomShuffler().Shuffle(nil, nil)
	if len(first) != 0 || len(second) != 0 {
		t.Errorf("expected empty pools, got %v, %v", first, second)
	}
}
