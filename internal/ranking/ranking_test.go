package ranking

import (
	"reflect"
	"testing"
)

func TestRankSortsDescending(t *testing.T) {
	entries := Rank([]UserScore{
		{UserID: "u1", Score: 100},
		{UserID: "u2", Score: 300},
		{UserID: "u3", Score: 200},
	})

	want := []string{"u2", "u3", "u1"}
	for i, id := range want {
		if entries[i].UserID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, entries[i].UserID)
		}
		if entries[i].Rank != i+1 {
			t.Fatalf("position %d: expected rank %d, got %d", i, i+1, entries[i].Rank)
		}
	}
}

func TestRankTieBreakIsDeterministic(t *testing.T) {
	scores := []UserScore{
		{UserID: "zeta", Score: 200},
		{UserID: "alpha", Score: 200},
		{UserID: "mike", Score: 200},
	}

	first := Rank(scores)
	for i := 0; i < 50; i++ {
		if got := Rank(scores); !reflect.DeepEqual(got, first) {
			t.Fatalf("tie ordering changed between calls: %#v vs %#v", got, first)
		}
	}

	// Départage par userId croissant
	want := []string{"alpha", "mike", "zeta"}
	for i, id := range want {
		if first[i].UserID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, first[i].UserID)
		}
	}
}

func TestRankStandardCompetitionNumbering(t *testing.T) {
	entries := Rank([]UserScore{
		{UserID: "u1", Score: 500},
		{UserID: "u2", Score: 400},
		{UserID: "u3", Score: 400},
		{UserID: "u4", Score: 300},
	})

	wantRanks := []int{1, 2, 2, 4}
	for i, want := range wantRanks {
		if entries[i].Rank != want {
			t.Fatalf("position %d: expected rank %d, got %d", i, want, entries[i].Rank)
		}
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	scores := []UserScore{
		{UserID: "u1", Score: 100},
		{UserID: "u2", Score: 300},
	}
	Rank(scores)
	if scores[0].UserID != "u1" {
		t.Fatalf("input slice was reordered")
	}
}

func TestPodiumOrdering(t *testing.T) {
	ranked := Rank([]UserScore{
		{UserID: "gold", Score: 300},
		{UserID: "silver", Score: 200},
		{UserID: "bronze", Score: 100},
	})

	podium := Podium(ranked)
	want := []string{"silver", "gold", "bronze"} // gauche, centre, droite
	for i, id := range want {
		if podium[i].UserID != id {
			t.Fatalf("slot %d: expected %s, got %s", i, id, podium[i].UserID)
		}
	}
}

func TestPartialPodium(t *testing.T) {
	if got := Podium(nil); len(got) != 0 {
		t.Fatalf("empty leaderboard: expected empty podium, got %d entries", len(got))
	}

	one := Podium([]Entry{{UserID: "solo", Rank: 1}})
	if len(one) != 1 || one[0].UserID != "solo" {
		t.Fatalf("single entry podium should hold the leader only: %#v", one)
	}

	two := Podium([]Entry{{UserID: "first", Rank: 1}, {UserID: "second", Rank: 2}})
	if len(two) != 2 || two[0].UserID != "second" || two[1].UserID != "first" {
		t.Fatalf("two entry podium should be [second, first]: %#v", two)
	}
}
