package economy

import (
	"testing"

	"clicker_webapp/internal/domain"
)

func TestInviteMilestone(t *testing.T) {
	tests := []struct {
		count  int
		amount int64
		ok     bool
	}{
		{0, 0, false},
		{1, 2000, true},
		{2, 0, false},
		{5, 5000, true},
		{6, 0, false},
		{100, 50000, true},
		{1000, 250000, true},
		{1001, 0, false},
	}
	for _, tt := range tests {
		g, ok := InviteMilestone(tt.count)
		if ok != tt.ok || g.Amount != tt.amount {
			t.Errorf("InviteMilestone(%d) = %d,%v want %d,%v", tt.count, g.Amount, ok, tt.amount, tt.ok)
		}
	}
}

func TestMiningShares(t *testing.T) {
	tests := []struct {
		yield int64
		want  [2]int64
	}{
		{5000, [2]int64{250, 50}},
		{99, [2]int64{4, 0}},
		{0, [2]int64{0, 0}},
	}
	for _, tt := range tests {
		got := MiningShares(tt.yield)
		if len(got) != 2 || got[0] != tt.want[0] || got[1] != tt.want[1] {
			t.Errorf("MiningShares(%d) = %v, want %v", tt.yield, got, tt.want)
		}
	}
}

func TestTaskVisible(t *testing.T) {
	always := domain.Task{Visibility: domain.Visibility{Type: domain.VisibilityAlways}}
	gated := domain.Task{Visibility: domain.Visibility{Type: domain.VisibilityRank, RequiredRankID: 5}}
	missing := domain.Task{Visibility: domain.Visibility{Type: domain.VisibilityRank, RequiredRankID: 99}}
	unknown := domain.Task{Visibility: domain.Visibility{Type: "FRIENDS"}}

	r1, _ := testLadder.Get(1)
	r4, _ := testLadder.Get(4)

	tests := []struct {
		name string
		task domain.Task
		rank domain.Rank
		want bool
	}{
		{"always", always, r1, true},
		{"league below", gated, r1, false},
		{"same league lower rank id", gated, r4, true},
		{"unknown required rank", missing, r4, false},
		{"unknown rule", unknown, r4, false},
	}
	for _, tt := range tests {
		if got := TaskVisible(tt.task, tt.rank, testLadder); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}
