package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func milestonesWith(statuses ...MilestoneStatus) []Milestone {
	out := make([]Milestone, 0, len(statuses))
	for i, s := range statuses {
		out = append(out, Milestone{PhaseNumber: i + 1, Status: s})
	}
	return out
}

func TestComputeOverallProgress(t *testing.T) {
	cases := []struct {
		name     string
		statuses []MilestoneStatus
		want     int
	}{
		{"empty plan", nil, 0},
		{"nothing done", []MilestoneStatus{MilestoneNotStarted, MilestoneInProgress}, 0},
		{"one of three", []MilestoneStatus{MilestonePaid, MilestoneInProgress, MilestoneNotStarted}, 33},
		{"two of three", []MilestoneStatus{MilestonePaid, MilestoneApproved, MilestoneInProgress}, 67},
		{"half", []MilestoneStatus{MilestonePaid, MilestoneAwaitingApproval}, 50},
		{"all paid", []MilestoneStatus{MilestonePaid, MilestonePaid}, 100},
		{"approved counts as completed", []MilestoneStatus{MilestoneApproved}, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeOverallProgress(milestonesWith(tc.statuses...)))
		})
	}
}

func TestComputeCurrentPhase(t *testing.T) {
	assert.Equal(t, 1, ComputeCurrentPhase(nil))
	assert.Equal(t, 1, ComputeCurrentPhase(milestonesWith(MilestoneInProgress, MilestoneNotStarted)))
	assert.Equal(t, 2, ComputeCurrentPhase(milestonesWith(MilestonePaid, MilestoneInProgress)))
	assert.Equal(t, 3, ComputeCurrentPhase(milestonesWith(MilestonePaid, MilestoneApproved, MilestoneNotStarted)))
}

func TestComputeCurrentPhaseCapsAtMaxPhases(t *testing.T) {
	all := milestonesWith(MilestonePaid, MilestonePaid, MilestonePaid, MilestonePaid, MilestonePaid)
	assert.Equal(t, MaxPhases, ComputeCurrentPhase(all))
}
