package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckConnect(t *testing.T) {
	tests := []struct {
		name   string
		start  int
		target int
		road   []int
		want   bool
	}{
		{name: "straight corridor", start: 1, target: 3, road: []int{2}, want: true},
		{name: "corridor with a bend", start: 1, target: 18, road: []int{2, 10}, want: true},
		{name: "fork after first step", start: 1, target: 3, road: []int{2, 10}, want: false},
		{name: "fork at start", start: 1, target: 3, road: []int{2, 9}, want: false},
		{name: "target and road side by side", start: 1, target: 2, road: []int{9}, want: false},
		{name: "target beside a road that goes on", start: 1, target: 10, road: []int{2, 3}, want: false},
		{name: "target out of reach", start: 1, target: 20, road: []int{2}, want: false},
		{name: "no road", start: 1, target: 2, want: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CheckConnect(tc.start, tc.target, tc.road))
		})
	}
}

func TestCheckConnectAll(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		targets []int
		road    []int
		want    bool
	}{
		{name: "single target", start: 1, targets: []int{3}, road: []int{2}, want: true},
		{name: "targets do not count as forks", start: 1, targets: []int{9, 3}, road: []int{2}, want: true},
		{name: "walk goes on through a target", start: 1, targets: []int{3, 5}, road: []int{2, 4}, want: true},
		{name: "stops once every target is collected", start: 1, targets: []int{2}, road: []int{9}, want: true},
		{name: "road fork", start: 1, targets: []int{4}, road: []int{2, 3, 10}, want: false},
		{name: "one target out of reach", start: 1, targets: []int{3, 20}, road: []int{2}, want: false},
		{name: "no targets", start: 1, road: []int{2}, want: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CheckConnectAll(tc.start, tc.targets, tc.road))
		})
	}
}
