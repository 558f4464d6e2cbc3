// Package lineup implements LineupEngine (C4): substitution-minute
// selection, per-sub swap sampling, and red-card roster removal.
package lineup

import (
	"sort"

	"github.com/venomio/vpfm/internal/domain"
)

// Roster is one team's live active/passive player lists during a
// simulation. It is the "fixed-shape record" Design Notes calls for in
// place of core.py's dynamic dict-of-dicts: mutable per-sim counters
// (yellow cards, red-card count) are tracked separately in the simulate
// package's teamSimState, not here, so Roster itself stays cheap to reset
// between simulations.
type Roster struct {
	TeamID  int
	Active  []string
	Passive []string
}

// RemoveActive drops a player from the active list (red card, §4.4): the
// vacated slot is never refilled.
func (r *Roster) RemoveActive(playerID string) {
	for i, p := range r.Active {
		if p == playerID {
			r.Active = append(r.Active[:i], r.Active[i+1:]...)
			return
		}
	}
}

// MoveToActive transfers a player from passive to active (a sub-in).
func (r *Roster) MoveToActive(playerID string) {
	for i, p := range r.Passive {
		if p == playerID {
			r.Passive = append(r.Passive[:i], r.Passive[i+1:]...)
			break
		}
	}
	r.Active = append(r.Active, playerID)
}

// MoveToPassive transfers a player from active to passive (a sub-out).
func (r *Roster) MoveToPassive(playerID string) {
	r.RemoveActive(playerID)
	r.Passive = append(r.Passive, playerID)
}

// EffectiveSubs computes clamp(mu-(5-available), 0, available), per §4.4.
func EffectiveSubs(mu, available int) int {
	effective := mu - (5 - available)
	if effective < 0 {
		effective = 0
	}
	if effective > available {
		effective = available
	}
	return effective
}

// WindowCount picks K per §4.4: 1 if effective==1, 2 if effective<5,
// 3 otherwise.
func WindowCount(effective int) int {
	switch {
	case effective == 1:
		return 1
	case effective < 5:
		return 2
	default:
		return 3
	}
}

// TopSubMinutes returns the K most frequent historical sub-in minutes
// strictly greater than currentMinute, from a frequency histogram of
// past sub-in minutes (ties broken by the earlier minute).
func TopSubMinutes(history map[int]int, currentMinute, k int) []int {
	type entry struct {
		minute int
		count  int
	}
	var candidates []entry
	for minute, count := range history {
		if minute > currentMinute {
			candidates = append(candidates, entry{minute, count})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}
		return candidates[i].minute < candidates[j].minute
	})

	if k > len(candidates) {
		k = len(candidates)
	}
	out := make([]int, k)
	for i := 0; i < k; i++ {
		out[i] = candidates[i].minute
	}
	sort.Ints(out)
	return out
}

// DistributeEvenly spreads `effective` substitutions across `windows`
// slots, remainder going to the earlier windows (property #6).
func DistributeEvenly(effective, windows int) []int {
	if windows <= 0 {
		return nil
	}
	base := effective / windows
	remainder := effective % windows
	out := make([]int, windows)
	for i := range out {
		out[i] = base
		if i < remainder {
			out[i]++
		}
	}
	return out
}

// SubPlan is the full §4.4 sub-minute choice for one team: effective
// sub count, window minutes, and per-window sub counts.
type SubPlan struct {
	EffectiveSubs int
	Windows       []int
	PerWindow     []int
}

// PlanSubstitutions runs the sub-minute choice for a team given its
// historical average sub count, remaining bench size, and historical
// sub-in minute frequencies.
func PlanSubstitutions(historicalAvgSubs float64, available int, history map[int]int, currentMinute int) SubPlan {
	mu := int(historicalAvgSubs + 0.5) // round half up
	effective := EffectiveSubs(mu, available)
	if effective == 0 {
		return SubPlan{}
	}

	k := WindowCount(effective)
	windows := TopSubMinutes(history, currentMinute, k)
	if len(windows) == 0 {
		return SubPlan{EffectiveSubs: effective}
	}

	perWindow := DistributeEvenly(effective, len(windows))
	return SubPlan{EffectiveSubs: effective, Windows: windows, PerWindow: perWindow}
}

// statusLabel maps a live goal-difference state to the three-way status
// used by the out/in status probability tables.
func statusLabel(diff int) domain.GoalStatus {
	return domain.Status(float64(diff))
}
