package status

import (
	"errors"
	"time"
)

// errAmbiguousLocal marks a wall-clock time that exists twice in the display
// zone (DST fold). The record cannot be resolved and is dropped.
var errAmbiguousLocal = errors.New("ambiguous local time")

// resolveLocal maps a civil wall-clock time onto an absolute instant in loc.
// naive carries the wall-clock fields in a UTC container (the parse result).
//
// A wall time skipped by a clock-forward transition resolves to the
// transition instant itself (the first valid instant after the gap); a wall
// time that occurs twice (fold) is rejected.
func resolveLocal(naive time.Time, loc *time.Location) (time.Time, error) {
	u := time.Date(naive.Year(), naive.Month(), naive.Day(),
		naive.Hour(), naive.Minute(), naive.Second(), naive.Nanosecond(), time.UTC)

	// Candidate zone offsets around the target; a day either side covers any
	// transition that could affect this wall time.
	offsets := make(map[int]struct{}, 3)
	for _, probe := range []time.Time{u.Add(-24 * time.Hour), u, u.Add(24 * time.Hour)} {
		_, off := probe.In(loc).Zone()
		offsets[off] = struct{}{}
	}

	var matches []time.Time
	for off := range offsets {
		cand := u.Add(-time.Duration(off) * time.Second)
		if sameWall(cand.In(loc), u) {
			matches = append(matches, cand)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0].In(loc), nil
	case 0:
		return shiftForward(u, loc), nil
	default:
		return time.Time{}, errAmbiguousLocal
	}
}

// shiftForward finds the transition instant that swallowed the wall time u.
func shiftForward(u time.Time, loc *time.Location) time.Time {
	_, offBefore := u.Add(-24 * time.Hour).In(loc).Zone()
	_, offAfter := u.Add(24 * time.Hour).In(loc).Zone()

	// Interpreting the gap wall time with the pre-transition offset lands
	// after the transition; with the post-transition offset, before it.
	hi := u.Add(-time.Duration(offBefore) * time.Second)
	lo := u.Add(-time.Duration(offAfter) * time.Second)

	// Binary search for the first instant carrying the new offset.
	for hi.Sub(lo) > time.Second {
		mid := lo.Add(hi.Sub(lo) / 2)
		if _, off := mid.In(loc).Zone(); off == offBefore {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi.In(loc)
}

func sameWall(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd &&
		a.Hour() == b.Hour() && a.Minute() == b.Minute() &&
		a.Second() == b.Second() && a.Nanosecond() == b.Nanosecond()
}
