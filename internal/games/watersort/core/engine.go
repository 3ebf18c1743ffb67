package core

// pourCheck returns an empty string if the pour is legal, otherwise the reason.
func pourCheck(l Level, from, to int) string {
	if from == to {
		return ReasonSameBottle
	}
	if from < 0 || to < 0 || from >= len(l.Bottles) || to >= len(l.Bottles) {
		return ReasonOutOfRange
	}
	src, dst := l.Bottles[from], l.Bottles[to]
	srcTop, ok := src.Top()
	if !ok {
		return ReasonSourceEmpty
	}
	if len(dst) >= l.Capacity {
		return ReasonDestFull
	}
	dstTop, ok := dst.Top()
	if !ok {
		return ""
	}
	if srcTop != dstTop {
		return ReasonColorClash
	}
	return ""
}

// CanPour reports whether pouring from one bottle into another is legal.
// It never mutates the level and is safe to call for UI highlighting.
func CanPour(l Level, from, to int) bool {
	return pourCheck(l, from, to) == ""
}

// PourAmount returns how many units a legal pour would move, or 0 if illegal.
func PourAmount(l Level, from, to int) int {
	if !CanPour(l, from, to) {
		return 0
	}
	run := l.Bottles[from].TopRun()
	space := l.Capacity - len(l.Bottles[to])
	return min(run, space)
}

// Pour applies a streak pour and returns the resulting level and the number of
// units moved. Consecutive same-coloured units leave the top of the source one
// at a time until the source is empty, the destination is full, or the next
// unit has a different colour.
//
// The input level is never modified; on failure the error is an
// *IllegalMoveError and the returned level is the input.
func Pour(l Level, from, to int) (Level, int, error) {
	if reason := pourCheck(l, from, to); reason != "" {
		return l, 0, &IllegalMoveError{From: from, To: to, Reason: reason}
	}

	moved := PourAmount(l, from, to)
	next := l.Clone()
	src := next.Bottles[from]
	next.Bottles[to] = append(next.Bottles[to], src[len(src)-moved:]...)
	next.Bottles[from] = src[:len(src)-moved]
	return next, moved, nil
}

// LegalMoves returns every legal pour ordered by source then destination index.
func LegalMoves(l Level) []Move {
	var moves []Move
	for from := range l.Bottles {
		for to := range l.Bottles {
			if CanPour(l, from, to) {
				moves = append(moves, Move{From: from, To: to})
			}
		}
	}
	return moves
}

// Replay applies moves in order and returns the final level.
// The first illegal move stops the replay and its error is returned with the
// index of the failing move.
func Replay(l Level, moves []Move) (Level, int, error) {
	state := l.Clone()
	for i, m := range moves {
		next, _, err := Pour(state, m.From, m.To)
		if err != nil {
			return state, i, err
		}
		state = next
	}
	return state, len(moves), nil
}
