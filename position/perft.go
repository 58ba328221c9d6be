package position

// PerftStats breaks a perft count down into the categories the canonical
// test suites (spec §8) check independently, rather than a bare node
// count; the captures/checks/mates counters are supplemented from
// original_source's perft tooling, which the distilled spec only mentions
// in passing.
type PerftStats struct {
	Nodes    uint64
	Captures uint64
	Checks   uint64
	Mates    uint64
}

// Perft walks the legal move tree to the given depth and reports
// statistics for the resulting leaf set.
func (pos *Position) Perft(depth int) PerftStats {
	var stats PerftStats
	pos.perftRec(depth, &stats)
	return stats
}

func (pos *Position) perftRec(depth int, stats *PerftStats) {
	if depth == 0 {
		stats.Nodes++
		return
	}
	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		for _, m := range moves {
			if m.IsCapture {
				stats.Captures++
			}
			ok, u := pos.MakeMove(m)
			if !ok {
				continue
			}
			if pos.InCheck(pos.sideToMove) {
				stats.Checks++
				if len(pos.GenerateLegalMoves()) == 0 {
					stats.Mates++
				}
			}
			pos.UnmakeMove(u)
			stats.Nodes++
		}
		return
	}
	for _, m := range moves {
		ok, u := pos.MakeMove(m)
		if !ok {
			continue
		}
		pos.perftRec(depth-1, stats)
		pos.UnmakeMove(u)
	}
}

// PerftDivide returns the node count at depth-1 reached through each legal
// root move, keyed by move, for debugging perft mismatches against a
// reference engine.
func (pos *Position) PerftDivide(depth int) map[Move]uint64 {
	result := make(map[Move]uint64)
	moves := pos.GenerateLegalMoves()
	for _, m := range moves {
		ok, u := pos.MakeMove(m)
		if !ok {
			continue
		}
		stats := pos.Perft(depth - 1)
		result[m] = stats.Nodes
		pos.UnmakeMove(u)
	}
	return result
}
