package nsearch

// Direction indicates which way an aligner walks across the original
// sequence coordinates: Forward increases indices, Backward decreases
// them (used to extend a seed to the left).
type Direction int

const (
	Forward Direction = iota
	Backward
)

// minScore is a sentinel "invalid" score, analogous to original_source's
// MININT. Kept well clear of int32 overflow since scores accumulate by
// addition.
const minScore = -(1 << 30)

type extendCell struct {
	score    int
	scoreGap int
}

// ExtendAligner performs gapped X-drop extension from a seed anchor, in
// either direction, following the Blast SemiGappedAlign-style algorithm
// of spec.md §4.3 (ported from original_source's ExtendAlign.h). It owns
// its scratch row and traceback-operations matrix, grown on demand with
// a 1.5x geometric policy and reused across calls within one Engine.
type ExtendAligner struct {
	alphabet Alphabet
	conf     DBConf

	row        []extendCell
	operations []CigarOp
	opsWidth   int
}

// NewExtendAligner returns an ExtendAligner configured per conf.
func NewExtendAligner(alphabet Alphabet, conf DBConf) *ExtendAligner {
	return &ExtendAligner{alphabet: alphabet, conf: conf}
}

func (e *ExtendAligner) ensureRow(width int) {
	if cap(e.row) < width {
		e.row = make([]extendCell, width*3/2+1)
	}
	e.row = e.row[:width]
}

func (e *ExtendAligner) ensureOps(width, height int) {
	need := width * height
	if cap(e.operations) < need {
		e.operations = make([]CigarOp, need*3/2+1)
	}
	e.operations = e.operations[:need]
	e.opsWidth = width
}

// Extend computes the maximum-scoring gapped extension from the anchor
// (startA, startB) in direction dir. The anchor cell itself has score 0
// and is not included in the alignment; extension begins one cell
// beyond it. Returns the best score, the coordinates (bestA, bestB) in
// original sequence coordinates where that score was achieved, and (if
// wantCigar) the CIGAR from the anchor to the best position, oriented
// in the direction of the original sequence.
func (e *ExtendAligner) Extend(query, target Sequence, startA, startB int, dir Direction, wantCigar bool) (score int, bestA int, bestB int, cigar Cigar) {
	conf := e.conf
	var width, height int
	lenA, lenB := len(query.Symbols), len(target.Symbols)

	if dir == Forward {
		width = lenA - startA + 1
		height = lenB - startB + 1
	} else {
		width = startA + 1
		height = startB + 1
	}

	bestA, bestB = startA, startB
	if width <= 1 || height <= 1 {
		return 0, bestA, bestB, NewCigar()
	}

	e.ensureRow(width)
	if wantCigar {
		e.ensureOps(width, height)
	}

	bestScore := 0
	bestX, bestY := 0, 0

	e.row[0] = extendCell{score: 0, scoreGap: conf.ExtendGapOpen + conf.ExtendGapExtend}

	x := 1
	for ; x < width; x++ {
		s := conf.ExtendGapOpen + x*conf.ExtendGapExtend
		if s < -conf.XDrop {
			break
		}
		if wantCigar {
			e.operations[x] = CigarInsertion
		}
		e.row[x] = extendCell{score: s, scoreGap: minScore}
	}
	rowSize := x

	firstX := 0

	for y := 1; y < height; y++ {
		rowGap := minScore
		score := minScore
		diagScore := minScore
		lastX := firstX
		var match bool
		var aIdx, bIdx int

		for x := firstX; x < rowSize; x++ {
			colGap := e.row[x].scoreGap

			aIdx, bIdx = 0, 0
			if x > 0 {
				if dir == Forward {
					aIdx = startA + x - 1
					bIdx = startB + y - 1
				} else {
					aIdx = startA - x
					bIdx = startB - y
				}
				match = e.alphabet.Match(query.Symbols[aIdx], target.Symbols[bIdx])
				if match {
					score = diagScore + conf.MatchScore
				} else {
					score = diagScore + conf.MismatchScore
				}
			} else {
				score = minScore
			}

			if score < rowGap {
				score = rowGap
			}
			if score < colGap {
				score = colGap
			}

			diagScore = e.row[x].score

			if bestScore-score > conf.XDrop {
				e.row[x].score = minScore
				if x == firstX {
					firstX++
				}
			} else {
				lastX = x

				if score > bestScore {
					bestScore = score
					bestA, bestB = aIdx, bIdx
					bestX, bestY = x, y
				}

				if wantCigar {
					var op CigarOp
					switch {
					case score == rowGap:
						op = CigarInsertion
					case score == colGap:
						op = CigarDeletion
					default:
						if match {
							op = CigarMatch
						} else {
							op = CigarMismatch
						}
					}
					e.operations[y*e.opsWidth+x] = op
				}

				e.row[x].score = score
				e.row[x].scoreGap = max(score+conf.ExtendGapOpen+conf.ExtendGapExtend, colGap+conf.ExtendGapExtend)
				rowGap = max(score+conf.ExtendGapOpen+conf.ExtendGapExtend, rowGap+conf.ExtendGapExtend)
			}
		}

		if firstX == rowSize {
			break
		}

		if lastX < rowSize-1 {
			rowSize = lastX + 1
		} else {
			for rowGap >= bestScore-conf.XDrop && rowSize < width {
				e.row[rowSize].score = rowGap
				e.row[rowSize].scoreGap = rowGap + conf.ExtendGapOpen + conf.ExtendGapExtend
				if wantCigar {
					e.operations[y*e.opsWidth+rowSize] = CigarInsertion
				}
				rowGap += conf.ExtendGapExtend
				rowSize++
			}
		}

		if rowSize < width {
			e.row[rowSize].score = minScore
			e.row[rowSize].scoreGap = minScore
			rowSize++
		}
	}

	if wantCigar {
		cigar = NewCigar()
		bx, by := bestX, bestY
		for bx != 0 || by != 0 {
			op := e.operations[by*e.opsWidth+bx]
			cigar.Add(op)
			switch op {
			case CigarInsertion:
				bx--
			case CigarDeletion:
				by--
			default: // Match or Mismatch
				bx--
				by--
			}
		}
		if dir == Forward {
			cigar = cigar.Reverse()
		}
	} else {
		cigar = NewCigar()
	}

	return bestScore, bestA, bestB, cigar
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
