package search

import "github.com/rocketscienceinc/tictactoe-engine/internal/entity"

// lineScores[p][o] is the contribution of a line holding p marks of the
// maximizer and o marks of the opponent. Mixed lines can no longer be won by
// either side and score nothing.
var lineScores = [4][4]int{
	{0, -1, -10, -100},
	{1, 0, 0, 0},
	{10, 0, 0, 0},
	{100, 0, 0, 0},
}

// maxHeuristic bounds |Evaluate| for any board: every line scores at most 100.
const maxHeuristic = len(entity.Lines) * 100

// Evaluate - estimates a position from the point of view of me by counting
// open lines. It is a heuristic, not an exact value, and is only consulted
// when the depth budget runs out on a non-terminal board.
func Evaluate(board entity.Board, me entity.Mark) int {
	opponent := me.Opponent()
	score := 0

	for _, line := range entity.Lines {
		own, other := 0, 0
		for _, idx := range line {
			switch board[idx] {
			case me:
				own++
			case opponent:
				other++
			}
		}

		score += lineScores[own][other]
	}

	return score
}
