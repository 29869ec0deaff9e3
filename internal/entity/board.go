package entity

import (
	"fmt"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
)

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

// Mark is the piece occupying a cell. None marks an empty cell.
type Mark int

const (
	None Mark = iota
	Player1
	Player2
)

// Opponent returns the other player's mark.
func (m Mark) Opponent() Mark {
	if m == Player1 {
		return Player2
	}
	return Player1
}

// MarshalJSON encodes an empty mark as null.
func (m Mark) MarshalJSON() ([]byte, error) {
	if m == None {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("%d", int(m))), nil
}

// Board is the 6x7 grid. Row 0 is the top row, row Rows-1 the bottom one.
type Board [Rows][Columns]Mark

// directions walked by the win check: horizontal, vertical, diagonal down-right, diagonal down-left.
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

func ValidColumn(col int) bool {
	return col >= 0 && col < Columns
}

// Drop places mark into the lowest empty row of col and returns the new board with the row it landed in.
// The receiver is left untouched.
func (that Board) Drop(col int, mark Mark) (Board, int, error) {
	if !ValidColumn(col) {
		return that, -1, fmt.Errorf("%w: column %d", apperror.ErrInvalidColumn, col)
	}

	if that[0][col] != None {
		return that, -1, apperror.ErrColumnFull
	}

	for row := Rows - 1; row >= 0; row-- {
		if that[row][col] == None {
			that[row][col] = mark
			return that, row, nil
		}
	}

	return that, -1, apperror.ErrColumnFull
}

// Winner scans the whole board for four equal marks in a line.
func (that Board) Winner() Mark {
	for row := range Rows {
		for col := range Columns {
			mark := that[row][col]
			if mark == None {
				continue
			}

			for _, dir := range directions {
				if that.lineFrom(row, col, dir[0], dir[1], mark) {
					return mark
				}
			}
		}
	}

	return None
}

// WinnerAt checks only the four lines passing through (row, col).
func (that Board) WinnerAt(row, col int) Mark {
	if row < 0 || row >= Rows || !ValidColumn(col) {
		return None
	}

	mark := that[row][col]
	if mark == None {
		return None
	}

	for _, dir := range directions {
		count := 1 + that.count(row, col, dir[0], dir[1], mark) + that.count(row, col, -dir[0], -dir[1], mark)
		if count >= ToWin {
			return mark
		}
	}

	return None
}

// IsFull reports whether every column is filled up to the top row.
func (that Board) IsFull() bool {
	for col := range Columns {
		if that[0][col] == None {
			return false
		}
	}
	return true
}

// Height returns the number of occupied cells in col.
func (that Board) Height(col int) int {
	height := 0
	for row := Rows - 1; row >= 0; row-- {
		if that[row][col] == None {
			break
		}
		height++
	}
	return height
}

// Mirror returns the board reflected left to right.
func (that Board) Mirror() Board {
	var mirrored Board
	for row := range Rows {
		for col := range Columns {
			mirrored[row][Columns-1-col] = that[row][col]
		}
	}
	return mirrored
}

func (that Board) lineFrom(row, col, dRow, dCol int, mark Mark) bool {
	for step := 1; step < ToWin; step++ {
		r, c := row+step*dRow, col+step*dCol
		if r < 0 || r >= Rows || c < 0 || c >= Columns || that[r][c] != mark {
			return false
		}
	}
	return true
}

func (that Board) count(row, col, dRow, dCol int, mark Mark) int {
	n := 0
	for r, c := row+dRow, col+dCol; r >= 0 && r < Rows && c >= 0 && c < Columns; r, c = r+dRow, c+dCol {
		if that[r][c] != mark {
			break
		}
		n++
	}
	return n
}
