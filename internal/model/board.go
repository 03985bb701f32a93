package model

// Board identifies the curriculum/syllabus context that scopes the tutoring
// prompt. The set is fixed; the client renders it as the board selector.
type Board string

const (
	CBSE       Board = "CBSE"
	ICSE       Board = "ICSE"
	StateBoard Board = "State Board"
)

func Boards() []Board {
	return []Board{CBSE, ICSE, StateBoard}
}

func (b Board) Valid() bool {
	switch b {
	case CBSE, ICSE, StateBoard:
		return true
	}
	return false
}
