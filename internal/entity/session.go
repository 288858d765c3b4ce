package entity

import "time"

// Game is a single game session: the engine state plus bookkeeping.
type Game struct {
	ID        string    `json:"id"`
	State     GameState `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewGame(id string, now time.Time) *Game {
	return &Game{
		ID:        id,
		State:     NewGameState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsFinished reports whether the shown board has a winner or no free cell.
func (that *Game) IsFinished() bool {
	return that.State.Winner() != Empty || that.State.CurrentBoard().Full()
}

// View is everything a presentation layer needs to draw the game.
type View struct {
	ID       string        `json:"id"`
	Board    Board         `json:"board"`
	Rows     [3][3]Mark    `json:"rows"`
	Status   string        `json:"status"`
	Winner   Mark          `json:"winner,omitempty"`
	NextMark Mark          `json:"next_mark"`
	Step     int           `json:"step"`
	Moves    []MoveCaption `json:"moves"`
	Finished bool          `json:"finished"`
}

func NewView(game *Game) View {
	board := game.State.CurrentBoard()

	return View{
		ID:       game.ID,
		Board:    board,
		Rows:     board.Rows(),
		Status:   Status(game.State),
		Winner:   CalculateWinner(board),
		NextMark: game.State.NextMark(),
		Step:     game.State.Step,
		Moves:    Moves(game.State),
		Finished: game.IsFinished(),
	}
}
