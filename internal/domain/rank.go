package domain

// Rank is one step of the rank ladder. The catalog never changes at runtime.
type Rank struct {
	ID              int     `db:"id" json:"id" toml:"id"`
	Name            string  `db:"name" json:"name" toml:"name"`
	League          int     `db:"league" json:"league" toml:"league"`
	PressForce      int64   `db:"press_force" json:"press_force" toml:"press_force"`
	MaxEnergy       int64   `db:"max_energy" json:"max_energy" toml:"max_energy"`
	EnergyPerSecond float64 `db:"energy_per_sec" json:"energy_per_sec" toml:"energy_per_sec"`
	Price           int64   `db:"price" json:"price" toml:"price"`
}

// RankLadder is the rank catalog ordered by id, starting at id 1.
type RankLadder []Rank

// Get returns the rank with the given ladder position.
func (l RankLadder) Get(id int) (Rank, bool) {
	if id < 1 || id > len(l) {
		return Rank{}, false
	}
	return l[id-1], true
}

// Next returns the rank one step above id.
func (l RankLadder) Next(id int) (Rank, bool) {
	return l.Get(id + 1)
}

// Top returns the highest ladder position.
func (l RankLadder) Top() int {
	return len(l)
}

// Validate checks that ids are contiguous from 1 and leagues never go down.
func (l RankLadder) Validate() error {
	if len(l) == 0 {
		return ErrEmptyLadder
	}
	for i, r := range l {
		if r.ID != i+1 {
			return ErrLadderGap
		}
		if i > 0 && r.League < l[i-1].League {
			return ErrLadderLeagueOrder
		}
	}
	return nil
}
