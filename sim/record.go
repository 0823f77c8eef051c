package sim

// Snapshot is the state left by one completed step.
type Snapshot struct {
	Step   int       `json:"step"`
	Grass  [][]int   `json:"grass"`
	Agents []Summary `json:"agents"`
}

type Record []Snapshot

// Counts is one row of the population table: agents per variant and the
// total grass left on the grid.
type Counts struct {
	Step     int             `json:"step"`
	Variants map[Variant]int `json:"variants"`
	Grass    int             `json:"grass"`
}

func (s Snapshot) Counts() Counts {
	c := Counts{Step: s.Step, Variants: make(map[Variant]int, len(Variants))}
	for _, v := range Variants {
		c.Variants[v] = 0
	}
	for _, a := range s.Agents {
		c.Variants[a.Variant]++
	}
	for _, row := range s.Grass {
		for _, v := range row {
			c.Grass += v
		}
	}
	return c
}

func (r Record) Counts() []Counts {
	out := make([]Counts, len(r))
	for i, s := range r {
		out[i] = s.Counts()
	}
	return out
}
