package grammar

type ReportProduction struct {
	Number int      `json:"number"`
	Family int      `json:"family"`
	RHS    []string `json:"rhs"`
	Hook   string   `json:"hook,omitempty"`
}

type Item struct {
	Production int   `json:"production"`
	Dot        int   `json:"dot"`
	LookAhead  []int `json:"look_ahead"`
}

type Transition struct {
	Symbol int `json:"symbol"`
	State  int `json:"state"`
}

type Reduce struct {
	LookAhead  []int `json:"look_ahead"`
	Production int   `json:"production"`
}

type SRConflict struct {
	Symbol     int `json:"symbol"`
	State      int `json:"state"`
	Production int `json:"production"`
}

type RRConflict struct {
	Symbol      int `json:"symbol"`
	Production1 int `json:"production_1"`
	Production2 int `json:"production_2"`
}

// State describes one automaton state. Shift symbols are terminal numbers and
// GoTo symbols are family numbers.
type State struct {
	Number     int           `json:"number"`
	Items      []*Item       `json:"items"`
	Shift      []*Transition `json:"shift"`
	Reduce     []*Reduce     `json:"reduce"`
	GoTo       []*Transition `json:"goto"`
	Accept     bool          `json:"accept"`
	SRConflict []*SRConflict `json:"sr_conflict"`
	RRConflict []*RRConflict `json:"rr_conflict"`
}

type Report struct {
	Terminals   []*Terminal         `json:"terminals"`
	Families    []*Family           `json:"families"`
	Productions []*ReportProduction `json:"productions"`
	States      []*State            `json:"states"`
}
