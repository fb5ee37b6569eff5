package turn

import (
	"fmt"

	"github.com/playperu/cyberfront/internal/cyberfront"
	"github.com/playperu/cyberfront/internal/objective"
)

// record appends a line to the game's record-keeping sheet.
func (m *Machine) record(st *cyberfront.State, kind cyberfront.RecordKind, format string, args ...any) {
	g := st.Game
	st.Records = append(st.Records, &cyberfront.Record{
		ID:     m.newID(),
		GameID: g.ID,
		Turn:   g.Turn,
		Period: g.ActivePeriod,
		Side:   g.ActiveSide,
		Kind:   kind,
		Text:   fmt.Sprintf(format, args...),
		At:     m.now(),
	})
}

func (m *Machine) recordAwards(st *cyberfront.State, awards []objective.Award) {
	for _, a := range awards {
		m.record(st, cyberfront.RecordObjective, "%s scores %d for %s",
			a.Seat.EntityName(), a.Points, a.Objective)
	}
}
