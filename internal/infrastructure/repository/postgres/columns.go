package postgres

import qb "github.com/riskibarqy/ninety-minute/internal/platform/querybuilder"

var (
	teamColumns          = columnsOf(teamTableModel{})
	teamRecordColumns    = columnsOf(teamRecordTableModel{})
	memberColumns        = columnsOf(memberTableModel{})
	participationColumns = columnsOf(participationTableModel{})
	proposalColumns      = columnsOf(proposalTableModel{})
	matchColumns         = columnsOf(matchTableModel{})
	lineupEntryColumns   = columnsOf(lineupEntryTableModel{})
	matchResultColumns   = columnsOf(matchResultTableModel{})
	scorerColumns        = columnsOf(scorerTableModel{})
	historyColumns       = columnsOf(historyTableModel{})
	abilityColumns       = columnsOf(abilityTableModel{})
)

// columnsOf lists the db tags of a table model. Models are static, so a
// failure here is a programming error.
func columnsOf(model any) []string {
	cols, _, err := qb.ColumnsAndValues(model)
	if err != nil {
		panic(err)
	}
	return cols
}
