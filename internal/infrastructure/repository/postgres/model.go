package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	PublicID        string     `db:"public_id"`
	Name            string     `db:"name"`
	LeaderID        string     `db:"leader_member_public_id"`
	Introduce       string     `db:"introduce"`
	MainArea        string     `db:"main_area"`
	Recruiting      bool       `db:"recruiting"`
	RecruitQuestion string     `db:"recruit_question"`
	MatchSeeking    bool       `db:"match_seeking"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

type teamRecordTableModel struct {
	TeamID         string  `db:"team_public_id"`
	TotalGameCount int     `db:"total_game_count"`
	WinCount       int     `db:"win_count"`
	DrawCount      int     `db:"draw_count"`
	LoseCount      int     `db:"lose_count"`
	WinRate        float64 `db:"win_rate"`
}

type memberTableModel struct {
	PublicID   string         `db:"public_id"`
	Nickname   string         `db:"nickname"`
	Position   string         `db:"position"`
	Contact    string         `db:"contact"`
	Phone      string         `db:"phone"`
	OpenTeamID sql.NullString `db:"open_team_public_id"`
}

type participationTableModel struct {
	TeamID     string     `db:"team_public_id"`
	MemberID   string     `db:"member_public_id"`
	Approved   bool       `db:"approved"`
	CreatedAt  time.Time  `db:"created_at"`
	ApprovedAt *time.Time `db:"approved_at"`
}

type proposalTableModel struct {
	PublicID             string    `db:"public_id"`
	ProposerTeamID       string    `db:"proposer_team_public_id"`
	TargetTeamID         string    `db:"target_team_public_id"`
	Greeting             string    `db:"greeting"`
	Approved             bool      `db:"approved"`
	ProposerEndRequested bool      `db:"proposer_end_requested"`
	TargetEndRequested   bool      `db:"target_end_requested"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

type matchTableModel struct {
	PublicID     string    `db:"public_id"`
	ProposalID   string    `db:"proposal_public_id"`
	HomeTeamID   string    `db:"home_team_public_id"`
	AwayTeamID   string    `db:"away_team_public_id"`
	HomeTeamName string    `db:"home_team_name"`
	AwayTeamName string    `db:"away_team_name"`
	MatchDate    time.Time `db:"match_date"`
	Location     string    `db:"location"`
	CreatedAt    time.Time `db:"created_at"`
}

type lineupEntryTableModel struct {
	PublicID string         `db:"public_id"`
	MatchID  string         `db:"match_public_id"`
	TeamID   string         `db:"team_public_id"`
	ResultID sql.NullString `db:"result_public_id"`
	Slot     string         `db:"slot"`
	Position string         `db:"position"`
	MemberID sql.NullString `db:"member_public_id"`
}

type matchResultTableModel struct {
	PublicID          string     `db:"public_id"`
	MatchID           string     `db:"match_public_id"`
	ReportingTeamID   string     `db:"reporting_team_public_id"`
	Score             int        `db:"score"`
	OpponentScore     int        `db:"opponent_score"`
	MVPNickname       string     `db:"mvp_nickname"`
	MoodMakerNickname string     `db:"mood_maker_nickname"`
	Confirmed         bool       `db:"confirmed"`
	Settled           bool       `db:"settled"`
	ConfirmedAt       *time.Time `db:"confirmed_at"`
	SettledAt         *time.Time `db:"settled_at"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

type scorerTableModel struct {
	PublicID string         `db:"public_id"`
	ResultID string         `db:"result_public_id"`
	EntryID  sql.NullString `db:"entry_public_id"`
}

type historyTableModel struct {
	PublicID   string    `db:"public_id"`
	MatchID    string    `db:"match_public_id"`
	ResultID   string    `db:"result_public_id"`
	HomeTeamID string    `db:"home_team_public_id"`
	AwayTeamID string    `db:"away_team_public_id"`
	HomeScore  int       `db:"home_score"`
	AwayScore  int       `db:"away_score"`
	MatchDate  time.Time `db:"match_date"`
	CreatedAt  time.Time `db:"created_at"`
}

type abilityTableModel struct {
	MemberID        string `db:"member_public_id"`
	MVPPoint        int    `db:"mvp_point"`
	StrikerPoint    int    `db:"striker_point"`
	MidfielderPoint int    `db:"midfielder_point"`
	DefenderPoint   int    `db:"defender_point"`
	GoalkeeperPoint int    `db:"goalkeeper_point"`
	CharmPoint      int    `db:"charm_point"`
}
