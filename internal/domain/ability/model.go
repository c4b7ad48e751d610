package ability

import "github.com/cockroachdb/errors"

// Position is a playing position on a lineup entry or a member profile.
type Position string

const (
	PositionStriker    Position = "striker"
	PositionMidfielder Position = "midfielder"
	PositionDefender   Position = "defender"
	PositionGoalkeeper Position = "goalkeeper"
)

var AllPositions = map[Position]struct{}{
	PositionStriker:    {},
	PositionMidfielder: {},
	PositionDefender:   {},
	PositionGoalkeeper: {},
}

var ErrUnknownPosition = errors.New("unknown position")

func ParsePosition(raw string) (Position, error) {
	p := Position(raw)
	if _, ok := AllPositions[p]; !ok {
		return "", errors.Wrapf(ErrUnknownPosition, "%q", raw)
	}
	return p, nil
}

// Category is a leaderboard axis.
type Category string

const (
	CategoryMVP        Category = "mvp"
	CategoryStriker    Category = "striker"
	CategoryMidfielder Category = "midfielder"
	CategoryDefender   Category = "defender"
	CategoryGoalkeeper Category = "goalkeeper"
	CategoryCharm      Category = "charm"
)

var Categories = []Category{
	CategoryMVP,
	CategoryStriker,
	CategoryMidfielder,
	CategoryDefender,
	CategoryGoalkeeper,
	CategoryCharm,
}

// CategoryOf maps a position to its leaderboard.
func CategoryOf(p Position) Category {
	return Category(p)
}

// Ability holds the reputation points of one member.
type Ability struct {
	MemberID        string
	MVPPoint        int
	StrikerPoint    int
	MidfielderPoint int
	DefenderPoint   int
	GoalkeeperPoint int
	CharmPoint      int
}

// Delta is an additive change to an Ability.
type Delta struct {
	MVP        int
	Striker    int
	Midfielder int
	Defender   int
	Goalkeeper int
	Charm      int
}

// PositionDelta is a one point award for p.
func PositionDelta(p Position) Delta {
	switch p {
	case PositionStriker:
		return Delta{Striker: 1}
	case PositionMidfielder:
		return Delta{Midfielder: 1}
	case PositionDefender:
		return Delta{Defender: 1}
	case PositionGoalkeeper:
		return Delta{Goalkeeper: 1}
	default:
		return Delta{}
	}
}

func (d Delta) Add(o Delta) Delta {
	return Delta{
		MVP:        d.MVP + o.MVP,
		Striker:    d.Striker + o.Striker,
		Midfielder: d.Midfielder + o.Midfielder,
		Defender:   d.Defender + o.Defender,
		Goalkeeper: d.Goalkeeper + o.Goalkeeper,
		Charm:      d.Charm + o.Charm,
	}
}

func (d Delta) IsZero() bool {
	return d == Delta{}
}

func (a Ability) Apply(d Delta) Ability {
	a.MVPPoint += d.MVP
	a.StrikerPoint += d.Striker
	a.MidfielderPoint += d.Midfielder
	a.DefenderPoint += d.Defender
	a.GoalkeeperPoint += d.Goalkeeper
	a.CharmPoint += d.Charm
	return a
}

// Points returns the value used to rank a on category c.
func (a Ability) Points(c Category) int {
	switch c {
	case CategoryMVP:
		return a.MVPPoint
	case CategoryStriker:
		return a.StrikerPoint
	case CategoryMidfielder:
		return a.MidfielderPoint
	case CategoryDefender:
		return a.DefenderPoint
	case CategoryGoalkeeper:
		return a.GoalkeeperPoint
	case CategoryCharm:
		return a.CharmPoint
	default:
		return 0
	}
}
