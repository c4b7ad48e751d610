package lineup

import (
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/ability"
)

// Slot tells whether an entry started the match or came on later.
type Slot string

const (
	SlotField      Slot = "field"
	SlotSubstitute Slot = "substitute"
)

// Player is either a registered member or an anonymous guest. The set of
// implementations is closed to this package.
type Player interface {
	isPlayer()
}

// Registered is a player backed by a member row.
type Registered struct {
	MemberID string
}

// Anonymous is a guest player with no member row; it never earns points.
type Anonymous struct{}

func (Registered) isPlayer() {}
func (Anonymous) isPlayer()  {}

// MemberIDOf returns the member id and true for registered players.
func MemberIDOf(p Player) (string, bool) {
	if v, ok := p.(Registered); ok && v.MemberID != "" {
		return v.MemberID, true
	}
	return "", false
}

// Entry is one player in a team's lineup for a match. Substitutes carry the
// id of the result they were recorded with.
type Entry struct {
	ID       string
	MatchID  string
	TeamID   string
	ResultID string
	Slot     Slot
	Position ability.Position
	Player   Player
}

var (
	ErrDuplicateMember = errors.New("member listed more than once")
	ErrMissingPlayer   = errors.New("entry has no player")
)

// Validate checks a single entry independently of storage.
func (e Entry) Validate() error {
	if _, ok := ability.AllPositions[e.Position]; !ok {
		return errors.Wrapf(ability.ErrUnknownPosition, "%q", e.Position)
	}
	switch e.Slot {
	case SlotField, SlotSubstitute:
	default:
		return errors.Newf("unknown slot %q", e.Slot)
	}
	switch p := e.Player.(type) {
	case Registered:
		if p.MemberID == "" {
			return ErrMissingPlayer
		}
	case Anonymous:
	default:
		return ErrMissingPlayer
	}
	return nil
}

// ValidateSet checks every entry and rejects a member appearing twice.
func ValidateSet(entries []Entry) error {
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return errors.Wrapf(err, "entry %d", i)
		}
		memberID, ok := MemberIDOf(e.Player)
		if !ok {
			continue
		}
		if _, dup := seen[memberID]; dup {
			return errors.Wrapf(ErrDuplicateMember, "%s", memberID)
		}
		seen[memberID] = struct{}{}
	}
	return nil
}

// RegisteredMemberIDs lists member ids in entry order, skipping guests.
func RegisteredMemberIDs(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if id, ok := MemberIDOf(e.Player); ok {
			out = append(out, id)
		}
	}
	return out
}
