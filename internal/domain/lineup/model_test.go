package lineup

import (
	"testing"

	"github.com/riskibarqy/ninety-minute/internal/domain/ability"
	"github.com/stretchr/testify/assert"
)

func TestValidateSet(t *testing.T) {
	valid := []Entry{
		{Slot: SlotField, Position: ability.PositionStriker, Player: Registered{MemberID: "m1"}},
		{Slot: SlotField, Position: ability.PositionGoalkeeper, Player: Anonymous{}},
		{Slot: SlotField, Position: ability.PositionDefender, Player: Anonymous{}},
	}
	assert.NoError(t, ValidateSet(valid))
	assert.Equal(t, []string{"m1"}, RegisteredMemberIDs(valid))

	dup := append(valid, Entry{Slot: SlotField, Position: ability.PositionDefender, Player: Registered{MemberID: "m1"}})
	assert.ErrorIs(t, ValidateSet(dup), ErrDuplicateMember)

	badPosition := []Entry{{Slot: SlotField, Position: "libero", Player: Anonymous{}}}
	assert.ErrorIs(t, ValidateSet(badPosition), ability.ErrUnknownPosition)

	noPlayer := []Entry{{Slot: SlotField, Position: ability.PositionStriker}}
	assert.ErrorIs(t, ValidateSet(noPlayer), ErrMissingPlayer)

	emptyMember := []Entry{{Slot: SlotField, Position: ability.PositionStriker, Player: Registered{}}}
	assert.ErrorIs(t, ValidateSet(emptyMember), ErrMissingPlayer)
}

func TestMemberIDOf(t *testing.T) {
	id, ok := MemberIDOf(Registered{MemberID: "m2"})
	assert.True(t, ok)
	assert.Equal(t, "m2", id)

	_, ok = MemberIDOf(Anonymous{})
	assert.False(t, ok)

	_, ok = MemberIDOf(nil)
	assert.False(t, ok)
}
