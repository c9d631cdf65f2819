package member

import (
	"time"

	"github.com/KirkDiggler/barcrew/internal/models"
)

// SaveMemberInput contains parameters for saving a member
type SaveMemberInput struct {
	Member *models.Member
}

// GetMemberInput contains parameters for retrieving a member
type GetMemberInput struct {
	MemberID string
}

// SetCheckInInput contains parameters for changing a member's check-in
type SetCheckInInput struct {
	MemberID  string
	CheckedIn bool

	// VenueName is stored when checking in
	VenueName string

	// At is the check-in time, used only when CheckedIn turns true
	At time.Time
}

// SetRunDrinkCountInput contains parameters for recording a run's drink count
type SetRunDrinkCountInput struct {
	MemberID string
	RunID    string
	Count    int
}

// MarkRemindedInput contains parameters for recording an idle reminder
type MarkRemindedInput struct {
	MemberID string
	At       time.Time
}

// ListMembersOutput contains a list of members
type ListMembersOutput struct {
	Members []*models.Member
}

// SaveGroupInput contains parameters for saving a group
type SaveGroupInput struct {
	Group *models.Group
}

// GetGroupInput contains parameters for retrieving a group
type GetGroupInput struct {
	GroupID string
}

// ListGroupMemberIDsInput contains parameters for listing a group's members
type ListGroupMemberIDsInput struct {
	GroupID string
}
