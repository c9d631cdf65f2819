package member

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/barcrew/internal/repositories/member Repository

import (
	"context"

	"github.com/KirkDiggler/barcrew/internal/models"
)

// Repository defines the interface for member and group persistence
type Repository interface {
	// SaveMember persists a member
	SaveMember(ctx context.Context, input *SaveMemberInput) error

	// GetMember retrieves a member by ID
	GetMember(ctx context.Context, input *GetMemberInput) (*models.Member, error)

	// SetCheckIn sets or clears a member's check-in flag
	SetCheckIn(ctx context.Context, input *SetCheckInInput) (*models.MemberChange, error)

	// SetRunDrinkCount records the drink count of a member's current run
	SetRunDrinkCount(ctx context.Context, input *SetRunDrinkCountInput) (*models.MemberChange, error)

	// MarkReminded records when a member was last sent an idle reminder
	MarkReminded(ctx context.Context, input *MarkRemindedInput) error

	// ListCheckedIn retrieves every member who is currently checked in
	ListCheckedIn(ctx context.Context) (*ListMembersOutput, error)

	// SaveGroup persists a group
	SaveGroup(ctx context.Context, input *SaveGroupInput) error

	// GetGroup retrieves a group by ID
	GetGroup(ctx context.Context, input *GetGroupInput) (*models.Group, error)

	// ListGroupMemberIDs retrieves the IDs of the members whose active group is groupID
	ListGroupMemberIDs(ctx context.Context, input *ListGroupMemberIDsInput) ([]string, error)

	// SubscribeChanges streams before/after pairs of every member write
	SubscribeChanges(ctx context.Context) (<-chan *models.MemberChange, error)
}
