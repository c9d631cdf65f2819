package discord

import (
	"context"
	"errors"

	"github.com/KirkDiggler/barcrew/internal/common/clock"
	"github.com/KirkDiggler/barcrew/internal/repositories/beacon"
	"github.com/KirkDiggler/barcrew/internal/repositories/member"
	"github.com/bwmarrin/discordgo"
)

// CrewCommand handles the /crew command
type CrewCommand struct {
	BaseCommand
	memberRepo member.Repository
	beaconRepo beacon.Repository
	clock      clock.Clock
}

// NewCrewCommand creates a new crew command handler
func NewCrewCommand(memberRepo member.Repository, beaconRepo beacon.Repository, clk clock.Clock) *CrewCommand {
	return &CrewCommand{
		BaseCommand: BaseCommand{
			Name:        "crew",
			Description: "See who is out tonight",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "out",
					Description: "List everyone who is checked in",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "beacons",
					Description: "List the active beacons of a group",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "group",
							Description: "Group ID",
							Required:    true,
						},
					},
				},
			},
		},
		memberRepo: memberRepo,
		beaconRepo: beaconRepo,
		clock:      clk,
	}
}

// Handle processes a Discord interaction for the crew command
func (c *CrewCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	data := i.ApplicationCommandData()
	if data.Name != c.Name || len(data.Options) == 0 {
		return nil
	}

	ctx := context.Background()
	sub := data.Options[0]

	var (
		embed *discordgo.MessageEmbed
		err   error
	)
	switch sub.Name {
	case "out":
		embed, err = c.checkedIn(ctx)
	case "beacons":
		var groupID string
		if len(sub.Options) > 0 {
			groupID = sub.Options[0].StringValue()
		}
		embed, err = c.beacons(ctx, groupID)
	default:
		err = errors.New("unknown subcommand")
	}
	if err != nil {
		return errors.Join(err, RespondWithError(s, i, "Something went wrong, try again in a bit."))
	}

	return RespondWithEmbed(s, i, embed)
}

func (c *CrewCommand) checkedIn(ctx context.Context) (*discordgo.MessageEmbed, error) {
	list, err := c.memberRepo.ListCheckedIn(ctx)
	if err != nil {
		return nil, err
	}
	return renderCheckedIn(list.Members, c.clock.Now()), nil
}

func (c *CrewCommand) beacons(ctx context.Context, groupID string) (*discordgo.MessageEmbed, error) {
	now := c.clock.Now()
	list, err := c.beaconRepo.ListActive(ctx, &beacon.ListActiveInput{GroupID: groupID, Now: now})
	if err != nil {
		return nil, err
	}
	return renderBeacons(groupID, list.Beacons, now), nil
}
