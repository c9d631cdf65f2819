package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/barcrew/internal/common/apperr"
	"github.com/KirkDiggler/barcrew/internal/common/clock"
	"github.com/KirkDiggler/barcrew/internal/common/logger"
	"github.com/KirkDiggler/barcrew/internal/models"
	"github.com/KirkDiggler/barcrew/internal/repositories/beacon"
	"github.com/KirkDiggler/barcrew/internal/repositories/member"
	"github.com/KirkDiggler/barcrew/internal/services/notification"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// channelPoster is the part of the Discord session announcements need
type channelPoster interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Bot mirrors group announcements into Discord and answers the /crew command
type Bot struct {
	session    *discordgo.Session
	poster     channelPoster
	commands   map[string]CommandHandler
	commandIDs map[string]string // Maps command name to command ID
	config     *Config
	logger     *zap.Logger
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	MemberRepo member.Repository
	BeaconRepo beacon.Repository

	Clock  clock.Clock
	Logger *zap.Logger
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.MemberRepo == nil {
		return nil, errors.New("member repository cannot be nil")
	}

	if cfg.BeaconRepo == nil {
		return nil, errors.New("beacon repository cannot be nil")
	}

	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	// Create a new Discord session
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	bot := &Bot{
		session:    session,
		poster:     session,
		commands:   make(map[string]CommandHandler),
		commandIDs: make(map[string]string),
		config:     cfg,
		logger:     logger.OrNop(cfg.Logger),
	}

	// Register the interaction handler
	session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Start opens the Discord connection and registers the slash commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	crewCmd := NewCrewCommand(b.config.MemberRepo, b.config.BeaconRepo, b.config.Clock)
	if err := b.RegisterCommand(crewCmd); err != nil {
		return fmt.Errorf("failed to register crew command: %w", err)
	}

	b.logger.Info("discord bot running")
	return nil
}

// Stop removes the registered commands and closes the connection
func (b *Bot) Stop() error {
	appID := b.appID()
	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			b.logger.Warn("failed to delete command", zap.String("command", cmdName), zap.String("id", cmdID), zap.Error(err))
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord. Without a guild ID
// the command is registered globally.
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	createdCmd, err := b.session.ApplicationCommandCreate(b.appID(), b.config.GuildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	b.logger.Info("registered command",
		zap.String("command", cmd.GetName()),
		zap.String("id", createdCmd.ID),
		zap.String("guild", b.config.GuildID),
	)

	return nil
}

func (b *Bot) appID() string {
	if b.config.ApplicationID != "" {
		return b.config.ApplicationID
	}
	// Fall back to session user ID if application ID is not provided
	return b.session.State.User.ID
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	h, ok := b.commands[name]
	if !ok {
		return
	}
	if err := h.Handle(s, i); err != nil {
		b.logger.Error("failed to handle command", zap.String("command", name), zap.Error(err))
	}
}

// Announce posts a payload to the group's linked channel. Groups without
// a linked channel are skipped.
func (b *Bot) Announce(ctx context.Context, group *models.Group, payload notification.Payload) error {
	return announce(ctx, b.poster, group, payload)
}

func announce(ctx context.Context, poster channelPoster, group *models.Group, payload notification.Payload) error {
	if group == nil || group.DiscordChannelID == "" {
		return nil
	}

	_, err := poster.ChannelMessageSendEmbed(group.DiscordChannelID, announcementEmbed(group, payload), discordgo.WithContext(ctx))
	if err != nil {
		return apperr.Wrap(apperr.KindTransientDelivery, "discord.Announce", err)
	}
	return nil
}
