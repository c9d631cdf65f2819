package discord

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/KirkDiggler/barcrew/internal/models"
	"github.com/KirkDiggler/barcrew/internal/services/notification"
	"github.com/bwmarrin/discordgo"
)

// Discord caps an embed at 25 fields
const maxEmbedFields = 25

func announcementEmbed(group *models.Group, payload notification.Payload) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       payload.Title,
		Description: payload.Body,
		Color:       colorPurple,
		Footer:      &discordgo.MessageEmbedFooter{Text: group.Name},
	}
	if url := payload.Data["url"]; url != "" {
		embed.URL = url
	}
	if payload.Type == models.NotificationTypeBeacon {
		embed.Color = colorAmber
	}
	return embed
}

func renderCheckedIn(members []*models.Member, now time.Time) *discordgo.MessageEmbed {
	if len(members) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "Nobody is out",
			Description: "Quiet night so far.",
			Color:       colorGreen,
		}
	}

	sorted := make([]*models.Member, len(members))
	copy(sorted, members)
	// longest out first, unknown check-in times last
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].CheckedInAt, sorted[j].CheckedInAt
		if a == nil || b == nil {
			return a != nil
		}
		return a.Before(*b)
	})

	var fields []*discordgo.MessageEmbedField
	for _, m := range sorted {
		if len(fields) == maxEmbedFields {
			break
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   memberLabel(m),
			Value:  checkInLine(m, now),
			Inline: true,
		})
	}

	return &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("%d out tonight", len(members)),
		Color:  colorGreen,
		Fields: fields,
	}
}

func memberLabel(m *models.Member) string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

func checkInLine(m *models.Member, now time.Time) string {
	var parts []string
	if m.VenueName != "" {
		parts = append(parts, "📍 "+m.VenueName)
	}
	if m.CheckedInAt != nil {
		parts = append(parts, "for "+humanDuration(now.Sub(*m.CheckedInAt)))
	}
	parts = append(parts, fmt.Sprintf("🍺 %d", m.RunDrinkCount))
	return strings.Join(parts, "\n")
}

func renderBeacons(groupID string, beacons []*models.Beacon, now time.Time) *discordgo.MessageEmbed {
	if len(beacons) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "No active beacons",
			Description: fmt.Sprintf("Nothing lit up in %s.", groupID),
			Color:       colorAmber,
		}
	}

	var fields []*discordgo.MessageEmbedField
	for _, b := range beacons {
		if len(fields) == maxEmbedFields {
			break
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: b.Title,
			Value: fmt.Sprintf("[map](https://www.openstreetmap.org/?mlat=%.5f&mlon=%.5f) · ends in %s",
				b.Latitude, b.Longitude, humanDuration(b.ExpiresAt.Sub(now))),
		})
	}

	return &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("%d active beacons", len(beacons)),
		Color:  colorAmber,
		Fields: fields,
	}
}

// humanDuration renders d as "2h 5m" or "12m"
func humanDuration(d time.Duration) string {
	if d < time.Minute {
		return "<1m"
	}
	d = d.Round(time.Minute)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
