package notification

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/KirkDiggler/barcrew/internal/models"
)

const (
	// maxBodyLength keeps bodies inside what push services display
	maxBodyLength = 140

	genericTitle = "BarCrew"
	genericBody  = "You have a new notification"
)

// Payload is what a push transport delivers and the feed records
type Payload struct {
	Type  models.NotificationType `json:"type"`
	Title string                  `json:"title"`
	Body  string                  `json:"body"`

	// Tag coalesces notifications of the same logical kind on the device
	Tag  string            `json:"tag"`
	Data map[string]string `json:"data,omitempty"`
}

// PayloadContext carries whatever is known about the event. Every field is
// optional; templates fall back to generic copy.
type PayloadContext struct {
	ActorID     string
	ActorName   string
	GroupID     string
	GroupName   string
	VenueName   string
	MessageText string
	ChallengeID string
	RunID       string
	Milestone   int

	// Title and Body are used verbatim by broadcast, beacon and unknown types
	Title string
	Body  string

	Latitude  float64
	Longitude float64
	URL       string
}

var (
	milestoneSelfBodies = []string{
		"That's %d drinks this run. Pace yourself!",
		"%d down. Water break?",
		"You just hit %d. The crew is impressed.",
	}
	milestoneGroupBodies = []string{
		"%s just hit %d drinks. Cheer them on!",
		"%s is on drink number %d.",
		"%s reached %d drinks this run.",
	}
	idleReminderBodies = []string{
		"You're still checked in. Log a drink or check out.",
		"Still out? Let the crew know what you're drinking.",
		"Haven't heard from you in a while. Still at the bar?",
	}
)

// BuildPayload maps an event type and its context to a payload. It never
// fails: unknown types get the generic template.
func BuildPayload(notificationType models.NotificationType, pc PayloadContext) Payload {
	actor := fallback(pc.ActorName, "Someone")
	p := Payload{Type: notificationType}

	switch notificationType {
	case models.NotificationTypeMessage:
		p.Title = "New message"
		if pc.ActorName != "" {
			p.Title = pc.ActorName
			if pc.GroupName != "" {
				p.Title = pc.ActorName + " in " + pc.GroupName
			}
		}
		p.Body = fallback(pc.MessageText, actor+" sent a message")
		p.Tag = tag("message", pc.GroupID)

	case models.NotificationTypeCheckIn:
		p.Title = actor + " checked in"
		p.Body = "Come join the crew!"
		if pc.VenueName != "" {
			p.Body = actor + " is at " + pc.VenueName + ". Come join!"
		}
		p.Tag = tag("check_in", pc.ActorID)

	case models.NotificationTypeMilestoneSelf:
		p.Title = "Milestone reached!"
		if pc.Milestone > 0 {
			p.Title = fmt.Sprintf("Milestone: %d drinks!", pc.Milestone)
			p.Body = fmt.Sprintf(pick(milestoneSelfBodies, pc.ActorID, pc.RunID, pc.Milestone), pc.Milestone)
		} else {
			p.Body = "You hit a new milestone this run."
		}
		p.Tag = tag("milestone", pc.ActorID, pc.RunID)

	case models.NotificationTypeMilestoneGroup:
		p.Title = actor + " hit a milestone"
		if pc.Milestone > 0 {
			p.Title = fmt.Sprintf("%s hit %d drinks", actor, pc.Milestone)
			p.Body = fmt.Sprintf(pick(milestoneGroupBodies, pc.ActorID, pc.RunID, pc.Milestone), actor, pc.Milestone)
		} else {
			p.Body = actor + " reached a new milestone."
		}
		p.Tag = tag("milestone", pc.ActorID, pc.RunID)

	case models.NotificationTypeIdleReminder:
		p.Title = "Still out?"
		p.Body = pick(idleReminderBodies, pc.ActorID, pc.RunID, 0)
		p.Tag = "idle_reminder"

	case models.NotificationTypeChallengeReceived:
		p.Title = actor + " dared you!"
		p.Body = "You have 10 minutes. Open the dare to start."
		p.Tag = tag("challenge", pc.ChallengeID)

	case models.NotificationTypeChallengeCompleted:
		p.Title = actor + " completed your dare"
		p.Body = "Proof is in. Check the photos."
		p.Tag = tag("challenge", pc.ChallengeID)

	case models.NotificationTypeChallengeFailed:
		p.Title = actor + " failed your dare"
		p.Body = "Time ran out on the dare."
		p.Tag = tag("challenge", pc.ChallengeID)

	case models.NotificationTypeBroadcast:
		p.Title = fallback(pc.Title, "Announcement")
		p.Body = fallback(pc.Body, "The crew has news for you.")
		p.Tag = tag("broadcast", pc.GroupID)

	case models.NotificationTypeBeacon:
		p.Title = fallback(pc.Title, "New beacon")
		p.Body = fallback(pc.Body, actor+" dropped a pin on the map.")
		p.Tag = tag("beacon", pc.GroupID)

	default:
		p.Title = fallback(pc.Title, genericTitle)
		p.Body = fallback(pc.Body, genericBody)
		p.Tag = tag("generic", string(notificationType))
	}

	p.Body = truncate(p.Body, maxBodyLength)
	p.Data = payloadData(notificationType, pc)
	return p
}

func payloadData(notificationType models.NotificationType, pc PayloadContext) map[string]string {
	data := map[string]string{"type": string(notificationType)}
	put := func(key, value string) {
		if value != "" {
			data[key] = value
		}
	}
	put("actorId", pc.ActorID)
	put("groupId", pc.GroupID)
	put("challengeId", pc.ChallengeID)
	put("runId", pc.RunID)
	put("url", pc.URL)
	if pc.Milestone > 0 {
		data["milestone"] = strconv.Itoa(pc.Milestone)
	}
	if notificationType == models.NotificationTypeBeacon {
		data["lat"] = strconv.FormatFloat(pc.Latitude, 'f', 6, 64)
		data["lng"] = strconv.FormatFloat(pc.Longitude, 'f', 6, 64)
	}
	return data
}

// pick chooses a copy variant that is stable for the same inputs
func pick(variants []string, actorID, runID string, n int) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%s|%d", actorID, runID, n)
	return variants[h.Sum32()%uint32(len(variants))]
}

// topic turns a tag into a Web Push Topic header: at most 32 characters
// from the URL-safe base64 alphabet
func topic(tag string) string {
	if tag == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(tag))
	return base64.RawURLEncoding.EncodeToString(sum[:])[:32]
}

func tag(kind string, parts ...string) string {
	keep := []string{kind}
	for _, part := range parts {
		if part != "" {
			keep = append(keep, part)
		}
	}
	return strings.Join(keep, ":")
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
