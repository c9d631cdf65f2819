package notification

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/apperr"
	mockClock "github.com/KirkDiggler/barcrew/internal/common/clock/mocks"
	mockUUID "github.com/KirkDiggler/barcrew/internal/common/uuid/mocks"
	"github.com/KirkDiggler/barcrew/internal/models"
	beaconRepo "github.com/KirkDiggler/barcrew/internal/repositories/beacon"
	mockBeaconRepo "github.com/KirkDiggler/barcrew/internal/repositories/beacon/mocks"
	feedRepo "github.com/KirkDiggler/barcrew/internal/repositories/feed"
	mockFeedRepo "github.com/KirkDiggler/barcrew/internal/repositories/feed/mocks"
	memberRepo "github.com/KirkDiggler/barcrew/internal/repositories/member"
	mockMemberRepo "github.com/KirkDiggler/barcrew/internal/repositories/member/mocks"
	subscriptionRepo "github.com/KirkDiggler/barcrew/internal/repositories/subscription"
	mockSubscriptionRepo "github.com/KirkDiggler/barcrew/internal/repositories/subscription/mocks"
	"github.com/KirkDiggler/barcrew/internal/timeboundary"
	"github.com/KirkDiggler/barcrew/internal/transport/webpush"
	mockSender "github.com/KirkDiggler/barcrew/internal/transport/webpush/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type fakeAnnouncer struct {
	mu       sync.Mutex
	payloads []Payload
}

func (a *fakeAnnouncer) Announce(_ context.Context, _ *models.Group, payload Payload) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.payloads = append(a.payloads, payload)
	return nil
}

type NotificationServiceTestSuite struct {
	suite.Suite
	mockCtrl             *gomock.Controller
	mockMemberRepo       *mockMemberRepo.MockRepository
	mockSubscriptionRepo *mockSubscriptionRepo.MockRepository
	mockFeedRepo         *mockFeedRepo.MockRepository
	mockBeaconRepo       *mockBeaconRepo.MockRepository
	mockSender           *mockSender.MockSender
	mockClock            *mockClock.MockClock
	mockUUID             *mockUUID.MockUUID
	announcer            *fakeAnnouncer
	service              *service
	ctx                  context.Context
	now                  time.Time

	// state read by the mocks
	groups   map[string][]string
	members  map[string]*models.Member
	subs     map[string][]*models.PushSubscription
	sendErrs map[string]error

	// calls recorded by the mocks
	mu        sync.Mutex
	feedItems []*models.NotificationFeedItem
	sent      []string
	deleted   []string
	touched   []string
	reminded  []string
}

func (s *NotificationServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockMemberRepo = mockMemberRepo.NewMockRepository(s.mockCtrl)
	s.mockSubscriptionRepo = mockSubscriptionRepo.NewMockRepository(s.mockCtrl)
	s.mockFeedRepo = mockFeedRepo.NewMockRepository(s.mockCtrl)
	s.mockBeaconRepo = mockBeaconRepo.NewMockRepository(s.mockCtrl)
	s.mockSender = mockSender.NewMockSender(s.mockCtrl)
	s.mockClock = mockClock.NewMockClock(s.mockCtrl)
	s.mockUUID = mockUUID.NewMockUUID(s.mockCtrl)
	s.announcer = &fakeAnnouncer{}
	s.ctx = context.Background()

	s.groups = map[string][]string{}
	s.members = map[string]*models.Member{}
	s.subs = map[string][]*models.PushSubscription{}
	s.sendErrs = map[string]error{}
	s.feedItems = nil
	s.sent = nil
	s.deleted = nil
	s.touched = nil
	s.reminded = nil

	// 21:00 in Prague
	s.now = time.Date(2025, 6, 14, 19, 0, 0, 0, time.UTC)
	s.mockClock.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()
	s.mockUUID.EXPECT().NewUUID().Return("item-id").AnyTimes()

	s.wireMocks()

	boundary, err := timeboundary.New(nil)
	s.Require().NoError(err)

	svc, err := New(&Config{
		MemberRepo:       s.mockMemberRepo,
		SubscriptionRepo: s.mockSubscriptionRepo,
		FeedRepo:         s.mockFeedRepo,
		BeaconRepo:       s.mockBeaconRepo,
		Sender:           s.mockSender,
		Boundary:         boundary,
		Announcer:        s.announcer,
		Milestones:       []int{5, 10, 15},
		Clock:            s.mockClock,
		UUIDGenerator:    s.mockUUID,
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *NotificationServiceTestSuite) wireMocks() {
	s.mockMemberRepo.EXPECT().ListGroupMemberIDs(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *memberRepo.ListGroupMemberIDsInput) ([]string, error) {
			return s.groups[input.GroupID], nil
		}).AnyTimes()
	s.mockMemberRepo.EXPECT().GetGroup(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *memberRepo.GetGroupInput) (*models.Group, error) {
			if _, ok := s.groups[input.GroupID]; !ok {
				return nil, memberRepo.ErrGroupNotFound
			}
			return &models.Group{ID: input.GroupID, Name: "The Crew"}, nil
		}).AnyTimes()
	s.mockMemberRepo.EXPECT().GetMember(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *memberRepo.GetMemberInput) (*models.Member, error) {
			if m, ok := s.members[input.MemberID]; ok {
				return m, nil
			}
			return nil, memberRepo.ErrMemberNotFound
		}).AnyTimes()
	s.mockMemberRepo.EXPECT().MarkReminded(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *memberRepo.MarkRemindedInput) error {
			s.record(&s.reminded, input.MemberID)
			return nil
		}).AnyTimes()

	s.mockFeedRepo.EXPECT().Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *feedRepo.AppendInput) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.feedItems = append(s.feedItems, input.Item)
			return nil
		}).AnyTimes()

	s.mockSubscriptionRepo.EXPECT().ListForUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *subscriptionRepo.ListForUserInput) ([]*models.PushSubscription, error) {
			return s.subs[input.UserID], nil
		}).AnyTimes()
	s.mockSubscriptionRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *subscriptionRepo.DeleteInput) error {
			s.record(&s.deleted, input.SubscriptionID)
			return nil
		}).AnyTimes()
	s.mockSubscriptionRepo.EXPECT().Touch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *subscriptionRepo.TouchInput) error {
			s.record(&s.touched, input.SubscriptionID)
			return nil
		}).AnyTimes()

	s.mockSender.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *webpush.SendInput) error {
			s.record(&s.sent, input.Endpoint)
			return s.sendErrs[input.Endpoint]
		}).AnyTimes()
}

func (s *NotificationServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}

func (s *NotificationServiceTestSuite) record(into *[]string, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*into = append(*into, value)
}

// subscribe registers a deliverable subscription whose ID is its endpoint
func (s *NotificationServiceTestSuite) subscribe(userID, endpoint string) {
	s.subs[userID] = append(s.subs[userID], &models.PushSubscription{
		ID:       endpoint,
		UserID:   userID,
		Endpoint: endpoint,
		Keys:     models.PushKeys{P256dh: "p256", Auth: "auth"},
	})
}

func (s *NotificationServiceTestSuite) feedFor(userID string) []*models.NotificationFeedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []*models.NotificationFeedItem
	for _, item := range s.feedItems {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	return items
}

func sorted(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}

func statusErr(kind apperr.Kind, code int) error {
	return apperr.Wrap(kind, "webpush.Send", &webpush.StatusError{StatusCode: code})
}

func (s *NotificationServiceTestSuite) TestNewValidatesConfig() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	boundary, err := timeboundary.New(nil)
	s.Require().NoError(err)

	_, err = New(&Config{
		MemberRepo:       s.mockMemberRepo,
		SubscriptionRepo: s.mockSubscriptionRepo,
		FeedRepo:         s.mockFeedRepo,
		BeaconRepo:       s.mockBeaconRepo,
		Sender:           s.mockSender,
		Boundary:         boundary,
		Milestones:       []int{10, 5},
	})
	s.ErrorIs(err, ErrInvalidMilestones)

	_, err = New(&Config{
		MemberRepo:          s.mockMemberRepo,
		SubscriptionRepo:    s.mockSubscriptionRepo,
		FeedRepo:            s.mockFeedRepo,
		BeaconRepo:          s.mockBeaconRepo,
		Sender:              s.mockSender,
		Boundary:            boundary,
		ReminderWindowStart: 22,
		ReminderWindowEnd:   10,
	})
	s.ErrorIs(err, ErrInvalidWindow)
}

func (s *NotificationServiceTestSuite) TestDeliverPrunesGoneAndKeepsServerError() {
	s.subscribe("bob", "https://push.example/gone")
	s.subscribe("bob", "https://push.example/flaky")
	s.subscribe("bob", "https://push.example/ok")
	s.sendErrs["https://push.example/gone"] = statusErr(apperr.KindPermanentDelivery, 410)
	s.sendErrs["https://push.example/flaky"] = statusErr(apperr.KindTransientDelivery, 500)

	stats, err := s.service.Deliver(s.ctx, &DeliverInput{
		Recipients: []string{"bob"},
		Payload:    BuildPayload(models.NotificationTypeMessage, PayloadContext{}),
	})
	s.Require().NoError(err)

	s.Equal(&Stats{Recipients: 1, Sent: 1, Failed: 2, Pruned: 1}, stats)
	s.Equal([]string{"https://push.example/gone"}, s.deleted)
	s.Equal([]string{"https://push.example/ok"}, s.touched)
	s.Len(s.sent, 3)
}

func (s *NotificationServiceTestSuite) TestDeliverSkipsMissingKeyMaterial() {
	s.subs["bob"] = []*models.PushSubscription{{ID: "broken", UserID: "bob"}}

	stats, err := s.service.Deliver(s.ctx, &DeliverInput{
		Recipients: []string{"bob"},
		Payload:    BuildPayload(models.NotificationTypeMessage, PayloadContext{}),
	})
	s.Require().NoError(err)

	s.Equal(&Stats{Recipients: 1, Skipped: 1, Pruned: 1}, stats)
	s.Empty(s.sent)
	s.Equal([]string{"broken"}, s.deleted)
}

func (s *NotificationServiceTestSuite) TestDeliverWritesFeedWithoutSubscriptions() {
	stats, err := s.service.Deliver(s.ctx, &DeliverInput{
		Recipients: []string{"bob", "carol", "bob", ""},
		Payload:    BuildPayload(models.NotificationTypeBroadcast, PayloadContext{Title: "Last call", Body: "Bar closes at 2"}),
	})
	s.Require().NoError(err)

	s.Equal(2, stats.Recipients)
	s.Equal(0, stats.Sent)
	s.Require().Len(s.feedFor("bob"), 1)
	s.Equal("Last call", s.feedFor("bob")[0].Title)
	s.True(s.feedFor("bob")[0].CreatedAt.Equal(s.now))
	s.Len(s.feedFor("carol"), 1)
}

func (s *NotificationServiceTestSuite) TestDeliverIsolatesRecipients() {
	s.subscribe("bob", "https://push.example/bob")
	s.subscribe("carol", "https://push.example/carol")
	s.sendErrs["https://push.example/bob"] = errors.New("connection reset")

	stats, err := s.service.Deliver(s.ctx, &DeliverInput{
		Recipients: []string{"bob", "carol"},
		Payload:    BuildPayload(models.NotificationTypeMessage, PayloadContext{}),
	})
	s.Require().NoError(err)

	s.Equal(1, stats.Sent)
	s.Equal(1, stats.Failed)
	s.Empty(s.deleted)
}

func (s *NotificationServiceTestSuite) TestMilestoneFiresHighestCrossedOnce() {
	s.groups["crew"] = []string{"alice", "bob", "carol"}
	s.subscribe("alice", "https://push.example/alice")
	s.subscribe("bob", "https://push.example/bob")

	output, err := s.service.OnMemberUpdated(s.ctx, &models.MemberChange{
		Before: &models.Member{ID: "alice", Name: "Alice", ActiveGroupID: "crew", RunID: "run-1", RunDrinkCount: 4},
		After:  &models.Member{ID: "alice", Name: "Alice", ActiveGroupID: "crew", RunID: "run-1", RunDrinkCount: 11},
	})
	s.Require().NoError(err)

	s.Equal(10, output.Milestone)
	s.Equal([]models.NotificationType{models.NotificationTypeMilestoneSelf, models.NotificationTypeMilestoneGroup}, output.Fired)

	self := s.feedFor("alice")
	s.Require().Len(self, 1)
	s.Equal("Milestone: 10 drinks!", self[0].Title)
	s.Equal("10", self[0].Data["milestone"])

	group := s.feedFor("bob")
	s.Require().Len(group, 1)
	s.Equal("Alice hit 10 drinks", group[0].Title)
	s.Len(s.feedFor("carol"), 1)
	s.Equal(2, output.Stats.Sent)
}

func (s *NotificationServiceTestSuite) TestMilestoneCountsFromZeroOnNewRun() {
	s.groups["crew"] = []string{"alice"}

	output, err := s.service.OnMemberUpdated(s.ctx, &models.MemberChange{
		Before: &models.Member{ID: "alice", ActiveGroupID: "crew", RunID: "run-1", RunDrinkCount: 12},
		After:  &models.Member{ID: "alice", ActiveGroupID: "crew", RunID: "run-2", RunDrinkCount: 5},
	})
	s.Require().NoError(err)

	s.Equal(5, output.Milestone)
}

func (s *NotificationServiceTestSuite) TestNoMilestoneBelowThreshold() {
	output, err := s.service.OnMemberUpdated(s.ctx, &models.MemberChange{
		Before: &models.Member{ID: "alice", ActiveGroupID: "crew", RunID: "run-1", RunDrinkCount: 5},
		After:  &models.Member{ID: "alice", ActiveGroupID: "crew", RunID: "run-1", RunDrinkCount: 7},
	})
	s.Require().NoError(err)

	s.Empty(output.Fired)
	s.Empty(s.feedItems)
}

func (s *NotificationServiceTestSuite) TestCheckInFiresOnRisingEdgeOnly() {
	s.groups["crew"] = []string{"alice", "bob"}
	checkedIn := s.now

	output, err := s.service.OnMemberUpdated(s.ctx, &models.MemberChange{
		Before: &models.Member{ID: "alice", Name: "Alice", ActiveGroupID: "crew"},
		After:  &models.Member{ID: "alice", Name: "Alice", ActiveGroupID: "crew", CheckedIn: true, CheckedInAt: &checkedIn, VenueName: "U Fleku"},
	})
	s.Require().NoError(err)
	s.Equal([]models.NotificationType{models.NotificationTypeCheckIn}, output.Fired)

	items := s.feedFor("bob")
	s.Require().Len(items, 1)
	s.Equal("Alice checked in", items[0].Title)
	s.Contains(items[0].Body, "U Fleku")
	s.Empty(s.feedFor("alice"))

	output, err = s.service.OnMemberUpdated(s.ctx, &models.MemberChange{
		Before: &models.Member{ID: "alice", ActiveGroupID: "crew", CheckedIn: true},
		After:  &models.Member{ID: "alice", ActiveGroupID: "crew", CheckedIn: true, VenueName: "Elsewhere"},
	})
	s.Require().NoError(err)
	s.Empty(output.Fired)
	s.Len(s.feedFor("bob"), 1)
}

func (s *NotificationServiceTestSuite) TestCheckInInOpenGroupIsSilent() {
	s.groups["open"] = []string{"alice", "bob"}

	output, err := s.service.OnMemberUpdated(s.ctx, &models.MemberChange{
		Before: &models.Member{ID: "alice", ActiveGroupID: "open"},
		After:  &models.Member{ID: "alice", ActiveGroupID: "open", CheckedIn: true},
	})
	s.Require().NoError(err)

	s.Empty(output.Fired)
	s.Empty(s.feedItems)
}

func (s *NotificationServiceTestSuite) TestGroupMoveInvalidatesCache() {
	s.groups["crew"] = []string{"alice"}
	_, err := s.service.groupMembers(s.ctx, "crew")
	s.Require().NoError(err)

	s.groups["crew"] = []string{"alice", "bob"}
	cached, err := s.service.groupMembers(s.ctx, "crew")
	s.Require().NoError(err)
	s.Equal([]string{"alice"}, cached)

	_, err = s.service.OnMemberUpdated(s.ctx, &models.MemberChange{
		Before: &models.Member{ID: "bob", ActiveGroupID: "open"},
		After:  &models.Member{ID: "bob", ActiveGroupID: "crew"},
	})
	s.Require().NoError(err)

	fresh, err := s.service.groupMembers(s.ctx, "crew")
	s.Require().NoError(err)
	s.Equal([]string{"alice", "bob"}, fresh)
}

func (s *NotificationServiceTestSuite) TestMessageSkipsAuthor() {
	s.groups["crew"] = []string{"alice", "bob", "carol"}

	output, err := s.service.OnMessageCreated(s.ctx, &models.Message{
		ID: "m1", GroupID: "crew", AuthorID: "alice", AuthorName: "Alice", Text: "who's up for another round",
	})
	s.Require().NoError(err)

	s.Equal(2, output.Stats.Recipients)
	s.Empty(s.feedFor("alice"))
	items := s.feedFor("carol")
	s.Require().Len(items, 1)
	s.Equal("Alice in The Crew", items[0].Title)
	s.Equal("who's up for another round", items[0].Body)
}

func (s *NotificationServiceTestSuite) TestChallengeNotifications() {
	s.members["alice"] = &models.Member{ID: "alice", Name: "Alice"}
	s.members["bob"] = &models.Member{ID: "bob", Name: "Bob"}
	created := &models.Challenge{ID: "c1", SenderID: "alice", ReceiverID: "bob", Status: models.ChallengeStatusPending}

	output, err := s.service.OnChallengeChanged(s.ctx, &models.ChallengeChange{After: created})
	s.Require().NoError(err)
	s.Equal([]models.NotificationType{models.NotificationTypeChallengeReceived}, output.Fired)
	s.Require().Len(s.feedFor("bob"), 1)
	s.Equal("Alice dared you!", s.feedFor("bob")[0].Title)

	inProgress := &models.Challenge{ID: "c1", SenderID: "alice", ReceiverID: "bob", Status: models.ChallengeStatusInProgress}
	output, err = s.service.OnChallengeChanged(s.ctx, &models.ChallengeChange{Before: created, After: inProgress})
	s.Require().NoError(err)
	s.Empty(output.Fired)

	completed := &models.Challenge{ID: "c1", SenderID: "alice", ReceiverID: "bob", Status: models.ChallengeStatusCompleted}
	output, err = s.service.OnChallengeChanged(s.ctx, &models.ChallengeChange{Before: inProgress, After: completed})
	s.Require().NoError(err)
	s.Equal([]models.NotificationType{models.NotificationTypeChallengeCompleted}, output.Fired)
	s.Require().Len(s.feedFor("alice"), 1)
	s.Equal("Bob completed your dare", s.feedFor("alice")[0].Title)

	// lock release rewrites a finished dare
	released := *completed
	released.LockReleased = true
	output, err = s.service.OnChallengeChanged(s.ctx, &models.ChallengeChange{Before: completed, After: &released})
	s.Require().NoError(err)
	s.Empty(output.Fired)
}

func (s *NotificationServiceTestSuite) TestChallengeFailedNotifiesSender() {
	before := &models.Challenge{ID: "c1", SenderID: "alice", ReceiverID: "bob", Status: models.ChallengeStatusInProgress}
	after := &models.Challenge{ID: "c1", SenderID: "alice", ReceiverID: "bob", Status: models.ChallengeStatusFailed}

	output, err := s.service.OnChallengeChanged(s.ctx, &models.ChallengeChange{Before: before, After: after})
	s.Require().NoError(err)

	s.Equal([]models.NotificationType{models.NotificationTypeChallengeFailed}, output.Fired)
	s.Require().Len(s.feedFor("alice"), 1)
	s.Equal("Someone failed your dare", s.feedFor("alice")[0].Title)
}

func (s *NotificationServiceTestSuite) checkedInMember(id, groupID string, checkedInAgo time.Duration, remindedAgo *time.Duration) *models.Member {
	checkedInAt := s.now.Add(-checkedInAgo)
	member := &models.Member{ID: id, ActiveGroupID: groupID, CheckedIn: true, CheckedInAt: &checkedInAt}
	if remindedAgo != nil {
		at := s.now.Add(-*remindedAgo)
		member.LastReminderAt = &at
	}
	return member
}

func (s *NotificationServiceTestSuite) TestSweepRemindsOncePerInterval() {
	hourAgo := time.Hour
	threeHoursAgo := 3 * time.Hour

	s.mockMemberRepo.EXPECT().ListCheckedIn(gomock.Any()).Return(&memberRepo.ListMembersOutput{
		Members: []*models.Member{
			// checked in long ago, never reminded
			s.checkedInMember("due", "crew", 3*time.Hour, nil),
			// checked in long ago, reminded recently
			s.checkedInMember("recent", "crew", 5*time.Hour, &hourAgo),
			// reminded long ago but checked in again recently
			s.checkedInMember("rejoined", "crew", 30*time.Minute, &threeHoursAgo),
			// open group members are never nudged
			s.checkedInMember("public", "open", 5*time.Hour, nil),
		},
	}, nil)

	output, err := s.service.SweepIdleReminders(s.ctx)
	s.Require().NoError(err)

	s.False(output.OutsideWindow)
	s.Equal(4, output.Scanned)
	s.Equal(1, output.Reminded)
	s.Equal([]string{"due"}, s.reminded)
	s.Require().Len(s.feedFor("due"), 1)
	s.Equal(models.NotificationTypeIdleReminder, s.feedFor("due")[0].Type)
}

func (s *NotificationServiceTestSuite) TestSweepOutsideWindow() {
	// 23:30 in Prague
	s.now = time.Date(2025, 6, 14, 21, 30, 0, 0, time.UTC)

	output, err := s.service.SweepIdleReminders(s.ctx)
	s.Require().NoError(err)

	s.True(output.OutsideWindow)
	s.Zero(output.Scanned)
}

func (s *NotificationServiceTestSuite) TestBroadcast() {
	s.groups["crew"] = []string{"alice", "bob"}
	s.subscribe("bob", "https://push.example/bob")

	stats, err := s.service.Broadcast(s.ctx, &BroadcastInput{
		GroupID: "crew", SenderID: "admin", Title: "Pub quiz", Body: "Tonight at 8",
	})
	s.Require().NoError(err)

	s.Equal(2, stats.Recipients)
	s.Equal(1, stats.Sent)
	s.Equal(sorted([]string{"alice", "bob"}), sorted([]string{s.feedFor("alice")[0].UserID, s.feedFor("bob")[0].UserID}))
	s.Require().Len(s.announcer.payloads, 1)
	s.Equal("Pub quiz", s.announcer.payloads[0].Title)
}

func (s *NotificationServiceTestSuite) TestBroadcastValidation() {
	_, err := s.service.Broadcast(s.ctx, &BroadcastInput{GroupID: "crew", Body: "x"})
	s.ErrorIs(err, ErrMissingTitle)

	_, err = s.service.Broadcast(s.ctx, &BroadcastInput{Title: "x", Body: "x"})
	s.ErrorIs(err, apperr.ErrValidation)
}

func (s *NotificationServiceTestSuite) TestCreateBeacon() {
	s.groups["crew"] = []string{"alice", "bob"}
	s.members["alice"] = &models.Member{ID: "alice", Name: "Alice"}

	s.mockBeaconRepo.EXPECT().Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *beaconRepo.SaveInput) error {
			s.Equal("crew", input.Beacon.GroupID)
			s.True(input.Beacon.ExpiresAt.Equal(s.now.Add(DefaultBeaconDuration)))
			s.True(input.Now.Equal(s.now))
			return nil
		})

	output, err := s.service.CreateBeacon(s.ctx, &CreateBeaconInput{
		GroupID: "crew", CreatedBy: "alice", Title: "Rooftop bar", Latitude: 50.08, Longitude: 14.42,
	})
	s.Require().NoError(err)

	s.Equal("item-id", output.Beacon.ID)
	s.Equal(1, output.Stats.Recipients)
	items := s.feedFor("bob")
	s.Require().Len(items, 1)
	s.Equal("Rooftop bar", items[0].Title)
	s.Equal("50.080000", items[0].Data["lat"])
	s.Empty(s.feedFor("alice"))
}

func (s *NotificationServiceTestSuite) TestCreateBeaconValidation() {
	_, err := s.service.CreateBeacon(s.ctx, &CreateBeaconInput{GroupID: "crew", Title: "x", Latitude: 91})
	s.ErrorIs(err, ErrInvalidCoordinate)

	_, err = s.service.CreateBeacon(s.ctx, &CreateBeaconInput{GroupID: "crew", Title: "x", Duration: 48 * time.Hour})
	s.ErrorIs(err, ErrInvalidDuration)
}

func (s *NotificationServiceTestSuite) TestHighestMilestoneCrossed() {
	thresholds := []int{5, 10, 15}
	cases := []struct {
		before, after int
		want          int
		ok            bool
	}{
		{4, 11, 10, true},
		{4, 5, 5, true},
		{5, 9, 0, false},
		{0, 20, 15, true},
		{11, 4, 0, false},
		{10, 10, 0, false},
	}

	for _, tc := range cases {
		got, ok := HighestMilestoneCrossed(tc.before, tc.after, thresholds)
		s.Equal(tc.ok, ok, "%d -> %d", tc.before, tc.after)
		s.Equal(tc.want, got, "%d -> %d", tc.before, tc.after)
	}
}
