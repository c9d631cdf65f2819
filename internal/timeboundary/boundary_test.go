package timeboundary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type BoundaryTestSuite struct {
	suite.Suite
	calc   *Calculator
	prague *time.Location
}

func (s *BoundaryTestSuite) SetupTest() {
	calc, err := New(&Config{Timezone: "Europe/Prague", BoundaryHour: 12})
	s.Require().NoError(err)
	s.calc = calc

	s.prague, err = time.LoadLocation("Europe/Prague")
	s.Require().NoError(err)
}

func TestBoundaryTestSuite(t *testing.T) {
	suite.Run(t, new(BoundaryTestSuite))
}

func (s *BoundaryTestSuite) local(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, s.prague)
}

func (s *BoundaryTestSuite) TestNewRejectsUnknownZone() {
	_, err := New(&Config{Timezone: "Mars/Olympus_Mons"})
	s.Error(err)
}

func (s *BoundaryTestSuite) TestNewRejectsBadHour() {
	_, err := New(&Config{BoundaryHour: 24})
	s.Error(err)
}

func (s *BoundaryTestSuite) TestOffsetForInstant() {
	s.Equal(time.Hour, s.calc.OffsetForInstant(time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)))
	s.Equal(2*time.Hour, s.calc.OffsetForInstant(time.Date(2025, 7, 15, 9, 0, 0, 0, time.UTC)))

	// 00:59Z is still CET, 01:00Z is CEST on the spring-forward day
	s.Equal(time.Hour, s.calc.OffsetForInstant(time.Date(2025, 3, 30, 0, 59, 0, 0, time.UTC)))
	s.Equal(2*time.Hour, s.calc.OffsetForInstant(time.Date(2025, 3, 30, 1, 0, 0, 0, time.UTC)))
}

func (s *BoundaryTestSuite) TestLatestAndNextOnOrdinaryDay() {
	now := s.local(2025, time.June, 10, 11, 14)

	s.True(s.local(2025, time.June, 9, 12, 0).Equal(s.calc.LatestBoundary(now)))
	s.True(s.local(2025, time.June, 10, 12, 0).Equal(s.calc.NextBoundary(now)))

	afternoon := s.local(2025, time.June, 10, 15, 0)
	s.True(s.local(2025, time.June, 10, 12, 0).Equal(s.calc.LatestBoundary(afternoon)))
	s.True(s.local(2025, time.June, 11, 12, 0).Equal(s.calc.NextBoundary(afternoon)))
}

func (s *BoundaryTestSuite) TestExactlyOnBoundary() {
	noon := s.local(2025, time.June, 10, 12, 0)

	s.True(noon.Equal(s.calc.LatestBoundary(noon)))
	s.True(noon.AddDate(0, 0, 1).Equal(s.calc.NextBoundary(noon)))
}

func (s *BoundaryTestSuite) TestCooldownPredicate() {
	now := s.local(2025, time.June, 10, 11, 14)

	s.True(s.calc.IsBlocked(s.local(2025, time.June, 10, 10, 0), now))
	s.False(s.calc.IsBlocked(s.local(2025, time.June, 9, 11, 0), now))
	s.False(s.calc.IsBlocked(time.Time{}, now))

	// after the boundary the morning action no longer blocks
	s.False(s.calc.IsBlocked(s.local(2025, time.June, 10, 10, 0), s.local(2025, time.June, 10, 12, 30)))
}

func (s *BoundaryTestSuite) TestIndependentOfInputZone() {
	now := s.local(2025, time.June, 10, 11, 14)
	inNewYork := now.In(time.FixedZone("EDT", -4*3600))

	s.True(s.calc.LatestBoundary(now).Equal(s.calc.LatestBoundary(inNewYork)))
	s.True(s.calc.NextBoundary(now).Equal(s.calc.NextBoundary(inNewYork)))
}

func (s *BoundaryTestSuite) TestSpringForwardWindowIs23Hours() {
	// 2025-03-30 02:00 CET jumps to 03:00 CEST
	morning := s.local(2025, time.March, 30, 8, 0)

	latest := s.calc.LatestBoundary(morning)
	next := s.calc.NextBoundary(morning)

	s.True(time.Date(2025, 3, 29, 11, 0, 0, 0, time.UTC).Equal(latest))
	s.True(time.Date(2025, 3, 30, 10, 0, 0, 0, time.UTC).Equal(next))
	s.Equal(23*time.Hour, next.Sub(latest))
}

func (s *BoundaryTestSuite) TestFallBackWindowIs25Hours() {
	// 2025-10-26 03:00 CEST falls back to 02:00 CET
	morning := s.local(2025, time.October, 26, 8, 0)

	latest := s.calc.LatestBoundary(morning)
	next := s.calc.NextBoundary(morning)

	s.True(time.Date(2025, 10, 25, 10, 0, 0, 0, time.UTC).Equal(latest))
	s.True(time.Date(2025, 10, 26, 11, 0, 0, 0, time.UTC).Equal(next))
	s.Equal(25*time.Hour, next.Sub(latest))
}

func (s *BoundaryTestSuite) TestAmbiguousHourDuringFallBack() {
	// 02:30 happens twice on 2025-10-26; both readings belong to the window opened on the 25th
	first := time.Date(2025, 10, 26, 0, 30, 0, 0, time.UTC)
	second := time.Date(2025, 10, 26, 1, 30, 0, 0, time.UTC)

	s.True(s.calc.LatestBoundary(first).Equal(s.calc.LatestBoundary(second)))
	s.True(s.calc.NextBoundary(first).Equal(s.calc.NextBoundary(second)))
}

func (s *BoundaryTestSuite) TestWindowInvariantAcrossYear() {
	start := time.Date(2025, 1, 1, 0, 7, 0, 0, time.UTC)
	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for t := start; t.Before(end); t = t.Add(37 * time.Minute) {
		latest, next := s.calc.Window(t)
		s.Require().False(latest.After(t), "latest after t at %s", t)
		s.Require().True(t.Before(next), "next not after t at %s", t)

		span := next.Sub(latest)
		if span != 24*time.Hour {
			s.Require().Contains([]time.Duration{23 * time.Hour, 25 * time.Hour}, span, "at %s", t)
			day := latest.In(s.prague)
			s.Require().True(
				(day.Month() == time.March && day.Day() == 29) || (day.Month() == time.October && day.Day() == 25),
				"non-24h window opened on %s", day)
		}
	}
}

func (s *BoundaryTestSuite) TestUntilNext() {
	now := s.local(2025, time.June, 10, 11, 14)
	s.Equal(46*time.Minute, s.calc.UntilNext(now))
}
