package service_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/jungle/internal/adapters/repository"
	service "github.com/okian/jungle/internal/app"
	"github.com/okian/jungle/internal/domain/league"
	"github.com/okian/jungle/internal/domain/schedule"
	"github.com/okian/jungle/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// Round 1 lines lock at linesLock; picks lock and tip-off an hour later.
var linesLock = time.Date(2026, 2, 2, 22, 0, 0, 0, time.UTC)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func testLeague() *league.League {
	return league.New(
		[]league.Participant{
			{ID: "a", Bettor: true},
			{ID: "b", Bettor: true},
			{ID: "c", Bettor: true},
			{ID: "d", Rounds: []int{1}},
			{ID: "e", Bettor: true, InjuredFrom: 2},
		},
		[]league.Item{{Key: "pts", Label: "Points"}, {Key: "ast", Label: "Assists"}},
		[]league.Item{{Key: league.PropMostMissedFT, Label: "Most Missed FTs"}, {Key: league.PropTeamMVP, Label: "Team MVP"}},
	)
}

func testSchedule() *schedule.Schedule {
	mk := func(n int, linesAt time.Time) schedule.Round {
		start := linesAt.Add(time.Hour)
		return schedule.Round{
			Number:      n,
			Label:       fmt.Sprintf("Week %d", n),
			StartsAt:    start,
			LinesLockAt: linesAt,
			PicksLockAt: start,
		}
	}
	return schedule.New([]schedule.Round{
		mk(1, linesLock),
		mk(2, linesLock.Add(7*24*time.Hour)),
	})
}

func newStore() *repository.GormStore {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	store, err := repository.Open(repository.DriverSQLite, dsn)
	So(err, ShouldBeNil)
	So(store.Migrate(context.Background()), ShouldBeNil)
	return store
}

// newService returns a service whose clock starts while round 1 is open.
func newService(opts ...service.Option) (*service.Service, *clock, *repository.GormStore) {
	c := &clock{t: linesLock.Add(-time.Hour)}
	store := newStore()
	opts = append([]service.Option{service.WithClock(c.Now)}, opts...)
	return service.New(store, testLeague(), testSchedule(), opts...), c, store
}
