package service_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/jungle/internal/adapters/repository"
	service "github.com/okian/jungle/internal/app"
	"github.com/okian/jungle/internal/domain/model"
)

// overlapStore records how many line rebuilds of one round run at once.
type overlapStore struct {
	repository.Store

	inFlight atomic.Int32
	peak     atomic.Int32
}

func (s *overlapStore) RebuildLines(ctx context.Context, round int, build repository.LineBuilder) ([]model.Line, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	return s.Store.RebuildLines(ctx, round, build)
}

func TestService_RefreshLinesSerialized(t *testing.T) {
	Convey("Given several concurrent rebuilds of the same round", t, func() {
		ctx := context.Background()
		_, clk, store := newService()
		defer store.Close()
		wrapped := &overlapStore{Store: store}
		svc := service.New(wrapped, testLeague(), testSchedule(), service.WithClock(clk.Now))

		_, err := svc.SubmitPredictions(ctx, "a", 1, []service.PredictionInput{
			{Player: "b", Stat: "pts", Value: 10},
		})
		So(err, ShouldBeNil)

		var wg sync.WaitGroup
		errs := make(chan error, 8)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.RefreshLines(ctx, 1)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		Convey("Then they run one at a time and all succeed", func() {
			for err := range errs {
				So(err, ShouldBeNil)
			}
			So(wrapped.peak.Load(), ShouldEqual, 1)

			got, err := svc.Lines(ctx, 1)
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 1)
			So(got[0].Value, ShouldEqual, 10)
		})
	})
}
