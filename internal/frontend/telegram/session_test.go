package telegram

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vadimtrunov/CineScope/internal/catalog"
	"github.com/vadimtrunov/CineScope/internal/explore"
)

func fixedClock() time.Time {
	return time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
}

func TestSessionManager_IsAllowed(t *testing.T) {
	t.Run("empty whitelist allows all", func(t *testing.T) {
		sm := newSessionManager(nil, fixedClock)
		if !sm.isAllowed(123) {
			t.Error("expected all users allowed with nil whitelist")
		}
		if !sm.isAllowed(456) {
			t.Error("expected all users allowed with nil whitelist")
		}
	})

	t.Run("empty slice allows all", func(t *testing.T) {
		sm := newSessionManager([]int64{}, fixedClock)
		if !sm.isAllowed(123) {
			t.Error("expected all users allowed with empty whitelist")
		}
	})

	t.Run("whitelist restricts", func(t *testing.T) {
		sm := newSessionManager([]int64{100, 200}, fixedClock)
		if !sm.isAllowed(100) {
			t.Error("expected user 100 allowed")
		}
		if !sm.isAllowed(200) {
			t.Error("expected user 200 allowed")
		}
		if sm.isAllowed(300) {
			t.Error("expected user 300 denied")
		}
	})
}

func TestSessionManager_ApplyCreatesMovieView(t *testing.T) {
	sm := newSessionManager(nil, fixedClock)

	st, q := sm.apply(1, explore.State.Start)
	if q.IsZero() {
		t.Fatal("expected a query")
	}
	if st.Params.MediaType != catalog.Movie || st.Status != explore.StatusLoading {
		t.Errorf("unexpected state: %+v", st)
	}
	if st.Params.Filters.YearTo != 2026 {
		t.Errorf("expected session clock to drive filters, got %d", st.Params.Filters.YearTo)
	}
}

func TestSessionManager_ReceiveDropsStale(t *testing.T) {
	sm := newSessionManager(nil, fixedClock)

	_, first := sm.apply(1, func(s explore.State) (explore.State, explore.Query) { return s.Search("bat") })
	_, second := sm.apply(1, func(s explore.State) (explore.State, explore.Query) { return s.Search("batman") })

	page := &catalog.ListPage{Items: []catalog.Summary{{ID: 1, Title: "Batman"}}, Page: 1}

	st, accepted := sm.receive(1, explore.Result{Token: first.Token, Page: page})
	if accepted {
		t.Error("expected superseded result to be rejected")
	}
	if st.Status != explore.StatusLoading {
		t.Errorf("expected state still loading, got %s", st.Status)
	}

	st, accepted = sm.receive(1, explore.Result{Token: second.Token, Page: page})
	if !accepted || st.Status != explore.StatusLoaded {
		t.Errorf("expected latest result accepted, got %v %s", accepted, st.Status)
	}
}

func TestSessionManager_ReceiveAfterReset(t *testing.T) {
	sm := newSessionManager(nil, fixedClock)
	_, q := sm.apply(1, explore.State.Start)
	sm.reset(1)

	if _, accepted := sm.receive(1, explore.Result{Token: q.Token, Page: &catalog.ListPage{}}); accepted {
		t.Error("expected result for a reset session to be rejected")
	}
	if _, accepted := sm.receive(1, explore.Result{Token: uuid.New()}); accepted {
		t.Error("expected unknown token to be rejected")
	}
}

func TestSessionManager_ConcurrentUsers(t *testing.T) {
	sm := newSessionManager(nil, fixedClock)
	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, q := sm.apply(id, explore.State.Start)
			sm.receive(id, explore.Result{Token: q.Token, Page: &catalog.ListPage{Page: 1}})
		}(int64(i))
	}
	wg.Wait()

	if len(sm.sessions) != 10 {
		t.Errorf("expected 10 sessions, got %d", len(sm.sessions))
	}
	for id, st := range sm.sessions {
		if st.Status != explore.StatusLoaded {
			t.Errorf("user %d: expected loaded, got %s", id, st.Status)
		}
	}
}
