package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/fundalabs/dashboard-api/internal/dto"
	"github.com/fundalabs/dashboard-api/internal/syncer"
	"github.com/fundalabs/dashboard-api/internal/upstream"
)

type upstreamStub struct {
	server     *httptest.Server
	statsBody  atomic.Value // string
	quizBody   atomic.Value
	challenges atomic.Value
	pathBody   atomic.Value
	failAll    atomic.Bool
}

func newUpstreamStub(t *testing.T) *upstreamStub {
	t.Helper()
	stub := &upstreamStub{}
	stub.statsBody.Store(`{"data":{"challenges":{"completed":3,"progress":40,"this_week":1,"total":10},"quizzes":{"attempted":4,"progress":50,"this_week":2,"total":8},"overall":{"completed_items":7,"message":"Great pace!","progress":45,"total_items":18}}}`)
	stub.pathBody.Store(`{"data":[{"id":1,"title":"Hello World","status":"completed","type":"challenge"},{"id":2,"title":"Loops Quiz","status":"in_progress","type":"quiz"}]}`)
	stub.quizBody.Store(`{"data":{"quizzes":[{"id":1,"title":"Control Flow Basics","status":"completed","total_points":20,"time_limit_minutes":20,"user_score":18,"class_progress":70},{"id":2,"title":"Dictionaries","description":"dict drills","status":"available","total_points":60,"time_limit_minutes":90,"class_progress":30,"tags":["dict"]}]}}`)
	stub.challenges.Store(`{"data":{"challenges":[{"id":1,"title":"Two Sum","difficulty":"Easy","tags":["arrays"],"completed":true,"users_attempted":10,"users_completed":4,"points":50},{"id":2,"title":"Spiral","difficulty":"Hard","in_progress":true,"users_attempted":6,"users_completed":1,"points":120}]}}`)

	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if stub.failAll.Load() {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/dashboard/stats":
			_, _ = w.Write([]byte(stub.statsBody.Load().(string)))
		case "/api/dashboard/learning-path":
			_, _ = w.Write([]byte(stub.pathBody.Load().(string)))
		case "/api/quizzes":
			_, _ = w.Write([]byte(stub.quizBody.Load().(string)))
		case "/api/quizzes/stats":
			_, _ = w.Write([]byte(`{"data":{"attempted":4,"completed":2,"average_score":75,"total":8}}`))
		case "/api/challenges":
			_, _ = w.Write([]byte(stub.challenges.Load().(string)))
		case "/api/challenges/stats":
			_, _ = w.Write([]byte(`{"data":{"attempted":5,"completed":1,"points":50,"total":12}}`))
		case "/api/challenges/7":
			_, _ = w.Write([]byte(`{"data":{"id":7,"title":"FizzBuzz","difficulty":"Easy","instructions":"Print fizz or buzz.","sample_input":"15","sample_output":"fizzbuzz"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func newTestService(t *testing.T, stub *upstreamStub, cache *redis.Client) DashboardService {
	t.Helper()
	client := upstream.NewClient(stub.server.URL, 2*time.Second, zerolog.Nop())
	return NewDashboardService(client, cache, time.Minute, 10*time.Second, zerolog.Nop())
}

func TestSnapshotComposesAllResources(t *testing.T) {
	stub := newUpstreamStub(t)
	svc := newTestService(t, stub, nil)
	defer svc.Shutdown()

	snapshot, err := svc.Snapshot(context.Background(), "student-1")
	require.NoError(t, err)

	require.Equal(t, 3, snapshot.Stats.Challenges.Completed)
	require.Equal(t, "Great pace!", snapshot.Stats.Overall.Message)
	require.Len(t, snapshot.LearningPath, 2)
	require.Equal(t, 65, snapshot.LearningPath[1].Progress)
	require.Len(t, snapshot.Quizzes, 2)
	require.Equal(t, "Control Flow", snapshot.Quizzes[0].Category)
	require.Len(t, snapshot.Challenges, 2)
	require.Equal(t, dto.DifficultyLow, snapshot.Challenges[0].Difficulty)

	for _, resource := range []string{ResourceStats, ResourceLearningPath, ResourceQuizzes, ResourceChallenges} {
		state, ok := snapshot.States[resource]
		require.True(t, ok, resource)
		require.Equal(t, string(syncer.StatusReady), state.Status)
		require.NotNil(t, state.LastFetchedAt)
	}

	// upstream stats endpoints are authoritative for the completion counts
	require.Equal(t, 2, snapshot.Derived.QuizzesCompleted)
	require.Equal(t, 1, snapshot.Derived.ChallengesCompleted)
	// 18 quiz points + 50 challenge points derived client-side
	require.InDelta(t, 68.0, snapshot.Derived.PointsEarned, 0.01)
	require.InDelta(t, 50.0, snapshot.Derived.AverageClassProgress, 0.01)
}

func TestSnapshotUsesCacheWithinTTL(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	stub := newUpstreamStub(t)
	svc := newTestService(t, stub, redis.NewClient(&redis.Options{Addr: mini.Addr()}))
	defer svc.Shutdown()

	ctx := context.Background()
	first, err := svc.Snapshot(ctx, "student-1")
	require.NoError(t, err)

	// Upstream changes; the cached composition must still be served.
	stub.statsBody.Store(`{"data":{"challenges":{"completed":9,"total":10}}}`)

	second, err := svc.Snapshot(ctx, "student-1")
	require.NoError(t, err)
	require.Equal(t, first.Stats, second.Stats)
	require.Equal(t, 3, second.Stats.Challenges.Completed)
}

func TestRefreshBustsCacheAndRefetches(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	stub := newUpstreamStub(t)
	svc := newTestService(t, stub, redis.NewClient(&redis.Options{Addr: mini.Addr()}))
	defer svc.Shutdown()

	ctx := context.Background()
	_, err = svc.Snapshot(ctx, "student-1")
	require.NoError(t, err)

	stub.statsBody.Store(`{"data":{"challenges":{"completed":9,"progress":90,"this_week":2,"total":10}}}`)
	require.NoError(t, svc.Refresh(ctx, "student-1", ""))

	snapshot, err := svc.Snapshot(ctx, "student-1")
	require.NoError(t, err)
	require.Equal(t, 9, snapshot.Stats.Challenges.Completed)
}

func TestRefreshSingleResourceLeavesOthersAlone(t *testing.T) {
	stub := newUpstreamStub(t)
	svc := newTestService(t, stub, nil)
	defer svc.Shutdown()

	ctx := context.Background()
	first, err := svc.Snapshot(ctx, "student-1")
	require.NoError(t, err)

	stub.statsBody.Store(`{"data":{"challenges":{"completed":9,"total":10}}}`)
	stub.pathBody.Store(`{"data":[]}`)
	require.NoError(t, svc.Refresh(ctx, "student-1", ResourceStats))

	snapshot, err := svc.Snapshot(ctx, "student-1")
	require.NoError(t, err)
	require.Equal(t, 9, snapshot.Stats.Challenges.Completed)
	require.Equal(t, first.LearningPath, snapshot.LearningPath)
}

func TestRefreshUnknownResource(t *testing.T) {
	stub := newUpstreamStub(t)
	svc := newTestService(t, stub, nil)
	defer svc.Shutdown()

	err := svc.Refresh(context.Background(), "student-1", "badges")
	require.ErrorIs(t, err, ErrUnknownResource)
}

func TestInvalidIdentityShortCircuitsEveryRead(t *testing.T) {
	stub := newUpstreamStub(t)
	svc := newTestService(t, stub, nil)
	defer svc.Shutdown()

	ctx := context.Background()

	_, err := svc.Snapshot(ctx, "   ")
	require.ErrorIs(t, err, ErrInvalidIdentity)

	_, _, err = svc.Quizzes(ctx, "", ListOptions{})
	require.ErrorIs(t, err, ErrInvalidIdentity)

	_, _, err = svc.Challenges(ctx, "\t", ListOptions{})
	require.ErrorIs(t, err, ErrInvalidIdentity)

	_, _, err = svc.LearningPath(ctx, "")
	require.ErrorIs(t, err, ErrInvalidIdentity)

	_, err = svc.ChallengeDetail(ctx, "", 7)
	require.ErrorIs(t, err, ErrInvalidIdentity)

	require.ErrorIs(t, svc.Refresh(ctx, "", ""), ErrInvalidIdentity)
}

func TestQuizzesFilterSanitizesSearchMarkup(t *testing.T) {
	stub := newUpstreamStub(t)
	svc := newTestService(t, stub, nil)
	defer svc.Shutdown()

	quizzes, state, err := svc.Quizzes(context.Background(), "student-1", ListOptions{
		Search: "<b>dict</b>",
	})
	require.NoError(t, err)
	require.Equal(t, string(syncer.StatusReady), state.Status)
	require.Len(t, quizzes, 1)
	require.Equal(t, "Dictionaries", quizzes[0].Title)
}

func TestQuizzesSorted(t *testing.T) {
	stub := newUpstreamStub(t)
	svc := newTestService(t, stub, nil)
	defer svc.Shutdown()

	quizzes, _, err := svc.Quizzes(context.Background(), "student-1", ListOptions{Sort: "total_marks"})
	require.NoError(t, err)
	require.Len(t, quizzes, 2)
	require.Equal(t, "Dictionaries", quizzes[0].Title)
}

func TestUpstreamOutageYieldsErrorStateWithDefaults(t *testing.T) {
	stub := newUpstreamStub(t)
	stub.failAll.Store(true)
	svc := newTestService(t, stub, nil)
	defer svc.Shutdown()

	snapshot, err := svc.Snapshot(context.Background(), "student-1")
	require.NoError(t, err)

	state := snapshot.States[ResourceQuizzes]
	require.Equal(t, string(syncer.StatusError), state.Status)
	require.NotEmpty(t, state.ErrorMessage)
	require.NotNil(t, snapshot.Quizzes)
	require.Empty(t, snapshot.Quizzes)
	require.Zero(t, snapshot.Stats.Challenges.Total)
	require.NotEmpty(t, snapshot.Stats.Overall.Message)
}

func TestChallengeDetail(t *testing.T) {
	stub := newUpstreamStub(t)
	svc := newTestService(t, stub, nil)
	defer svc.Shutdown()

	detail, err := svc.ChallengeDetail(context.Background(), "student-1", 7)
	require.NoError(t, err)
	require.Equal(t, "FizzBuzz", detail.Title)
	require.Equal(t, dto.DifficultyLow, detail.Difficulty)
	require.Equal(t, "Print fizz or buzz.", detail.Instructions)
	require.Equal(t, "fizzbuzz", detail.SampleOutput)
}

func TestSubscribeReceivesRefreshTransitions(t *testing.T) {
	stub := newUpstreamStub(t)
	svc := newTestService(t, stub, nil)
	defer svc.Shutdown()

	events, cancel, err := svc.Subscribe("student-1")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, svc.Refresh(context.Background(), "student-1", ResourceQuizzes))

	seen := map[string]bool{}
	timeout := time.After(time.Second)
	for len(seen) < 2 {
		select {
		case ev := <-events:
			require.Equal(t, ResourceQuizzes, ev.Resource)
			seen[ev.Status] = true
		case <-timeout:
			t.Fatalf("timed out waiting for transitions, saw %v", seen)
		}
	}
	require.True(t, seen[string(syncer.StatusFetching)])
	require.True(t, seen[string(syncer.StatusReady)])
}
