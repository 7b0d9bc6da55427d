package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/fundalabs/dashboard-api/internal/dto"
	"github.com/fundalabs/dashboard-api/internal/identity"
	"github.com/fundalabs/dashboard-api/internal/models"
	"github.com/fundalabs/dashboard-api/internal/query"
	"github.com/fundalabs/dashboard-api/internal/syncer"
	"github.com/fundalabs/dashboard-api/internal/transform"
	"github.com/fundalabs/dashboard-api/internal/upstream"
)

// Resource labels for refresh targeting, snapshot state blocks and metrics.
const (
	ResourceStats        = "stats"
	ResourceLearningPath = "learning_path"
	ResourceQuizzes      = "quizzes"
	ResourceChallenges   = "challenges"
)

var (
	// ErrInvalidIdentity is returned before any upstream access when the
	// caller's identity is unusable. Handlers route this to
	// re-authentication rather than retry.
	ErrInvalidIdentity = errors.New(identity.ErrInvalidMessage)

	// ErrUnknownResource is returned for a refresh target that is not one
	// of the four synchronized resources.
	ErrUnknownResource = errors.New("unknown resource")
)

// ListOptions narrows and orders a listing read.
type ListOptions struct {
	Search   string
	Category string
	Status   string
	Sort     string
}

// DashboardService composes the four resource synchronizers into the views
// the UI renders.
type DashboardService interface {
	Snapshot(ctx context.Context, id string) (dto.DashboardSnapshot, error)
	Quizzes(ctx context.Context, id string, opts ListOptions) ([]dto.QuizVM, dto.ResourceState, error)
	Challenges(ctx context.Context, id string, opts ListOptions) ([]dto.ChallengeVM, dto.ResourceState, error)
	LearningPath(ctx context.Context, id string) ([]dto.LearningPathItemVM, dto.ResourceState, error)
	ChallengeDetail(ctx context.Context, id string, challengeID int64) (dto.ChallengeDetailVM, error)
	Refresh(ctx context.Context, id, resource string) error
	Subscribe(id string) (<-chan dto.StatusEvent, func(), error)
	Shutdown()
}

// resourceSet holds the four synchronizers bound to one identity. The
// synchronizers write disjoint state slots and never share mutable state
// beyond the identity itself.
type resourceSet struct {
	stats        *syncer.Synchronizer[models.DashboardStatsRaw, dto.DashboardStatsVM]
	learningPath *syncer.Synchronizer[[]models.LearningPathRaw, []dto.LearningPathItemVM]
	quizzes      *syncer.Synchronizer[[]models.QuizRaw, []dto.QuizVM]
	challenges   *syncer.Synchronizer[[]models.ChallengeRaw, []dto.ChallengeVM]
}

type dashboardService struct {
	client          *upstream.Client
	cache           *redis.Client
	cacheTTL        time.Duration
	identityTimeout time.Duration
	logger          zerolog.Logger
	sanitizer       *bluemonday.Policy
	hub             *statusHub
	now             func() time.Time

	mu   sync.Mutex
	sets map[string]*resourceSet
}

// NewDashboardService builds the composer. The redis client may be nil to
// disable snapshot caching.
func NewDashboardService(client *upstream.Client, cache *redis.Client, cacheTTL, identityTimeout time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		client:          client,
		cache:           cache,
		cacheTTL:        cacheTTL,
		identityTimeout: identityTimeout,
		logger:          logger.With().Str("component", "dashboard_service").Logger(),
		sanitizer:       bluemonday.StrictPolicy(),
		hub:             newStatusHub(logger),
		now:             time.Now,
		sets:            make(map[string]*resourceSet),
	}
}

// setFor returns the synchronizer set for the identity, creating it on first
// use.
func (s *dashboardService) setFor(id string) *resourceSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	if set, ok := s.sets[id]; ok {
		return set
	}

	notify := func(ev syncer.Event) {
		s.hub.broadcast(id, dto.StatusEvent{
			Resource:     ev.Resource,
			Status:       string(ev.Status),
			ErrorMessage: ev.ErrorMessage,
			At:           ev.At,
		})
	}

	set := &resourceSet{
		stats: syncer.New(syncer.Config[models.DashboardStatsRaw, dto.DashboardStatsVM]{
			Resource:        ResourceStats,
			Fetch:           s.client.DashboardStats,
			Transform:       transform.DashboardStats,
			Default:         transform.DefaultDashboardStats,
			IdentityTimeout: s.identityTimeout,
			Notify:          notify,
		}, s.logger),
		learningPath: syncer.New(syncer.Config[[]models.LearningPathRaw, []dto.LearningPathItemVM]{
			Resource:        ResourceLearningPath,
			Fetch:           s.client.LearningPath,
			Transform:       transform.LearningPath,
			Default:         func() []dto.LearningPathItemVM { return []dto.LearningPathItemVM{} },
			IdentityTimeout: s.identityTimeout,
			Notify:          notify,
		}, s.logger),
		quizzes: syncer.New(syncer.Config[[]models.QuizRaw, []dto.QuizVM]{
			Resource: ResourceQuizzes,
			Fetch:    s.client.Quizzes,
			Transform: func(raw []models.QuizRaw) []dto.QuizVM {
				return transform.Quizzes(raw, s.now())
			},
			Default:         func() []dto.QuizVM { return []dto.QuizVM{} },
			IdentityTimeout: s.identityTimeout,
			Notify:          notify,
		}, s.logger),
		challenges: syncer.New(syncer.Config[[]models.ChallengeRaw, []dto.ChallengeVM]{
			Resource:        ResourceChallenges,
			Fetch:           s.client.Challenges,
			Transform:       transform.Challenges,
			Default:         func() []dto.ChallengeVM { return []dto.ChallengeVM{} },
			IdentityTimeout: s.identityTimeout,
			Notify:          notify,
		}, s.logger),
	}
	s.sets[id] = set
	return set
}

// ensureFetched runs the initial fetch for any synchronizer still idle. The
// four fetches are independent and run concurrently.
func (s *dashboardService) ensureFetched(ctx context.Context, id string, set *resourceSet) {
	var wg sync.WaitGroup

	if set.stats.State().Status == syncer.StatusIdle {
		wg.Add(1)
		go func() { defer wg.Done(); set.stats.Fetch(ctx, id) }()
	}
	if set.learningPath.State().Status == syncer.StatusIdle {
		wg.Add(1)
		go func() { defer wg.Done(); set.learningPath.Fetch(ctx, id) }()
	}
	if set.quizzes.State().Status == syncer.StatusIdle {
		wg.Add(1)
		go func() { defer wg.Done(); set.quizzes.Fetch(ctx, id) }()
	}
	if set.challenges.State().Status == syncer.StatusIdle {
		wg.Add(1)
		go func() { defer wg.Done(); set.challenges.Fetch(ctx, id) }()
	}

	wg.Wait()
}

func (s *dashboardService) Snapshot(ctx context.Context, id string) (dto.DashboardSnapshot, error) {
	id = identity.Normalize(id)
	if !identity.Valid(id) {
		return dto.DashboardSnapshot{}, ErrInvalidIdentity
	}

	cacheKey := snapshotCacheKey(id)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var snapshot dto.DashboardSnapshot
			if unmarshalErr := json.Unmarshal([]byte(cached), &snapshot); unmarshalErr == nil {
				s.logger.Debug().Str("user_id", id).Msg("snapshot cache hit")
				return snapshot, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read snapshot cache")
		}
	}

	set := s.setFor(id)
	s.ensureFetched(ctx, id, set)

	statsState := set.stats.State()
	pathState := set.learningPath.State()
	quizState := set.quizzes.State()
	challengeState := set.challenges.State()

	snapshot := dto.DashboardSnapshot{
		Stats:        statsState.Value,
		LearningPath: pathState.Value,
		Quizzes:      quizState.Value,
		Challenges:   challengeState.Value,
		Derived:      s.deriveStats(ctx, id, quizState.Value, challengeState.Value),
		States: map[string]dto.ResourceState{
			ResourceStats:        toResourceState(statsState.Status, statsState.ErrorMessage, statsState.LastFetchedAt),
			ResourceLearningPath: toResourceState(pathState.Status, pathState.ErrorMessage, pathState.LastFetchedAt),
			ResourceQuizzes:      toResourceState(quizState.Status, quizState.ErrorMessage, quizState.LastFetchedAt),
			ResourceChallenges:   toResourceState(challengeState.Status, challengeState.ErrorMessage, challengeState.LastFetchedAt),
		},
	}

	if s.cache != nil {
		if payload, err := json.Marshal(snapshot); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store snapshot cache")
			}
		}
	}

	return snapshot, nil
}

// deriveStats recomputes the aggregates on every read. The upstream stats
// endpoints are consulted best-effort; when they are unreachable the
// aggregates fall back to client-side derivation over the collections.
func (s *dashboardService) deriveStats(ctx context.Context, id string, quizzes []dto.QuizVM, challenges []dto.ChallengeVM) dto.DerivedStats {
	derived := dto.DerivedStats{}

	var progressTotal float64
	for _, quiz := range quizzes {
		if quiz.Status == dto.QuizStatusCompleted {
			derived.QuizzesCompleted++
			if quiz.UserScore != nil {
				derived.PointsEarned += *quiz.UserScore
			}
		}
		progressTotal += quiz.ClassProgress
	}
	if len(quizzes) > 0 {
		derived.AverageClassProgress = progressTotal / float64(len(quizzes))
	}

	for _, challenge := range challenges {
		if challenge.IsCompleted {
			derived.ChallengesCompleted++
			derived.PointsEarned += float64(challenge.Points)
		}
	}

	if quizStats, err := s.client.QuizStats(ctx, id); err != nil {
		s.logger.Warn().Err(err).Msg("quiz stats unavailable, using derived counts")
	} else if quizStats.Completed != nil {
		derived.QuizzesCompleted = *quizStats.Completed
	}

	if challengeStats, err := s.client.ChallengeStats(ctx, id); err != nil {
		s.logger.Warn().Err(err).Msg("challenge stats unavailable, using derived counts")
	} else {
		if challengeStats.Completed != nil {
			derived.ChallengesCompleted = *challengeStats.Completed
		}
	}

	return derived
}

func (s *dashboardService) Quizzes(ctx context.Context, id string, opts ListOptions) ([]dto.QuizVM, dto.ResourceState, error) {
	id = identity.Normalize(id)
	if !identity.Valid(id) {
		return nil, dto.ResourceState{}, ErrInvalidIdentity
	}

	set := s.setFor(id)
	if set.quizzes.State().Status == syncer.StatusIdle {
		set.quizzes.Fetch(ctx, id)
	}

	state := set.quizzes.State()
	filtered := query.FilterQuizzes(state.Value, s.sanitizeSearch(opts.Search), opts.Category, opts.Status)
	sorted := query.SortQuizzes(filtered, opts.Sort)

	return sorted, toResourceState(state.Status, state.ErrorMessage, state.LastFetchedAt), nil
}

func (s *dashboardService) Challenges(ctx context.Context, id string, opts ListOptions) ([]dto.ChallengeVM, dto.ResourceState, error) {
	id = identity.Normalize(id)
	if !identity.Valid(id) {
		return nil, dto.ResourceState{}, ErrInvalidIdentity
	}

	set := s.setFor(id)
	if set.challenges.State().Status == syncer.StatusIdle {
		set.challenges.Fetch(ctx, id)
	}

	state := set.challenges.State()
	filtered := query.FilterChallenges(state.Value, s.sanitizeSearch(opts.Search), opts.Category, opts.Status)

	return filtered, toResourceState(state.Status, state.ErrorMessage, state.LastFetchedAt), nil
}

func (s *dashboardService) LearningPath(ctx context.Context, id string) ([]dto.LearningPathItemVM, dto.ResourceState, error) {
	id = identity.Normalize(id)
	if !identity.Valid(id) {
		return nil, dto.ResourceState{}, ErrInvalidIdentity
	}

	set := s.setFor(id)
	if set.learningPath.State().Status == syncer.StatusIdle {
		set.learningPath.Fetch(ctx, id)
	}

	state := set.learningPath.State()
	return state.Value, toResourceState(state.Status, state.ErrorMessage, state.LastFetchedAt), nil
}

func (s *dashboardService) ChallengeDetail(ctx context.Context, id string, challengeID int64) (dto.ChallengeDetailVM, error) {
	id = identity.Normalize(id)
	if !identity.Valid(id) {
		return dto.ChallengeDetailVM{}, ErrInvalidIdentity
	}

	raw, err := s.client.ChallengeDetail(ctx, id, challengeID)
	if err != nil {
		return dto.ChallengeDetailVM{}, fmt.Errorf("fetch challenge %d: %w", challengeID, err)
	}

	return transform.ChallengeDetail(raw), nil
}

// Refresh re-runs the fetch cycle and busts the snapshot cache. An empty
// resource refreshes all four.
func (s *dashboardService) Refresh(ctx context.Context, id, resource string) error {
	id = identity.Normalize(id)
	if !identity.Valid(id) {
		return ErrInvalidIdentity
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, snapshotCacheKey(id)).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to invalidate snapshot cache")
		}
	}

	set := s.setFor(id)

	switch resource {
	case "":
		var wg sync.WaitGroup
		wg.Add(4)
		go func() { defer wg.Done(); set.stats.Fetch(ctx, id) }()
		go func() { defer wg.Done(); set.learningPath.Fetch(ctx, id) }()
		go func() { defer wg.Done(); set.quizzes.Fetch(ctx, id) }()
		go func() { defer wg.Done(); set.challenges.Fetch(ctx, id) }()
		wg.Wait()
	case ResourceStats:
		set.stats.Fetch(ctx, id)
	case ResourceLearningPath:
		set.learningPath.Fetch(ctx, id)
	case ResourceQuizzes:
		set.quizzes.Fetch(ctx, id)
	case ResourceChallenges:
		set.challenges.Fetch(ctx, id)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownResource, resource)
	}

	return nil
}

func (s *dashboardService) Subscribe(id string) (<-chan dto.StatusEvent, func(), error) {
	id = identity.Normalize(id)
	if !identity.Valid(id) {
		return nil, nil, ErrInvalidIdentity
	}

	ch, cancel := s.hub.subscribe(id)
	return ch, cancel, nil
}

// Shutdown disposes every synchronizer and closes all event subscribers.
func (s *dashboardService) Shutdown() {
	s.mu.Lock()
	for _, set := range s.sets {
		set.stats.Dispose()
		set.learningPath.Dispose()
		set.quizzes.Dispose()
		set.challenges.Dispose()
	}
	s.sets = make(map[string]*resourceSet)
	s.mu.Unlock()

	s.hub.closeAll()
}

// sanitizeSearch strips markup from the free-text search term before it is
// matched or logged.
func (s *dashboardService) sanitizeSearch(term string) string {
	return s.sanitizer.Sanitize(term)
}

func snapshotCacheKey(id string) string {
	return fmt.Sprintf("dashboard:snapshot:%s", id)
}

func toResourceState(status syncer.Status, message string, fetchedAt *time.Time) dto.ResourceState {
	return dto.ResourceState{
		Status:        string(status),
		ErrorMessage:  message,
		LastFetchedAt: fetchedAt,
	}
}
