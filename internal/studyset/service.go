package studyset

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/abhisek/lexicon/internal/candidates"
	"github.com/abhisek/lexicon/internal/catalog"
	"github.com/abhisek/lexicon/internal/logger"
	"github.com/abhisek/lexicon/internal/profile"
	"github.com/abhisek/lexicon/internal/spacedrep"
)

// RotationSource lists a user's graduated review records.
type RotationSource interface {
	InRotation(ctx context.Context, userID int64) ([]spacedrep.ReviewRecord, error)
}

// RandSource returns the generator for one generation call.
type RandSource func(userID int64) *rand.Rand

// SystemRand seeds a fresh PCG generator from the runtime source.
func SystemRand(int64) *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// SeededRand returns a RandSource that always starts from seed, mixed with
// the user id so different users still get different searches.
func SeededRand(seed uint64) RandSource {
	return func(userID int64) *rand.Rand {
		return rand.New(rand.NewPCG(seed, uint64(userID)))
	}
}

// Service generates and stores study sets.
type Service struct {
	catalog   catalog.Lister
	profiles  profile.Repo
	rotation  RotationSource
	repo      Repo
	optimizer *Optimizer
	clock     spacedrep.Clock
	rand      RandSource
	log       *logger.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithClock sets the clock used for creation timestamps.
func WithClock(c spacedrep.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithRandSource sets where optimizer randomness comes from.
func WithRandSource(r RandSource) Option {
	return func(s *Service) { s.rand = r }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a study set service.
func NewService(cat catalog.Lister, profiles profile.Repo, rotation RotationSource, repo Repo, cfg Config, opts ...Option) *Service {
	s := &Service{
		catalog:   cat,
		profiles:  profiles,
		rotation:  rotation,
		repo:      repo,
		optimizer: NewOptimizer(cfg),
		clock:     spacedrep.SystemClock,
		rand:      SystemRand,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Generate builds and stores a new study set. A blank root runs the
// optimizer; otherwise the set is every item built on that root. Nothing is
// stored when an error is returned.
func (s *Service) Generate(ctx context.Context, userID int64, root string) (*StudySet, error) {
	prof, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile for user %d: %w", userID, err)
	}
	if prof == nil {
		return nil, ErrMissingProfile
	}

	root = strings.TrimSpace(root)
	var sel Selection
	if root != "" {
		sel, err = RootFilter(ctx, s.catalog, root)
	} else {
		sel, err = s.optimize(ctx, userID, prof)
	}
	if err != nil {
		return nil, err
	}

	now := s.clock()
	id, err := ulid.New(ulid.Timestamp(now), ulid.DefaultEntropy())
	if err != nil {
		return nil, fmt.Errorf("study set id: %w", err)
	}
	set := &StudySet{
		ID:        id.String(),
		UserID:    userID,
		Selection: sel,
		Root:      root,
		CreatedAt: now,
	}
	if err := s.repo.Insert(ctx, set); err != nil {
		return nil, fmt.Errorf("store study set: %w", err)
	}

	s.log.Info("study set generated",
		"user_id", userID,
		"id", set.ID,
		"root", root,
		"words", len(sel.StandaloneIDs),
		"phrases", len(sel.CompoundIDs),
		"groups", len(sel.GroupIDs),
	)
	return set, nil
}

func (s *Service) optimize(ctx context.Context, userID int64, prof *profile.Profile) (Selection, error) {
	recs, err := s.rotation.InRotation(ctx, userID)
	if err != nil {
		return Selection{}, fmt.Errorf("load graduated items: %w", err)
	}
	pools, err := candidates.Build(ctx, s.catalog, candidates.GraduatedFromRecords(recs))
	if err != nil {
		return Selection{}, err
	}

	start := time.Now()
	sel, err := s.optimizer.Optimize(pools, prof, s.rand(userID))
	if err != nil {
		return Selection{}, err
	}
	s.log.Debug("optimizer finished",
		"user_id", userID,
		"candidates", pools.Len(),
		"cost", TotalCost(sel, pools, prof),
		"elapsed", time.Since(start),
	)
	return sel, nil
}

// Latest returns the newest optimizer-built set for the user, or nil.
func (s *Service) Latest(ctx context.Context, userID int64) (*StudySet, error) {
	set, err := s.repo.Latest(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("latest study set for user %d: %w", userID, err)
	}
	return set, nil
}

// LatestRoot returns the newest root-filtered set for the user, or nil.
func (s *Service) LatestRoot(ctx context.Context, userID int64) (*StudySet, error) {
	set, err := s.repo.LatestRoot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("latest root study set for user %d: %w", userID, err)
	}
	return set, nil
}

// IsUserError reports whether err should be shown to the learner as is.
func IsUserError(err error) bool {
	return errors.Is(err, ErrMissingProfile) || errors.Is(err, ErrNoRootMatch) || errors.Is(err, ErrEmptyRoot)
}
