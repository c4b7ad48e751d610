package usecase

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/ninety-minute/internal/domain/ability"
	"github.com/riskibarqy/ninety-minute/internal/domain/member"
	"github.com/riskibarqy/ninety-minute/internal/domain/uow"
	"github.com/riskibarqy/ninety-minute/internal/platform/cache"
	"github.com/riskibarqy/ninety-minute/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	leaderboardCachePrefix = "leaderboards:"
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
	defaultRankingWorkers  = 4
)

type RankedMember struct {
	Rank     int
	MemberID string
	Nickname string
	Points   int
}

// Leaderboards holds the top members of every category.
type Leaderboards struct {
	Limit      int
	Categories map[ability.Category][]RankedMember
}

type MemberRanking struct {
	MemberID       string
	Nickname       string
	Position       ability.Position
	MVPPoint       int
	PositionPoint  int
	PositionRank   int
	AbilityPresent bool
}

type RankingServiceConfig struct {
	DefaultLimit int
	Workers      int
	CacheTTL     time.Duration
}

// RankingService serves reputation leaderboards.
type RankingService struct {
	tx     uow.Transactor
	cfg    RankingServiceConfig
	cache  *cache.Store[Leaderboards]
	logger *logging.Logger
}

func NewRankingService(tx uow.Transactor, cfg RankingServiceConfig, logger *logging.Logger) *RankingService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = defaultLeaderboardSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultRankingWorkers
	}

	return &RankingService{
		tx:     tx,
		cfg:    cfg,
		cache:  cache.NewStore[Leaderboards](cfg.CacheTTL),
		logger: logger,
	}
}

// Invalidate drops every cached leaderboard.
func (s *RankingService) Invalidate(ctx context.Context) {
	s.cache.DeletePrefix(ctx, leaderboardCachePrefix)
	s.logger.DebugContext(ctx, "leaderboards invalidated")
}

// Leaderboards returns the top limit members per category. A non-positive
// limit selects the configured default.
func (s *RankingService) Leaderboards(ctx context.Context, limit int) (out Leaderboards, err error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit > maxLeaderboardSize {
		return Leaderboards{}, errors.Wrapf(ErrInvalidInput, "limit must be at most %d", maxLeaderboardSize)
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Leaderboards", attribute.Int("limit", limit))
	defer func() { endSpan(span, err) }()

	key := leaderboardCachePrefix + strconv.Itoa(limit)
	return s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (Leaderboards, error) {
		return s.loadLeaderboards(ctx, limit)
	})
}

func (s *RankingService) loadLeaderboards(ctx context.Context, limit int) (Leaderboards, error) {
	pool, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return Leaderboards{}, errors.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	var (
		mu       sync.Mutex
		workers  sync.WaitGroup
		firstErr error
		tops     = make(map[ability.Category][]ability.Ability, len(ability.Categories))
	)
	for _, category := range ability.Categories {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			var items []ability.Ability
			err := s.tx.View(ctx, func(ctx context.Context, repos uow.Repositories) error {
				var err error
				items, err = repos.Abilities.Top(ctx, category, limit)
				return err
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = errors.Wrapf(err, "load %s leaderboard", category)
				}
				return
			}
			tops[category] = items
		}); err != nil {
			workers.Done()
			workers.Wait()
			return Leaderboards{}, errors.Wrap(err, "submit leaderboard task")
		}
	}
	workers.Wait()
	if firstErr != nil {
		return Leaderboards{}, firstErr
	}

	nicknames, err := s.nicknames(ctx, tops)
	if err != nil {
		return Leaderboards{}, err
	}

	out := Leaderboards{
		Limit:      limit,
		Categories: make(map[ability.Category][]RankedMember, len(tops)),
	}
	for category, items := range tops {
		ranked := make([]RankedMember, 0, len(items))
		for i, a := range items {
			ranked = append(ranked, RankedMember{
				Rank:     i + 1,
				MemberID: a.MemberID,
				Nickname: nicknames[a.MemberID],
				Points:   a.Points(category),
			})
		}
		out.Categories[category] = ranked
	}
	return out, nil
}

func (s *RankingService) nicknames(ctx context.Context, tops map[ability.Category][]ability.Ability) (map[string]string, error) {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, items := range tops {
		for _, a := range items {
			if _, ok := seen[a.MemberID]; ok {
				continue
			}
			seen[a.MemberID] = struct{}{}
			ids = append(ids, a.MemberID)
		}
	}
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	var members []member.Member
	err := s.tx.View(ctx, func(ctx context.Context, repos uow.Repositories) error {
		var err error
		members, err = repos.Members.GetByIDs(ctx, ids)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "get ranked members")
	}

	out := make(map[string]string, len(members))
	for _, m := range members {
		out[m.ID] = m.Nickname
	}
	return out, nil
}

// MemberRank reports a member's MVP points and standing in their registered
// position. Members without points rank after everyone who has some.
func (s *RankingService) MemberRank(ctx context.Context, memberID string) (out MemberRanking, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.MemberRank", attribute.String("member_id", memberID))
	defer func() { endSpan(span, err) }()

	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return MemberRanking{}, errors.Wrap(ErrInvalidInput, "member id is required")
	}

	err = s.tx.View(ctx, func(ctx context.Context, repos uow.Repositories) error {
		m, ok, err := repos.Members.GetByID(ctx, memberID)
		if err != nil {
			return errors.Wrapf(err, "get member %s", memberID)
		}
		if !ok {
			return errors.Wrapf(ErrNotFound, "member %s", memberID)
		}
		a, present, err := repos.Abilities.Get(ctx, m.ID)
		if err != nil {
			return errors.Wrapf(err, "get ability of member %s", m.ID)
		}
		if !present {
			a = ability.Ability{MemberID: m.ID}
		}

		category := ability.CategoryOf(m.Position)
		points := a.Points(category)
		above, err := repos.Abilities.CountAbove(ctx, category, points)
		if err != nil {
			return errors.Wrap(err, "count members ranked above")
		}

		out = MemberRanking{
			MemberID:       m.ID,
			Nickname:       m.Nickname,
			Position:       m.Position,
			MVPPoint:       a.MVPPoint,
			PositionPoint:  points,
			PositionRank:   above + 1,
			AbilityPresent: present,
		}
		return nil
	})
	if err != nil {
		return MemberRanking{}, err
	}
	return out, nil
}
