package registration

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/ringside/internal/cachemanager"
	"github.com/zjrosen/ringside/internal/hierarchy"
	"github.com/zjrosen/ringside/internal/log"
	"github.com/zjrosen/ringside/internal/tracing"
)

// ServiceOptions configures a Service.
type ServiceOptions struct {
	// Grouping lists level names outermost first. Empty means DefaultGrouping.
	Grouping []string
	// Locale orders group labels, e.g. "en" or "sv".
	Locale string
	// CacheTTL is how long a show's registrations stay cached. Zero or less
	// disables caching.
	CacheTTL time.Duration
	// Tracer records spans. Nil disables tracing.
	Tracer trace.Tracer
}

// loadRequest carries a show id into the cache loader and reports back
// whether the loader ran.
type loadRequest struct {
	showID string
	loaded bool
}

// Service loads registrations through a cache and builds trees from them.
// It is safe for concurrent use.
type Service struct {
	repo     Repository
	cache    *cachemanager.ReadThroughCache[string, []Registration, *loadRequest]
	mu       sync.RWMutex // Guards grouping and levels
	grouping []string
	levels   []hierarchy.Level[Registration]
	collator hierarchy.Collator
	ttl      time.Duration
	tracer   trace.Tracer
}

// NewService validates opts and returns a Service reading from repo.
func NewService(repo Repository, opts ServiceOptions) (*Service, error) {
	grouping := opts.Grouping
	if len(grouping) == 0 {
		grouping = DefaultGrouping
	}
	levels, err := Levels(grouping)
	if err != nil {
		return nil, err
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}

	s := &Service{
		repo:     repo,
		grouping: grouping,
		levels:   levels,
		collator: hierarchy.NewCollator(opts.Locale),
		ttl:      opts.CacheTTL,
		tracer:   tracer,
	}
	cache := cachemanager.NewInMemoryCacheManager[string, []Registration](
		"registrations", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	s.cache = cachemanager.NewReadThroughCache[string, []Registration, *loadRequest](cache, s.load, opts.CacheTTL <= 0)
	return s, nil
}

// Grouping returns the level names trees are built with.
func (s *Service) Grouping() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.grouping...)
}

// SetGrouping changes the levels used by later Tree calls.
func (s *Service) SetGrouping(names []string) error {
	if len(names) == 0 {
		names = DefaultGrouping
	}
	levels, err := Levels(names)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.grouping = append([]string(nil), names...)
	s.levels = levels
	s.mu.Unlock()
	return nil
}

func (s *Service) load(ctx context.Context, req *loadRequest) ([]Registration, error) {
	req.loaded = true
	regs, err := s.repo.ListByShow(ctx, req.showID)
	if err != nil {
		return nil, fmt.Errorf("listing registrations for show %s: %w", req.showID, err)
	}
	log.Debug(log.CatDB, "Loaded registrations", "show", req.showID, "count", len(regs))
	return regs, nil
}

// Shows lists every show. Not cached.
func (s *Service) Shows(ctx context.Context) ([]Show, error) {
	shows, err := s.repo.ListShows(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing shows: %w", err)
	}
	return shows, nil
}

// Registrations returns the registrations of a show, from cache when fresh.
func (s *Service) Registrations(ctx context.Context, showID string) ([]Registration, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanLoadRegistrations,
		trace.WithAttributes(attribute.String(tracing.AttrShowID, showID)))
	defer span.End()

	req := &loadRequest{showID: showID}
	regs, err := s.cache.GetWithRefresh(ctx, showID, req, s.ttl)
	if err != nil {
		tracing.Fail(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.Bool(tracing.AttrCacheHit, !req.loaded),
		attribute.Int(tracing.AttrRegistrations, len(regs)),
	)
	return regs, nil
}

// Tree builds the registration tree of a show. Every node starts expanded.
func (s *Service) Tree(ctx context.Context, showID string) ([]*hierarchy.Node, error) {
	s.mu.RLock()
	grouping, levels := s.grouping, s.levels
	s.mu.RUnlock()

	ctx, span := s.tracer.Start(ctx, tracing.SpanBuildTree, trace.WithAttributes(
		attribute.String(tracing.AttrShowID, showID),
		attribute.String(tracing.AttrGrouping, strings.Join(grouping, ",")),
		attribute.String(tracing.AttrLocale, s.collator.Locale()),
	))
	defer span.End()

	regs, err := s.Registrations(ctx, showID)
	if err != nil {
		tracing.Fail(span, err)
		return nil, err
	}
	roots := hierarchy.Build(regs, Leaf, levels, hierarchy.WithCollator(s.collator))
	span.SetAttributes(attribute.Int(tracing.AttrRoots, len(roots)))
	log.Debug(log.CatTree, "Built tree", "show", showID, "roots", len(roots), "dogs", hierarchy.TotalCount(roots))
	return roots, nil
}

// Invalidate drops cached registrations for the given shows, or for every
// show when none is given.
func (s *Service) Invalidate(ctx context.Context, showIDs ...string) error {
	if len(showIDs) == 0 {
		return s.cache.InvalidateAll(ctx)
	}
	return s.cache.Invalidate(ctx, showIDs...)
}

// Import validates regs, assigns ids to those without one, stores them with
// shows in a single batch and invalidates the affected shows. It returns the
// stored registrations.
//
// A missing dog id is derived from the show and dog name, and a missing
// registration id from the show and dog id, so importing the same file twice
// updates the stored rows instead of duplicating them.
func (s *Service) Import(ctx context.Context, shows []Show, regs []Registration) ([]Registration, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanImport,
		trace.WithAttributes(attribute.Int(tracing.AttrRegistrations, len(regs))))
	defer span.End()

	out := make([]Registration, 0, len(regs))
	touched := make(map[string]bool)
	for i, show := range shows {
		if strings.TrimSpace(show.ID) == "" {
			err := fmt.Errorf("show %d: id is required", i+1)
			tracing.Fail(span, err)
			return nil, err
		}
		touched[show.ID] = true
	}
	for i, reg := range regs {
		reg.ShowID = strings.TrimSpace(reg.ShowID)
		if reg.DogID == "" {
			reg.DogID = derivedID("dog", reg.ShowID, strings.TrimSpace(reg.DogName))
		}
		if reg.ID == "" {
			reg.ID = derivedID("registration", reg.ShowID, reg.DogID)
		}
		if reg.RegisteredAt.IsZero() {
			reg.RegisteredAt = time.Now().UTC()
		}
		if c, ok := ParseClass(reg.DogClass); ok {
			reg.DogClass = string(c)
		}
		if err := reg.Validate(); err != nil {
			err = fmt.Errorf("entry %d: %w", i+1, err)
			tracing.Fail(span, err)
			return nil, err
		}
		touched[reg.ShowID] = true
		out = append(out, reg)
	}

	if err := s.repo.ImportBatch(ctx, shows, out); err != nil {
		err = fmt.Errorf("importing registrations: %w", err)
		tracing.Fail(span, err)
		return nil, err
	}

	ids := make([]string, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}
	if len(ids) > 0 {
		if err := s.Invalidate(ctx, ids...); err != nil {
			return nil, err
		}
	}
	log.Info(log.CatImport, "Imported registrations", "count", len(out), "shows", len(ids))
	return out, nil
}

// derivedID returns a name-based UUID for the given parts.
func derivedID(kind string, parts ...string) string {
	name := kind + "\x00" + strings.Join(parts, "\x00")
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
