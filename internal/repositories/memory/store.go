// Package memory provides in-memory implementations of the repository
// interfaces. They back local development without postgres and the service
// test suites; behavior mirrors the postgres implementations, including
// sentinel errors and the single-default invariant.
package memory

import (
	"sync"
	"time"

	"personahub/internal/models"

	"go.uber.org/zap"
)

// engagementKey identifies one profile's engagement row on one content item
type engagementKey struct {
	kind      models.ContentKind
	contentID int64
	profileID int64
}

// Store is the shared backing state for all memory repositories. A single
// mutex serializes every mutation, which is what makes the cross-entity
// invariants (one default per account, counter == set cardinality) hold
// under concurrent use.
type Store struct {
	mu sync.Mutex

	accounts   map[int64]*models.Account
	profiles   map[int64]*models.Profile
	categories map[int64]*models.Category
	posts      map[int64]*models.Post
	questions  map[int64]*models.Question

	reactions map[engagementKey]string
	saves     map[engagementKey]struct{}
	shares    map[engagementKey]struct{}

	nextAccountID  int64
	nextProfileID  int64
	nextCategoryID int64
	nextPostID     int64
	nextQuestionID int64

	clock  func() time.Time
	logger *zap.Logger
}

// NewStore creates an empty store
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{
		accounts:   make(map[int64]*models.Account),
		profiles:   make(map[int64]*models.Profile),
		categories: make(map[int64]*models.Category),
		posts:      make(map[int64]*models.Post),
		questions:  make(map[int64]*models.Question),
		reactions:  make(map[engagementKey]string),
		saves:      make(map[engagementKey]struct{}),
		shares:     make(map[engagementKey]struct{}),
		clock:      time.Now,
		logger:     logger,
	}
}

// Repositories bundles all memory repositories over one store
type Repositories struct {
	Store      *Store
	Account    *AccountRepository
	Profile    *ProfileRepository
	Category   *CategoryRepository
	Post       *PostRepository
	Question   *QuestionRepository
	Engagement *EngagementRepository
}

// NewRepositories creates the full set of memory repositories sharing one
// store
func NewRepositories(logger *zap.Logger) *Repositories {
	store := NewStore(logger)
	return &Repositories{
		Store:      store,
		Account:    &AccountRepository{store: store},
		Profile:    &ProfileRepository{store: store},
		Category:   &CategoryRepository{store: store},
		Post:       &PostRepository{store: store},
		Question:   &QuestionRepository{store: store},
		Engagement: &EngagementRepository{store: store},
	}
}

// now returns the store's current time; the clock is swappable in tests
func (s *Store) now() time.Time {
	return s.clock()
}

// contentExists reports whether the content item is present; caller holds
// the lock
func (s *Store) contentExists(kind models.ContentKind, contentID int64) bool {
	switch kind {
	case models.ContentKindPost:
		_, ok := s.posts[contentID]
		return ok
	case models.ContentKindQuestion:
		_, ok := s.questions[contentID]
		return ok
	default:
		return false
	}
}

// refreshCounters recomputes every cached counter of the item from the
// membership sets; caller holds the lock
func (s *Store) refreshCounters(kind models.ContentKind, contentID int64) {
	var likes, dislikes, saves, shares int

	for key, reaction := range s.reactions {
		if key.kind == kind && key.contentID == contentID {
			switch reaction {
			case models.ReactionLike:
				likes++
			case models.ReactionDislike:
				dislikes++
			}
		}
	}
	for key := range s.saves {
		if key.kind == kind && key.contentID == contentID {
			saves++
		}
	}
	for key := range s.shares {
		if key.kind == kind && key.contentID == contentID {
			shares++
		}
	}

	switch kind {
	case models.ContentKindPost:
		if post, ok := s.posts[contentID]; ok {
			post.LikeCount = likes
			post.DislikeCount = dislikes
			post.SaveCount = saves
			post.ShareCount = shares
		}
	case models.ContentKindQuestion:
		if question, ok := s.questions[contentID]; ok {
			question.LikeCount = likes
			question.DislikeCount = dislikes
			question.SaveCount = saves
			question.ShareCount = shares
		}
	}
}

// dropEngagement removes every engagement row of a content item; caller
// holds the lock
func (s *Store) dropEngagement(kind models.ContentKind, contentID int64) {
	for key := range s.reactions {
		if key.kind == kind && key.contentID == contentID {
			delete(s.reactions, key)
		}
	}
	for key := range s.saves {
		if key.kind == kind && key.contentID == contentID {
			delete(s.saves, key)
		}
	}
	for key := range s.shares {
		if key.kind == kind && key.contentID == contentID {
			delete(s.shares, key)
		}
	}
}

func copyAccount(a *models.Account) *models.Account {
	clone := *a
	return &clone
}

func copyProfile(p *models.Profile) *models.Profile {
	clone := *p
	if p.Metadata != nil {
		clone.Metadata = make(models.MetadataMap, len(p.Metadata))
		for k, v := range p.Metadata {
			clone.Metadata[k] = v
		}
	}
	return &clone
}

func copyCategory(c *models.Category) *models.Category {
	clone := *c
	return &clone
}

func copyPost(p *models.Post) *models.Post {
	clone := *p
	clone.Tags = append(models.StringArray(nil), p.Tags...)
	return &clone
}

func copyQuestion(q *models.Question) *models.Question {
	clone := *q
	clone.Tags = append(models.StringArray(nil), q.Tags...)
	return &clone
}
