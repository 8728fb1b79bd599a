package norvik

import (
	"context"
	"sync"

	"github.com/norvikdb/norvik-go/internal/collections"
	"github.com/norvikdb/norvik-go/pkg/errors"
)

// Bookmarks is a set of opaque tokens, each marking a point in the write
// history of one database. Work started with bookmarks is guaranteed to
// observe at least the state they mark. Order and duplicates are irrelevant.
type Bookmarks = []string

// BookmarkManager shares the latest known bookmarks per database between
// otherwise independent sessions. Implementations must be safe for
// concurrent use.
type BookmarkManager interface {
	// UpdateBookmarks records the bookmarks produced by a completed unit of
	// work, replacing the ones that unit observed before running. Entries
	// that arrived concurrently from other units are preserved.
	UpdateBookmarks(ctx context.Context, database string, previous, new Bookmarks) error
	// GetBookmarks returns the currently tracked bookmarks of a database.
	// Callers must not mutate the returned slice.
	GetBookmarks(ctx context.Context, database string) (Bookmarks, error)
}

// BookmarkManagerConfig configures NewBookmarkManager. The zero value is
// valid and tracks bookmarks purely in memory.
type BookmarkManagerConfig struct {
	// InitialBookmarks seeds the manager per database name.
	InitialBookmarks map[string]Bookmarks
	// BookmarkSupplier, when set, contributes bookmarks from an external
	// source to every GetBookmarks result.
	BookmarkSupplier func(ctx context.Context, database string) (Bookmarks, error)
	// BookmarkConsumer, when set, observes every bookmark set accepted by
	// UpdateBookmarks, e.g. to persist it outside the process.
	BookmarkConsumer func(ctx context.Context, database string, bookmarks Bookmarks) error
}

// NewBookmarkManager returns the canonical BookmarkManager: one mutual
// exclusion domain per database name, merging updates so that no bookmark is
// lost to a concurrent read-modify-write.
func NewBookmarkManager(config BookmarkManagerConfig) BookmarkManager {
	m := &bookmarkManager{
		databases: make(map[string]*databaseBookmarks, len(config.InitialBookmarks)),
		supplier:  config.BookmarkSupplier,
		consumer:  config.BookmarkConsumer,
	}
	for name, bookmarks := range config.InitialBookmarks {
		m.databases[name] = &databaseBookmarks{bookmarks: collections.NewSet(bookmarks)}
	}
	return m
}

type bookmarkManager struct {
	mu        sync.Mutex // guards the databases map only
	databases map[string]*databaseBookmarks
	supplier  func(ctx context.Context, database string) (Bookmarks, error)
	consumer  func(ctx context.Context, database string, bookmarks Bookmarks) error
}

type databaseBookmarks struct {
	mu        sync.Mutex
	bookmarks collections.Set[string]
}

func (m *bookmarkManager) forDatabase(name string) *databaseBookmarks {
	m.mu.Lock()
	defer m.mu.Unlock()

	tracked, ok := m.databases[name]
	if !ok {
		tracked = &databaseBookmarks{bookmarks: collections.Set[string]{}}
		m.databases[name] = tracked
	}
	return tracked
}

func (m *bookmarkManager) UpdateBookmarks(ctx context.Context, database string, previous, new Bookmarks) error {
	if len(new) == 0 {
		return nil
	}

	tracked := m.forDatabase(database)
	tracked.mu.Lock()
	tracked.bookmarks.RemoveAll(previous)
	tracked.bookmarks.AddAll(new)
	tracked.mu.Unlock()

	if m.consumer != nil {
		return errors.WrapFail(m.consumer(ctx, database, new), "hand bookmarks to consumer")
	}
	return nil
}

func (m *bookmarkManager) GetBookmarks(ctx context.Context, database string) (Bookmarks, error) {
	tracked := m.forDatabase(database)
	tracked.mu.Lock()
	result := tracked.bookmarks.Copy()
	tracked.mu.Unlock()

	if m.supplier != nil {
		extra, err := m.supplier(ctx, database)
		if err != nil {
			return nil, errors.WrapFail(err, "get bookmarks from supplier")
		}
		result.AddAll(extra)
	}
	return result.Values(), nil
}

// sessionBookmarks is the bookmark state of one session: the bookmarks it
// was created with, then the ones its completed units of work produced,
// merged with the manager's view when one is attached.
type sessionBookmarks struct {
	manager   BookmarkManager
	database  string
	bookmarks Bookmarks
}

func newSessionBookmarks(manager BookmarkManager, database string, initial Bookmarks) *sessionBookmarks {
	return &sessionBookmarks{
		manager:   manager,
		database:  database,
		bookmarks: cleanupBookmarks(initial),
	}
}

func (sb *sessionBookmarks) currentBookmarks() Bookmarks {
	return sb.bookmarks
}

func (sb *sessionBookmarks) lastBookmark() string {
	if len(sb.bookmarks) == 0 {
		return ""
	}
	return sb.bookmarks[len(sb.bookmarks)-1]
}

// getBookmarks returns what a new unit of work must wait for: the session's
// own bookmarks united with the manager's, when a manager is attached.
func (sb *sessionBookmarks) getBookmarks(ctx context.Context) (Bookmarks, error) {
	if sb.manager == nil {
		return sb.bookmarks, nil
	}

	managed, err := sb.manager.GetBookmarks(ctx, sb.database)
	if err != nil {
		return nil, err
	}

	merged := collections.NewSet(managed)
	merged.AddAll(sb.bookmarks)
	return merged.Values(), nil
}

// replaceBookmarks records the bookmark produced by a completed unit of
// work. sent is what the unit observed before running; the manager uses it
// to retire superseded entries.
func (sb *sessionBookmarks) replaceBookmarks(ctx context.Context, sent Bookmarks, newBookmark string) error {
	if newBookmark == "" {
		return nil
	}
	if sb.manager != nil {
		err := sb.manager.UpdateBookmarks(ctx, sb.database, sent, Bookmarks{newBookmark})
		if err != nil {
			return err
		}
	}
	sb.replaceSessionBookmarks(newBookmark)
	return nil
}

// replaceSessionBookmarks updates only the session-local state, without
// notifying the manager. Used for still-pending auto-commit work whose
// results may not have been consumed yet.
func (sb *sessionBookmarks) replaceSessionBookmarks(newBookmark string) {
	if newBookmark == "" {
		return
	}
	sb.bookmarks = Bookmarks{newBookmark}
}

func cleanupBookmarks(bookmarks Bookmarks) Bookmarks {
	if len(bookmarks) == 0 {
		return nil
	}

	seen := make(collections.Set[string], len(bookmarks))
	result := make(Bookmarks, 0, len(bookmarks))
	for _, b := range bookmarks {
		if b == "" || seen.Contains(b) {
			continue
		}
		seen.Add(b)
		result = append(result, b)
	}
	return result
}
