package menu

import "context"

// Store persists the menu tree.
type Store interface {
	// Tree returns every group and page ordered by their order fields.
	Tree(ctx context.Context) (Tree, error)

	// TreeForUser returns the tree restricted to pages granted to userID.
	// Groups left without pages are dropped.
	TreeForUser(ctx context.Context, userID string) (Tree, error)

	// Replace upserts every group and page of t atomically.
	Replace(ctx context.Context, t Tree) error

	// Empty reports whether no group is stored.
	Empty(ctx context.Context) (bool, error)
}

// Grant allows a user to see a page.
type Grant struct {
	UserID string
	PageID string
}

// GrantStore records which pages a user may see.
type GrantStore interface {
	Grant(ctx context.Context, userID string, pageIDs ...string) error
	PageIDs(ctx context.Context, userID string) ([]string, error)
}
