package persistence

import (
	"context"

	"github.com/gdp-poc/gdp/domain/menu"
	"github.com/gdp-poc/gdp/internal/database"
)

// GrantStore implements menu.GrantStore using GORM.
type GrantStore struct {
	database.Repository[menu.Grant, UserPageModel]
}

// NewGrantStore creates a new GrantStore.
func NewGrantStore(db database.Database) GrantStore {
	return GrantStore{
		Repository: database.NewRepository[menu.Grant, UserPageModel](db, GrantMapper{}, "user page"),
	}
}

// Grant allows userID to see the pages. Existing grants are kept.
func (s GrantStore) Grant(ctx context.Context, userID string, pageIDs ...string) error {
	grants := make([]menu.Grant, len(pageIDs))
	for i, id := range pageIDs {
		grants[i] = menu.Grant{UserID: userID, PageID: id}
	}
	return s.InsertIgnore(ctx, grants)
}

// PageIDs returns the ids of the pages granted to userID.
func (s GrantStore) PageIDs(ctx context.Context, userID string) ([]string, error) {
	grants, err := s.Find(ctx, database.NewQuery().Equal("user_id", userID).OrderAsc("page_id"))
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(grants))
	for i, g := range grants {
		ids[i] = g.PageID
	}
	return ids, nil
}
