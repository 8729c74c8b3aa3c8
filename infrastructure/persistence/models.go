package persistence

import "time"

// MenuModel represents a menu group in the database.
type MenuModel struct {
	MenuID    string    `gorm:"column:menu_id;primaryKey;size:64"`
	MenuName  string    `gorm:"column:menu_name;size:255;not null"`
	MenuNo    int       `gorm:"column:menu_no;index;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (MenuModel) TableName() string {
	return "gdp_menu_data"
}

// PageModel represents a page in the database. Unset optional fields are NULL.
type PageModel struct {
	PageID      string    `gorm:"column:page_id;primaryKey;size:64"`
	PageName    string    `gorm:"column:page_name;size:255;not null"`
	PageNo      int       `gorm:"column:page_no;not null"`
	MenuID      string    `gorm:"column:menu_id;index;size:64;not null"`
	DashboardID *string   `gorm:"column:dashboard_id;size:255"`
	URL         *string   `gorm:"column:url;size:1024"`
	GenieID     *string   `gorm:"column:genie_id;size:255"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (PageModel) TableName() string {
	return "gdp_page_data"
}

// UserPageModel grants a user access to a page.
type UserPageModel struct {
	UserID    string    `gorm:"column:user_id;primaryKey;size:255"`
	PageID    string    `gorm:"column:page_id;primaryKey;index;size:64"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName returns the table name.
func (UserPageModel) TableName() string {
	return "gdp_user_page"
}
