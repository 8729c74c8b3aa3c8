package service

import "errors"

// ErrMissingUser indicates a per-user operation was called without a user id.
var ErrMissingUser = errors.New("missing user id")

// ErrNotNavigable indicates the page has neither a dashboard nor a URL.
var ErrNotNavigable = errors.New("page is not navigable")

// ErrNotEmpty indicates a seed was attempted on a store that already holds menus.
var ErrNotEmpty = errors.New("menu store is not empty")
