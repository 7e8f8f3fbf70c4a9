package db

import "errors"

// Domain-level database error sentinels.
var (
	// Redirect errors
	ErrRedirectNotFound  = errors.New("redirect not found")
	ErrRedirectExpired   = errors.New("redirect expired")
	ErrClickLimitReached = errors.New("click limit reached")
	ErrDuplicateToken    = errors.New("token already exists")

	// Affiliate errors
	ErrAffiliateNotFound = errors.New("affiliate template not found")
)
