package models

import "errors"

// Domain error taxonomy. These are matched with errors.Is at the bot
// boundary and translated into user-facing notices; anything else is
// treated as unclassified.
var (
	ErrMemberNotFound   = errors.New("member not found")
	ErrMemberExists     = errors.New("member already registered")
	ErrWalletNotFound   = errors.New("wallet not found")
	ErrNoWalletsFound   = errors.New("member owns no wallets")
	ErrCoinNotFound     = errors.New("coin not found")
	ErrInvalidSelection = errors.New("invalid tier selection")
)
