package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/logging"
)

// rejections are expected outcomes of operator input, not failures.
var rejections = []error{
	common.ErrDuplicateUser,
	common.ErrUserNotFound,
	common.ErrInvalidUserName,
	common.ErrOwnedAccountNotFound,
	common.ErrAuthenticationFailed,
	common.ErrAlreadyAuthenticated,
	common.ErrAccountNotFound,
	common.ErrOwnerNotFound,
	common.ErrNotOwner,
	common.ErrSameOwner,
	common.ErrInvalidAmount,
	common.ErrInsufficientFunds,
	common.ErrSameAccount,
	common.ErrIncorrectMetadata,
}

func isRejection(err error) bool {
	for _, e := range rejections {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// logResult is meant to be deferred with a pointer to the named error result.
func logResult(ctx context.Context, log logging.Logger, op string, err *error, args ...any) {
	switch {
	case *err == nil:
		log.Info(ctx, op, args...)
	case isRejection(*err):
		log.Debug(ctx, op+" rejected", append(args, "error", *err)...)
	default:
		log.Error(ctx, op+" failed", append(args, "error", *err)...)
	}
}
