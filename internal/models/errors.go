package models

import (
	"errors"
	"fmt"
)

// The error taxonomy. Every error returned by the core wraps one of these.
var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
	ErrUnauthorized     = errors.New("you are not allowed to")
	ErrConflict         = errors.New("the request conflicts with the current state")
	ErrInvalidInput     = errors.New("the request is invalid")
)

// Validation errors
var (
	ErrAmountNotPositive      = fmt.Errorf("%w: amounts must be larger than zero", ErrInvalidInput)
	ErrLimitNegative          = fmt.Errorf("%w: limits must not be negative", ErrInvalidInput)
	ErrGroupNameEmpty         = fmt.Errorf("%w: the group name must not be empty", ErrInvalidInput)
	ErrCategoryNameEmpty      = fmt.Errorf("%w: the category name must not be empty", ErrInvalidInput)
	ErrTransactionTypeInvalid = fmt.Errorf("%w: the type must be one of 'income' or 'expense'", ErrInvalidInput)
	ErrRoleInvalid            = fmt.Errorf("%w: the role must be one of 'admin' or 'member'", ErrInvalidInput)
	ErrPeriodInvalid          = fmt.Errorf("%w: the period must be one of 'daily', 'weekly', 'monthly' or 'yearly'", ErrInvalidInput)
	ErrDateRangeInvalid       = fmt.Errorf("%w: the start date must not be after the end date", ErrInvalidInput)
	ErrEmailInvalid           = fmt.Errorf("%w: the email address is not valid", ErrInvalidInput)
	ErrCategoryReference      = fmt.Errorf("%w: the category does not exist or does not belong to you", ErrInvalidInput)
	ErrInvitationStatus       = fmt.Errorf("%w: the invitation status must be one of 'pending', 'accepted' or 'declined'", ErrInvalidInput)
)

// Conflict errors
var (
	ErrGroupMemberExists     = fmt.Errorf("%w: the user is already a member of this group", ErrConflict)
	ErrInvitationExists      = fmt.Errorf("%w: there already is a pending invitation for this email address", ErrConflict)
	ErrInvitationResolved    = fmt.Errorf("%w: the invitation has already been resolved", ErrConflict)
	ErrProfileEmailNotUnique = fmt.Errorf("%w: the email address is used by another account", ErrConflict)
	ErrCategoryInUse         = fmt.Errorf("%w: the category is used by a group budget", ErrConflict)
	ErrCreatorNotRemovable   = fmt.Errorf("%w: the creator of a group cannot be removed or demoted", ErrConflict)
)
