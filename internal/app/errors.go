package app

import "errors"

var (
	// ErrBookNotFound indicates the referenced book does not exist.
	ErrBookNotFound = errors.New("book not found")
	// ErrBookUnavailable indicates the book exists but is no longer for sale.
	ErrBookUnavailable = errors.New("this book is no longer available")
	// ErrOrderNotFound indicates the referenced order does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrNotSeller indicates the caller does not have the seller role.
	ErrNotSeller = errors.New("only sellers can manage books")
	// ErrNotOwner indicates the caller does not own the target record.
	ErrNotOwner = errors.New("not the owner of this record")
	// ErrBuyerDetailsRequired indicates missing buyer contact fields.
	ErrBuyerDetailsRequired = errors.New("please provide all buyer details")
	// ErrEmailTaken indicates a registration against an existing email.
	ErrEmailTaken = errors.New("user already exists with this email")
	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrValidation wraps user-correctable input problems.
	ErrValidation = errors.New("validation failed")
)
