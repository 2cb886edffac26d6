package service

import "errors"

var (
	ErrResultNotFound   = errors.New("result is not in the current search results")
	ErrNewsNotFound     = errors.New("news item not found")
	ErrBriefInFlight    = errors.New("brief is already loading")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrPaymentGateway   = errors.New("payment gateway error")
	ErrPaymentConfig    = errors.New("payment gateway is not configured")

	// errOrderUnchanged aborts an order transition that would be a no-op.
	errOrderUnchanged = errors.New("order status unchanged")
)
