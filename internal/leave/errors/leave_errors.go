package leaveerrors

import (
	"net/http"

	"leavedesk/internal/shared/apperror"
)

var (
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid leave id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid leave type",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrFromDateInPast = apperror.New(
		apperror.CodeInvalidInput,
		"From date cannot be in the past",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"To date must be after or equal to from date",
		http.StatusBadRequest,
	)
	ErrReasonLength = apperror.New(
		apperror.CodeInvalidInput,
		"Reason must be between 10 and 500 characters",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave not found",
		http.StatusNotFound,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"You can only access your own leave requests",
		http.StatusForbidden,
	)
	ErrIllegalTransition = apperror.New(
		apperror.CodeInvalidState,
		"Invalid leave status transition",
		http.StatusBadRequest,
	)
)
