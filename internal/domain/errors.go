package domain

import "errors"

// ErrorKind is the stable, client-facing name of a game-rule failure.
type ErrorKind string

const (
	KindRankTooLow            ErrorKind = "rank_too_low"
	KindInsufficientEnergy    ErrorKind = "insufficient_energy"
	KindInsufficientFunds     ErrorKind = "insufficient_funds"
	KindNoChargesLeft         ErrorKind = "no_charges_left"
	KindCooldownActive        ErrorKind = "cooldown_active"
	KindAlreadyFull           ErrorKind = "already_full"
	KindAlreadyMining         ErrorKind = "already_mining"
	KindStillMining           ErrorKind = "still_mining"
	KindNothingToClaim        ErrorKind = "nothing_to_claim"
	KindMaxRankReached        ErrorKind = "max_rank_reached"
	KindRewardNotFound        ErrorKind = "reward_not_found"
	KindUserNotFound          ErrorKind = "user_not_found"
	KindInvalidCredential     ErrorKind = "invalid_credential"
	KindInvalidInput          ErrorKind = "invalid_input"
	KindTaskNotFound          ErrorKind = "task_not_found"
	KindTaskLocked            ErrorKind = "task_locked"
	KindTaskAlreadyStarted    ErrorKind = "task_already_started"
	KindTaskNotStarted        ErrorKind = "task_not_started"
	KindTaskAlreadyCompleted  ErrorKind = "task_already_completed"
	KindConditionUnverifiable ErrorKind = "condition_unverifiable"
	KindConditionNotMet       ErrorKind = "condition_not_met"
	KindAlreadyRegistered     ErrorKind = "already_registered"
)

// Error is an expected, recoverable rule violation. Storage failures are never *Error.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

var (
	ErrRankTooLow         = newError(KindRankTooLow, "rank is too low")
	ErrInsufficientEnergy = newError(KindInsufficientEnergy, "not enough energy")
	ErrInsufficientFunds  = newError(KindInsufficientFunds, "not enough coins")
	ErrNoChargesLeft      = newError(KindNoChargesLeft, "no boost charges left")
	ErrCooldownActive     = newError(KindCooldownActive, "boost is still active, wait for the cooldown")
	ErrAlreadyFull        = newError(KindAlreadyFull, "energy is already full")
	ErrAlreadyMining      = newError(KindAlreadyMining, "mining is already active or waiting to be claimed")
	ErrStillMining        = newError(KindStillMining, "mining is not finished yet")
	ErrNothingToClaim     = newError(KindNothingToClaim, "start mining first")
	ErrMaxRankReached     = newError(KindMaxRankReached, "maximum rank reached")
	ErrRewardNotFound     = newError(KindRewardNotFound, "reward not found")
	ErrUserNotFound       = newError(KindUserNotFound, "user not found")
	ErrInvalidCredential  = newError(KindInvalidCredential, "invalid credential")
	ErrInvalidClicks      = newError(KindInvalidInput, "clicks must be positive")

	ErrTaskNotFound          = newError(KindTaskNotFound, "task not found")
	ErrTaskLocked            = newError(KindTaskLocked, "task is not available")
	ErrTaskAlreadyStarted    = newError(KindTaskAlreadyStarted, "task already taken")
	ErrTaskNotStarted        = newError(KindTaskNotStarted, "task was not taken")
	ErrTaskAlreadyCompleted  = newError(KindTaskAlreadyCompleted, "task already completed")
	ErrConditionUnverifiable = newError(KindConditionUnverifiable, "task condition cannot be verified")
	ErrConditionNotMet       = newError(KindConditionNotMet, "task condition is not met yet")
	ErrAlreadyRegistered     = newError(KindAlreadyRegistered, "user already registered")
)

// Catalog errors
var (
	ErrEmptyLadder       = errors.New("rank ladder is empty")
	ErrLadderGap         = errors.New("rank ids must be contiguous from 1")
	ErrLadderLeagueOrder = errors.New("rank leagues must not decrease")
)

// KindOf returns the rule kind of err, or "" for infrastructure errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
