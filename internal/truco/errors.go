package truco

import "errors"

// Все ошибки движка локальны и обратимы: команда отклоняется,
// состояние комнаты не меняется
var (
	ErrOutOfTurn              = errors.New("not your turn")
	ErrCardNotInHand          = errors.New("card is not in your hand")
	ErrRoomFull               = errors.New("room already has four seated players")
	ErrNoPendingRequest       = errors.New("no raise is awaiting a response")
	ErrRequestorCannotRespond = errors.New("the requesting team cannot respond to its own raise")
	ErrPermissionDenied       = errors.New("your team may not raise right now")
	ErrStakeAtMaximum         = errors.New("the stake is already at its maximum")
	ErrAlreadyPendingRequest  = errors.New("a raise is already awaiting a response")
	ErrHandNotActive          = errors.New("no hand is in progress")
	ErrNotSeated              = errors.New("spectators cannot act")
	ErrMatchNotOver           = errors.New("the match is still in progress")
)
