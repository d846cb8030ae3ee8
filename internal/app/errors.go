package service

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrLocked             = errors.New("round is locked")
	ErrNotLocked          = errors.New("round is not locked yet")
	ErrUnknownParticipant = errors.New("unknown participant")
	ErrNotBettor          = errors.New("participant does not bet")
	ErrUnknownRound       = errors.New("unknown round")
	ErrUnknownStat        = errors.New("unknown stat")
	ErrUnknownProp        = errors.New("unknown prop")
	ErrNotOnRoster        = errors.New("player not on roster")
	ErrInvalidValue       = errors.New("invalid value")
	ErrNoLine             = errors.New("no line published")
	ErrNotStarted         = errors.New("service not started")
)
