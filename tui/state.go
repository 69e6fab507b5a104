package tui

type state int

const (
	inputState state = iota
	listState
	confirmDeleteState
	errorState
)
