package capture

// State is a step of the capture lifecycle.
type State int

const (
	Idle State = iota
	TitleResolving
	HandlerResolving
	ArgumentsAssembling
	Executing
	Verifying
	Succeeded
	Failed
)

var stateNames = [...]string{
	Idle:                "idle",
	TitleResolving:      "resolving title",
	HandlerResolving:    "resolving handler",
	ArgumentsAssembling: "assembling arguments",
	Executing:           "capturing",
	Verifying:           "verifying",
	Succeeded:           "succeeded",
	Failed:              "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	return s == Succeeded || s == Failed
}
