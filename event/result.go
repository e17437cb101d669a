package event

// Result is the outcome of a condition check: either not met, or met with
// the message to send to the TODO's assignee.
type Result struct {
	met     bool
	message string
}

// NotMet reports that the condition is not satisfied yet.
func NotMet() Result {
	return Result{}
}

// Met reports that the condition is satisfied.
func Met(message string) Result {
	return Result{met: true, message: message}
}

// IsMet reports whether the condition is satisfied.
func (r Result) IsMet() bool {
	return r.met
}

// Message returns the notification message. Empty when not met.
func (r Result) Message() string {
	return r.message
}

// String implements fmt.Stringer.
func (r Result) String() string {
	if !r.met {
		return "NotMet"
	}
	return "Met(" + r.message + ")"
}
