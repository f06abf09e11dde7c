package game

// roundState holds the transient flags of the current question round. Owned
// by the coordinator goroutine, so claim is an atomic check-and-set from the
// callers' point of view.
type roundState struct {
	doublerClaimed bool
}

// reset starts a fresh round. Called only from pickQuestion.
func (r *roundState) reset() {
	r.doublerClaimed = false
}

// claimDoubler reports whether the caller won the one-time doubler for this
// round. Exactly one caller per round gets true.
func (r *roundState) claimDoubler() bool {
	if r.doublerClaimed {
		return false
	}
	r.doublerClaimed = true
	return true
}
