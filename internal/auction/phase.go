package auction

// Phase is the lifecycle position of an item
type Phase string

const (
	PhaseUnlisted  Phase = "unlisted"
	PhaseListed    Phase = "listed"
	PhaseOnAuction Phase = "on_auction"
	// PhaseSettled and PhaseCancelled describe the last auction; the item is listed again
	PhaseSettled   Phase = "settled"
	PhaseCancelled Phase = "cancelled"
)

// CanOpenAuction reports whether createBidding is allowed from p
func (p Phase) CanOpenAuction() bool {
	switch p {
	case PhaseListed, PhaseSettled, PhaseCancelled:
		return true
	default:
		return false
	}
}
