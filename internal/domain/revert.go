package domain

import "strings"

// Revert reasons emitted by the Decibling contracts
const (
	RevertItemExists          = "2"
	RevertItemNotFound        = "4"
	RevertNotOwner            = "6"
	RevertEndTimeInPast       = "7"
	RevertStatusIncorrect     = "10"
	RevertAuctionNotFound     = "11"
	RevertAuctionOver         = "12"
	RevertBidTooLow           = "13"
	RevertNotSettleable       = "14"
	RevertAuctionNotOver      = "15"
	RevertNotSettleableWinner = "16"
	RevertZeroAddress         = "21"
	RevertUnstakeExceeds      = "23"
	RevertSelfBid             = "25"
	RevertInvalidItem         = "26"
	RevertEmptyURI            = "27"

	RevertStakeZeroAmount    = "DeciblingStaking: amount must be > 0"
	RevertUnstakeTooLarge    = "DeciblingStaking: The amount must be smaller than your current staked"
	RevertPoolNotExist       = "DeciblingStaking: this pool is not exist"
	RevertPoolInvalidAddress = "DeciblingStaking: not a valid address"
	RevertPoolNotOwner       = "not pool owner or admin"
	RevertPoolExists         = "DeciblingStaking: pool is existed"
	RevertInvalidName        = "Invalid name"
	RevertInvalidProof       = "Invalid proof"
)

var revertSentinels = map[string]error{
	RevertItemExists:          ErrItemExists,
	RevertItemNotFound:        ErrItemNotFound,
	RevertNotOwner:            ErrNotOwner,
	RevertEndTimeInPast:       ErrInvalidTimeRange,
	RevertStatusIncorrect:     ErrAlreadyOnAuction,
	RevertAuctionNotFound:     ErrAuctionNotFound,
	RevertAuctionOver:         ErrAuctionEnded,
	RevertBidTooLow:           ErrBidTooLow,
	RevertNotSettleable:       ErrAuctionNotSettling,
	RevertAuctionNotOver:      ErrAuctionNotEnded,
	RevertNotSettleableWinner: ErrNoWinner,
	RevertZeroAddress:         ErrInvalidAddress,
	RevertUnstakeExceeds:      ErrInsufficientStake,
	RevertSelfBid:             ErrSelfBid,
	RevertInvalidItem:         ErrItemNotFound,
	RevertEmptyURI:            ErrInvalidInput,
	RevertStakeZeroAmount:     ErrZeroAmount,
	RevertUnstakeTooLarge:     ErrInsufficientStake,
	RevertPoolNotExist:        ErrPoolNotFound,
	RevertPoolInvalidAddress:  ErrInvalidAddress,
	RevertPoolNotOwner:        ErrNotOwner,
	RevertPoolExists:          ErrPoolExists,
	RevertInvalidName:         ErrInvalidInput,
	RevertInvalidProof:        ErrInvalidProof,
}

// codes used when a client-side check fails first
var sentinelCodes = map[error]string{
	ErrItemExists:         RevertItemExists,
	ErrItemNotFound:       RevertInvalidItem,
	ErrNotOwner:           RevertNotOwner,
	ErrInvalidTimeRange:   RevertEndTimeInPast,
	ErrAlreadyOnAuction:   RevertStatusIncorrect,
	ErrAuctionNotFound:    RevertAuctionNotFound,
	ErrAuctionEnded:       RevertAuctionOver,
	ErrAuctionNotStarted:  RevertStatusIncorrect,
	ErrBidTooLow:          RevertBidTooLow,
	ErrAuctionNotSettling: RevertNotSettleable,
	ErrAuctionNotEnded:    RevertAuctionNotOver,
	ErrNoWinner:           RevertNotSettleableWinner,
	ErrSelfBid:            RevertSelfBid,
	ErrInvalidAddress:     RevertZeroAddress,
	ErrZeroAmount:         RevertStakeZeroAmount,
	ErrInsufficientStake:  RevertUnstakeTooLarge,
	ErrPoolNotFound:       RevertPoolNotExist,
	ErrPoolExists:         RevertPoolExists,
	ErrInvalidProof:       RevertInvalidProof,
	ErrInvalidInput:       RevertEmptyURI,
}

// ClassifyRevert maps a raw revert reason to its sentinel error, or nil if unknown
func ClassifyRevert(code string) error {
	code = strings.TrimSpace(code)
	if sentinel, ok := revertSentinels[code]; ok {
		return sentinel
	}
	// Some nodes prefix the reason with "execution reverted: "; the reason itself may contain ": "
	if reason, ok := strings.CutPrefix(code, "execution reverted:"); ok {
		if sentinel, ok := revertSentinels[strings.TrimSpace(reason)]; ok {
			return sentinel
		}
	}
	return nil
}

// RevertCodeFor returns the revert reason the contracts emit for sentinel
func RevertCodeFor(sentinel error) string {
	return sentinelCodes[sentinel]
}
