package slot

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Storage layout of the string-keyed DeciblingAuction:
//
//	mapping(string => AudioInfo) listNFT;   // slot 252 decimal; mapping keys are uint256 values
//	struct AudioInfo { ...; mapping(uint => Bidding) biddingList; /* +5 */ }
//	struct Bidding   { winner; price; status; startTime; endTime; currentSession; mapping(uint => Bid) bids; /* +6 */ }
//	struct Bid       { user; price; timestamp; }
const (
	ListNFTSlot      uint64 = 252
	BiddingListField uint64 = 5
	BiddingBidsField uint64 = 6
)

// BiddingFields are the members of a Bidding record in declaration order
var BiddingFields = []FieldSpec{
	{Name: "winner", Offset: 0, Kind: KindAddress},
	{Name: "price", Offset: 1, Kind: KindUint},
	{Name: "status", Offset: 2, Kind: KindUint},
	{Name: "startTime", Offset: 3, Kind: KindUint},
	{Name: "endTime", Offset: 4, Kind: KindUint},
	{Name: "currentSession", Offset: 5, Kind: KindUint},
}

// BidFields are the members of a Bid record in declaration order
var BidFields = []FieldSpec{
	{Name: "user", Offset: 0, Kind: KindAddress},
	{Name: "price", Offset: 1, Kind: KindUint},
	{Name: "timestamp", Offset: 2, Kind: KindUint},
}

// BiddingSlot is the base slot of listNFT[uri].biddingList[session]
func BiddingSlot(uri string, session uint64) common.Hash {
	return NewPath(ListNFTSlot).
		Mapping(StringKey(uri)).
		Field(BiddingListField).
		Mapping(Uint64Key(session)).
		Slot()
}

// BidSlot is the base slot of listNFT[uri].biddingList[session].bids[bid]
func BidSlot(uri string, session, bid uint64) common.Hash {
	return From(BiddingSlot(uri, session)).
		Field(BiddingBidsField).
		Mapping(Uint64Key(bid)).
		Slot()
}

// Bidding reads one bidding session of a listed item
func (r *Resolver) Bidding(ctx context.Context, auction common.Address, uri string, session uint64) (map[string]interface{}, error) {
	return r.ReadStruct(ctx, auction, BiddingSlot(uri, session), BiddingFields)
}

// Bid reads one bid of a bidding session
func (r *Resolver) Bid(ctx context.Context, auction common.Address, uri string, session, bid uint64) (map[string]interface{}, error) {
	return r.ReadStruct(ctx, auction, BidSlot(uri, session, bid), BidFields)
}
