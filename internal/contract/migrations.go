package contract

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/decibling/smart-contracts/internal/domain"
)

// migrateAuctionV1 converts an auction record read from the string-keyed
// DeciblingAuction into the DeciblingAuctionV2 `auctions` shape.
// v1 keeps the listing status on the record; v2 only knows whether it was resulted.
func migrateAuctionV1(state map[string]interface{}) (map[string]interface{}, error) {
	next := make(map[string]interface{}, len(state))
	for _, key := range []string{"startPrice", "increment", "startTime", "endTime", "saleCount"} {
		if v, ok := state[key]; ok {
			next[key] = v
		}
	}

	status, err := uintField(state, "status")
	if err != nil {
		return nil, err
	}
	next["resulted"] = domain.ItemStatus(status) != domain.ItemStatusOnAuction

	if winner, ok := state["winner"]; ok {
		addr, ok := winner.(common.Address)
		if !ok {
			return nil, fmt.Errorf("%w: winner is %T", domain.ErrDecode, winner)
		}
		next["topBidder"] = addr
	}

	return next, nil
}

func uintField(state map[string]interface{}, key string) (uint64, error) {
	switch v := state[key].(type) {
	case nil:
		return 0, nil
	case uint8:
		return uint64(v), nil
	case uint64:
		return v, nil
	case *big.Int:
		if !v.IsUint64() {
			return 0, fmt.Errorf("%w: %s overflows uint64", domain.ErrDecode, key)
		}
		return v.Uint64(), nil
	default:
		return 0, fmt.Errorf("%w: %s is %T", domain.ErrDecode, key, v)
	}
}
