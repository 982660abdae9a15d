package messaging

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/decibling/smart-contracts/internal/contract"
)

// EventMessage is the wire form of a decoded contract event
type EventMessage struct {
	ID          string                 `json:"id"`
	ChainID     uint64                 `json:"chainId"`
	Contract    string                 `json:"contract"`
	Address     string                 `json:"address"`
	Event       string                 `json:"event"`
	BlockNumber uint64                 `json:"blockNumber"`
	BlockTime   *time.Time             `json:"blockTime,omitempty"`
	TxHash      string                 `json:"txHash"`
	LogIndex    uint                   `json:"logIndex"`
	Args        map[string]interface{} `json:"args"`
}

// NewEventMessage converts a decoded event into its wire form
func NewEventMessage(id string, chainID uint64, ev *contract.Event) *EventMessage {
	return &EventMessage{
		ID:          id,
		ChainID:     chainID,
		Contract:    ev.Contract,
		Address:     strings.ToLower(ev.Address.Hex()),
		Event:       ev.Name,
		BlockNumber: ev.BlockNumber,
		TxHash:      ev.TxHash.Hex(),
		LogIndex:    ev.LogIndex,
		Args:        NormalizeArgs(ev.Args),
	}
}

// Subject is the JetStream subject an event is published on,
// e.g. decibling.events.DeciblingAuction.BidPlaced
func Subject(prefix, contractName, event string) string {
	return fmt.Sprintf("%s.%s.%s", prefix, contractName, event)
}

// NormalizeArgs renders ABI values as JSON-friendly values: integers as decimal
// strings, addresses as lowercase hex, fixed and dynamic bytes as 0x hex.
func NormalizeArgs(args map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(args))
	for k, v := range args {
		out[k] = normalize(v)
	}
	return out
}

func normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return nil
	case *big.Int:
		if x == nil {
			return nil
		}
		return x.String()
	case common.Address:
		return strings.ToLower(x.Hex())
	case common.Hash:
		return x.Hex()
	case []byte:
		return hexutil.Encode(x)
	case string, bool:
		return x
	case uint8, uint16, uint32, uint64, int8, int16, int32, int64:
		return fmt.Sprintf("%d", x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return hexutil.Encode(b)
		}
		fallthrough
	case reflect.Slice:
		items := make([]interface{}, rv.Len())
		for i := range items {
			items[i] = normalize(rv.Index(i).Interface())
		}
		return items
	case reflect.Struct:
		fields := make(map[string]interface{}, rv.NumField())
		for i := 0; i < rv.NumField(); i++ {
			f := rv.Type().Field(i)
			if !f.IsExported() {
				continue
			}
			fields[f.Name] = normalize(rv.Field(i).Interface())
		}
		return fields
	}

	return fmt.Sprint(v)
}
