package messaging_test

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"os"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decibling/smart-contracts/internal/adapter"
	"github.com/decibling/smart-contracts/internal/contract"
	"github.com/decibling/smart-contracts/internal/logger"
	"github.com/decibling/smart-contracts/internal/messaging"
	"github.com/decibling/smart-contracts/internal/mocks"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

var testConfig = messaging.Config{
	URL:            "nats://localhost:4222",
	StreamName:     "DECIBLING_EVENTS",
	SubjectPrefix:  "decibling.events",
	MaxReconnects:  3,
	ConnectionName: "event-listener",
}

func bidPlaced() *contract.Event {
	return &contract.Event{
		Contract:    "DeciblingAuction",
		Name:        "BidPlaced",
		Address:     common.HexToAddress("0xFDd485062B3e73549ec3E654Ba565f6fab7dc670"),
		BlockNumber: 120,
		TxHash:      common.HexToHash("0x8f1a"),
		LogIndex:    2,
		Args: map[string]interface{}{
			"itemId": big.NewInt(7),
			"bidder": common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
			"price":  new(big.Int).Mul(big.NewInt(2000), big.NewInt(1e18)),
		},
	}
}

func TestNewEventMessage(t *testing.T) {
	msg := messaging.NewEventMessage("01HV0000000000000000000000", 421614, bidPlaced())

	assert.Equal(t, "DeciblingAuction", msg.Contract)
	assert.Equal(t, "BidPlaced", msg.Event)
	assert.Equal(t, "0xfdd485062b3e73549ec3e654ba565f6fab7dc670", msg.Address)
	assert.Equal(t, uint64(421614), msg.ChainID)
	assert.Equal(t, "7", msg.Args["itemId"])
	assert.Equal(t, "0x70997970c51812dc3a010c7d01b50e0d17dc79c8", msg.Args["bidder"])
	assert.Equal(t, "2000000000000000000000", msg.Args["price"])

	_, err := json.Marshal(msg)
	require.NoError(t, err)
}

func TestNormalizeArgs(t *testing.T) {
	args := messaging.NormalizeArgs(map[string]interface{}{
		"root":    [32]byte{0xab},
		"data":    []byte{0x01, 0x02},
		"ok":      true,
		"uri":     "ipfs://audio",
		"count":   uint8(3),
		"holders": []common.Address{common.HexToAddress("0x01")},
		"amounts": []*big.Int{big.NewInt(1), big.NewInt(2)},
	})

	assert.Equal(t, "0xab00000000000000000000000000000000000000000000000000000000000000", args["root"])
	assert.Equal(t, "0x0102", args["data"])
	assert.Equal(t, true, args["ok"])
	assert.Equal(t, "ipfs://audio", args["uri"])
	assert.Equal(t, "3", args["count"])
	assert.Equal(t, []interface{}{"0x0000000000000000000000000000000000000001"}, args["holders"])
	assert.Equal(t, []interface{}{"1", "2"}, args["amounts"])
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "decibling.events.DeciblingStaking.Staked", messaging.Subject("decibling.events", "DeciblingStaking", "Staked"))
}

type testPublisher struct {
	ctrl   *gomock.Controller
	natsJS *mocks.MockNatsJetStream
	conn   *mocks.MockNatsConn
	js     *mocks.MockJetStream
}

func setupTestPublisher(t *testing.T) *testPublisher {
	ctrl := gomock.NewController(t)
	return &testPublisher{
		ctrl:   ctrl,
		natsJS: mocks.NewMockNatsJetStream(ctrl),
		conn:   mocks.NewMockNatsConn(ctrl),
		js:     mocks.NewMockJetStream(ctrl),
	}
}

func TestPublishEvent(t *testing.T) {
	tp := setupTestPublisher(t)
	defer tp.ctrl.Finish()
	ctx := context.Background()

	tp.natsJS.EXPECT().Connect(testConfig.URL, gomock.Any()).Return(tp.conn, tp.js, nil)
	tp.js.EXPECT().CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     "DECIBLING_EVENTS",
		Subjects: []string{"decibling.events.>"},
	}).Return(nil)

	pub, err := messaging.NewPublisher(ctx, testConfig, tp.natsJS, adapter.NewJSON())
	require.NoError(t, err)

	msg := messaging.NewEventMessage("01HV0000000000000000000000", 421614, bidPlaced())
	tp.js.EXPECT().Publish(ctx, "decibling.events.DeciblingAuction.BidPlaced", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte) (*jetstream.PubAck, error) {
			var decoded messaging.EventMessage
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, msg.ID, decoded.ID)
			assert.Equal(t, "7", decoded.Args["itemId"])
			return &jetstream.PubAck{Stream: "DECIBLING_EVENTS", Sequence: 1}, nil
		})
	require.NoError(t, pub.PublishEvent(ctx, msg))

	tp.conn.EXPECT().Close()
	pub.Close()
}

func TestNewPublisherStreamFailureClosesConnection(t *testing.T) {
	tp := setupTestPublisher(t)
	defer tp.ctrl.Finish()

	tp.natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(tp.conn, tp.js, nil)
	tp.js.EXPECT().CreateOrUpdateStream(gomock.Any(), gomock.Any()).Return(errors.New("insufficient resources"))
	tp.conn.EXPECT().Close()

	_, err := messaging.NewPublisher(context.Background(), testConfig, tp.natsJS, adapter.NewJSON())
	assert.ErrorContains(t, err, "insufficient resources")
}

func TestNewPublisherConnectFailure(t *testing.T) {
	tp := setupTestPublisher(t)
	defer tp.ctrl.Finish()

	tp.natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil, nil, errors.New("no servers available"))

	_, err := messaging.NewPublisher(context.Background(), testConfig, tp.natsJS, adapter.NewJSON())
	assert.ErrorContains(t, err, "no servers available")
}
