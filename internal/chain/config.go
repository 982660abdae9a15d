package chain

import (
	"github.com/decibling/smart-contracts/internal/config"
)

// NewConfig converts loaded chain settings. With websocket set the websocket endpoint
// is preferred, falling back to the RPC URL.
func NewConfig(cfg config.ChainConfig, websocket bool) (Config, error) {
	if err := cfg.Validate(false); err != nil {
		return Config{}, err
	}

	chainID, err := cfg.ChainID.ID()
	if err != nil {
		return Config{}, err
	}

	url := cfg.RPCURL
	if websocket && cfg.WebSocketURL != "" {
		url = cfg.WebSocketURL
	}

	return Config{
		RPCURL:              url,
		ChainID:             chainID,
		Confirmations:       cfg.Confirmations,
		GasLimitMultiplier:  cfg.GasLimitMultiplier,
		MaxGasPrice:         cfg.MaxGasPrice(),
		ReceiptPollInterval: cfg.ReceiptPollInterval,
		ReadRetryMaxElapsed: cfg.ReadRetryMaxElapsed,
	}, nil
}
