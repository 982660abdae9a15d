package adapter

import "encoding/json"

// JSON encodes event payloads, NATS messages and CLI output
//
//go:generate mockgen -source=json.go -destination=../mocks/json.go -package=mocks -mock_names=JSON=MockJSON
type JSON interface {
	Marshal(v interface{}) ([]byte, error)

	// MarshalIndent renders v with two-space indentation for terminals
	MarshalIndent(v interface{}) ([]byte, error)

	Unmarshal(data []byte, v interface{}) error
}

type stdJSON struct{}

func NewJSON() JSON {
	return stdJSON{}
}

func (stdJSON) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (stdJSON) MarshalIndent(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func (stdJSON) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
