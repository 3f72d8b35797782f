package persist

import (
	"encoding/json"
	"fmt"

	"github.com/nurpe/contracts-service/internal/model"
)

const formatVersion = 0

type envelope struct {
	State   model.Snapshot `json:"state"`
	Version int            `json:"version"`
}

func Encode(snapshot model.Snapshot) ([]byte, error) {
	return json.Marshal(envelope{State: snapshot.Clone(), Version: formatVersion})
}

func Decode(blob []byte) (model.Snapshot, error) {
	var env envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return model.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if env.Version != formatVersion {
		return model.Snapshot{}, fmt.Errorf("decode snapshot: unsupported version %d", env.Version)
	}
	return env.State.Clone(), nil
}
