// tuner/io_json.go
package tuner

import (
	"encoding/json"
	"fmt"
)

const modelLayoutTag = "mlp3_flat_v1"

// modelJSON is the checkpoint payload of one ValueNetwork.
type modelJSON struct {
	Layout     string    `json:"layout"`
	RunID      string    `json:"run_id,omitempty"`
	Stage      string    `json:"stage"`
	Size       int       `json:"size"`
	Hidden1    int       `json:"hidden1"`
	Hidden2    int       `json:"hidden2"`
	Activation string    `json:"activation"`
	Theta      []float64 `json:"theta"`
}

// MarshalNetwork serializes v's shape and parameters.
func MarshalNetwork(v *ValueNetwork, stage, runID string) ([]byte, error) {
	h1, h2 := v.Hidden()
	payload := modelJSON{
		Layout:     modelLayoutTag,
		RunID:      runID,
		Stage:      stage,
		Size:       v.Size(),
		Hidden1:    h1,
		Hidden2:    h2,
		Activation: string(v.Activation()),
		Theta:      v.Params(),
	}
	return json.MarshalIndent(payload, "", "  ")
}

// UnmarshalNetwork restores parameters into v after checking that the payload was
// written by a network of the same shape. It returns the run id stored with it.
func UnmarshalNetwork(b []byte, v *ValueNetwork) (string, error) {
	var p modelJSON
	if err := json.Unmarshal(b, &p); err != nil {
		return "", fmt.Errorf("decode checkpoint: %w", err)
	}
	if p.Layout != modelLayoutTag {
		return "", fmt.Errorf("checkpoint layout %q, want %q", p.Layout, modelLayoutTag)
	}
	if p.Size != v.Size() {
		return "", fmt.Errorf("checkpoint is for size %d, network has size %d", p.Size, v.Size())
	}
	h1, h2 := v.Hidden()
	if p.Hidden1 != h1 || p.Hidden2 != h2 {
		return "", fmt.Errorf("checkpoint hidden widths %dx%d, network has %dx%d", p.Hidden1, p.Hidden2, h1, h2)
	}
	if Activation(p.Activation) != v.Activation() {
		return "", fmt.Errorf("checkpoint activation %q, network uses %q", p.Activation, v.Activation())
	}
	if len(p.Theta) != v.NumParams() {
		return "", fmt.Errorf("checkpoint has %d parameters, network has %d", len(p.Theta), v.NumParams())
	}
	v.SetParams(p.Theta)
	return p.RunID, nil
}
