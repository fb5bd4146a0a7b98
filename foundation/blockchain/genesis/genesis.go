// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ardanlabs/powchain/foundation/validate"
	"gopkg.in/yaml.v3"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date         time.Time `json:"date" yaml:"date" validate:"required"`                      // The fixed timestamp of the genesis block.
	Payload      string    `json:"payload" yaml:"payload" validate:"required"`                // The fixed text carried by the genesis block.
	Difficulty   uint16    `json:"difficulty" yaml:"difficulty" validate:"lte=64"`            // How difficult it needs to be to solve the work problem.
	MiningReward uint64    `json:"mining_reward" yaml:"mining_reward"`                        // Reward for mining a block.
	Workers      uint16    `json:"workers" yaml:"workers" validate:"omitempty,gte=1,lte=256"` // Number of goroutines searching for a nonce.
}

// Default returns the genesis information used when no file is provided.
func Default() Genesis {
	return Genesis{
		Date:         time.Date(2023, time.January, 13, 0, 0, 0, 0, time.UTC),
		Payload:      "Genesis Block",
		Difficulty:   2,
		MiningReward: 100,
		Workers:      1,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Files ending in .yaml or .yml
// are decoded as YAML, everything else as JSON.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &genesis)
	default:
		err = json.Unmarshal(content, &genesis)
	}
	if err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis %q: %w", path, err)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the genesis information can be used to construct a chain.
func (g Genesis) Validate() error {
	if err := validate.Check(g); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}
	return nil
}

// MiningWorkers returns the number of goroutines to use for mining. A zero
// value in the file means a single worker.
func (g Genesis) MiningWorkers() int {
	if g.Workers == 0 {
		return 1
	}
	return int(g.Workers)
}
