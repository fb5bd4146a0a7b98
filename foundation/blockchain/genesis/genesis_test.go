package genesis_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/validate"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Load(t *testing.T) {
	type table struct {
		name    string
		file    string
		content string
		exp     genesis.Genesis
		invalid bool
	}

	date := time.Date(2023, time.January, 13, 0, 0, 0, 0, time.UTC)

	tt := []table{
		{
			name:    "json",
			file:    "genesis.json",
			content: `{"date":"2023-01-13T00:00:00Z","payload":"Genesis Block","difficulty":3,"mining_reward":50,"workers":2}`,
			exp:     genesis.Genesis{Date: date, Payload: "Genesis Block", Difficulty: 3, MiningReward: 50, Workers: 2},
		},
		{
			name:    "yaml",
			file:    "genesis.yaml",
			content: "date: 2023-01-13T00:00:00Z\npayload: Genesis Block\ndifficulty: 4\nmining_reward: 100\n",
			exp:     genesis.Genesis{Date: date, Payload: "Genesis Block", Difficulty: 4, MiningReward: 100},
		},
		{
			name:    "difficulty",
			file:    "genesis.json",
			content: `{"date":"2023-01-13T00:00:00Z","payload":"Genesis Block","difficulty":65}`,
			invalid: true,
		},
		{
			name:    "payload",
			file:    "genesis.json",
			content: `{"date":"2023-01-13T00:00:00Z","difficulty":1}`,
			invalid: true,
		},
	}

	t.Log("Given the need to load genesis files.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling a %s file.", testID, tst.name)
				{
					path := filepath.Join(t.TempDir(), tst.file)
					if err := os.WriteFile(path, []byte(tst.content), 0600); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to write the file: %v", failed, testID, err)
					}

					gen, err := genesis.Load(path)
					if tst.invalid {
						if !validate.IsFieldErrors(err) {
							t.Fatalf("\t%s\tTest %d:\tShould get field errors: %v", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould get field errors.", success, testID)
						return
					}

					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to load the file: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to load the file.", success, testID)

					if !gen.Date.Equal(tst.exp.Date) || gen.Payload != tst.exp.Payload || gen.Difficulty != tst.exp.Difficulty || gen.MiningReward != tst.exp.MiningReward || gen.Workers != tst.exp.Workers {
						t.Logf("\t%s\tTest %d:\tgot: %+v", failed, testID, gen)
						t.Logf("\t%s\tTest %d:\texp: %+v", failed, testID, tst.exp)
						t.Fatalf("\t%s\tTest %d:\tShould get the expected genesis.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get the expected genesis.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_Default(t *testing.T) {
	gen := genesis.Default()

	if err := gen.Validate(); err != nil {
		t.Fatalf("\t%s\tShould have a valid default genesis: %v", failed, err)
	}
	t.Logf("\t%s\tShould have a valid default genesis.", success)

	if gen.MiningWorkers() != 1 {
		t.Fatalf("\t%s\tShould use a single worker by default.", failed)
	}
	t.Logf("\t%s\tShould use a single worker by default.", success)
}
