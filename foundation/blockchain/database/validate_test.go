package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// buildChain mines the specified number of blocks on top of a genesis block.
func buildChain(t *testing.T, blocks int) *database.Database {
	db := database.New(database.NewGenesisBlock(genesisDate, "Genesis Block"))

	for i := range blocks {
		trans := []database.Tx{
			database.NewTx("A", "B", uint64(100+i)),
			database.NewTx("B", "A", uint64(50+i)),
		}

		b := database.NewBlock(time.Now(), trans, db.LatestBlock().Hash)
		if err := b.Mine(context.Background(), 2, 2, nil); err != nil {
			t.Fatalf("\t%s\tShould be able to mine block %d: %v", failed, i+1, err)
		}

		if err := db.Write(b); err != nil {
			t.Fatalf("\t%s\tShould be able to write block %d: %v", failed, i+1, err)
		}
	}

	return db
}

func Test_ValidateChain(t *testing.T) {
	type table struct {
		name   string
		tamper func(blocks []database.Block)
		index  int
		kind   database.FailureKind
	}

	tt := []table{
		{
			name:   "untouched",
			tamper: func(blocks []database.Block) {},
		},
		{
			name: "amount",
			tamper: func(blocks []database.Block) {
				blocks[2].Transactions()[0].Value = 1000
			},
			index: 2,
			kind:  database.ContentMismatch,
		},
		{
			name: "forgedhash",
			tamper: func(blocks []database.Block) {
				blocks[1].Transactions()[0].Value = 1000
				blocks[1].RecomputeHash()
			},
			index: 2,
			kind:  database.LinkMismatch,
		},
		{
			name: "prevhash",
			tamper: func(blocks []database.Block) {
				blocks[3].PrevHash = blocks[1].Hash
			},
			index: 3,
			kind:  database.ContentMismatch,
		},
		{
			name: "relinked",
			tamper: func(blocks []database.Block) {
				blocks[3].PrevHash = blocks[1].Hash
				blocks[3].RecomputeHash()
			},
			index: 3,
			kind:  database.LinkMismatch,
		},
		{
			name: "utf8sender",
			tamper: func(blocks []database.Block) {
				blocks[1].Transactions()[0].FromID = "A\xff"
			},
			index: 1,
			kind:  database.ContentMismatch,
		},
		{
			name: "genesis",
			tamper: func(blocks []database.Block) {
				blocks[0].Payload = database.GenesisPayload("Other Block")
				blocks[0].RecomputeHash()
			},
			index: 1,
			kind:  database.LinkMismatch,
		},
	}

	t.Log("Given the need to detect a tampered chain.")
	{
		db := buildChain(t, 3)

		if err := db.Validate(); err != nil {
			t.Fatalf("\t%s\tShould have a valid mined chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould have a valid mined chain.", success)

		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling a %s change.", testID, tst.name)
				{
					blocks := db.Copy()
					tst.tamper(blocks)

					err := database.ValidateChain(blocks)
					if tst.kind == 0 {
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be a valid chain: %v", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould be a valid chain.", success, testID)
						return
					}

					ve := database.GetValidationError(err)
					if ve == nil {
						t.Fatalf("\t%s\tTest %d:\tShould get a validation error: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould get a validation error.", success, testID)

					if ve.Index != tst.index || ve.Kind != tst.kind {
						t.Logf("\t%s\tTest %d:\tgot: %d %s", failed, testID, ve.Index, ve.Kind)
						t.Logf("\t%s\tTest %d:\texp: %d %s", failed, testID, tst.index, tst.kind)
						t.Fatalf("\t%s\tTest %d:\tShould identify the failing block.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould identify the failing block.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}

		if err := db.Validate(); err != nil {
			t.Fatalf("\t%s\tShould not change the stored chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould not change the stored chain.", success)
	}
}
