package tb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/busbench/internal/bus"
)

func collect(g *Generator, count int) []*Transaction {
	out := make(chan *Transaction, count+1)
	g.Run(out)
	var txs []*Transaction
	for tx := range out {
		txs = append(txs, tx)
	}
	return txs
}

func TestGenerator_ScriptedPair(t *testing.T) {
	cfg := DefaultConfig()
	g := NewGenerator(cfg, nil)
	txs := collect(g, cfg.Count)

	require.Len(t, txs, 2)
	assert.False(t, txs[0].Stretch, "first transaction must not request stretching")
	assert.True(t, txs[1].Stretch, "second transaction must request stretching")

	for i, tx := range txs {
		assert.Equal(t, bus.OpWrite, tx.Op, "tx %d", i)
		assert.GreaterOrEqual(t, tx.Addr, cfg.AddrMin, "tx %d addr", i)
		assert.LessOrEqual(t, tx.Addr, cfg.AddrMax, "tx %d addr", i)
		assert.GreaterOrEqual(t, tx.Data, cfg.DataMin, "tx %d data", i)
		assert.LessOrEqual(t, tx.Data, cfg.DataMax, "tx %d data", i)
		assert.False(t, tx.AckErr, "tx %d must start with ackErr unset", i)
	}
}

func TestGenerator_BoundsHoldAcrossSeeds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 50
	for seed := int64(0); seed < 20; seed++ {
		cfg.Seed = seed
		for _, tx := range collect(NewGenerator(cfg, nil), cfg.Count) {
			require.LessOrEqual(t, tx.Addr, cfg.AddrMax, "seed %d", seed)
			require.GreaterOrEqual(t, tx.Data, cfg.DataMin, "seed %d", seed)
			require.LessOrEqual(t, tx.Data, cfg.DataMax, "seed %d", seed)
		}
	}
}

func TestGenerator_DeterministicPerSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	first := collect(NewGenerator(cfg, nil), cfg.Count)
	second := collect(NewGenerator(cfg, nil), cfg.Count)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, *first[i], *second[i])
	}
}

func TestGenerator_ScriptOverridesRandomization(t *testing.T) {
	cfg := DefaultConfig()
	g := NewGenerator(cfg, nil)
	g.SetScript([]Transaction{
		{Addr: 4, Op: bus.OpWrite, Data: 3},
		{Addr: 7, Op: bus.OpWrite, Data: 2, Stretch: true},
	})
	txs := collect(g, cfg.Count)

	require.Len(t, txs, 2)
	assert.Equal(t, Transaction{Addr: 4, Op: bus.OpWrite, Data: 3}, *txs[0])
	assert.Equal(t, Transaction{Addr: 7, Op: bus.OpWrite, Data: 2, Stretch: true}, *txs[1])
}

func TestTransaction_String(t *testing.T) {
	tx := &Transaction{Addr: 4, Op: bus.OpWrite, Data: 3}
	assert.Equal(t, "addr=4 op=write data=3 stretch=false ackErr=false", tx.String())

	tx = &Transaction{Addr: 7, Op: bus.OpRead, Data: 2, Stretch: true, AckErr: true}
	assert.Equal(t, "addr=7 op=read data=2 stretch=true ackErr=true", tx.String())
}
