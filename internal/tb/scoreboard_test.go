package tb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/busbench/internal/bus"
)

func TestScoreboard_PassFailClassification(t *testing.T) {
	sb := NewScoreboard(nil)
	in := make(chan *Transaction, 3)
	in <- &Transaction{Addr: 4, Op: bus.OpWrite, Data: 3}
	in <- &Transaction{Addr: 9, Op: bus.OpWrite, Data: 5, AckErr: true}
	in <- &Transaction{Addr: 7, Op: bus.OpWrite, Data: 2, Stretch: true}
	close(in)

	sb.Run(in)
	verdicts := sb.Verdicts()

	require.Len(t, verdicts, 3)
	assert.True(t, verdicts[0].Pass)
	assert.False(t, verdicts[1].Pass, "an acknowledgement failure must fail the verdict")
	assert.True(t, verdicts[1].AckErr)
	assert.True(t, verdicts[2].Pass)
	assert.True(t, verdicts[2].Stretch)

	// Verdicts carry arrival order.
	for i, v := range verdicts {
		assert.Equal(t, i, v.Seq)
	}
}

func TestScoreboard_VerdictsReturnsCopy(t *testing.T) {
	sb := NewScoreboard(nil)
	in := make(chan *Transaction, 1)
	in <- &Transaction{Addr: 1, Op: bus.OpWrite, Data: 1}
	close(in)
	sb.Run(in)

	first := sb.Verdicts()
	first[0].Pass = false
	assert.True(t, sb.Verdicts()[0].Pass, "mutating the returned slice must not affect the scoreboard")
}

func TestScoreboard_EmptyRun(t *testing.T) {
	sb := NewScoreboard(nil)
	in := make(chan *Transaction)
	close(in)
	sb.Run(in)
	assert.Empty(t, sb.Verdicts())
}
