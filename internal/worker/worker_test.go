package worker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolRunsEverySubmittedTask(t *testing.T) {
	p := NewPool(3)
	var mu sync.Mutex
	sent := []int{11, 12, 13, 14, 15}
	var mailed []int
	for _, orderID := range sent {
		id := orderID
		p.Submit(func() {
			mu.Lock()
			mailed = append(mailed, id)
			mu.Unlock()
		})
	}
	p.Stop()
	require.ElementsMatch(t, sent, mailed)
}

func TestPoolZeroWorkersAndNilTask(t *testing.T) {
	p := NewPool(0)
	done := false
	p.Submit(nil)
	p.Submit(func() { done = true })
	p.Stop()
	require.True(t, done)
}
