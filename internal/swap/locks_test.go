package swap

import (
	"sync"
	"testing"
)

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	k := newKeyedMutex()

	var mu sync.Mutex
	inside := map[int64]int{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		key := int64(i % 3)
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock(key)
			defer unlock()

			mu.Lock()
			inside[key]++
			if inside[key] > 1 {
				t.Errorf("key %d held twice", key)
			}
			mu.Unlock()

			mu.Lock()
			inside[key]--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if n := k.size(); n != 0 {
		t.Errorf("expected no entries left, got %d", n)
	}
}
