package strategystore

import (
	"strings"
	"sync"
)

var storeLocks sync.Map

func storeLockKey(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "__strategy_store__"
	}
	return trimmed
}

func storeLockForPath(path string) *sync.Mutex {
	key := storeLockKey(path)
	if val, ok := storeLocks.Load(key); ok {
		return val.(*sync.Mutex)
	}
	mu := &sync.Mutex{}
	actual, _ := storeLocks.LoadOrStore(key, mu)
	return actual.(*sync.Mutex)
}
