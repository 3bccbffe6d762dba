package lock

import (
	"sync"
)

// KeyedMutex 按 key 粒度串行化。活动总额重算必须对同一活动互斥，
// 不同活动之间完全并行，因此用一组按 id 索引的互斥锁而不是全局锁。
// 锁不回收：活动数量有上界，常驻内存可以接受。
type KeyedMutex struct {
	mus sync.Map // int64 -> *sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{}
}

// Lock 获取 key 对应的锁，返回解锁函数
func (k *KeyedMutex) Lock(key int64) func() {
	v, _ := k.mus.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
