package jdb

import "sync"

// keyBytesPool holds scratch buffers for building encoded keys. Bolt's max
// key size is 32KB; we size the pool's buffers to that so a single encode
// pass never needs to grow the backing array.
var keyBytesPool = &sync.Pool{
	New: func() any {
		return make([]byte, 0, 32768)
	},
}

func releaseKeyBytes(b []byte) {
	keyBytesPool.Put(b[:0])
}

var valueBytesPool = &sync.Pool{
	New: func() any {
		return make([]byte, 0, 4096)
	},
}

func releaseValueBytes(b []byte) {
	valueBytesPool.Put(b[:0])
}
