package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Job IDs are ULIDs: 26 Crockford base32 characters over a 48-bit millisecond
// timestamp and 80 bits of randomness. The timestamp prefix keeps the job
// store listable in creation order; a per-millisecond sequence in the first
// two random bytes keeps IDs minted within the same millisecond sorted too.

const jobIDAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var (
	jobIDMu  sync.Mutex
	jobIDTS  uint64
	jobIDSeq uint16
)

func newJobID() string {
	jobIDMu.Lock()
	defer jobIDMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == jobIDTS {
		jobIDSeq++
	} else {
		jobIDTS = ts
		jobIDSeq = 0
	}

	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], ts<<16)
	rand.Read(b[6:])
	binary.BigEndian.PutUint16(b[6:8], jobIDSeq)

	// Base32 needs 130 bits for 26 characters; the two high pad bits are
	// zero, so the string order matches the numeric order of the ID.
	hi := binary.BigEndian.Uint64(b[:8])
	lo := binary.BigEndian.Uint64(b[8:])
	var out [26]byte
	for i := 25; i >= 0; i-- {
		out[i] = jobIDAlphabet[lo&31]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}
