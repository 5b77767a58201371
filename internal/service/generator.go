package service

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// CodeLength is the stored length of every voucher code; the campaign
	// prefix is joined on at read time only.
	CodeLength = 6
)

// codeKeyspace = 36^6, the number of distinct codes that can ever exist.
var codeKeyspace = func() int {
	n := 1
	for i := 0; i < CodeLength; i++ {
		n *= len(codeAlphabet)
	}
	return n
}()

// CodeGenerator produces batches of random voucher codes. The math/rand
// source is explicit so tests can pass a fixed seed and get a reproducible
// code stream; a zero seed draws one from crypto/rand.
type CodeGenerator struct {
	src *mrand.Rand
}

func NewCodeGenerator(seed int64) *CodeGenerator {
	if seed == 0 {
		var b [8]byte
		_, _ = rand.Read(b[:])
		seed = int64(binary.LittleEndian.Uint64(b[:]))
	}
	return &CodeGenerator{src: mrand.New(mrand.NewSource(seed))}
}

func (g *CodeGenerator) code() string {
	b := make([]byte, CodeLength)
	for i := range b {
		b[i] = codeAlphabet[g.src.Intn(len(codeAlphabet))]
	}
	return string(b)
}

// Batch returns exactly count distinct codes, resampling in-batch duplicates.
// It does not consult the database; collisions with stored codes are the
// inserter's problem. Counts anywhere near the keyspace are rejected up front
// rather than allowed to resample without bound.
func (g *CodeGenerator) Batch(count int) ([]string, error) {
	if count < 0 {
		return nil, fmt.Errorf("invalid batch size: %d", count)
	}
	if count > codeKeyspace/2 {
		return nil, fmt.Errorf("batch size %d exceeds half the code keyspace (%d codes)", count, codeKeyspace)
	}

	codes := make([]string, 0, count)
	seen := make(map[string]struct{}, count)
	draws := 0
	maxDraws := count*20 + 100

	for len(codes) < count {
		if draws >= maxDraws {
			return nil, fmt.Errorf("gave up after %d draws with %d of %d codes", draws, len(codes), count)
		}
		draws++
		c := g.code()
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		codes = append(codes, c)
	}

	return codes, nil
}
