package service

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"strings"
	"sync"
)

const usernameCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// UsernameGenerator produces random alphanumeric usernames, uppercased.
// The random source is seedable so tests can pin the sequence.
type UsernameGenerator struct {
	length int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewUsernameGenerator seeds the generator from crypto/rand.
func NewUsernameGenerator(length int) *UsernameGenerator {
	var b [8]byte
	// rand.Read never fails on supported platforms; a zero seed is
	// still a working generator.
	_, _ = crand.Read(b[:])
	seed := int64(binary.LittleEndian.Uint64(b[:]))
	return NewSeededUsernameGenerator(length, seed)
}

func NewSeededUsernameGenerator(length int, seed int64) *UsernameGenerator {
	return &UsernameGenerator{
		length: length,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (g *UsernameGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	b := make([]byte, g.length)
	for i := range b {
		b[i] = usernameCharset[g.rng.Intn(len(usernameCharset))]
	}
	return strings.ToUpper(string(b))
}
