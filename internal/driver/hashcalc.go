package driver

import (
	"encoding/hex"

	"github.com/minio/highwayhash"
)

// Digest is a 256-bit content key.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports the sentinel "no digest".
func (d Digest) IsZero() bool { return d == Digest{} }

// фиксированный ключ: ключи кэша должны совпадать между запусками
var digestKey = []byte("sysy-diag-cache-key-0123456789ab")

// contentDigest: H(content || 0 || fingerprint).
func contentDigest(content []byte, fingerprint string) Digest {
	h, err := highwayhash.New(digestKey)
	if err != nil {
		// ключ ровно 32 байта, ошибка невозможна
		panic(err)
	}
	_, _ = h.Write(content)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(fingerprint))
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
