package hash

import (
	"encoding/binary"

	"github.com/ryogrid/SamehadaQP/types"
	"github.com/spaolacci/murmur3"
)

func GenHashMurMur(key []byte) uint32 {
	h := murmur3.New128()
	h.Write(key)

	hash := h.Sum(nil)

	return binary.LittleEndian.Uint32(hash)
}

// HashValue hashes serialized form of val. equal values have same hash
func HashValue(val *types.Value) uint32 {
	return GenHashMurMur(val.Serialize())
}

func CombineHashes(l uint32, r uint32) uint32 {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf, l)
	binary.LittleEndian.PutUint32(buf[4:], r)
	return GenHashMurMur(buf)
}

// HashWithSeed is used for partitioning at different levels with independent hash
func HashWithSeed(val *types.Value, seed uint32) uint32 {
	return murmur3.Sum32WithSeed(val.Serialize(), seed)
}
