package index_constants

type IndexKind int32

const (
	INDEX_KIND_INVALID IndexKind = iota
	INDEX_KIND_HASH
	INDEX_KIND_BTREE
)

func (k IndexKind) String() string {
	switch k {
	case INDEX_KIND_HASH:
		return "hash"
	case INDEX_KIND_BTREE:
		return "btree"
	}
	return "invalid"
}
