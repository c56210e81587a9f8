package access

import "fmt"

// RID is position of a tuple in a table heap
type RID struct {
	PageNo  uint32
	SlotNum uint32
}

func (r RID) String() string {
	return fmt.Sprintf("(%d, %d)", r.PageNo, r.SlotNum)
}
