package disk

import (
	"io"

	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/common"
)

type storageFile interface {
	io.ReaderAt
	io.WriterAt
}

// runMeta is page directory of a run. it lives as long as the run file
type runMeta struct {
	name        string
	file        storageFile
	pageOffsets []int64
	pageLens    []uint32
	size        int64
}

type runFileImpl struct {
	meta   *runMeta
	stats  *ioStats
	closed bool
}

type ioStats struct {
	numWrites uint64
	numReads  uint64
}

func newRunFileImpl(meta *runMeta, stats *ioStats) *runFileImpl {
	return &runFileImpl{meta, stats, false}
}

func (r *runFileImpl) GetName() string {
	return r.meta.name
}

func (r *runFileImpl) WritePage(pageData []byte) (uint32, error) {
	if r.closed {
		return 0, errors.Annotatef(common.ErrStorage, "write to closed run %s", r.meta.name)
	}
	n, err := r.meta.file.WriteAt(pageData, r.meta.size)
	if err != nil {
		return 0, errors.Annotatef(common.ErrStorage, "write to run %s failed: %v", r.meta.name, err)
	}
	if n != len(pageData) {
		return 0, errors.Annotatef(common.ErrStorage, "short write to run %s", r.meta.name)
	}
	pageNo := uint32(len(r.meta.pageOffsets))
	r.meta.pageOffsets = append(r.meta.pageOffsets, r.meta.size)
	r.meta.pageLens = append(r.meta.pageLens, uint32(n))
	r.meta.size += int64(n)
	r.stats.numWrites++
	return pageNo, nil
}

func (r *runFileImpl) ReadPage(pageNo uint32) ([]byte, error) {
	if r.closed {
		return nil, errors.Annotatef(common.ErrStorage, "read from closed run %s", r.meta.name)
	}
	if pageNo >= uint32(len(r.meta.pageOffsets)) {
		return nil, errors.Annotatef(common.ErrStorage, "I/O error past end of run %s (page %d)", r.meta.name, pageNo)
	}
	buf := make([]byte, r.meta.pageLens[pageNo])
	n, err := r.meta.file.ReadAt(buf, r.meta.pageOffsets[pageNo])
	if err != nil && !(err == io.EOF && n == len(buf)) {
		return nil, errors.Annotatef(common.ErrStorage, "read from run %s failed: %v", r.meta.name, err)
	}
	r.stats.numReads++
	return buf, nil
}

func (r *runFileImpl) NumPages() uint32 {
	return uint32(len(r.meta.pageOffsets))
}

// Close only invalidates this handle. data stays until RemoveRun
func (r *runFileImpl) Close() error {
	r.closed = true
	return nil
}
