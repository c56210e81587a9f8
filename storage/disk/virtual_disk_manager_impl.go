package disk

import (
	"github.com/dsnet/golib/memfile"
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/common"
)

// VirtualDiskManagerImpl keeps runs on memory
type VirtualDiskManagerImpl struct {
	runs  map[string]*runMeta
	stats ioStats
}

func NewVirtualDiskManagerImpl() DiskManager {
	return &VirtualDiskManagerImpl{make(map[string]*runMeta), ioStats{}}
}

func (d *VirtualDiskManagerImpl) CreateRun(name string) (RunFile, error) {
	if _, exist := d.runs[name]; exist {
		return nil, errors.Annotatef(common.ErrStorage, "run %s already exists", name)
	}
	meta := &runMeta{name: name, file: memfile.New(make([]byte, 0))}
	d.runs[name] = meta
	common.ShPrintf(common.DEBUG_INFO_DETAIL, "CreateRun(virtual): %s\n", name)
	return newRunFileImpl(meta, &d.stats), nil
}

func (d *VirtualDiskManagerImpl) OpenRun(name string) (RunFile, error) {
	meta, exist := d.runs[name]
	if !exist {
		return nil, errors.Annotatef(common.ErrStorage, "run %s does not exist", name)
	}
	return newRunFileImpl(meta, &d.stats), nil
}

func (d *VirtualDiskManagerImpl) RemoveRun(name string) error {
	if _, exist := d.runs[name]; !exist {
		return errors.Annotatef(common.ErrStorage, "run %s does not exist", name)
	}
	delete(d.runs, name)
	common.ShPrintf(common.DEBUG_INFO_DETAIL, "RemoveRun(virtual): %s\n", name)
	return nil
}

func (d *VirtualDiskManagerImpl) ExistsRun(name string) bool {
	_, exist := d.runs[name]
	return exist
}

func (d *VirtualDiskManagerImpl) GetRunNames() []string {
	return sortedRunNames(d.runs)
}

func (d *VirtualDiskManagerImpl) GetNumWrites() uint64 {
	return d.stats.numWrites
}

func (d *VirtualDiskManagerImpl) GetNumReads() uint64 {
	return d.stats.numReads
}

func (d *VirtualDiskManagerImpl) ShutDown() {
	d.runs = make(map[string]*runMeta)
}

// NewDiskManager selects implementation like common.EnableOnMemStorage
func NewDiskManager(onMemory bool, runDir string) (DiskManager, error) {
	if onMemory {
		return NewVirtualDiskManagerImpl(), nil
	}
	return NewDiskManagerImpl(runDir)
}
