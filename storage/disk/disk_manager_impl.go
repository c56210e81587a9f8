package disk

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/common"
)

// DiskManagerImpl stages runs as files in a directory
type DiskManagerImpl struct {
	dirName string
	runs    map[string]*runMeta
	files   map[string]*os.File
	stats   ioStats
}

// NewDiskManagerImpl returns a DiskManager instance which places run files in dirName
func NewDiskManagerImpl(dirName string) (DiskManager, error) {
	if err := os.MkdirAll(dirName, 0755); err != nil {
		return nil, errors.Annotatef(common.ErrStorage, "can't make run directory %s: %v", dirName, err)
	}
	return &DiskManagerImpl{dirName, make(map[string]*runMeta), make(map[string]*os.File), ioStats{}}, nil
}

func (d *DiskManagerImpl) CreateRun(name string) (RunFile, error) {
	if _, exist := d.runs[name]; exist {
		return nil, errors.Annotatef(common.ErrStorage, "run %s already exists", name)
	}
	file, err := os.OpenFile(filepath.Join(d.dirName, name), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return nil, errors.Annotatef(common.ErrStorage, "can't create run file %s: %v", name, err)
	}
	meta := &runMeta{name: name, file: file}
	d.runs[name] = meta
	d.files[name] = file
	common.ShPrintf(common.DEBUG_INFO_DETAIL, "CreateRun: %s\n", name)
	return newRunFileImpl(meta, &d.stats), nil
}

func (d *DiskManagerImpl) OpenRun(name string) (RunFile, error) {
	meta, exist := d.runs[name]
	if !exist {
		return nil, errors.Annotatef(common.ErrStorage, "run %s does not exist", name)
	}
	return newRunFileImpl(meta, &d.stats), nil
}

func (d *DiskManagerImpl) RemoveRun(name string) error {
	file, exist := d.files[name]
	if !exist {
		return errors.Annotatef(common.ErrStorage, "run %s does not exist", name)
	}
	delete(d.runs, name)
	delete(d.files, name)
	file.Close()
	if err := os.Remove(filepath.Join(d.dirName, name)); err != nil {
		return errors.Annotatef(common.ErrStorage, "can't remove run file %s: %v", name, err)
	}
	common.ShPrintf(common.DEBUG_INFO_DETAIL, "RemoveRun: %s\n", name)
	return nil
}

func (d *DiskManagerImpl) ExistsRun(name string) bool {
	_, exist := d.runs[name]
	return exist
}

func (d *DiskManagerImpl) GetRunNames() []string {
	return sortedRunNames(d.runs)
}

// GetNumWrites returns the number of page writes
func (d *DiskManagerImpl) GetNumWrites() uint64 {
	return d.stats.numWrites
}

// GetNumReads returns the number of page reads
func (d *DiskManagerImpl) GetNumReads() uint64 {
	return d.stats.numReads
}

// ShutDown removes remaining run files
func (d *DiskManagerImpl) ShutDown() {
	for name := range d.files {
		d.RemoveRun(name)
	}
}

func sortedRunNames(runs map[string]*runMeta) []string {
	ret := make([]string, 0, len(runs))
	for name := range runs {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}
