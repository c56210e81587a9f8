package disk

import (
	"os"

	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/common"
)

// DiskManagerTest is the disk implementation of DiskManager for testing purposes
type DiskManagerTest struct {
	path string
	DiskManager
}

// NewDiskManagerTest returns a DiskManager instance on a temporary directory
func NewDiskManagerTest() DiskManager {
	path, err := os.MkdirTemp("", "samehada_runs")
	if err != nil {
		panic(err)
	}
	diskManager, err := NewDiskManagerImpl(path)
	if err != nil {
		panic(err)
	}
	return &DiskManagerTest{path, diskManager}
}

// ShutDown removes the temporary directory
func (d *DiskManagerTest) ShutDown() {
	defer os.RemoveAll(d.path)
	d.DiskManager.ShutDown()
}

// FaultyDiskManager fails page writes after failAfterWrites successful ones
// and every page read when FailReads is set
type FaultyDiskManager struct {
	DiskManager
	failAfterWrites int
	writes          int
	FailReads       bool
}

func NewFaultyDiskManager(base DiskManager, failAfterWrites int) *FaultyDiskManager {
	return &FaultyDiskManager{base, failAfterWrites, 0, false}
}

func (d *FaultyDiskManager) CreateRun(name string) (RunFile, error) {
	run, err := d.DiskManager.CreateRun(name)
	if err != nil {
		return nil, err
	}
	return &faultyRunFile{run, d}, nil
}

func (d *FaultyDiskManager) OpenRun(name string) (RunFile, error) {
	run, err := d.DiskManager.OpenRun(name)
	if err != nil {
		return nil, err
	}
	return &faultyRunFile{run, d}, nil
}

type faultyRunFile struct {
	RunFile
	mgr *FaultyDiskManager
}

func (r *faultyRunFile) WritePage(pageData []byte) (uint32, error) {
	if r.mgr.failAfterWrites >= 0 && r.mgr.writes >= r.mgr.failAfterWrites {
		return 0, errors.Annotatef(common.ErrStorage, "injected write failure on %s", r.GetName())
	}
	r.mgr.writes++
	return r.RunFile.WritePage(pageData)
}

func (r *faultyRunFile) ReadPage(pageNo uint32) ([]byte, error) {
	if r.mgr.FailReads {
		return nil, errors.Annotatef(common.ErrStorage, "injected read failure on %s", r.GetName())
	}
	return r.RunFile.ReadPage(pageNo)
}
