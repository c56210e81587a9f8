package samehada

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/storage/disk"
)

// SamehadaInstance owns storage of one query processor.
// base tables and sorted runs are placed on separate disk managers
type SamehadaInstance struct {
	table_disk_manager disk.DiskManager
	run_disk_manager   disk.DiskManager
	dir                string
	is_temp_dir        bool
}

func NewSamehadaInstance(config *common.Config) (*SamehadaInstance, error) {
	if config.OnMemStorage {
		return &SamehadaInstance{disk.NewVirtualDiskManagerImpl(), disk.NewVirtualDiskManagerImpl(), "", false}, nil
	}

	dir, isTemp := config.RunDir, false
	if dir == "" {
		dir, isTemp = filepath.Join(os.TempDir(), "samehadaqp-"+uuid.NewString()), true
	}
	tableDM, err := disk.NewDiskManager(false, filepath.Join(dir, "tables"))
	if err != nil {
		return nil, err
	}
	runDM, err := disk.NewDiskManager(false, filepath.Join(dir, "runs"))
	if err != nil {
		tableDM.ShutDown()
		return nil, err
	}
	return &SamehadaInstance{tableDM, runDM, dir, isTemp}, nil
}

func (si *SamehadaInstance) GetTableDiskManager() disk.DiskManager {
	return si.table_disk_manager
}

func (si *SamehadaInstance) GetRunDiskManager() disk.DiskManager {
	return si.run_disk_manager
}

// Shutdown closes disk managers. a directory made for the instance is removed
func (si *SamehadaInstance) Shutdown() {
	si.run_disk_manager.ShutDown()
	si.table_disk_manager.ShutDown()
	if si.is_temp_dir {
		if err := os.RemoveAll(si.dir); err != nil {
			common.ShPrintf(common.WARN, "can't remove %s: %v\n", si.dir, err)
		}
	}
}
