package executors

import (
	"github.com/ryogrid/SamehadaQP/catalog"
	"github.com/ryogrid/SamehadaQP/storage/disk"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
)

// ExecutorContext stores all the context necessary to run an executor
type ExecutorContext struct {
	catalog     *catalog.Catalog
	diskManager disk.DiskManager
	pageSize    uint32
	numBuffers  uint32
}

// NewExecutorContext creates context. numBuffers is buffer budget B shared by operators
func NewExecutorContext(catalog *catalog.Catalog, diskManager disk.DiskManager, pageSize uint32, numBuffers uint32) *ExecutorContext {
	return &ExecutorContext{catalog, diskManager, pageSize, numBuffers}
}

func (e *ExecutorContext) GetCatalog() *catalog.Catalog {
	return e.catalog
}

// GetDiskManager returns manager of sorted runs and other temporary files
func (e *ExecutorContext) GetDiskManager() disk.DiskManager {
	return e.diskManager
}

func (e *ExecutorContext) GetPageSize() uint32 {
	return e.pageSize
}

func (e *ExecutorContext) GetNumBuffers() uint32 {
	return e.numBuffers
}

// BatchCapacityOf returns tuples per page for schema_
func (e *ExecutorContext) BatchCapacityOf(schema_ *schema.Schema) uint32 {
	return tuple.BatchCapacity(e.pageSize, schema_.Length())
}
