package disk

// RunFile is an append only sequence of pages.
// page length is variable and page number starts at 0
type RunFile interface {
	GetName() string
	// WritePage appends pageData and returns the page number
	WritePage(pageData []byte) (uint32, error)
	ReadPage(pageNo uint32) ([]byte, error)
	NumPages() uint32
	Close() error
}

// DiskManager is responsible for interacting with disk on sorted run staging
type DiskManager interface {
	CreateRun(name string) (RunFile, error)
	OpenRun(name string) (RunFile, error)
	RemoveRun(name string) error
	ExistsRun(name string) bool
	GetRunNames() []string
	GetNumWrites() uint64
	GetNumReads() uint64
	ShutDown()
}
