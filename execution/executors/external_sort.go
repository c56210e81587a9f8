package executors

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/storage/disk"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
	"github.com/ryogrid/SamehadaQP/types"
)

/**
 * ExternalSort sorts output of child by key columns with bounded memory.
 *
 * phase 1 reads B pages of tuples at a time, sorts them on memory and spills
 * each chunk to a sorted run. phase 2 merges groups of up to B-1 runs (one page
 * is kept for output) until one run remains. fan-in is at least 2.
 * run files are named "Sort-run-<instance id>-<pass>-<run no>".
 */
type ExternalSort struct {
	context  *ExecutorContext
	child    Executor
	schema_  *schema.Schema
	keys     []uint32
	cmps     []types.Comparator
	id       string
	capacity uint32

	runs           []disk.RunFile
	initialRuns    int
	runCountByPass []int
	numTuples      uint64
	closed         bool
}

// NewExternalSort creates sorter of child on keys (indexes of child output schema).
// child is initialized by Run
func NewExternalSort(context *ExecutorContext, child Executor, keys []uint32) *ExternalSort {
	schema_ := child.GetOutputSchema()
	cmps := make([]types.Comparator, len(keys))
	for i, key := range keys {
		cmps[i] = types.ComparatorFor(schema_.GetColumn(key).GetType())
	}
	return &ExternalSort{
		context:  context,
		child:    child,
		schema_:  schema_,
		keys:     keys,
		cmps:     cmps,
		id:       uuid.NewString(),
		capacity: context.BatchCapacityOf(schema_),
	}
}

func (s *ExternalSort) fanIn() int {
	ret := int(s.context.GetNumBuffers()) - 1
	if ret < 2 {
		ret = 2
	}
	return ret
}

func (s *ExternalSort) runName(pass int, runNo int) string {
	return fmt.Sprintf("Sort-run-%s-%d-%d", s.id, pass, runNo)
}

// Run materializes sorted output of child
func (s *ExternalSort) Run() error {
	if err := checkBuffers(s.context, 2, "Sort"); err != nil {
		return err
	}
	for _, key := range s.keys {
		if key >= s.schema_.GetColumnCount() {
			return errors.Annotatef(common.ErrConfiguration, "sort key %d is out of schema", key)
		}
	}
	if err := s.child.Init(); err != nil {
		return err
	}
	if err := s.generateRuns(); err != nil {
		return err
	}
	s.initialRuns = len(s.runs)
	common.ShPrintf(common.EXECUTOR_TRACE, "Sort %s: %d tuples, %d initial runs\n", s.id, s.numTuples, s.initialRuns)

	for pass := 1; len(s.runs) > 1; pass++ {
		if err := s.mergePass(pass); err != nil {
			return err
		}
		s.runCountByPass = append(s.runCountByPass, len(s.runs))
		common.ShPrintf(common.EXECUTOR_TRACE, "Sort %s: %d runs after pass %d\n", s.id, len(s.runs), pass)
	}
	return nil
}

func (s *ExternalSort) less(tuples []*tuple.Tuple) func(i, j int) bool {
	return func(i, j int) bool {
		return tuple.CompareByKeys(tuples[i], tuples[j], s.keys, s.cmps) < 0
	}
}

// generateRuns is phase 1
func (s *ExternalSort) generateRuns() error {
	cursor := newTupleCursor(s.child)
	chunkSize := int(s.context.GetNumBuffers() * s.capacity)
	chunk := make([]*tuple.Tuple, 0, chunkSize)
	for {
		tuple_, err := cursor.next()
		if err != nil {
			return err
		}
		if tuple_ != nil {
			chunk = append(chunk, tuple_)
			s.numTuples++
		}
		if len(chunk) == chunkSize || (tuple_ == nil && len(chunk) > 0) {
			sort.SliceStable(chunk, s.less(chunk))
			if err := s.spillChunk(chunk); err != nil {
				return err
			}
			chunk = chunk[:0]
		}
		if tuple_ == nil {
			return nil
		}
	}
}

func (s *ExternalSort) spillChunk(chunk []*tuple.Tuple) error {
	run, err := s.context.GetDiskManager().CreateRun(s.runName(0, len(s.runs)))
	if err != nil {
		return err
	}
	s.runs = append(s.runs, run)
	page := tuple.NewBatch(s.capacity)
	for _, tuple_ := range chunk {
		page.Append(tuple_)
		if page.IsFull() {
			if _, err := run.WritePage(page.Serialize()); err != nil {
				return errors.Annotatef(err, "spill of sorted run %s", run.GetName())
			}
			page = tuple.NewBatch(s.capacity)
		}
	}
	if !page.IsEmpty() {
		if _, err := run.WritePage(page.Serialize()); err != nil {
			return errors.Annotatef(err, "spill of sorted run %s", run.GetName())
		}
	}
	return nil
}

// mergePass merges consecutive groups of fan-in runs.
// a group of one run is carried to the next pass as is
func (s *ExternalSort) mergePass(pass int) error {
	fanIn := s.fanIn()
	next := make([]disk.RunFile, 0, (len(s.runs)+fanIn-1)/fanIn)
	for start := 0; start < len(s.runs); start += fanIn {
		end := start + fanIn
		if end > len(s.runs) {
			end = len(s.runs)
		}
		if end-start == 1 {
			next = append(next, s.runs[start])
			continue
		}
		merged, err := s.mergeRuns(s.runs[start:end], s.runName(pass, len(next)))
		if merged != nil {
			next = append(next, merged)
		}
		if err != nil {
			// runs which are not merged yet must be removed by Close
			s.runs = append(next, s.runs[start:]...)
			return err
		}
		for _, run := range s.runs[start:end] {
			if err := removeRun(s.context, run); err != nil {
				s.runs = append(next, s.runs[start:]...)
				return err
			}
		}
	}
	s.runs = next
	return nil
}

// mergeRuns is k-way merge. the minimum is found by linear scan
// and ties go to the lower input index
func (s *ExternalSort) mergeRuns(inputs []disk.RunFile, name string) (disk.RunFile, error) {
	output, err := s.context.GetDiskManager().CreateRun(name)
	if err != nil {
		return nil, err
	}
	cursors := make([]*RunCursor, len(inputs))
	for i, input := range inputs {
		cursors[i] = newRunCursor(input, s.capacity, s.schema_)
	}
	heads := make([]*tuple.Tuple, len(inputs))
	for i, cursor := range cursors {
		if heads[i], err = cursor.Next(); err != nil {
			return output, err
		}
	}
	page := tuple.NewBatch(s.capacity)
	for {
		minIdx := -1
		for i, head := range heads {
			if head == nil {
				continue
			}
			if minIdx < 0 || tuple.CompareByKeys(head, heads[minIdx], s.keys, s.cmps) < 0 {
				minIdx = i
			}
		}
		if minIdx < 0 {
			break
		}
		page.Append(heads[minIdx])
		if page.IsFull() {
			if _, err := output.WritePage(page.Serialize()); err != nil {
				return output, errors.Annotatef(err, "write of merged run %s", name)
			}
			page = tuple.NewBatch(s.capacity)
		}
		if heads[minIdx], err = cursors[minIdx].Next(); err != nil {
			return output, err
		}
	}
	if !page.IsEmpty() {
		if _, err := output.WritePage(page.Serialize()); err != nil {
			return output, errors.Annotatef(err, "write of merged run %s", name)
		}
	}
	return output, nil
}

// GetInitialRunCount returns count of runs made by phase 1
func (s *ExternalSort) GetInitialRunCount() int {
	return s.initialRuns
}

// GetRunCountsPerPass returns count of runs after each merge pass
func (s *ExternalSort) GetRunCountsPerPass() []int {
	return s.runCountByPass
}

func (s *ExternalSort) GetNumTuples() uint64 {
	return s.numTuples
}

func (s *ExternalSort) GetOutputSchema() *schema.Schema {
	return s.schema_
}

// NumPages returns page count of the sorted output
func (s *ExternalSort) NumPages() uint32 {
	if len(s.runs) == 0 {
		return 0
	}
	return s.runs[0].NumPages()
}

// ReadPage reads a page of the sorted output
func (s *ExternalSort) ReadPage(pageNo uint32) (*tuple.Batch, error) {
	common.SH_Assert(len(s.runs) == 1, "sorted output is not ready")
	return readRunPage(s.runs[0], pageNo, s.capacity, s.schema_)
}

// NewCursor returns a cursor over the sorted output
func (s *ExternalSort) NewCursor() *RunCursor {
	if len(s.runs) == 0 {
		return newRunCursor(nil, s.capacity, s.schema_)
	}
	return newRunCursor(s.runs[0], s.capacity, s.schema_)
}

// Close removes all run files and closes child
func (s *ExternalSort) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var ret error
	for _, run := range s.runs {
		if err := removeRun(s.context, run); err != nil && ret == nil {
			ret = err
		}
	}
	s.runs = nil
	if err := s.child.Close(); err != nil && ret == nil {
		ret = err
	}
	return ret
}

// RunCursor reads a run a tuple at a time holding one page.
// Mark and Reset rewind the cursor to a remembered position
type RunCursor struct {
	run      disk.RunFile
	capacity uint32
	schema_  *schema.Schema
	pageNo   uint32
	page     *tuple.Batch
	pos      int

	markPageNo uint32
	markPos    int
}

func newRunCursor(run disk.RunFile, capacity uint32, schema_ *schema.Schema) *RunCursor {
	return &RunCursor{run: run, capacity: capacity, schema_: schema_}
}

// Next returns nil at the end of run
func (c *RunCursor) Next() (*tuple.Tuple, error) {
	if c.run == nil {
		return nil, nil
	}
	for c.page == nil || c.pos >= c.page.Len() {
		if c.page != nil {
			c.pageNo++
			c.page = nil
			c.pos = 0
		}
		if c.pageNo >= c.run.NumPages() {
			return nil, nil
		}
		page, err := readRunPage(c.run, c.pageNo, c.capacity, c.schema_)
		if err != nil {
			return nil, err
		}
		c.page = page
	}
	ret := c.page.GetTuple(c.pos)
	c.pos++
	return ret, nil
}

// Mark remembers position of the tuple which was returned last by Next
func (c *RunCursor) Mark() {
	c.markPageNo = c.pageNo
	c.markPos = c.pos - 1
}

// Reset moves the cursor back so that Next returns the marked tuple again
func (c *RunCursor) Reset() {
	if c.pageNo != c.markPageNo {
		c.page = nil
	}
	// page is reloaded by Next when it was dropped
	c.pageNo = c.markPageNo
	c.pos = c.markPos
}
