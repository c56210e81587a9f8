package executors

import (
	"fmt"

	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/container/hash"
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/storage/disk"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
)

// max depth of recursive partitioning. a partition at this depth is built even if it is too large
const maxPartitionDepth = 3

// hashJoinTask is a pair of build and probe runs which are joined on memory or partitioned again
type hashJoinTask struct {
	build disk.RunFile
	probe disk.RunFile
	depth uint32
}

/**
 * HashJoinExecutor builds a hash table on the smaller child and probes it with the other.
 * both children are materialized to runs first. when the build side does not fit in
 * B-2 pages both sides are partitioned into B-1 runs by hash of the join key (grace hash join).
 * output tuples are always left columns followed by right columns.
 */
type HashJoinExecutor struct {
	context     *ExecutorContext
	plan        *plans.JoinPlanNode
	left        Executor
	right       Executor
	pred        *joinPredicate
	buildIsLeft bool
	tasks       []*hashJoinTask
	runs        []disk.RunFile
	jht         *hash.SimpleHashJoinHashTable
	current     *hashJoinTask
	probeRun    disk.RunFile
	probePage   uint32
	out         *outputBuffer
}

func NewHashJoinExecutor(context *ExecutorContext, plan *plans.JoinPlanNode, left Executor, right Executor) *HashJoinExecutor {
	return &HashJoinExecutor{context: context, plan: plan, left: left, right: right, jht: hash.NewSimpleHashJoinHashTable()}
}

func (e *HashJoinExecutor) Init() error {
	if err := checkBuffers(e.context, 3, "HashJoin"); err != nil {
		return err
	}
	pred, err := newJoinPredicate(e.plan, e.left, e.right)
	if err != nil {
		return err
	}
	if err := pred.requireEquality("HashJoin"); err != nil {
		return err
	}
	e.pred = pred
	if err := e.left.Init(); err != nil {
		return err
	}
	if err := e.right.Init(); err != nil {
		return err
	}
	leftRun, _, err := spillExecutor(e.context, e.left, newRunName("HashJoin-left"))
	e.addRun(leftRun)
	if err != nil {
		return err
	}
	rightRun, _, err := spillExecutor(e.context, e.right, newRunName("HashJoin-right"))
	e.addRun(rightRun)
	if err != nil {
		return err
	}

	e.buildIsLeft = leftRun.NumPages() <= rightRun.NumPages()
	if e.buildIsLeft {
		e.tasks = []*hashJoinTask{{leftRun, rightRun, 0}}
	} else {
		e.tasks = []*hashJoinTask{{rightRun, leftRun, 0}}
	}
	e.probeRun = nil
	e.out = newOutputBuffer(e.context.BatchCapacityOf(e.GetOutputSchema()))
	return nil
}

func (e *HashJoinExecutor) addRun(run disk.RunFile) {
	if run != nil {
		e.runs = append(e.runs, run)
	}
}

func (e *HashJoinExecutor) buildSchema() *schema.Schema {
	if e.buildIsLeft {
		return e.left.GetOutputSchema()
	}
	return e.right.GetOutputSchema()
}

func (e *HashJoinExecutor) probeSchema() *schema.Schema {
	if e.buildIsLeft {
		return e.right.GetOutputSchema()
	}
	return e.left.GetOutputSchema()
}

func (e *HashJoinExecutor) buildKeyIdx() uint32 {
	if e.buildIsLeft {
		return e.pred.leftIdx()
	}
	return e.pred.rightIdx()
}

func (e *HashJoinExecutor) probeKeyIdx() uint32 {
	if e.buildIsLeft {
		return e.pred.rightIdx()
	}
	return e.pred.leftIdx()
}

func (e *HashJoinExecutor) buildCapacity() uint32 {
	return e.context.BatchCapacityOf(e.buildSchema())
}

func (e *HashJoinExecutor) probeCapacity() uint32 {
	return e.context.BatchCapacityOf(e.probeSchema())
}

// startTask prepares next task. returns false when no task remains
func (e *HashJoinExecutor) startTask() (bool, error) {
	if e.current != nil {
		if err := e.removeTask(e.current); err != nil {
			return false, err
		}
		e.current = nil
	}
	for len(e.tasks) > 0 {
		task := e.tasks[len(e.tasks)-1]
		e.tasks = e.tasks[:len(e.tasks)-1]
		if task.build.NumPages() == 0 || task.probe.NumPages() == 0 {
			continue
		}
		maxBuildPages := e.context.GetNumBuffers() - 2
		if task.build.NumPages() > maxBuildPages {
			if task.depth < maxPartitionDepth {
				if err := e.partition(task); err != nil {
					return false, err
				}
				continue
			}
			common.ShPrintf(common.WARN, "HashJoin: partition of %d pages does not fit in %d buffers at depth %d\n", task.build.NumPages(), maxBuildPages, task.depth)
		}
		if err := e.buildTable(task.build); err != nil {
			return false, err
		}
		e.current = task
		e.probeRun = task.probe
		e.probePage = 0
		return true, nil
	}
	return false, nil
}

func (e *HashJoinExecutor) removeTask(task *hashJoinTask) error {
	if err := removeRun(e.context, task.build); err != nil {
		return err
	}
	return removeRun(e.context, task.probe)
}

func (e *HashJoinExecutor) buildTable(build disk.RunFile) error {
	e.jht.Clear()
	for pageNo := uint32(0); pageNo < build.NumPages(); pageNo++ {
		batch, err := readRunPage(build, pageNo, e.buildCapacity(), e.buildSchema())
		if err != nil {
			return err
		}
		for _, tuple_ := range batch.GetTuples() {
			key := tuple_.GetValue(e.buildKeyIdx())
			e.jht.Insert(&key, tuple_)
		}
	}
	return nil
}

// partition splits both runs of task into B-1 partitions each and pushes the pairs as tasks
func (e *HashJoinExecutor) partition(task *hashJoinTask) error {
	numPartitions := e.context.GetNumBuffers() - 1
	seed := task.depth + 1
	builds, err := e.partitionRun(task.build, e.buildCapacity(), e.buildSchema(), e.buildKeyIdx(), numPartitions, seed, "build")
	if err != nil {
		return err
	}
	probes, err := e.partitionRun(task.probe, e.probeCapacity(), e.probeSchema(), e.probeKeyIdx(), numPartitions, seed, "probe")
	if err != nil {
		return err
	}
	common.ShPrintf(common.EXECUTOR_TRACE, "HashJoin: %d build pages are partitioned to %d at depth %d\n", task.build.NumPages(), numPartitions, task.depth)
	if err := e.removeTask(task); err != nil {
		return err
	}
	for i := range builds {
		e.tasks = append(e.tasks, &hashJoinTask{builds[i], probes[i], task.depth + 1})
	}
	return nil
}

func (e *HashJoinExecutor) partitionRun(run disk.RunFile, capacity uint32, schema_ *schema.Schema, keyIdx uint32, numPartitions uint32, seed uint32, side string) ([]disk.RunFile, error) {
	parts := make([]disk.RunFile, numPartitions)
	pages := make([]*tuple.Batch, numPartitions)
	for i := range parts {
		part, err := e.context.GetDiskManager().CreateRun(newRunName(fmt.Sprintf("HashJoin-%s-%d-%d", side, seed, i)))
		if err != nil {
			return nil, err
		}
		e.addRun(part)
		parts[i] = part
		pages[i] = tuple.NewBatch(capacity)
	}
	for pageNo := uint32(0); pageNo < run.NumPages(); pageNo++ {
		batch, err := readRunPage(run, pageNo, capacity, schema_)
		if err != nil {
			return nil, err
		}
		for _, tuple_ := range batch.GetTuples() {
			key := tuple_.GetValue(keyIdx)
			i := hash.HashWithSeed(&key, seed) % numPartitions
			pages[i].Append(tuple_)
			if pages[i].IsFull() {
				if _, err := parts[i].WritePage(pages[i].Serialize()); err != nil {
					return nil, errors.Annotatef(err, "write of partition %s", parts[i].GetName())
				}
				pages[i] = tuple.NewBatch(capacity)
			}
		}
	}
	for i, page := range pages {
		if page.IsEmpty() {
			continue
		}
		if _, err := parts[i].WritePage(page.Serialize()); err != nil {
			return nil, errors.Annotatef(err, "write of partition %s", parts[i].GetName())
		}
	}
	return parts, nil
}

func (e *HashJoinExecutor) probe(probeTuple *tuple.Tuple) {
	key := probeTuple.GetValue(e.probeKeyIdx())
	for _, buildTuple := range e.jht.GetValue(&key) {
		left, right := buildTuple, probeTuple
		if !e.buildIsLeft {
			left, right = probeTuple, buildTuple
		}
		// hash table returns candidates of the bucket
		if e.pred.compareKeys(left, right) != 0 {
			continue
		}
		if joined, ok := e.pred.joinResiduals(left, right); ok {
			e.out.add(joined)
		}
	}
}

func (e *HashJoinExecutor) Next() (*tuple.Batch, Done, error) {
	for !e.out.isFull() {
		if e.probeRun == nil || e.probePage >= e.probeRun.NumPages() {
			ok, err := e.startTask()
			if err != nil {
				return nil, true, err
			}
			if !ok {
				e.probeRun = nil
				break
			}
		}
		batch, err := readRunPage(e.probeRun, e.probePage, e.probeCapacity(), e.probeSchema())
		if err != nil {
			return nil, true, err
		}
		e.probePage++
		for _, probeTuple := range batch.GetTuples() {
			e.probe(probeTuple)
		}
	}
	if e.out.isEmpty() {
		return nil, true, nil
	}
	return e.out.popBatch(), false, nil
}

func (e *HashJoinExecutor) Close() error {
	e.tasks = nil
	e.current = nil
	e.probeRun = nil
	e.jht.Clear()
	var ret error
	for _, run := range e.runs {
		if err := removeRun(e.context, run); err != nil && ret == nil {
			ret = err
		}
	}
	e.runs = nil
	if err := closeAll(e.left, e.right); err != nil && ret == nil {
		ret = err
	}
	return ret
}

func (e *HashJoinExecutor) GetOutputSchema() *schema.Schema {
	return e.plan.OutputSchema()
}
