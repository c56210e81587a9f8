// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package executors

import (
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
)

type Done bool

// Executor executes a plan page at a time
//
// Init initializes this executor and its children.
// This function must be called before Next() is called!
//
// Next produces the next batch from this executor. batches are full except
// possibly the last one. after Done is returned every call returns Done.
// returned batch is owned by the caller
//
// Close releases buffers and run files and closes children. it can be called many times
type Executor interface {
	Init() error
	Next() (*tuple.Batch, Done, error)
	Close() error
	GetOutputSchema() *schema.Schema
}
