package abspy

import "fmt"

// UnboundedInputError reports that no usable initial extent could be derived
// for the partition. Construction aborts before any splitting happens.
type UnboundedInputError struct {
	Reason string
}

func (e *UnboundedInputError) Error() string {
	return fmt.Sprintf("unbounded input: %s", e.Reason)
}

// WorkerError wraps a failure from one of the parallel adjacency workers.
// The whole assembly aborts rather than returning a partial adjacency graph,
// which would break the symmetry invariant.
type WorkerError struct {
	Stage string
	Err   error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker failed during %s: %v", e.Stage, e.Err)
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}
