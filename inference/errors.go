// Package inference implements the Inference Engine (C6): hierarchical,
// transitive, and inheritable queries over a Graph Store snapshot and
// an Edge Type Registry catalogue. Every query is side-effect-free.
// Transitive and Inheritable are timeout-bound, returning a partial
// result rather than hanging; Hierarchical takes no context and has no
// timeout.
package inference

import "fmt"

// QueryErrorKind classifies why an inference query returned a partial
// or failed result.
type QueryErrorKind int

const (
	// Timeout means the caller-supplied deadline elapsed before the
	// traversal completed; the result carries whatever was found so far.
	Timeout QueryErrorKind = iota
	// DepthExceeded means the traversal hit its maxDepth ceiling.
	DepthExceeded
	// UnknownEdgeType means the requested edge type is not registered.
	UnknownEdgeType
	// SourceNotFound means the query's source node does not exist.
	SourceNotFound
)

func (k QueryErrorKind) String() string {
	switch k {
	case Timeout:
		return "timeout"
	case DepthExceeded:
		return "depth_exceeded"
	case UnknownEdgeType:
		return "unknown_edge_type"
	case SourceNotFound:
		return "source_not_found"
	default:
		return "unknown"
	}
}

// QueryError reports a non-fatal inference failure; Partial indicates
// whether Result still carries a usable (if incomplete) answer.
type QueryError struct {
	Kind    QueryErrorKind
	Message string
	Partial bool
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("inference: %s: %s", e.Kind, e.Message)
}
