// Package dag implements the continuation-graph scheduler backing
// Orchestrator.ExecutePipeline, replacing Intel TBB's flow::graph. Each
// transform is a Node; edges enforce happens-before. A Node fires once every
// upstream edge has fired (its in-degree counter reaches zero), and firing
// runs the node's body in its own goroutine. Concurrency is unlimited: any
// number of ready nodes may run simultaneously.
package dag

import (
	"sync"
	"sync/atomic"
)

// Node is one transform's execution unit in the graph.
type Node struct {
	body        func()
	downstream  []*Node
	inDegree    int32
	pendingDeps int32
	graph       *Graph
}

// Graph holds the WaitGroup tracking outstanding node goroutines, used by
// Wait to block until the whole graph has drained. Nodes created by AddNode
// point back to their Graph; the Graph itself keeps no list of them.
type Graph struct {
	wg sync.WaitGroup
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{}
}

// AddNode registers a new node with the given body. Edges are added
// afterward via AddEdge; call Build once all edges for the graph have been
// added and before firing any root nodes.
func (g *Graph) AddNode(body func()) *Node {
	return &Node{body: body, graph: g}
}

// AddEdge records that downstream must not fire until upstream has
// completed.
func AddEdge(upstream, downstream *Node) {
	upstream.downstream = append(upstream.downstream, downstream)
	downstream.inDegree++
}

// Build initializes each node's pending-dependency countdown from its final
// in-degree. Call once, after every AddEdge call for the graph.
func (g *Graph) Build(nodes []*Node) {
	for _, n := range nodes {
		atomic.StoreInt32(&n.pendingDeps, n.inDegree)
	}
}

// Fire signals a root node (one with in-degree zero) to run.
func (n *Node) Fire() {
	n.graph.wg.Add(1)
	go n.run()
}

func (n *Node) run() {
	defer n.graph.wg.Done()
	n.body()
	for _, next := range n.downstream {
		next.onDependencyDone()
	}
}

// onDependencyDone decrements the node's pending in-degree and fires it once
// every upstream dependency has completed, re-arming the countdown so the
// next run of the graph waits on every upstream edge again.
func (n *Node) onDependencyDone() {
	if atomic.AddInt32(&n.pendingDeps, -1) == 0 {
		atomic.StoreInt32(&n.pendingDeps, n.inDegree)
		n.Fire()
	}
}

// Wait blocks until every fired node (and every node they transitively
// triggered) has completed.
func (g *Graph) Wait() {
	g.wg.Wait()
}
