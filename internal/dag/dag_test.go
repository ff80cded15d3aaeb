package dag

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestLinearChainRunsInOrder(t *testing.T) {
	g := NewGraph()
	var counter int32
	var order [5]int32

	var nodes []*Node
	for i := 0; i < 5; i++ {
		i := i
		nodes = append(nodes, g.AddNode(func() {
			order[i] = atomic.AddInt32(&counter, 1)
		}))
	}
	for i := 0; i < 4; i++ {
		AddEdge(nodes[i], nodes[i+1])
	}
	g.Build(nodes)

	nodes[0].Fire()
	g.Wait()

	for i := 0; i < 4; i++ {
		if order[i] >= order[i+1] {
			t.Fatalf("expected strictly increasing order, got %v", order)
		}
	}
}

func TestDiamondRunsDAfterBandC(t *testing.T) {
	g := NewGraph()
	var mu sync.Mutex
	var trace []string
	record := func(name string) func() {
		return func() {
			mu.Lock()
			trace = append(trace, name)
			mu.Unlock()
		}
	}

	a := g.AddNode(record("A"))
	b := g.AddNode(record("B"))
	c := g.AddNode(record("C"))
	d := g.AddNode(record("D"))
	AddEdge(a, b)
	AddEdge(a, c)
	AddEdge(b, d)
	AddEdge(c, d)
	g.Build([]*Node{a, b, c, d})

	a.Fire()
	g.Wait()

	if trace[0] != "A" {
		t.Fatalf("expected A first, got %v", trace)
	}
	if trace[len(trace)-1] != "D" {
		t.Fatalf("expected D last, got %v", trace)
	}
}
