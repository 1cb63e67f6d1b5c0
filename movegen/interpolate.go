package movegen

import (
	"fmt"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/domino14/tetrisai/board"
	"github.com/domino14/tetrisai/move"
)

// nodeID keys a state of the analyzed piece by its packed move.
func (gen *Generator) nodeID(r, c, rot int) int64 {
	return int64(move.Move{Piece: gen.piece, Rot: rot, Col: c, Row: r}.Pack())
}

// stateGraph builds the graph of reachable (row, column, rotation) states of
// the last analysis. Rotating is symmetric; shifting and falling connect a
// state to its neighbour only when the neighbour is reachable too.
func (gen *Generator) stateGraph() *simple.DirectedGraph {
	g := simple.NewDirectedGraph()
	n := gen.piece.RotationCount()
	for r := 0; r < board.Height; r++ {
		for c := 0; c < board.Width; c++ {
			for rot := 0; rot < n; rot++ {
				if gen.cells[r][c].Allowed(rot) {
					g.AddNode(simple.Node(gen.nodeID(r, c, rot)))
				}
			}
		}
	}
	connect := func(from, to int64) {
		g.SetEdge(g.NewEdge(g.Node(from), g.Node(to)))
	}
	for r := 0; r < board.Height; r++ {
		for c := 0; c < board.Width; c++ {
			cell := gen.cells[r][c]
			for rot := 0; rot < n; rot++ {
				if !cell.Allowed(rot) {
					continue
				}
				self := gen.nodeID(r, c, rot)
				next := gen.piece.WrapRotation(rot + 1)
				if next != rot && cell.Allowed(next) {
					connect(self, gen.nodeID(r, c, next))
					connect(gen.nodeID(r, c, next), self)
				}
				if gen.Allowed(r, c-1, rot) {
					connect(self, gen.nodeID(r, c-1, rot))
				}
				if gen.Allowed(r, c+1, rot) {
					connect(self, gen.nodeID(r, c+1, rot))
				}
				if gen.Allowed(r+1, c, rot) {
					connect(self, gen.nodeID(r+1, c, rot))
				}
			}
		}
	}
	return g
}

// Interpolate returns the shortest run of single steps that brings the piece
// from its spawn state to m, spawn first and m last. m must be a placement
// the last Analyze reached; anything else is a programming error and
// panics.
func (gen *Generator) Interpolate(m move.Move) []move.Move {
	if m.Piece != gen.piece {
		panic(fmt.Sprintf("interpolating %v against an analysis of %v", m.Piece, gen.piece))
	}
	if !gen.Allowed(m.Row, m.Col, m.Rot) {
		panic(fmt.Sprintf("move %v was not reached by the last analysis", m.ShortDescription()))
	}
	g := gen.stateGraph()
	spawn := g.Node(gen.nodeID(board.SpawnRow, board.SpawnCol, 0))
	if spawn == nil {
		panic("piece cannot spawn; nothing to interpolate")
	}
	target := g.Node(gen.nodeID(m.Row, m.Col, m.Rot))
	if target.ID() == spawn.ID() {
		return []move.Move{m}
	}
	nodes, _ := path.DijkstraFromTo(spawn, target, g)
	if len(nodes) == 0 {
		panic(fmt.Sprintf("move %v is unreachable from spawn", m.ShortDescription()))
	}
	moves := make([]move.Move, len(nodes))
	for i, n := range nodes {
		moves[i] = move.Unpack(uint32(n.ID()))
	}
	return moves
}
