package services

import (
	"math"
	"sort"

	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

// BranchOptions controls which nodes the layered solver may move
type BranchOptions struct {
	// FromRoot frees the entire branch: only literal root nodes keep their
	// positions. When false, every node below the branch's deepest level is
	// held fixed and only the newest layer is free to move.
	FromRoot bool
}

// LayoutBranch runs a layered left-to-right re-layout over a connected
// subtree while keeping already-placed nodes stable. Each node's measured
// dimensions are its layout footprint; fixed nodes' existing positions act
// as hard constraints. Free nodes take their X from the solved rank and,
// when they have predecessors inside the branch, their Y from the average
// of those predecessors so new nodes stay visually aligned with whatever
// produced them. Returns a position map for the nodes that moved; an empty
// branch yields an empty map.
func (p *PositionPlanner) LayoutBranch(
	branchNodes []*entities.Node,
	edges []*entities.Edge,
	rootNodes []*entities.Node,
	options BranchOptions,
) map[valueobjects.NodeID]valueobjects.Position {
	updates := make(map[valueobjects.NodeID]valueobjects.Position)
	if len(branchNodes) == 0 {
		return updates
	}

	inBranch := make(map[valueobjects.NodeID]*entities.Node, len(branchNodes))
	for _, node := range branchNodes {
		inBranch[node.ID()] = node
	}

	levels := p.branchLevels(inBranch, edges, rootNodes)
	maxLevel := 0
	for _, level := range levels {
		if level > maxLevel {
			maxLevel = level
		}
	}

	rootIDs := make(map[valueobjects.NodeID]bool, len(rootNodes))
	for _, root := range rootNodes {
		rootIDs[root.ID()] = true
	}

	fixed := make(map[valueobjects.NodeID]bool, len(branchNodes))
	for id := range inBranch {
		if options.FromRoot {
			fixed[id] = rootIDs[id]
		} else {
			fixed[id] = levels[id] < maxLevel
		}
	}

	// Group the branch into ranks, ordered deterministically within a rank
	ranks := make([][]*entities.Node, maxLevel+1)
	for id, node := range inBranch {
		ranks[levels[id]] = append(ranks[levels[id]], node)
	}
	for _, rank := range ranks {
		sort.Slice(rank, func(i, j int) bool {
			if rank[i].Position().Y() != rank[j].Position().Y() {
				return rank[i].Position().Y() < rank[j].Position().Y()
			}
			return rank[i].ID().String() < rank[j].ID().String()
		})
	}

	// Predecessors within the branch, per node
	predecessors := make(map[valueobjects.NodeID][]valueobjects.NodeID)
	for _, edge := range edges {
		if _, sourceOK := inBranch[edge.SourceID()]; !sourceOK {
			continue
		}
		if _, targetOK := inBranch[edge.TargetID()]; !targetOK {
			continue
		}
		predecessors[edge.TargetID()] = append(predecessors[edge.TargetID()], edge.SourceID())
	}

	branchAverageY := 0.0
	for _, node := range branchNodes {
		branchAverageY += node.Position().Y()
	}
	branchAverageY /= float64(len(branchNodes))

	// Solve rank by rank; fixed positions are hard constraints
	resolved := make(map[valueobjects.NodeID]valueobjects.Position, len(branchNodes))
	for id, node := range inBranch {
		resolved[id] = node.Position()
	}

	for level := 0; level <= maxLevel; level++ {
		rankX := 0.0
		if level > 0 {
			rankX = p.rankRightExtent(ranks[level-1], inBranch, resolved) + p.config.RankSeparation
		}

		stackY := branchAverageY
		for _, node := range ranks[level] {
			if fixed[node.ID()] {
				continue
			}

			y := stackY
			if preds := predecessors[node.ID()]; len(preds) > 0 {
				sum := 0.0
				for _, predID := range preds {
					sum += resolved[predID].Y()
				}
				y = sum / float64(len(preds))
			} else {
				stackY += node.Dimensions().OrDefault().Height() + p.config.VerticalSpacing
			}

			x := rankX
			if level == 0 {
				x = node.Position().X()
			}

			pos, err := valueobjects.NewPosition(x, y)
			if err != nil {
				continue
			}
			resolved[node.ID()] = pos
			updates[node.ID()] = pos
		}
	}

	return updates
}

// branchLevels computes each branch node's BFS depth from the root nodes.
// A visited set keeps the walk safe on cyclic input; unreachable nodes stay
// at level 0.
func (p *PositionPlanner) branchLevels(
	inBranch map[valueobjects.NodeID]*entities.Node,
	edges []*entities.Edge,
	rootNodes []*entities.Node,
) map[valueobjects.NodeID]int {
	levels := make(map[valueobjects.NodeID]int, len(inBranch))
	outgoing := outgoingAdjacency(edges)

	visited := make(map[valueobjects.NodeID]bool)
	var frontier []valueobjects.NodeID
	for _, root := range rootNodes {
		if _, exists := inBranch[root.ID()]; !exists {
			continue
		}
		visited[root.ID()] = true
		levels[root.ID()] = 0
		frontier = append(frontier, root.ID())
	}

	depth := 0
	for len(frontier) > 0 {
		depth++
		var next []valueobjects.NodeID
		for _, id := range frontier {
			for _, targetID := range outgoing[id] {
				if visited[targetID] {
					continue
				}
				if _, exists := inBranch[targetID]; !exists {
					continue
				}
				visited[targetID] = true
				levels[targetID] = depth
				next = append(next, targetID)
			}
		}
		frontier = next
	}

	return levels
}

// rankRightExtent finds the rightmost occupied X of a rank given the
// positions resolved so far
func (p *PositionPlanner) rankRightExtent(
	rank []*entities.Node,
	inBranch map[valueobjects.NodeID]*entities.Node,
	resolved map[valueobjects.NodeID]valueobjects.Position,
) float64 {
	extent := math.Inf(-1)
	for _, node := range rank {
		right := resolved[node.ID()].X() + node.Dimensions().OrDefault().Width()
		if right > extent {
			extent = right
		}
	}
	if math.IsInf(extent, -1) {
		return 0
	}
	return extent
}
