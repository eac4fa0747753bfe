package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// AccountNode is one node of the chart-of-accounts hierarchy.
type AccountNode struct {
	Account
	RollupBalance decimal.Decimal `json:"rollupBalance"`
	Children      []*AccountNode  `json:"children"`
}

// BuildAccountTree arranges a flat account list into a forest.
// Accounts whose parent is absent from the list are returned as roots.
// Siblings are ordered by code.
func BuildAccountTree(accounts []Account) []*AccountNode {
	index := make(map[string]*AccountNode, len(accounts))
	for _, acc := range accounts {
		index[acc.AccountID] = &AccountNode{Account: acc, Children: []*AccountNode{}}
	}

	roots := make([]*AccountNode, 0)
	for _, acc := range accounts {
		node := index[acc.AccountID]
		parent, ok := index[acc.ParentAccountID]
		if acc.ParentAccountID == "" || !ok || parent == node {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	// A parent cycle leaves nodes unreachable from any root; surface them as roots.
	reached := make(map[string]bool, len(index))
	var mark func(n *AccountNode)
	mark = func(n *AccountNode) {
		if reached[n.AccountID] {
			return
		}
		reached[n.AccountID] = true
		for _, c := range n.Children {
			mark(c)
		}
	}
	for _, r := range roots {
		mark(r)
	}
	for _, acc := range accounts {
		if !reached[acc.AccountID] {
			node := index[acc.AccountID]
			if p, ok := index[acc.ParentAccountID]; ok {
				p.Children = removeNode(p.Children, node)
			}
			roots = append(roots, node)
			mark(node)
		}
	}

	sortNodes(roots)
	for _, r := range roots {
		rollup(r)
	}
	return roots
}

func removeNode(nodes []*AccountNode, target *AccountNode) []*AccountNode {
	out := nodes[:0]
	for _, n := range nodes {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}

func sortNodes(nodes []*AccountNode) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Code < nodes[j].Code })
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}

// rollup sums the node's balance with its same-typed descendants.
func rollup(n *AccountNode) decimal.Decimal {
	total := n.Balance
	for _, c := range n.Children {
		childTotal := rollup(c)
		if c.AccountType == n.AccountType {
			total = total.Add(childTotal)
		}
	}
	n.RollupBalance = total
	return total
}
