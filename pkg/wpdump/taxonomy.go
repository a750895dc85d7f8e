package wpdump

import (
	"sort"
)

// TaxonomyNode is one reconstructed taxonomy entry with its term content
// attached. Children are only populated on root nodes; the observed source
// data never nests deeper than two levels.
type TaxonomyNode struct {
	TermID      int64
	TaxonomyID  int64
	Name        string
	Slug        string
	Description string
	Count       int64
	Orphan      bool
	Children    []*TaxonomyNode
}

// Forest is the reconstructed tree set of one taxonomy, with diagnostic
// counts. Orphans counts classifications whose declared parent is not a
// known root; they are imported as roots themselves rather than dropped.
// MissingTerms counts classifications with no matching terms row, which are
// skipped because there is no content to import.
type Forest struct {
	Taxonomy     string
	Roots        []*TaxonomyNode
	Orphans      int
	MissingTerms int
}

// BuildForest reconstructs the parent/child hierarchy of one taxonomy from
// the flat classification and term rows. Roots are classifications with
// parent 0; children attach to the root whose term id their parent names.
func BuildForest(taxonomy string, classifications []TermTaxonomy, terms []Term) Forest {
	f := Forest{Taxonomy: taxonomy}

	termsByID := make(map[int64]Term, len(terms))
	for _, t := range terms {
		termsByID[t.ID] = t
	}

	var roots, children []TermTaxonomy
	for _, c := range classifications {
		if c.Taxonomy != taxonomy {
			continue
		}
		if c.Parent == 0 {
			roots = append(roots, c)
		} else {
			children = append(children, c)
		}
	}

	rootByTermID := make(map[int64]*TaxonomyNode, len(roots))
	for _, c := range roots {
		node, ok := f.newNode(c, termsByID)
		if !ok {
			continue
		}
		f.Roots = append(f.Roots, node)
		rootByTermID[node.TermID] = node
	}

	for _, c := range children {
		node, ok := f.newNode(c, termsByID)
		if !ok {
			continue
		}
		parent, ok := rootByTermID[c.Parent]
		if !ok {
			// Declared parent never appears as a root in this taxonomy.
			// Source data is known to contain these; promote to root.
			node.Orphan = true
			f.Orphans++
			f.Roots = append(f.Roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	sort.Slice(f.Roots, func(i, j int) bool { return f.Roots[i].TermID < f.Roots[j].TermID })
	for _, root := range f.Roots {
		sort.Slice(root.Children, func(i, j int) bool {
			return root.Children[i].TermID < root.Children[j].TermID
		})
	}

	return f
}

// newNode builds a node for one classification, resolving its term content.
// Returns ok=false when the terms table has no row for it.
func (f *Forest) newNode(c TermTaxonomy, termsByID map[int64]Term) (*TaxonomyNode, bool) {
	term, ok := termsByID[c.TermID]
	if !ok {
		f.MissingTerms++
		return nil, false
	}
	return &TaxonomyNode{
		TermID:      c.TermID,
		TaxonomyID:  c.ID,
		Name:        term.Name,
		Slug:        term.Slug,
		Description: c.Description,
		Count:       c.Count,
	}, true
}

// Nodes returns every node of the forest, roots first, then each root's
// children in order.
func (f Forest) Nodes() []*TaxonomyNode {
	var all []*TaxonomyNode
	for _, r := range f.Roots {
		all = append(all, r)
	}
	for _, r := range f.Roots {
		all = append(all, r.Children...)
	}
	return all
}
