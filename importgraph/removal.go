package importgraph

import (
	"errors"
	"fmt"
)

// EdgeEditor is the part of a graph that Removal needs to pop and restore edges.
type EdgeEditor interface {
	DirectImportExists(importer, imported string) bool
	GetImportDetails(importer, imported string) []ImportDetail
	RemoveImport(importer, imported string) error
	AddImport(importer, imported string, details ...ImportDetail) error
}

type removedImport struct {
	imp     Import
	details []ImportDetail
}

// Removal is a scope in which a set of direct imports is absent from a graph.
// Restore puts back exactly what was removed, details included, and is safe to call more than once.
//
//	removal, err := importgraph.RemoveImports(g, ignored)
//	if err != nil {
//		return err
//	}
//	defer removal.Restore()
type Removal struct {
	graph     EdgeEditor
	removed   []removedImport
	unmatched []Import
	restored  bool
}

// RemoveImports removes each named import that exists in graph. Imports that do not
// exist are recorded as unmatched and are not touched on restore. If a removal fails,
// anything already removed is put back before the error is returned.
func RemoveImports(graph EdgeEditor, imports []Import) (*Removal, error) {
	r := &Removal{graph: graph}
	seen := make(map[Import]bool, len(imports))

	for _, imp := range imports {
		if seen[imp] {
			continue
		}
		seen[imp] = true

		if !graph.DirectImportExists(imp.Importer, imp.Imported) {
			r.unmatched = append(r.unmatched, imp)
			continue
		}

		details := graph.GetImportDetails(imp.Importer, imp.Imported)
		if err := graph.RemoveImport(imp.Importer, imp.Imported); err != nil {
			return nil, errors.Join(err, r.Restore())
		}
		r.removed = append(r.removed, removedImport{imp: imp, details: details})
	}

	return r, nil
}

// Removed reports whether imp was removed by this scope.
func (r *Removal) Removed(imp Import) bool {
	for _, ri := range r.removed {
		if ri.imp == imp {
			return true
		}
	}
	return false
}

// RemovedImports returns the removed imports in removal order.
func (r *Removal) RemovedImports() []Import {
	imports := make([]Import, 0, len(r.removed))
	for _, ri := range r.removed {
		imports = append(imports, ri.imp)
	}
	return imports
}

// Unmatched returns the requested imports that were not present in the graph.
func (r *Removal) Unmatched() []Import {
	return append([]Import(nil), r.unmatched...)
}

// Restore re-adds every removed import with its original details.
func (r *Removal) Restore() error {
	if r.restored {
		return nil
	}
	r.restored = true

	var errs []error
	for _, ri := range r.removed {
		if err := r.graph.AddImport(ri.imp.Importer, ri.imp.Imported, ri.details...); err != nil {
			errs = append(errs, fmt.Errorf("failed to restore %s: %w", ri.imp, err))
		}
	}
	return errors.Join(errs...)
}
