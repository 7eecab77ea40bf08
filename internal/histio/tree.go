package histio

import (
	"fmt"

	"github.com/specialistvlad/nanopost/internal/cutflow"
	"github.com/zclconf/go-cty/cty"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/rtree"
)

// TreeName is the name of the skimmed event tree, as in NanoAOD.
const TreeName = "Events"

type column struct {
	name string
	num  *float64
	flag *bool
}

// SkimFile is a ROOT output holding the kept events as a tree and,
// optionally, the cutflow histogram next to it.
type SkimFile struct {
	path   string
	f      *groot.File
	tree   rtree.Writer
	cols   []column
	closed bool
}

// CreateSkim creates a ROOT file at path. The tree branches are the numeric
// and boolean fields of sample; other field types are not stored. When sample
// has no such fields the file holds no tree.
func CreateSkim(path string, sample cutflow.Event) (*SkimFile, error) {
	f, err := groot.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create ROOT file '%s': %w", path, err)
	}
	s := &SkimFile{path: path, f: f}

	var wvars []rtree.WriteVar
	for _, name := range sample.Names() {
		v, _ := sample.Get(name)
		c := column{name: name}
		switch {
		case v.Type().Equals(cty.Number):
			c.num = new(float64)
			wvars = append(wvars, rtree.WriteVar{Name: name, Value: c.num})
		case v.Type().Equals(cty.Bool):
			c.flag = new(bool)
			wvars = append(wvars, rtree.WriteVar{Name: name, Value: c.flag})
		default:
			continue
		}
		s.cols = append(s.cols, c)
	}
	if len(wvars) == 0 {
		return s, nil
	}

	s.tree, err = rtree.NewWriter(f, TreeName, wvars, rtree.WithTitle("skimmed events"))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create tree in '%s': %w", path, err)
	}
	return s, nil
}

// Columns returns the branch names in file order.
func (s *SkimFile) Columns() []string {
	names := make([]string, len(s.cols))
	for i, c := range s.cols {
		names[i] = c.name
	}
	return names
}

// Fill appends ev to the tree. Branches the event lacks, or holds with a
// different type, are written as zero.
func (s *SkimFile) Fill(ev cutflow.Event) error {
	if s.tree == nil {
		return nil
	}
	for _, c := range s.cols {
		v, ok := ev.Get(c.name)
		known := ok && v.IsKnown() && !v.IsNull()
		switch {
		case c.num != nil:
			*c.num = ev.FloatOr(c.name, 0).Value
		case c.flag != nil:
			*c.flag = known && v.Type().Equals(cty.Bool) && v.True()
		}
	}
	if _, err := s.tree.Write(); err != nil {
		return fmt.Errorf("failed to write event to '%s': %w", s.path, err)
	}
	return nil
}

// PutHistogram stores h in the file as a TH1F.
func (s *SkimFile) PutHistogram(h *cutflow.Histogram) error {
	if h.NBins() == 0 {
		return fmt.Errorf("histogram %q has no bins", h.Name)
	}
	if err := s.f.Put(h.Name, rhist.NewH1FFrom(toH1D(h))); err != nil {
		return fmt.Errorf("failed to write histogram %q to '%s': %w", h.Name, s.path, err)
	}
	return nil
}

// Close writes the tree metadata and closes the file. It is safe to call
// more than once.
func (s *SkimFile) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var treeErr error
	if s.tree != nil {
		treeErr = s.tree.Close()
	}
	fileErr := s.f.Close()
	if treeErr != nil {
		return fmt.Errorf("failed to close tree in '%s': %w", s.path, treeErr)
	}
	if fileErr != nil {
		return fmt.Errorf("failed to close ROOT file '%s': %w", s.path, fileErr)
	}
	return nil
}

// TreeEntries returns the number of entries of the event tree stored at path.
func TreeEntries(path string) (int64, error) {
	f, err := groot.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	obj, err := f.Get(TreeName)
	if err != nil {
		return 0, err
	}
	tree, ok := obj.(rtree.Tree)
	if !ok {
		return 0, fmt.Errorf("'%s': %q is a %s, not a tree", path, TreeName, obj.Class())
	}
	return tree.Entries(), nil
}
