package histio

import (
	"github.com/specialistvlad/nanopost/internal/cutflow"
	"go-hep.org/x/hep/hbook"
)

// WriteROOT writes h as a TH1F into a new ROOT file at path. Bin i of the
// histogram spans [i, i+1) so that ROOT bin numbers match Histogram.Bin.
//
// Bin labels are not stored in the ROOT file; the YAML report carries them.
func WriteROOT(path string, h *cutflow.Histogram) (err error) {
	s, err := CreateSkim(path, cutflow.Event{})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()
	return s.PutHistogram(h)
}

func toH1D(h *cutflow.Histogram) *hbook.H1D {
	n := h.NBins()
	out := hbook.NewH1D(n, 0, float64(n))
	out.Annotation()["name"] = h.Name
	out.Annotation()["title"] = h.Title
	for i, v := range h.Values {
		out.Fill(float64(i)+0.5, v)
	}
	return out
}
