// Package histio persists cutflow histograms and skimmed events.
//
// Histograms are written twice: as a ROOT TH1F for the downstream analysis
// tooling, and as a YAML report that keeps the bin labels and can be read
// back and merged across jobs. Skim outputs are ROOT files holding the kept
// events as an "Events" tree with the cutflow histogram beside it.
package histio
