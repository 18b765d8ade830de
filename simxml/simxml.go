// Package simxml reads and writes .simu.xml documents, the interchange
// format for mimicry experiments. A document describes the run parameters
// and the species community, and optionally carries per-species results
// nested by trial and generation.
package simxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/DragonMarionette/MimSim/sim"
	"github.com/DragonMarionette/MimSim/species"
)

// Ext is the conventional file extension for simulation documents.
const Ext = ".simu.xml"

// xmlBool serializes booleans the way the format expects: "1" and "0" on
// output, with "true"/"false" also accepted on input.
type xmlBool bool

func (b xmlBool) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	s := "0"
	if b {
		s = "1"
	}
	return e.EncodeElement(s, start)
}

func (b *xmlBool) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	switch s = strings.TrimSpace(s); {
	case s == "1" || strings.EqualFold(s, "true"):
		*b = true
	case s == "0" || strings.EqualFold(s, "false"):
		*b = false
	default:
		return fmt.Errorf("invalid boolean %q in <%s>", s, start.Name.Local)
	}
	return nil
}

type document struct {
	XMLName  xml.Name `xml:"simulation"`
	Params   params   `xml:"params"`
	PreyPool preyPool `xml:"prey_pool"`
	PredPool predPool `xml:"pred_pool"`
}

type params struct {
	Title       string  `xml:"title"`
	Encounters  int     `xml:"encounters"`
	Generations int     `xml:"generations"`
	Repetitions int     `xml:"repetitions"`
	Repopulate  xmlBool `xml:"repopulate"`
}

type preyPool struct {
	Species []preySpec `xml:"prey_spec"`
}

type preySpec struct {
	Name    string       `xml:"spec_name"`
	Popu    int          `xml:"popu"`
	Phen    string       `xml:"phen"`
	Size    float64      `xml:"size"`
	Camo    float64      `xml:"camo"`
	Pal     float64      `xml:"pal"`
	Results *preyResults `xml:"results,omitempty"`
}

type preyResults struct {
	Trials []preyTrial `xml:"trial"`
}

type preyTrial struct {
	Number      int              `xml:"trial_number"`
	Generations []preyGeneration `xml:"generation"`
}

type preyGeneration struct {
	Number     int `xml:"generation_number"`
	Population int `xml:"population"`
}

type predPool struct {
	Species []predSpec `xml:"pred_spec"`
}

type predSpec struct {
	Name       string       `xml:"spec_name"`
	Popu       int          `xml:"popu"`
	App        int          `xml:"app"`
	Mem        int          `xml:"mem"`
	Insatiable xmlBool      `xml:"insatiable"`
	Results    *predResults `xml:"results,omitempty"`
}

type predResults struct {
	Trials []predTrial `xml:"trial"`
}

type predTrial struct {
	Number      int              `xml:"trial_number"`
	Generations []predGeneration `xml:"generation"`
}

type predGeneration struct {
	Number           int `xml:"generation_number"`
	PopulationHungry int `xml:"population_hungry"`
}

// Encode writes the descriptor document for an experiment without
// results.
func Encode(w io.Writer, cfg sim.Config, prey *species.PreyPool, pred *species.PredPool) error {
	return write(w, buildDocument(cfg, prey, pred, nil))
}

// EncodeResults writes the full document, nesting every species' results
// by trial and generation in order.
func EncodeResults(w io.Writer, cfg sim.Config, prey *species.PreyPool, pred *species.PredPool, rs *sim.ResultSet) error {
	if len(rs.PreyNames) != prey.Len() || len(rs.PredNames) != pred.Len() {
		return fmt.Errorf("result set covers %d prey and %d predator species, community has %d and %d",
			len(rs.PreyNames), len(rs.PredNames), prey.Len(), pred.Len())
	}
	return write(w, buildDocument(cfg, prey, pred, rs))
}

func buildDocument(cfg sim.Config, prey *species.PreyPool, pred *species.PredPool, rs *sim.ResultSet) *document {
	doc := &document{
		Params: params{
			Title:       cfg.Title,
			Encounters:  cfg.Encounters,
			Generations: cfg.Generations,
			Repetitions: cfg.Trials,
			Repopulate:  xmlBool(cfg.Repopulate),
		},
	}
	for i := 0; i < prey.Len(); i++ {
		sp := prey.At(i)
		spec := preySpec{
			Name: sp.Name,
			Popu: sp.Popu,
			Phen: sp.Phen,
			Size: sp.Size,
			Camo: sp.Camo,
			Pal:  sp.Pal,
		}
		if rs != nil {
			spec.Results = preyResultsFor(rs, i)
		}
		doc.PreyPool.Species = append(doc.PreyPool.Species, spec)
	}
	for i := 0; i < pred.Len(); i++ {
		sp := pred.At(i)
		spec := predSpec{
			Name:       sp.Name,
			Popu:       sp.Popu,
			App:        sp.App,
			Mem:        sp.Mem,
			Insatiable: xmlBool(sp.Insatiable),
		}
		if rs != nil {
			spec.Results = predResultsFor(rs, i)
		}
		doc.PredPool.Species = append(doc.PredPool.Species, spec)
	}
	return doc
}

func preyResultsFor(rs *sim.ResultSet, idx int) *preyResults {
	res := &preyResults{}
	for _, tr := range rs.Trials {
		trial := preyTrial{Number: tr.Trial}
		for _, snap := range tr.Generations {
			trial.Generations = append(trial.Generations, preyGeneration{
				Number:     snap.Generation,
				Population: snap.PreyPopu[idx],
			})
		}
		res.Trials = append(res.Trials, trial)
	}
	return res
}

func predResultsFor(rs *sim.ResultSet, idx int) *predResults {
	res := &predResults{}
	for _, tr := range rs.Trials {
		trial := predTrial{Number: tr.Trial}
		for _, snap := range tr.Generations {
			trial.Generations = append(trial.Generations, predGeneration{
				Number:           snap.Generation,
				PopulationHungry: snap.PredHungry[idx],
			})
		}
		res.Trials = append(res.Trials, trial)
	}
	return res
}

func write(w io.Writer, doc *document) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Decode reads a document, with or without results, and assembles the
// runnable experiment it describes. Result blocks are ignored on input,
// so a finished run's output is itself a valid input. The assembled
// experiment is validated before it is returned.
func Decode(r io.Reader) (sim.Config, *species.PreyPool, *species.PredPool, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return sim.Config{}, nil, nil, fmt.Errorf("parsing simulation document: %w", err)
	}
	cfg := sim.Config{
		Title:       doc.Params.Title,
		Encounters:  doc.Params.Encounters,
		Generations: doc.Params.Generations,
		Trials:      doc.Params.Repetitions,
		Repopulate:  bool(doc.Params.Repopulate),
	}
	prey := species.NewPreyPool()
	for _, spec := range doc.PreyPool.Species {
		sp := species.Prey{
			Name: spec.Name,
			Popu: spec.Popu,
			Phen: spec.Phen,
			Size: spec.Size,
			Camo: spec.Camo,
			Pal:  spec.Pal,
		}
		if err := prey.Add(sp); err != nil {
			return sim.Config{}, nil, nil, fmt.Errorf("prey pool: %w", err)
		}
	}
	pred := species.NewPredPool()
	for _, spec := range doc.PredPool.Species {
		sp := species.Predator{
			Name:       spec.Name,
			Popu:       spec.Popu,
			App:        spec.App,
			Mem:        spec.Mem,
			Insatiable: bool(spec.Insatiable),
		}
		if err := pred.Add(sp); err != nil {
			return sim.Config{}, nil, nil, fmt.Errorf("predator pool: %w", err)
		}
	}
	if err := sim.Validate(cfg, prey, pred); err != nil {
		return sim.Config{}, nil, nil, err
	}
	return cfg, prey, pred, nil
}
