// SPDX-License-Identifier: MIT

package markov

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/hmmdp/alphabet"
	"github.com/katalvlaran/hmmdp/dist"
)

// ErrDefinition indicates a malformed serialized model.
var ErrDefinition = errors.New("markov: invalid model definition")

// validate is shared; validator.Validate caches struct metadata and is
// safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Definition is the serialized form of a model, as handed over by a
// model-building collaborator. Transitions may name the reserved labels
// "start" and "end".
//
//	alphabets:
//	  - preset: dna
//	states:
//	  - label: A
//	    advance: [1]
//	    emissions: {A: 0.25, C: 0.25, G: 0.25, T: 0.25}
//	transitions:
//	  - {from: start, to: A, p: 1}
//	  - {from: A, to: A, p: 0.5}
//	  - {from: A, to: end, p: 0.5}
type Definition struct {
	Alphabets   []AlphabetDef   `yaml:"alphabets" validate:"required,min=1,max=2,dive"`
	States      []StateDef      `yaml:"states" validate:"dive"`
	Transitions []TransitionDef `yaml:"transitions" validate:"required,min=1,dive"`
	Tolerance   float64         `yaml:"tolerance,omitempty" validate:"gte=0"`
}

// AlphabetDef names a preset ("dna", "protein") or spells out a custom alphabet.
type AlphabetDef struct {
	Preset    string            `yaml:"preset,omitempty" validate:"omitempty,oneof=dna protein"`
	Name      string            `yaml:"name,omitempty" validate:"required_without=Preset"`
	Tokens    string            `yaml:"tokens,omitempty" validate:"required_without=Preset"`
	Ambiguity map[string]string `yaml:"ambiguity,omitempty" validate:"dive,keys,len=1,endkeys,required"`
}

// StateDef declares one state. An emitting state lists its emissions by
// token; for a state advancing several heads the key concatenates one
// token per advancing head ("AC"). Uniform replaces Emissions with the
// uniform distribution.
type StateDef struct {
	Label       string             `yaml:"label" validate:"required,ne=start,ne=end"`
	Silent      bool               `yaml:"silent,omitempty"`
	Advance     []int              `yaml:"advance,omitempty" validate:"omitempty,dive,oneof=0 1"`
	Emissions   map[string]float64 `yaml:"emissions,omitempty" validate:"dive,gte=0,lte=1"`
	Uniform     bool               `yaml:"uniform,omitempty"`
	Policy      string             `yaml:"policy,omitempty" validate:"omitempty,oneof=sum max"`
	Annotations map[string]string  `yaml:"annotations,omitempty"`
}

// TransitionDef is one edge.
type TransitionDef struct {
	From string  `yaml:"from" validate:"required"`
	To   string  `yaml:"to" validate:"required"`
	P    float64 `yaml:"p" validate:"gt=0,lte=1"`
}

// LoadDefinition decodes and validates a YAML model definition. Unknown
// fields are rejected.
func LoadDefinition(r io.Reader) (*Definition, error) {
	var d Definition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("markov.LoadDefinition: %w: %v", ErrDefinition, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	return &d, nil
}

// Validate checks struct-level constraints (tags) of d.
func (d *Definition) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("markov.Definition: %w: %v", ErrDefinition, err)
	}

	return nil
}

// Build turns the definition into a validated Model.
// Errors: ErrDefinition for unresolved names and malformed emissions,
// *ModelInconsistencyError from model validation.
func (d *Definition) Build() (*Model, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	alphas := make([]*alphabet.Alphabet, len(d.Alphabets))
	for i, ad := range d.Alphabets {
		a, err := ad.build()
		if err != nil {
			return nil, fmt.Errorf("markov.Definition: alphabet %d: %w", i, err)
		}
		alphas[i] = a
	}
	b, err := NewBuilder(alphas...)
	if err != nil {
		return nil, err
	}
	if d.Tolerance > 0 {
		if err = b.SetTolerance(d.Tolerance); err != nil {
			return nil, err
		}
	}

	for _, sd := range d.States {
		s, err := sd.build(alphas)
		if err != nil {
			return nil, fmt.Errorf("markov.Definition: state %q: %w", sd.Label, err)
		}
		if err = b.AddState(s); err != nil {
			return nil, err
		}
		for k, v := range sd.Annotations {
			_ = b.Annotate(s, k, v)
		}
	}

	lookup := func(label string) (*State, error) {
		switch label {
		case StartLabel:
			return b.Start(), nil
		case EndLabel:
			return b.End(), nil
		}
		s, ok := b.byLabel[label]
		if !ok {
			return nil, fmt.Errorf("markov.Definition: transition names %q: %w", label, ErrUnknownState)
		}
		return s, nil
	}
	for _, td := range d.Transitions {
		from, err := lookup(td.From)
		if err != nil {
			return nil, err
		}
		to, err := lookup(td.To)
		if err != nil {
			return nil, err
		}
		if err = b.SetTransition(from, to, td.P); err != nil {
			return nil, err
		}
	}

	return b.Build()
}

func (ad AlphabetDef) build() (*alphabet.Alphabet, error) {
	switch ad.Preset {
	case "dna":
		return alphabet.DNA(), nil
	case "protein":
		return alphabet.Protein(), nil
	}
	opts := make([]alphabet.Option, 0, len(ad.Ambiguity))
	for tok, members := range ad.Ambiguity {
		opts = append(opts, alphabet.WithAmbiguity([]rune(tok)[0], members))
	}

	return alphabet.New(ad.Name, ad.Tokens, opts...)
}

func (sd StateDef) build(alphas []*alphabet.Alphabet) (*State, error) {
	if sd.Silent {
		if len(sd.Emissions) > 0 || sd.Uniform {
			return nil, fmt.Errorf("silent state with emissions: %w", ErrDefinition)
		}
		return NewSilent(sd.Label), nil
	}
	adv := sd.Advance
	if len(adv) == 0 && len(alphas) == 1 {
		adv = []int{1}
	}
	ea, err := emissionAlphabet(alphas, adv)
	if err != nil {
		return nil, err
	}
	var opts []dist.Option
	if sd.Policy == "max" {
		opts = append(opts, dist.WithPolicy(dist.Max))
	}
	if sd.Uniform {
		d, err := dist.Uniform(ea, opts...)
		if err != nil {
			return nil, err
		}
		return NewEmitting(sd.Label, d, adv...), nil
	}

	var heads []*alphabet.Alphabet
	for h, a := range adv {
		if a > 0 {
			heads = append(heads, alphas[h])
		}
	}
	weights := make([]float64, ea.Size())
	for key, w := range sd.Emissions {
		sym, err := resolveKey(ea, heads, key)
		if err != nil {
			return nil, err
		}
		weights[sym.Index()] = w
	}
	d, err := dist.NewSimple(ea, weights, opts...)
	if err != nil {
		return nil, err
	}

	return NewEmitting(sd.Label, d, adv...), nil
}

// resolveKey maps an emission key (one token per advancing head) to a
// concrete symbol of ea.
func resolveKey(ea *alphabet.Alphabet, heads []*alphabet.Alphabet, key string) (*alphabet.Symbol, error) {
	runes := []rune(key)
	if len(runes) != len(heads) {
		return nil, fmt.Errorf("emission key %q needs %d tokens: %w", key, len(heads), ErrDefinition)
	}
	comps := make([]*alphabet.Symbol, len(runes))
	for i, r := range runes {
		s, err := heads[i].Symbol(r)
		if err != nil {
			return nil, err
		}
		comps[i] = s
	}
	sym := comps[0]
	if len(comps) > 1 {
		t, err := ea.Tuple(comps...)
		if err != nil {
			return nil, err
		}
		sym = t
	}
	if sym.IsAmbiguous() {
		return nil, fmt.Errorf("emission key %q is ambiguous (%s): %w", key, sym.Name(), ErrDefinition)
	}

	return sym, nil
}
