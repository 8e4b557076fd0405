// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/hmmdp/alphabet"
	"github.com/katalvlaran/hmmdp/dp"
	"github.com/katalvlaran/hmmdp/markov"
)

var errUsage = errors.New("hmmdp: usage")

// flags shared by every subcommand.
type globalFlags struct {
	modelPath   string
	optionsPath string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "hmmdp",
		Short:         "Dynamic-programming scoring for hidden Markov models",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&g.modelPath, "model", "m", "", "YAML model definition (required)")
	root.PersistentFlags().StringVar(&g.optionsPath, "options", "", "YAML engine options")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "debug logging on stderr")
	_ = root.MarkPersistentFlagRequired("model")

	root.AddCommand(newScoreCmd(g), newViterbiCmd(g), newGenerateCmd(g))

	return root
}

func (g *globalFlags) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if g.verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})).With("component", "hmmdp")
}

func (g *globalFlags) loadModel() (*markov.Model, error) {
	f, err := os.Open(g.modelPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	def, err := markov.LoadDefinition(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.modelPath, err)
	}

	return def.Build()
}

func (g *globalFlags) loadOptions() (dp.Options, error) {
	if g.optionsPath == "" {
		return dp.DefaultOptions(), nil
	}
	f, err := os.Open(g.optionsPath)
	if err != nil {
		return dp.Options{}, err
	}
	defer f.Close()

	return dp.LoadOptions(f)
}

// engine loads the model and options and builds an engine logging to stderr.
func (g *globalFlags) engine(cmd *cobra.Command) (*dp.Engine, error) {
	model, err := g.loadModel()
	if err != nil {
		return nil, err
	}
	opts, err := g.loadOptions()
	if err != nil {
		return nil, err
	}

	return dp.New(model, dp.WithOptions(opts), dp.WithLogger(g.logger(cmd.ErrOrStderr())))
}

// parseSequences tokenizes one argument per model head.
func parseSequences(model *markov.Model, args []string) ([]*alphabet.SymbolList, error) {
	if len(args) != model.Heads() {
		return nil, fmt.Errorf("%w: model has %d head(s), got %d sequence(s)", errUsage, model.Heads(), len(args))
	}
	seqs := make([]*alphabet.SymbolList, len(args))
	for h, text := range args {
		l, err := alphabet.Parse(model.Alphabet(h), strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("sequence %d: %w", h+1, err)
		}
		seqs[h] = l
	}

	return seqs, nil
}

func newScoreCmd(g *globalFlags) *cobra.Command {
	var algName string
	cmd := &cobra.Command{
		Use:   "score SEQ [SEQ]",
		Short: "Print the log-probability of the sequences",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			alg, err := dp.ParseAlgorithm(algName)
			if err != nil {
				return err
			}
			e, err := g.engine(cmd)
			if err != nil {
				return err
			}
			seqs, err := parseSequences(e.Model(), args)
			if err != nil {
				return err
			}
			score, err := e.Score(cmd.Context(), alg, seqs...)
			if err != nil && !errors.Is(err, dp.ErrNoPath) {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.6f nats\t%.6f bits\n", alg, score, markov.Bits(score))

			return nil
		},
	}
	cmd.Flags().StringVarP(&algName, "algorithm", "a", dp.Forward.String(), "forward, backward or viterbi")

	return cmd
}

func newViterbiCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "viterbi SEQ [SEQ]",
		Short: "Print the most probable state path",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.engine(cmd)
			if err != nil {
				return err
			}
			seqs, err := parseSequences(e.Model(), args)
			if err != nil {
				return err
			}
			path, err := e.Viterbi(cmd.Context(), seqs...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "score\t%.6f nats\t%.6f bits\n", path.Score, markov.Bits(path.Score))
			fmt.Fprintf(out, "path\t%s\n", path)

			return nil
		},
	}
}

func newGenerateCmd(g *globalFlags) *cobra.Command {
	var (
		length int
		seed   int64
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Sample a sequence from a single-head model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			model, err := g.loadModel()
			if err != nil {
				return err
			}
			s, err := model.Generate(rand.New(rand.NewSource(seed)), length)
			if err != nil {
				return err
			}
			labels := make([]string, len(s.States))
			for i, st := range s.States {
				labels[i] = st.Label()
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "symbols\t%s\n", s.Symbols)
			fmt.Fprintf(out, "states\t%s\n", strings.Join(labels, " "))
			fmt.Fprintf(out, "score\t%.6f nats\n", s.Score)

			return nil
		},
	}
	cmd.Flags().IntVarP(&length, "length", "n", -1, "number of symbols; negative runs until end")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")

	return cmd
}
