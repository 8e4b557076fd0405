// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hmmdp/alphabet"
	"github.com/katalvlaran/hmmdp/dp"
)

const loopYAML = `
alphabets:
  - {name: x, tokens: xy}
states:
  - {label: A, advance: [1], emissions: {x: 1}}
transitions:
  - {from: start, to: A, p: 1}
  - {from: A, to: A, p: 0.5}
  - {from: A, to: end, p: 0.5}
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))

	return p
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()

	return out.String(), err
}

func TestScoreCommand(t *testing.T) {
	model := writeFile(t, "loop.yaml", loopYAML)

	out, err := execute(t, "score", "--model", model, "xxx")
	require.NoError(t, err)
	assert.Equal(t, "forward\t-2.079442 nats\t-3.000000 bits\n", out)

	out, err = execute(t, "score", "-m", model, "-a", "VITERBI", "xxx")
	require.NoError(t, err)
	assert.Equal(t, "viterbi\t-2.079442 nats\t-3.000000 bits\n", out)

	// An impossible sequence is reported, not rejected.
	out, err = execute(t, "score", "-m", model, "xyx")
	require.NoError(t, err)
	assert.Contains(t, out, "-Inf")
}

func TestViterbiCommand(t *testing.T) {
	model := writeFile(t, "loop.yaml", loopYAML)
	opts := writeFile(t, "opts.yaml", "memory_mode: full\nworkers: 2\n")

	out, err := execute(t, "viterbi", "-m", model, "--options", opts, "xxx")
	require.NoError(t, err)
	assert.Equal(t, "score\t-2.079442 nats\t-3.000000 bits\npath\tstart → A → A → A → end\n", out)

	_, err = execute(t, "viterbi", "-m", model, "xyx")
	assert.ErrorIs(t, err, dp.ErrNoPath)
}

func TestGenerateCommand(t *testing.T) {
	model := writeFile(t, "loop.yaml", loopYAML)

	out, err := execute(t, "generate", "-m", model, "-n", "3", "--seed", "42")
	require.NoError(t, err)
	assert.Equal(t, "symbols\txxx\nstates\tA A A\nscore\t-1.386294 nats\n", out)
}

func TestCommandErrors(t *testing.T) {
	model := writeFile(t, "loop.yaml", loopYAML)

	_, err := execute(t, "score", "xxx")
	assert.Error(t, err, "missing --model")

	_, err = execute(t, "score", "-m", filepath.Join(t.TempDir(), "absent.yaml"), "xxx")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = execute(t, "score", "-m", model, "-a", "baum-welch", "xxx")
	assert.ErrorIs(t, err, dp.ErrAlgorithm)

	_, err = execute(t, "score", "-m", model, "xxx", "xx")
	assert.ErrorIs(t, err, errUsage)

	_, err = execute(t, "score", "-m", model, "xzx")
	var ill *alphabet.IllegalSymbolError
	require.ErrorAs(t, err, &ill)
	assert.Equal(t, 2, ill.Position)

	bad := writeFile(t, "opts.yaml", "workers: -1\n")
	_, err = execute(t, "score", "-m", model, "--options", bad, "xxx")
	assert.ErrorIs(t, err, dp.ErrOptions)
}
