package sweep

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/fpgasweep/internal/config"
	o "github.com/specialistvlad/fpgasweep/internal/options"
	"github.com/specialistvlad/fpgasweep/internal/patcher"
	"github.com/specialistvlad/fpgasweep/internal/runner"
	"github.com/specialistvlad/fpgasweep/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingExecutor records invocations and fails those whose command text
// contains failOn.
type recordingExecutor struct {
	r      runner.Runner
	calls  []runner.Invocation
	failOn string
	err    error
}

func (e *recordingExecutor) Run(_ context.Context, inv runner.Invocation) (*runner.Result, error) {
	e.calls = append(e.calls, inv)
	if e.err != nil {
		return nil, e.err
	}
	cmd := e.r.Command(inv)
	rc := 0
	if e.failOn != "" && strings.Contains(cmd, e.failOn) {
		rc = 2
	}
	return &runner.Result{Command: cmd, ReturnCode: rc, Elapsed: time.Second, Failed: rc != 0}, nil
}

type recordingPatcher struct {
	widths []int64
	err    error
}

func (p *recordingPatcher) SetDatastreamWidth(_ context.Context, width int64) error {
	p.widths = append(p.widths, width)
	return p.err
}

func TestRunPoint_BuildMode(t *testing.T) {
	// --- Arrange ---
	ctx, _ := testutil.NewLogContext(t)
	exec, patch := &recordingExecutor{}, &recordingPatcher{}
	d := &Driver{Module: "full_memenc", Mode: BuildMode, Patcher: patch, Executor: exec}
	p := Point{
		Label:  "journal.meas",
		Config: o.MustSet(o.I(o.CryptoConfig, 10), o.I(o.FPGA0FreqMHz, 50), o.I(o.DatastreamDataWidth, 128)),
		Tools:  o.MustSet(o.S(o.SynthStrategy, "Flow_PerfThresholdCarry")),
	}

	// --- Act ---
	res, err := d.RunPoint(ctx, p)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []int64{128}, patch.widths)

	require.Len(t, exec.calls, 1)
	inv := exec.calls[0]
	assert.Equal(t, "full_memenc", inv.Module)
	assert.Equal(t, []string{"implcb", "clean"}, inv.Targets)
	assert.Equal(t, "_CONFIG10_50MHZ_SFPTC_W128", inv.BinaryRootDir)
	assert.Equal(t, []string{
		"full_memencFLOW_VIVADO_BD_GENERIC_CRYPTO_CONFIG_AT_memsec_0=10",
		"full_memencFLOW_VIVADO_BD_GENERIC_PCW_FPGA0_PERIPHERAL_FREQMHZ_AT_processing_system7_0=50",
		`FLOW_VIVADO_SYNTH_STRATEGY="Flow_PerfThresholdCarry"`,
	}, inv.Env)

	assert.Equal(t, "_CONFIG10_50MHZ_SFPTC_W128", res.Name)
	assert.True(t, res.HasName)
	assert.True(t, res.Options.Has(o.DatastreamDataWidth), "the result keeps the full option set")
	assert.False(t, res.Failed)
	assert.Equal(t, "journal.meas", res.Label)
}

func TestRunPoint_DefaultWidthAndNoName(t *testing.T) {
	ctx, _ := testutil.NewLogContext(t)
	exec, patch := &recordingExecutor{}, &recordingPatcher{}
	d := &Driver{Module: "memsec", Mode: TestMode, Patcher: patch, Executor: exec}

	res, err := d.RunPoint(ctx, Point{Label: "prince", Tools: o.MustSet(o.S(o.SimTop, "tb_prince"))})

	require.NoError(t, err)
	assert.Equal(t, []int64{patcher.DefaultDatastreamWidth}, patch.widths)
	assert.False(t, res.HasName)
	assert.Empty(t, exec.calls[0].BinaryRootDir)
	assert.Equal(t, `FLOW_SIM_TOP="tb_prince" FLOW_MODULE="memsec" make hdlsb clean`, res.Command)
}

func TestRunPoint_ExpectFailure(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		buildFails  bool
		wantFailure bool
	}{
		{"failing build counts as pass", true, false},
		{"passing build counts as failure", false, true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctx, _ := testutil.NewLogContext(t)
			exec := &recordingExecutor{}
			if tc.buildFails {
				exec.failOn = "tb_aes"
			}
			d := &Driver{Module: "memsec", Mode: TestMode, Patcher: &recordingPatcher{}, Executor: exec}

			res, err := d.RunPoint(ctx, Point{Label: "aes", Tools: o.MustSet(o.S(o.SimTop, "tb_aes")), ExpectFailure: true})

			require.NoError(t, err)
			assert.True(t, res.ExpectFailure)
			assert.Equal(t, tc.wantFailure, res.Failed)
			assert.Equal(t, tc.buildFails, res.ReturnCode != 0)
		})
	}
}

func TestRun_ContinuesPastFailedBuilds(t *testing.T) {
	ctx, _ := testutil.NewLogContext(t)
	exec := &recordingExecutor{failOn: "CRYPTO_CONFIG=\"1\""}
	d := &Driver{Module: "memsec", Mode: TestMode, Patcher: &recordingPatcher{}, Executor: exec}
	points := []Point{
		{Label: "one", Config: o.MustSet(o.I(o.CryptoConfig, 1))},
		{Label: "two", Config: o.MustSet(o.I(o.CryptoConfig, 2))},
	}

	results, err := d.Run(ctx, points)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Failed)
	assert.False(t, results[1].Failed)
}

func TestRun_StopsOnErrors(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	points := []Point{{Label: "a"}, {Label: "b"}}

	testCases := []struct {
		name    string
		patch   *recordingPatcher
		exec    *recordingExecutor
		cancel  bool
		wantErr error
	}{
		{"patch error", &recordingPatcher{err: os.ErrNotExist}, &recordingExecutor{}, false, os.ErrNotExist},
		{"executor error", &recordingPatcher{}, &recordingExecutor{err: errBoom}, false, errBoom},
		{"cancelled", &recordingPatcher{}, &recordingExecutor{}, true, context.Canceled},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctx, _ := testutil.NewLogContext(t)
			if tc.cancel {
				var cancel context.CancelFunc
				ctx, cancel = context.WithCancel(ctx)
				cancel()
			}
			d := &Driver{Module: "memsec", Mode: TestMode, Patcher: tc.patch, Executor: tc.exec}

			results, err := d.Run(ctx, points)

			require.ErrorIs(t, err, tc.wantErr)
			assert.Empty(t, results)
			assert.LessOrEqual(t, len(tc.exec.calls), 1)
		})
	}
}

func TestRunPreludes(t *testing.T) {
	ctx, logs := testutil.NewLogContext(t)
	exec := &recordingExecutor{failOn: "vivado_package"}
	d := &Driver{Module: "full_memenc", Mode: BuildMode, Patcher: &recordingPatcher{}, Executor: exec}

	err := d.RunPreludes(ctx, []*config.Prelude{{Module: "memsec", Targets: []string{"info", "vivado_package", "distclean"}}})

	require.NoError(t, err)
	require.Len(t, exec.calls, 1)
	assert.Equal(t, "memsec", exec.calls[0].Module)
	assert.Empty(t, exec.calls[0].BinaryRootDir)
	assert.Contains(t, logs.String(), "Prelude failed")
}
