package bench

import (
	"fmt"
	"math"
	"os"
	goruntime "runtime"
	"strings"
	"sync"
	"time"

	"github.com/VividCortex/ewma"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.firedancer.io/quartz/pkg/scenario"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

var Cmd = cobra.Command{
	Use:   "bench [scenario.yaml]",
	Short: "Measure the cost of building and dispatching calls",
	Long: "Runs a scenario over and over and reports the time spent per call.\n" +
		"Without a scenario a single transfer is measured. The blackbox backend\n" +
		"measures call construction only.",
	Args: cobra.MaximumNArgs(1),
	Run:  run,
}

var (
	iterations int
	workers    int
	backend    string
)

func init() {
	Cmd.Flags().IntVarP(&iterations, "iterations", "n", 100_000, "Number of times to run the scenario")
	Cmd.Flags().IntVarP(&workers, "workers", "w", goruntime.GOMAXPROCS(0), "Number of concurrent workers")
	Cmd.Flags().StringVarP(&backend, "backend", "b", scenario.BackendBlackBox, "Backend to measure (mock, host, blackbox)")
}

const defaultScenario = `
program_id: Memo1UhkJRfHyvLMcVucJwxXeuD728EqVDDwQDxFMNo
accounts:
  - name: payer
    lamports: 1000000000000
    signer: true
    writable: true
  - name: dest
    writable: true
steps:
  - op: transfer
    from: payer
    to: dest
    lamports: 1
`

func loadScenario(args []string) (*scenario.Scenario, error) {
	if len(args) == 0 {
		return scenario.Load(strings.NewReader(defaultScenario))
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return scenario.Load(f)
}

// meter folds per-iteration timings from all workers.
type meter struct {
	mu    sync.Mutex
	avg   ewma.MovingAverage
	total time.Duration
	runs  int
	units uint64
}

func (m *meter) add(d time.Duration, calls int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.avg.Add(float64(d.Nanoseconds()) / float64(calls))
	m.total += d
	m.runs++
}

func run(c *cobra.Command, args []string) {
	s, err := loadScenario(args)
	if err != nil {
		klog.Exitf("failed to load scenario: %v", err)
	}
	s.Backend = backend
	if s.ComputeBudget == 0 && !s.Unmetered {
		// every iteration of a worker draws from the same meter
		s.ComputeBudget = math.MaxUint64
	}
	calls := len(s.Steps)
	if calls == 0 {
		klog.Exitf("scenario has no steps")
	}
	if iterations < 1 {
		klog.Exitf("--iterations must be positive")
	}
	if workers < 1 {
		workers = 1
	}

	ctx := c.Context()
	var progress *mpb.Progress
	var bar *mpb.Bar
	if isatty.IsTerminal(os.Stderr.Fd()) {
		progress = mpb.NewWithContext(ctx, mpb.WithOutput(os.Stderr), mpb.WithWidth(48))
		bar = progress.AddBar(int64(iterations),
			mpb.PrependDecorators(
				decor.Name(backend+" "),
				decor.CountersNoUnit("%d / %d"),
			),
			mpb.AppendDecorators(
				decor.EwmaETA(decor.ET_STYLE_GO, 30),
				decor.Name(" "),
				decor.Percentage(),
			),
		)
	}

	m := &meter{avg: ewma.NewMovingAverage()}
	group, ctx := errgroup.WithContext(ctx)
	start := time.Now()
	for w := 0; w < workers; w++ {
		n := iterations / workers
		if w < iterations%workers {
			n++
		}
		group.Go(func() error {
			// Views are not safe for concurrent use, so every worker
			// gets its own backend and accounts.
			b, err := s.NewBackend()
			if err != nil {
				return err
			}
			set, err := s.BuildAccounts(b.Register, nil)
			if err != nil {
				return err
			}
			rt := b.Runtime()
			for i := 0; i < n; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				t0 := time.Now()
				s.Run(rt, set)
				d := time.Since(t0)
				m.add(d, calls)
				if bar != nil {
					bar.EwmaIncrement(d)
				}
			}
			used, exceeded := b.ComputeUsage()
			if exceeded {
				klog.Warningf("worker ran past its compute budget of %d units", s.ComputeBudget)
			}
			m.mu.Lock()
			m.units += used
			m.mu.Unlock()
			return nil
		})
	}

	err = group.Wait()
	if progress != nil {
		if !bar.Completed() {
			bar.Abort(false)
		}
		progress.Wait()
	}
	if err != nil {
		klog.Exitf("bench failed: %v", err)
	}

	elapsed := time.Since(start)
	totalCalls := m.runs * calls
	fmt.Fprintf(c.OutOrStdout(), "%s: %d calls in %s across %d workers, %.1f ns/call (ewma %.1f ns/call), %.1f CU/call\n",
		backend, totalCalls, elapsed.Round(time.Millisecond), workers,
		float64(m.total.Nanoseconds())/float64(totalCalls), m.avg.Value(),
		float64(m.units)/float64(totalCalls))
}
