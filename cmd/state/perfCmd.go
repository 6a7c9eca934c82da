package state

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/dState/cmd/util"
	"github.com/ValentinKolb/dState/lib/demo"
	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Benchmarks serialization and deserialization of the sample states",
		Args:    cobra.NoArgs,
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfSkip    = make([]string, 0)
	perfMetrics = false
	perfCSV     = ""
)

func init() {
	key := "skip"
	perfCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated, e.g. page-encode,form-decode)"))
	key = "csv"
	perfCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
	key = "metrics"
	perfCmd.Flags().Bool(key, false, util.WrapString("Print the results in Prometheus text format"))
}

func processPerfConfig(cmd *cobra.Command, args []string) error {
	if err := setupCodec(cmd, args); err != nil {
		return err
	}

	perfSkip = strings.Split(viper.GetString("skip"), ",")
	perfCSV = viper.GetString("csv")
	perfMetrics = viper.GetBool("metrics")
	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {
	fmt.Println("Performance testing tool for the dState codec")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(stateConfig.String())

	fmt.Println("starting tests...")

	results := make(map[string]testing.BenchmarkResult)
	set := metrics.NewSet()

	for _, s := range demo.Samples() {
		if !s.Valid {
			continue
		}

		data, err := stateCodec.Serialize(s.New())
		if err != nil {
			return util.DescribeError(err)
		}
		set.GetOrCreateGauge(fmt.Sprintf(`dstate_sample_bytes{sample=%q}`, s.Name), func() float64 {
			return float64(len(data))
		})

		name := s.Name + "-encode"
		results[name] = bench(name, func(b *testing.B) {
			value := s.New()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := stateCodec.Serialize(value); err != nil {
					b.Fatalf("serialize %s: %v", s.Name, err)
				}
			}
		})
		record(set, s.Name, "encode", results[name])

		rootType, err := demo.RootType(s.Root)
		if err != nil {
			return err
		}
		name = s.Name + "-decode"
		results[name] = bench(name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				target := reflect.New(rootType).Interface()
				if err := stateCodec.Deserialize(data, target); err != nil {
					b.Fatalf("deserialize %s: %v", s.Name, err)
				}
			}
		})
		record(set, s.Name, "decode", results[name])
	}

	if perfMetrics {
		fmt.Println()
		set.WritePrometheus(os.Stdout)
	}

	if perfCSV != "" {
		if err := writeResultsToCSV(perfCSV, results); err != nil {
			return err
		}
		fmt.Printf("\nresults written to %s\n", perfCSV)
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// bench runs a benchmark unless it is skipped and prints its result
func bench(name string, f func(b *testing.B)) testing.BenchmarkResult {
	var result testing.BenchmarkResult
	if !shouldSkip(name) {
		result = testing.Benchmark(f)
	}
	printResult(name, result)
	return result
}

// record adds a benchmark result to the metrics set
func record(set *metrics.Set, sample, op string, result testing.BenchmarkResult) {
	if result.N == 0 {
		return
	}
	labels := fmt.Sprintf(`{sample=%q,op=%q}`, sample, op)
	set.GetOrCreateCounter("dstate_bench_iterations_total" + labels).Add(result.N)
	nsPerOp, allocs := float64(result.NsPerOp()), float64(result.AllocsPerOp())
	set.GetOrCreateGauge("dstate_bench_ns_per_op"+labels, func() float64 { return nsPerOp })
	set.GetOrCreateGauge("dstate_bench_allocs_per_op"+labels, func() float64 { return allocs })
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.N == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1)
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\t%d allocs/op\n",
		test, nsPerOp, time.Duration(nsPerOp), opsPerSec, result.AllocsPerOp())
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "AllocsPerOp", "BytesPerOp", "Skipped",
		"Modules", "Indent", "Backfill",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	tests := make([]string, 0, len(results))
	for test := range results {
		tests = append(tests, test)
	}
	sort.Strings(tests)

	for _, test := range tests {
		result := results[test]
		skipped := result.N == 0
		nsPerOp, opsPerSec := 0.0, 0.0
		if !skipped {
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			strconv.FormatInt(result.AllocsPerOp(), 10),
			strconv.FormatInt(result.AllocedBytesPerOp(), 10),
			strconv.FormatBool(skipped),
			strings.Join(stateConfig.Modules, ";"),
			strconv.Quote(stateConfig.Indent),
			strconv.FormatBool(stateConfig.Backfill),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %w", test, err)
		}
	}

	return nil
}
