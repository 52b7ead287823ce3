package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/config"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/evolution"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/progress"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/report"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/runner"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/tsplib"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/utils"
)

type options struct {
	file           string
	crossover      string
	mutation       string
	populationSize int
	tournamentSize int
	numberRuns     int
	generations    int
	workers        int
	seed           uint64
	interval       int
	statistic      string
	mode           string
	output         string
}

// runRecord 是 --output 输出的单次运行记录
type runRecord struct {
	Index    int               `json:"index"`
	ID       string            `json:"id"`
	Error    string            `json:"error,omitempty"`
	Duration float64           `json:"duration"`
	Result   *evolution.Result `json:"result,omitempty"`
}

type dump struct {
	Instance string         `json:"instance"`
	Cities   int            `json:"cities"`
	Runs     []runRecord    `json:"runs"`
	Report   *report.Report `json:"report,omitempty"`
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "evolve",
		Short:         "用稳态遗传算法求解 TSPLIB 旅行商问题实例",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return applyDefaults(cmd, opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			terminal := progress.NewTerminal(os.Stderr, opts.numberRuns, opts.interval, logger)

			err := runEvolve(cmd, opts, terminal, logger)
			if err != nil {
				logger.Error("运行失败", "error", err)
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "TSPLIB XML 实例文件")
	flags.StringVarP(&opts.crossover, "crossover", "c", "", "交叉算子 (fix, ordered)")
	flags.StringVarP(&opts.mutation, "mutation", "m", "", "变异算子 (single, multiple, inversion)")
	flags.IntVarP(&opts.populationSize, "population", "p", 0, "种群大小")
	flags.IntVarP(&opts.tournamentSize, "tournament", "t", 0, "锦标赛大小")
	flags.IntVarP(&opts.numberRuns, "runs", "n", 0, "独立运行次数")
	flags.IntVarP(&opts.generations, "generations", "g", 0, "每次运行的代数")
	flags.IntVar(&opts.workers, "workers", 0, "同时运行的数量，0 表示 CPU 核数")
	flags.Uint64Var(&opts.seed, "seed", 0, "随机种子，0 表示不固定")
	flags.IntVar(&opts.interval, "interval", 100, "进度刷新间隔（代）")
	flags.StringVar(&opts.statistic, "statistic", "best", "汇总使用的统计量 (best, worst, average)")
	flags.StringVar(&opts.mode, "mode", "range", "汇总方式 (average, best, worst, range, all)")
	flags.StringVarP(&opts.output, "output", "o", "", "把所有运行的结果以 JSON 写入该文件")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// applyDefaults 用 EVOLUTION_ 环境变量补全命令行中没有给出的参数
func applyDefaults(cmd *cobra.Command, opts *options) error {
	defaults, err := config.LoadEvolutionConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("crossover") {
		opts.crossover = defaults.Crossover
	}
	if !flags.Changed("mutation") {
		opts.mutation = defaults.Mutation
	}
	if !flags.Changed("population") {
		opts.populationSize = defaults.PopulationSize
	}
	if !flags.Changed("tournament") {
		opts.tournamentSize = defaults.TournamentSize
	}
	if !flags.Changed("runs") {
		opts.numberRuns = defaults.NumberRuns
	}
	if !flags.Changed("generations") {
		opts.generations = defaults.Generations
	}
	if opts.interval < 1 {
		opts.interval = 1
	}

	return utils.ValidateNumberRuns(opts.numberRuns, defaults.MaxNumberRuns)
}

// progressSink 接收所有运行的进度，Finish 在全部运行结束后调用
type progressSink interface {
	Reporter(index int) evolution.Reporter
	Finish()
}

func runEvolve(cmd *cobra.Command, opts *options, sink progressSink, logger *slog.Logger) error {
	statistic, err := report.ParseStatistic(opts.statistic)
	if err != nil {
		return err
	}
	mode, err := report.ParseMode(opts.mode)
	if err != nil {
		return err
	}

	instance, err := tsplib.ParseFile(opts.file)
	if err != nil {
		return err
	}
	g, err := instance.Graph()
	if err != nil {
		return err
	}

	params, err := utils.ParseParameters(opts.crossover, opts.mutation, opts.populationSize, opts.tournamentSize, opts.generations, g.Size())
	if err != nil {
		return err
	}

	logger.Info("开始求解", "instance", instance.Name, "cities", g.Size(), "runs", opts.numberRuns, "parameters", params)

	r := &runner.Runner{
		Workers: opts.workers,
		Seed:    opts.seed,
		Logger:  logger,
	}
	if sink != nil {
		r.NewReporter = func(index int, _ string) evolution.Reporter {
			return sink.Reporter(index)
		}
	}

	outcomes, err := r.Run(cmd.Context(), g, params, opts.numberRuns)
	if sink != nil {
		sink.Finish()
	}
	if err != nil {
		return err
	}

	result := summarize(instance.Name, g.Size(), outcomes)
	if histories := successfulHistories(outcomes); len(histories) > 0 {
		result.Report, err = report.Build(histories, statistic, mode)
		if err != nil {
			return err
		}
	}

	if err := printSummary(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	if opts.output != "" {
		if err := writeDump(opts.output, result); err != nil {
			return err
		}
		logger.Info("结果已写入文件", "file", opts.output)
	}

	if result.Report == nil {
		return fmt.Errorf("全部 %d 次运行均失败", len(outcomes))
	}
	return nil
}

func summarize(name string, cities int, outcomes []runner.Outcome) *dump {
	d := &dump{
		Instance: name,
		Cities:   cities,
		Runs:     make([]runRecord, len(outcomes)),
	}
	for i, outcome := range outcomes {
		record := runRecord{
			Index:    outcome.Index,
			ID:       outcome.ID,
			Duration: outcome.Duration.Seconds(),
			Result:   outcome.Result,
		}
		if outcome.Err != nil {
			record.Error = outcome.Err.Error()
		}
		d.Runs[i] = record
	}
	return d
}

func successfulHistories(outcomes []runner.Outcome) []report.History {
	histories := make([]report.History, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.Err == nil {
			histories = append(histories, report.FromResult(outcome.Index, outcome.Result))
		}
	}
	return histories
}

func last(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}

func printSummary(out io.Writer, d *dump) error {
	fmt.Fprintf(out, "实例 %s，共 %d 个城市\n\n", d.Instance, d.Cities)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "运行\tID\t最优\t最差\t平均\t耗时")
	for _, run := range d.Runs {
		if run.Error != "" {
			fmt.Fprintf(w, "%d\t%s\t失败: %s\t\t\t%.2fs\n", run.Index+1, run.ID, run.Error, run.Duration)
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%.0f\t%.0f\t%.2f\t%.2fs\n",
			run.Index+1, run.ID,
			last(run.Result.BestHistory), last(run.Result.WorstHistory), last(run.Result.AverageHistory),
			run.Duration)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if d.Report == nil {
		return nil
	}

	fmt.Fprintf(out, "\n汇总 (%s, %s)\n", d.Report.Statistic, d.Report.Mode)
	for _, series := range d.Report.Series {
		fmt.Fprintf(out, "  %-10s 最终代价 %.2f\n", series.Name, series.Final)
	}
	return nil
}

func writeDump(path string, d *dump) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(d); err != nil {
		return err
	}
	return file.Close()
}
