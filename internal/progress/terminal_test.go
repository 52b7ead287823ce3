package progress

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/evolution"
)

func TestTerminalTTY(t *testing.T) {
	out := &bytes.Buffer{}
	term := newTerminal(out, true, 2, 10, nil)

	first := term.Reporter(0)
	second := term.Reporter(1)

	first.Report(evolution.Statistics{Generation: 0, Generations: 10, Best: 50})
	assert.Equal(t, "\r进度   5.0% (1/20 代)  当前最优 50", out.String())

	out.Reset()
	second.Report(evolution.Statistics{Generation: 9, Generations: 10, Best: 40})
	assert.Equal(t, "\r进度  55.0% (11/20 代)  当前最优 40", out.String())

	out.Reset()
	term.Finish()
	term.Finish()
	assert.Equal(t, "\n", out.String())
}

func TestTerminalLog(t *testing.T) {
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}
	term := newTerminal(out, false, 1, 5, slog.New(slog.NewTextHandler(logs, nil)))

	r := term.Reporter(0)
	for g := 0; g < 12; g++ {
		r.Report(evolution.Statistics{Generation: g, Generations: 12, Best: 10})
	}
	term.Finish()

	assert.Empty(t, out.String())
	// 第 0、5、10 代以及最后一代
	assert.Equal(t, 4, strings.Count(logs.String(), "进化进度"))
}
