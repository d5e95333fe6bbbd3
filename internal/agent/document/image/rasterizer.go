package image

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
)

// Runner lets tests stub external commands.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct {
	logger logger.Logger
}

// NewExecRunner runs commands with os/exec and logs their outcome.
func NewExecRunner(log logger.Logger) Runner {
	return execRunner{logger: log}
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	fields := []logger.Field{
		logger.String("cmd", name),
		logger.String("args", strings.Join(args, " ")),
		logger.Duration("duration", time.Since(start)),
	}
	if err != nil {
		r.logger.Error("exec failed", append(fields,
			logger.Error(err),
			logger.String("stderr", truncate(errb.String(), 8<<10)),
		)...)
	} else {
		r.logger.Debug("exec ok", append(fields, logger.Int("stdout_bytes", out.Len()))...)
	}

	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}

// PdftoppmRasterizer renders the first pages of a PDF to PNG with poppler's pdftoppm.
type PdftoppmRasterizer struct {
	binary string
	dpi    int
	runner Runner
	logger logger.Logger
}

func NewPdftoppmRasterizer(binary string, dpi int, runner Runner, log logger.Logger) *PdftoppmRasterizer {
	if binary == "" {
		binary = "pdftoppm"
	}
	if dpi <= 0 {
		dpi = 300
	}
	return &PdftoppmRasterizer{binary: binary, dpi: dpi, runner: runner, logger: log}
}

// Rasterize returns one PNG per rendered page, in page order, at most maxPages.
func (r *PdftoppmRasterizer) Rasterize(ctx context.Context, pdf []byte, maxPages int) ([][]byte, error) {
	if maxPages <= 0 {
		return nil, fmt.Errorf("invalid page limit %d", maxPages)
	}

	tmpDir, err := os.MkdirTemp("", "legaldoc-pp-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			r.logger.Warn("failed to remove temp dir", logger.String("dir", tmpDir), logger.Error(err))
		}
	}()

	input := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(input, pdf, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}

	prefix := filepath.Join(tmpDir, "page")
	args := []string{
		"-r", strconv.Itoa(r.dpi),
		"-png",
		"-f", "1",
		"-l", strconv.Itoa(maxPages),
		input, prefix,
	}
	if _, errb, err := r.runner.Run(ctx, r.binary, args...); err != nil {
		return nil, fmt.Errorf("failed to rasterize pdf: %w (%s)", err, strings.TrimSpace(string(errb)))
	}

	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to list rendered pages: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no pages rendered")
	}
	sortByPage(matches, prefix)
	if len(matches) > maxPages {
		matches = matches[:maxPages]
	}

	pages := make([][]byte, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read rendered page: %w", err)
		}
		pages = append(pages, data)
	}
	return pages, nil
}

// sortByPage orders prefix-N.png numerically; pdftoppm zero-pads N only for longer documents.
func sortByPage(paths []string, prefix string) {
	num := func(p string) int {
		s := strings.TrimSuffix(strings.TrimPrefix(p, prefix+"-"), ".png")
		n, err := strconv.Atoi(s)
		if err != nil {
			return 1 << 30
		}
		return n
	}
	sort.SliceStable(paths, func(i, j int) bool {
		return num(paths[i]) < num(paths[j])
	})
}
