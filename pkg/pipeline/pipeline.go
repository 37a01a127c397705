// Package pipeline runs the full image analysis: decoding, scan line
// extraction, peak calling, pixel classification and, for pairs of images,
// sequence comparison.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/grailbio/base/log"
	"gonum.org/v1/gonum/stat"

	"gelseq/internal/models"
	"gelseq/pkg/classify"
	"gelseq/pkg/config"
	"gelseq/pkg/imaging"
	"gelseq/pkg/matcher"
	"gelseq/pkg/signal"
	"gelseq/pkg/visualization"
)

// imageExtensions are the file types picked up by ListImages.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// Params holds the processing configuration.
type Params struct {
	// Config supplies peak parameters, classifier thresholds and the
	// number of parallel workers
	Config *config.Config

	// RenderChromatogram attaches a PNG chromatogram to every report
	RenderChromatogram bool

	// ShowProgress draws a progress bar on stderr during ProcessFiles
	ShowProgress bool
}

// Input is one named image for ComparePair.
type Input struct {
	Name string
	Data []byte
}

// PairResult is the outcome of comparing two images.
type PairResult struct {
	First      *models.ImageReport `json:"image1"`
	Second     *models.ImageReport `json:"image2"`
	Comparison models.Comparison   `json:"comparison"`
}

// Processor runs the pipeline. It holds no per-image state and may be
// shared between goroutines.
type Processor struct {
	params *Params
	peaks  models.PeakParams
	th     models.Thresholds
}

// NewProcessor creates a processor. A nil Config means defaults.
func NewProcessor(params *Params) *Processor {
	if params == nil {
		params = &Params{}
	}
	if params.Config == nil {
		params.Config = config.DefaultConfig()
	}
	return &Processor{
		params: params,
		peaks:  params.Config.PeakParams(),
		th:     params.Config.Thresholds(),
	}
}

// ProcessImage analyses one encoded image. A decode failure is returned as
// an *imaging.DecodeError naming filename.
func (p *Processor) ProcessImage(data []byte, filename string) (*models.ImageReport, error) {
	grid, err := imaging.Decode(data)
	if err != nil {
		var de *imaging.DecodeError
		if errors.As(err, &de) {
			de.Name = filename
		}
		return nil, err
	}
	log.Debug.Printf("%s: decoded %dx%d pixels", filename, grid.Width, grid.Height)

	traces := signal.Extract(grid)
	peaks := signal.DetectPeaks(&traces, p.peaks)
	peakSeq := signal.AssignSequence(peaks, traces)
	log.Debug.Printf("%s: %d peaks on row %d", filename, len(peaks), signal.ScanRow(grid))

	m := classify.Classify(grid, p.th)

	report := &models.ImageReport{
		Filename:          filename,
		PeakSequence:      peakSeq,
		IntensitySequence: classify.Sequence(m),
		Counts:            classify.Count(m),
		Channels:          summarize(traces),
		Traces:            traces,
		Map:               m,
	}

	if p.params.RenderChromatogram {
		chart, err := visualization.Chromatogram(traces)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		report.Chromatogram = chart
	}

	return report, nil
}

// ProcessFile reads and analyses the image at path.
func (p *Processor) ProcessFile(path string) (*models.ImageReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	return p.ProcessImage(data, filepath.Base(path))
}

// ComparePair analyses both images concurrently and compares their peak
// sequences, with the first image as the subject.
func (p *Processor) ComparePair(a, b Input) (*PairResult, error) {
	type processingResult struct {
		idx    int
		report *models.ImageReport
		err    error
	}
	resultChan := make(chan processingResult, 2)

	for i, in := range []Input{a, b} {
		go func(idx int, in Input) {
			report, err := p.ProcessImage(in.Data, in.Name)
			resultChan <- processingResult{idx: idx, report: report, err: err}
		}(i, in)
	}

	var reports [2]*models.ImageReport
	var errs [2]error
	for i := 0; i < 2; i++ {
		res := <-resultChan
		reports[res.idx] = res.report
		errs[res.idx] = res.err
	}
	// Report the first image's failure when both fail
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	cmp := matcher.Compare(reports[0].PeakSequence, reports[1].PeakSequence)
	log.Debug.Printf("compared %s (%d bases) with %s (%d bases)",
		a.Name, len(reports[0].PeakSequence), b.Name, len(reports[1].PeakSequence))

	return &PairResult{First: reports[0], Second: reports[1], Comparison: cmp}, nil
}

// ProcessFiles analyses every path with Processing.NumCores workers. Reports
// are returned in input order. The first failure cancels the remaining work
// and is returned.
func (p *Processor) ProcessFiles(ctx context.Context, paths []string) ([]*models.ImageReport, error) {
	results := make([]*models.ImageReport, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	numWorkers := p.params.Config.Processing.NumCores
	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > len(paths) {
		numWorkers = len(paths)
	}

	parent := ctx
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var bar *pb.ProgressBar
	if p.params.ShowProgress {
		bar = pb.Full.Start(len(paths))
		defer bar.Finish()
	}

	jobs := make(chan int)
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				report, err := p.ProcessFile(paths[i])
				if err != nil {
					log.Error.Printf("%s: %v", paths[i], err)
					errOnce.Do(func() {
						firstErr = err
						cancel()
					})
					continue
				}
				results[i] = report
				if bar != nil {
					bar.Increment()
				}
			}
		}()
	}

feed:
	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	for _, r := range results {
		if r == nil {
			// Only a cancelled parent leaves paths unprocessed without an error
			return nil, parent.Err()
		}
	}

	log.Printf("processed %d images", len(paths))
	return results, nil
}

// summarize computes the per-channel statistics of the scan line.
func summarize(traces models.Traces) []models.ChannelSummary {
	summaries := make([]models.ChannelSummary, 0, models.NumChannels)
	for _, tr := range traces {
		s := models.ChannelSummary{
			Channel:   tr.Channel.Nucleotide().String(),
			PeakCount: len(tr.Peaks),
		}
		if len(tr.Signal) > 0 {
			s.Mean, s.StdDev = stat.MeanStdDev(tr.Signal, nil)
			if len(tr.Signal) < 2 {
				s.StdDev = 0
			}
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// ListImages returns the image files in dir, ordered by the number embedded
// in their names and then by name.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var imageFiles []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			imageFiles = append(imageFiles, e.Name())
		}
	}

	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("no images found in %s", dir)
	}

	sort.Slice(imageFiles, func(i, j int) bool {
		numI := extractNumber(imageFiles[i])
		numJ := extractNumber(imageFiles[j])
		if numI != numJ {
			return numI < numJ
		}
		return imageFiles[i] < imageFiles[j]
	})

	paths := make([]string, len(imageFiles))
	for i, name := range imageFiles {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}

// extractNumber extracts the numeric part from a filename
func extractNumber(filename string) int {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	var digits strings.Builder
	for _, c := range base {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}

	if digits.Len() > 0 {
		num, err := strconv.Atoi(digits.String())
		if err == nil {
			return num
		}
	}
	return 0
}
