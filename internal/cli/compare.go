package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/spf13/cobra"

	"gelseq/internal/models"
	"gelseq/pkg/matcher"
	"gelseq/pkg/pipeline"
	"gelseq/pkg/report"
)

const defaultUser = "local"

// comparisonOutput is the JSON printed by compare and match.
type comparisonOutput struct {
	Image1    string `json:"image1,omitempty"`
	Image2    string `json:"image2,omitempty"`
	Sequence1 string `json:"dnaSequence1"`
	Sequence2 string `json:"dnaSequence2"`
	models.Comparison
	ReportID int `json:"reportId,omitempty"`
}

func (a *app) newCompareCmd() *cobra.Command {
	var user string
	var save bool

	cmd := &cobra.Command{
		Use:   "compare IMAGE1 IMAGE2",
		Short: "Compare the peak sequences of two images",
		Long: `Processes both images concurrently and compares their peak sequences.
The first image is the subject searched, the second the query searched for.

With --save the comparison is stored as a report for --user.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := make([]pipeline.Input, 2)
			for i, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read image %s: %w", path, err)
				}
				inputs[i] = pipeline.Input{Name: filepath.Base(path), Data: data}
			}

			p := pipeline.NewProcessor(&pipeline.Params{Config: a.cfg})
			res, err := p.ComparePair(inputs[0], inputs[1])
			if err != nil {
				return err
			}

			out := comparisonOutput{
				Image1:     res.First.Filename,
				Image2:     res.Second.Filename,
				Sequence1:  res.First.PeakSequence,
				Sequence2:  res.Second.PeakSequence,
				Comparison: res.Comparison,
			}

			if save {
				store, err := report.Open(a.cfg.Storage.ReportDir)
				if err != nil {
					return err
				}
				rep := report.NewReport(user, out.Image1, out.Image2, out.Sequence1, out.Sequence2, res.Comparison)
				if err := store.Save(rep); err != nil {
					return err
				}
				out.ReportID = rep.ID
				log.Printf("saved report %d for %s", rep.ID, user)
			}

			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", defaultUser, "Owner of the saved report")
	cmd.Flags().BoolVarP(&save, "save", "s", false, "Store the comparison as a report")

	return cmd
}

func newMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match SUBJECT QUERY",
		Short: "Compare two plain nucleotide sequences",
		Long: `Searches QUERY in SUBJECT with both the prefix-function and the rolling-hash
algorithms and reports the positional match percentage.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject := strings.TrimSpace(args[0])
			query := strings.TrimSpace(args[1])
			return writeJSON(cmd.OutOrStdout(), comparisonOutput{
				Sequence1:  subject,
				Sequence2:  query,
				Comparison: matcher.Compare(subject, query),
			})
		},
	}
}
