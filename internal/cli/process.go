package cli

import (
	"fmt"
	"time"

	"github.com/grailbio/base/log"
	"github.com/spf13/cobra"

	"gelseq/pkg/pipeline"
)

func (a *app) newProcessCmd() *cobra.Command {
	var inputDir, outputDir string

	cmd := &cobra.Command{
		Use:   "process [images...]",
		Short: "Extract the peak and intensity sequences of images",
		Long: `Processes every image given as an argument, plus every image in --input,
and prints one JSON report per image.

With --output-dir, each report is also written to <name>.json next to the
chromatogram (<name>_chromatogram.png) and, if enabled in the configuration,
the nucleotide map (<name>_map.png).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := append([]string{}, args...)
			if inputDir != "" {
				listed, err := pipeline.ListImages(inputDir)
				if err != nil {
					return err
				}
				paths = append(paths, listed...)
			}
			if len(paths) == 0 {
				return fmt.Errorf("no images given: pass image paths or --input")
			}

			p := pipeline.NewProcessor(&pipeline.Params{
				Config:             a.cfg,
				RenderChromatogram: outputDir != "" && a.cfg.Output.SaveChromatogram,
				ShowProgress:       a.cfg.Output.Verbose && len(paths) > 1,
			})

			startTime := time.Now()
			reports, err := p.ProcessFiles(cmd.Context(), paths)
			if err != nil {
				return err
			}
			log.Debug.Printf("processed %d images in %.2f seconds", len(reports), time.Since(startTime).Seconds())

			if outputDir != "" {
				for _, r := range reports {
					if err := saveImageOutputs(outputDir, r, a.cfg.Output.SaveNucleotideMap); err != nil {
						return err
					}
				}
				log.Printf("results saved to %s", outputDir)
			}

			return writeJSON(cmd.OutOrStdout(), reports)
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "Directory of images to process")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for per-image reports, chromatograms and maps")

	return cmd
}
