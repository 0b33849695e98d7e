package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-builder/internal/config"
	"github.com/jonathan/portfolio-builder/internal/observability"
	"github.com/jonathan/portfolio-builder/internal/pipeline"
	"github.com/jonathan/portfolio-builder/internal/preview"
	"github.com/jonathan/portfolio-builder/internal/site"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a portfolio website from one résumé",
	Long: `Extracts the text of a PDF or DOCX résumé, asks the model to analyze it and
write a portfolio site, then writes index.html, style.css and script.js.

Optionally also writes a zip archive, a single-file preview, a PNG screenshot
of the rendered preview, and uploads the archive to S3-compatible storage.`,
	RunE: runGenerate,
}

var (
	generateResume     string
	generateFormat     string
	generateOut        string
	generateZip        string
	generatePreview    string
	generateScreenshot string
	generatePublish    bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateResume, "resume", "r", "", "Path to the résumé (PDF or DOCX)")
	generateCmd.Flags().StringVar(&generateFormat, "format", "", "Document format: pdf, docx or a MIME type (defaults to the file extension)")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Output directory for the site files (defaults to output_dir)")
	generateCmd.Flags().StringVar(&generateZip, "zip", "", "Also write the packaged site to this zip file")
	generateCmd.Flags().StringVar(&generatePreview, "preview", "", "Also write a single-file HTML preview here")
	generateCmd.Flags().StringVar(&generateScreenshot, "screenshot", "", "Also render the preview to this PNG (requires Chrome)")
	generateCmd.Flags().BoolVar(&generatePublish, "publish", false, "Upload the zipped site to the configured S3 bucket")

	_ = generateCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if generatePublish && !settings.S3.Enabled() {
		return &config.ConfigurationError{Message: "--publish requires an S3 bucket (set s3.bucket in the config file or " + config.EnvS3Bucket + ")"}
	}

	data, err := os.ReadFile(generateResume)
	if err != nil {
		return fmt.Errorf("failed to read résumé: %w", err)
	}

	client, err := newClient(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	runCtx, cancel := context.WithTimeout(ctx, settings.TimeoutValue())
	defer cancel()

	result, err := pipeline.Run(runCtx, client, pipeline.RunOptions{
		Data:       data,
		FormatHint: generateFormat,
		FileName:   filepath.Base(generateResume),
		Verbose:    settings.Verbose,
		Out:        out,
	})
	if err != nil {
		return err
	}

	outDir := generateOut
	if outDir == "" {
		outDir = settings.OutputDir
	}
	if err := writeSite(out, outDir, result, settings.Verbose); err != nil {
		return err
	}

	if generateZip != "" {
		if err := writeArchive(generateZip, result.Bundle); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Wrote %s\n", generateZip)
	}

	if generatePreview != "" {
		if err := writeFile(generatePreview, []byte(site.Preview(result.Bundle))); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Wrote %s\n", generatePreview)
	}

	if generateScreenshot != "" {
		opts := preview.DefaultOptions()
		opts.Verbose = settings.Verbose
		png, err := preview.Screenshot(ctx, site.Preview(result.Bundle), opts)
		if err != nil {
			return err
		}
		if err := writeFile(generateScreenshot, png); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Wrote %s\n", generateScreenshot)
	}

	if generatePublish {
		location, err := publishSite(ctx, result)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Published %s\n", location)
	}

	_, _ = fmt.Fprintf(out, "\nPortfolio generated in %v (run %s)\n", result.Duration.Round(time.Millisecond), result.RunID)
	return nil
}

// writeSite writes the three site files. In verbose mode it also prints the
// source document record and the page structure.
func writeSite(out io.Writer, dir string, result *pipeline.Result, verbose bool) error {
	written, err := site.WriteDir(dir, result.Bundle)
	if err != nil {
		return err
	}
	for _, path := range written {
		_, _ = fmt.Fprintf(out, "Wrote %s\n", path)
	}

	if verbose {
		if result.Source != nil {
			if data, err := result.Source.ToJSON(); err == nil {
				_, _ = fmt.Fprintf(out, "Source document:\n%s\n", data)
			}
		}
		meta, err := site.Inspect(result.Bundle.HTML)
		if err != nil {
			_, _ = fmt.Fprintf(out, "Warning: %v\n", err)
			return nil
		}
		observability.NewPrinter(out).PrintMetadata(meta)
	}
	return nil
}

func writeArchive(path string, bundle site.Bundle) error {
	archive, err := site.Package(bundle)
	if err != nil {
		return err
	}
	return writeFile(path, archive)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// publishSite uploads the zipped site and returns its location
func publishSite(ctx context.Context, result *pipeline.Result) (string, error) {
	publisher, err := newPublisher(ctx, settings.S3)
	if err != nil {
		return "", fmt.Errorf("failed to create publisher: %w", err)
	}
	archive, err := site.Package(result.Bundle)
	if err != nil {
		return "", err
	}
	location, err := publisher.Publish(ctx, result.RunID, settings.ArchiveName, archive)
	if err != nil {
		return "", fmt.Errorf("failed to publish site: %w", err)
	}
	return location, nil
}
