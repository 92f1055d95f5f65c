// Package build implements the distribution pipeline: per-file transforms
// (minify or copy), per-product bundle aggregation, and manifest generation
// over the final output bytes. The pipeline is a single-pass, stateless,
// idempotent transform; rebuilding unchanged sources yields identical bytes.
package build

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/distbuilder/internal/config"
	"git.home.luguber.info/inful/distbuilder/internal/errors"
	"git.home.luguber.info/inful/distbuilder/internal/jsonutil"
	"git.home.luguber.info/inful/distbuilder/internal/manifest"
	"git.home.luguber.info/inful/distbuilder/internal/product"
)

// bundleBase names the per-product aggregate artifact.
const bundleBase = "bundle.json"

// Options configure one build invocation.
type Options struct {
	DistDir     string
	Version     string
	Environment Environment
	Clean       bool

	// Now is the manifest timestamp source; defaults to time.Now.
	Now func() time.Time
}

// FileFailure records a recoverable per-file error (malformed JSON).
type FileFailure struct {
	Path string // relative source path
	Err  error
}

// ProductResult is the outcome of one product's build.
type ProductResult struct {
	Product       string
	OutputDir     string
	Artifacts     int
	TotalBytes    int64
	ManifestHash  string
	ParseFailures []FileFailure
	Duration      time.Duration
	Err           error // fatal error; nil means the manifest was written
}

// Result aggregates all product outcomes of one invocation.
type Result struct {
	Products []ProductResult
}

// Failed returns the products whose build aborted fatally.
func (r *Result) Failed() []ProductResult {
	var failed []ProductResult
	for _, pr := range r.Products {
		if pr.Err != nil {
			failed = append(failed, pr)
		}
	}
	return failed
}

// ParseFailureCount counts recoverable per-file failures across all products.
func (r *Result) ParseFailureCount() int {
	n := 0
	for _, pr := range r.Products {
		n += len(pr.ParseFailures)
	}
	return n
}

// Builder runs the pipeline for one or more products.
type Builder struct {
	cfg  *config.Config
	opts Options
}

// New creates a Builder.
func New(cfg *config.Config, opts Options) *Builder {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Builder{cfg: cfg, opts: opts}
}

// Build runs the pipeline for each product independently. One product's
// failure does not abort the others; per-product errors are carried in the
// result.
func (b *Builder) Build(ctx context.Context, products []product.Product) *Result {
	result := &Result{}
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			result.Products = append(result.Products, ProductResult{Product: p.Name, Err: err})
			continue
		}
		pr := b.buildProduct(p)
		if pr.Err != nil {
			slog.Error("Product build failed", "product", p.Name, "error", pr.Err)
		} else {
			slog.Info("Product built",
				"product", p.Name,
				"artifacts", pr.Artifacts,
				"bytes", pr.TotalBytes,
				"parse_failures", len(pr.ParseFailures),
				"duration", pr.Duration)
		}
		result.Products = append(result.Products, pr)
	}
	return result
}

func (b *Builder) buildProduct(p product.Product) ProductResult {
	start := b.opts.Now()
	outRoot := b.opts.Environment.OutputRoot(b.opts.DistDir, p.Name)
	pr := ProductResult{Product: p.Name, OutputDir: outRoot}

	if _, err := os.Stat(p.SourceRoot); err != nil {
		pr.Err = errors.MissingSourceRoot(p.Name, p.SourceRoot)
		return pr
	}

	if b.opts.Clean {
		if err := os.RemoveAll(outRoot); err != nil {
			pr.Err = errors.WriteFailed(outRoot, err)
			return pr
		}
	}
	if err := os.MkdirAll(outRoot, 0o755); err != nil {
		pr.Err = errors.WriteFailed(outRoot, err)
		return pr
	}

	// Step 1+2: transform every source file into the mirrored output tree.
	bundle := make(map[string]any)
	walkErr := filepath.WalkDir(p.SourceRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.ReadFailed(path, err)
		}
		if d.IsDir() {
			return nil
		}
		if b.cfg.Excluded(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(p.SourceRoot, path)
		if err != nil {
			return errors.ReadFailed(path, err)
		}
		// Output paths for the general product mirror below its data/ subdir.
		outRel := filepath.Join(p.OutputSubdir, rel)
		outPath := filepath.Join(outRoot, outRel)

		if !isJSON(d.Name()) {
			if err := copyFile(path, outPath); err != nil {
				return errors.WriteFailed(outPath, err)
			}
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return errors.ReadFailed(path, err)
		}
		value, err := jsonutil.Parse(data)
		if err != nil {
			relSlash := filepath.ToSlash(filepath.Join(p.OutputSubdir, rel))
			slog.Warn("Skipping malformed JSON file", "product", p.Name, "path", relSlash, "error", err)
			pr.ParseFailures = append(pr.ParseFailures, FileFailure{
				Path: relSlash,
				Err:  errors.MalformedJSON(relSlash, err),
			})
			return nil
		}

		if err := writeArtifactPair(outPath, value); err != nil {
			return err
		}
		bundle[filepath.ToSlash(outRel)] = value
		return nil
	})
	if walkErr != nil {
		pr.Err = walkErr
		return pr
	}

	// Step 3: aggregate every parsed value into bundle.json / bundle.min.json.
	if err := writeArtifactPair(filepath.Join(outRoot, bundleBase), bundle); err != nil {
		pr.Err = err
		return pr
	}

	// Step 4: hash the final on-disk bytes and write version.json.
	m, err := manifest.Generate(outRoot, b.opts.Version, string(b.opts.Environment), b.opts.Now())
	if err != nil {
		pr.Err = errors.Wrap(err, errors.CategoryBuild, errors.SeverityFatal, "manifest generation failed")
		return pr
	}
	if err := m.Write(outRoot); err != nil {
		pr.Err = errors.WriteFailed(filepath.Join(outRoot, manifest.FileName), err)
		return pr
	}

	pr.Artifacts = len(m.Files)
	for _, entry := range m.Files {
		pr.TotalBytes += entry.Size
	}
	pr.ManifestHash, _ = m.Hash()
	pr.Duration = b.opts.Now().Sub(start)
	return pr
}

// writeArtifactPair writes the pretty serialization at path and the minified
// twin beside it with a .min suffix before the extension.
func writeArtifactPair(path string, value any) error {
	pretty, err := jsonutil.MarshalPretty(value)
	if err != nil {
		return errors.Wrap(err, errors.CategoryBuild, errors.SeverityFatal, "serialize failed").
			WithContext("path", path)
	}
	min, err := jsonutil.MarshalMin(value)
	if err != nil {
		return errors.Wrap(err, errors.CategoryBuild, errors.SeverityFatal, "serialize failed").
			WithContext("path", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WriteFailed(path, err)
	}
	if err := os.WriteFile(path, pretty, 0o644); err != nil {
		return errors.WriteFailed(path, err)
	}
	minPath := MinPath(path)
	if err := os.WriteFile(minPath, min, 0o644); err != nil {
		return errors.WriteFailed(minPath, err)
	}
	return nil
}

// MinPath inserts .min before the final extension: data/tokens.json →
// data/tokens.min.json.
func MinPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".min" + ext
}

func isJSON(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
