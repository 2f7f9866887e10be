// Command assetgen builds a servable asset tree: it bundles and minifies
// JS and CSS from <base>/src into <base>/dist with content-hashed names,
// copies everything else verbatim, and writes .gz and .br siblings next to
// every file worth compressing.
package main

import (
	"bytes"
	"compress/gzip"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/evanw/esbuild/pkg/api"
)

// skipCompressExtensions lists formats that are already compressed; writing
// siblings for them wastes disk and cache space.
var skipCompressExtensions = map[string]bool{
	// Images
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	// Compressed files
	".zip": true, ".gz": true, ".tgz": true, ".bz2": true, ".tbz": true,
	".xz": true, ".br": true,
	// Fonts
	".woff": true, ".woff2": true,
}

// effectiveRatio is the largest compressed/original size ratio still worth
// keeping. Anything above it means the file barely compresses.
const effectiveRatio = 0.95

func main() {
	baseDir := flag.String("baseDir", "public", "base directory containing src, receives dist output")
	hashNames := flag.Bool("hash", true, "content-hash bundled JS and CSS filenames")
	flag.Parse()

	srcDir := filepath.Join(*baseDir, "src")
	distDir := filepath.Join(*baseDir, "dist")

	log.Printf("Source directory: %s", srcDir)
	log.Printf("Distribution directory: %s", distDir)

	if err := os.RemoveAll(distDir); err != nil {
		log.Fatalf("Failed to clean dist directory %s: %v", distDir, err)
	}
	if err := os.MkdirAll(distDir, 0o755); err != nil {
		log.Fatalf("Failed to create dist directory %s: %v", distDir, err)
	}

	log.Println("Bundling JavaScript...")
	if err := bundle(srcDir, distDir, "js", *hashNames); err != nil {
		log.Fatalf("JS bundling failed: %v", err)
	}

	log.Println("Bundling CSS...")
	if err := bundle(srcDir, distDir, "css", *hashNames); err != nil {
		log.Fatalf("CSS bundling failed: %v", err)
	}

	log.Println("Copying static files...")
	if err := copyStatic(srcDir, distDir); err != nil {
		log.Fatalf("Static copy failed: %v", err)
	}

	log.Println("Compressing assets...")
	if err := compressAssets(distDir); err != nil {
		log.Fatalf("Compression failed: %v", err)
	}

	log.Println("Build finished successfully.")
}

// bundle runs esbuild over every top-level file of the given kind under
// src/<kind>, writing minified output to dist/<kind>.
func bundle(srcDir, distDir, kind string, hashNames bool) error {
	inDir := filepath.Join(srcDir, kind)
	outDir := filepath.Join(distDir, kind)

	entries, err := os.ReadDir(inDir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("  Skipping %s: source directory %s not found.", kind, inDir)
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", inDir, err)
	}

	var entryPoints []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), "."+kind) {
			entryPoints = append(entryPoints, filepath.Join(inDir, e.Name()))
		}
	}
	if len(entryPoints) == 0 {
		log.Printf("  No %s entry points found.", kind)
		return nil
	}

	entryNames := "[dir]/[name]"
	if hashNames {
		entryNames = "[dir]/[name].[hash]"
	}

	opts := api.BuildOptions{
		EntryPoints:       entryPoints,
		Bundle:            true,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		Outdir:            outDir,
		EntryNames:        entryNames,
		Write:             true,
		LogLevel:          api.LogLevelInfo,
	}
	if kind == "js" {
		opts.Splitting = true
		opts.Format = api.FormatESModule
		opts.Target = api.ES2017
		opts.Platform = api.PlatformBrowser
		opts.ChunkNames = "chunks/[name].[hash]"
	}

	result := api.Build(opts)
	for _, w := range result.Warnings {
		log.Printf("  Warning: %s", w.Text)
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			location := ""
			if e.Location != nil {
				location = fmt.Sprintf(" (%s:%d:%d)", e.Location.File, e.Location.Line, e.Location.Column)
			}
			log.Printf("  Error: %s%s", e.Text, location)
		}
		return fmt.Errorf("esbuild failed with %d errors", len(result.Errors))
	}

	log.Printf("  Bundled %d %s entry point(s) into %s", len(entryPoints), kind, outDir)
	return nil
}

// copyStatic mirrors everything except the bundled js and css sources into
// the dist tree: HTML, images, fonts, whatever else the site carries.
func copyStatic(srcDir, distDir string) error {
	return filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			base := filepath.Base(path)
			if path != srcDir && (base == "js" || base == "css") {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(distDir, relPath)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if err := copyFile(path, dest); err != nil {
			return err
		}
		// Keep the source mtime so Last-Modified stays meaningful.
		return os.Chtimes(dest, info.ModTime(), info.ModTime())
	})
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// compressAssets writes .gz and .br siblings for every compressible file in
// the dist tree. A sibling is only kept when it actually saves space; the
// siblings inherit the original's mtime so the pair always looks coherent.
func compressAssets(distDir string) error {
	var written, skipped int

	err := filepath.Walk(distDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || skipCompressExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		for suffix, compress := range map[string]func([]byte) ([]byte, error){
			".gz": gzipBytes,
			".br": brotliBytes,
		} {
			compressed, err := compress(data)
			if err != nil {
				return fmt.Errorf("failed to compress %s: %w", path, err)
			}
			if len(data) == 0 || float64(len(compressed))/float64(len(data)) > effectiveRatio {
				skipped++
				continue
			}

			sibling := path + suffix
			if err := os.WriteFile(sibling, compressed, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", sibling, err)
			}
			if err := os.Chtimes(sibling, info.ModTime(), info.ModTime()); err != nil {
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("  Wrote %d compressed sibling(s), skipped %d ineffective.", written, skipped)
	return nil
}

// gzipBytes compresses at the maximum level with a zeroed modification time,
// so identical input always produces identical output.
func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func brotliBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	bw := brotli.NewWriterLevel(&buf, brotli.BestCompression)
	if _, err := bw.Write(data); err != nil {
		return nil, err
	}
	if err := bw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
