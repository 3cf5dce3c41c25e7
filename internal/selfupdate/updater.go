package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
)

// checksumsFile is published alongside every release archive.
const checksumsFile = "checksums.txt"

// UpdateInput selects the version to install. An empty TargetVersion
// means whatever the latest release is.
type UpdateInput struct {
	CurrentVersion string
	TargetVersion  string
}

// UpdateProgress is reported once per stage so the CLI can narrate.
type UpdateProgress struct {
	Stage   string
	Message string
}

// Update downloads the release archive for the running platform,
// verifies it against the release's checksums.txt, and swaps the
// running executable for the new binary.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) error {
	if input.CurrentVersion == "(devel)" {
		return ErrDevBuild
	}

	tag := input.TargetVersion
	if tag == "" {
		progress(UpdateProgress{Stage: "check", Message: "Checking for latest version..."})
		result, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if !result.UpdateAvailable {
			return ErrAlreadyLatest
		}
		tag = result.LatestVersion
	}

	tgt := currentTarget()
	asset, err := tgt.asset()
	if err != nil {
		return err
	}

	progress(UpdateProgress{Stage: "download", Message: fmt.Sprintf("Downloading %s...", tag)})
	archive, err := c.fetch(ctx, c.releaseFileURL(tag, asset))
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	progress(UpdateProgress{Stage: "verify", Message: "Verifying checksum..."})
	sums, err := c.fetch(ctx, c.releaseFileURL(tag, checksumsFile))
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}
	want, err := checksumFor(sums, asset)
	if err != nil {
		return err
	}
	if err := verifySHA256(archive, want); err != nil {
		return err
	}

	progress(UpdateProgress{Stage: "extract", Message: "Extracting binary..."})
	binary, err := tgt.extractBinary(archive)
	if err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	progress(UpdateProgress{Stage: "apply", Message: "Applying update..."})
	path, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	if err := replaceExecutable(path, binary, sha256.Sum256(binary)); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	progress(UpdateProgress{Stage: "done", Message: fmt.Sprintf("Updated to %s", tag)})
	return nil
}

// releaseFileURL builds the download URL for one file of a tagged
// release.
func (c *Checker) releaseFileURL(tag, file string) string {
	base := strings.TrimRight(c.downloadBaseURL, "/")
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/%s", base, c.owner, c.repo, tag, file)
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// target is the os/arch pair a release archive was built for. Release
// artifacts follow the goreleaser naming scheme the project publishes
// under: astrarium_<Os>_<Arch> with uname-style arch names, Darwin as
// a single universal build, Windows zipped, everything else tarred.
type target struct {
	goos   string
	goarch string
}

func currentTarget() target {
	return target{goos: runtime.GOOS, goarch: runtime.GOARCH}
}

// asset returns the release archive name for the target.
func (t target) asset() (string, error) {
	switch t.goos {
	case "darwin":
		return "astrarium_Darwin_all.tar.gz", nil
	case "linux", "windows":
		arch := t.archAlias()
		if arch == "" {
			return "", fmt.Errorf("no release build for architecture %s", t.goarch)
		}
		if t.goos == "windows" {
			return fmt.Sprintf("astrarium_Windows_%s.zip", arch), nil
		}
		return fmt.Sprintf("astrarium_Linux_%s.tar.gz", arch), nil
	default:
		return "", fmt.Errorf("no release build for operating system %s", t.goos)
	}
}

// archAlias maps GOARCH to the uname-style name used in asset names.
func (t target) archAlias() string {
	switch t.goarch {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "arm64"
	case "386":
		return "i386"
	default:
		return ""
	}
}

// binary is the executable's file name inside the archive.
func (t target) binary() string {
	if t.goos == "windows" {
		return "astrarium.exe"
	}
	return "astrarium"
}

// extractBinary pulls the executable out of a release archive.
func (t target) extractBinary(archive []byte) ([]byte, error) {
	if t.goos == "windows" {
		return unzipOne(archive, t.binary())
	}
	return untarOne(archive, t.binary())
}

func untarOne(data []byte, name string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == name {
			return io.ReadAll(tr)
		}
	}
	return nil, fmt.Errorf("binary %q not found in archive", name)
}

func unzipOne(data []byte, name string) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range r.File {
		if filepath.Base(f.Name) == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer func() { _ = rc.Close() }()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("binary %q not found in archive", name)
}

// checksumFor finds the sha256 entry for asset in a checksums.txt body
// ("<hex>  <filename>" per line). Lines that do not fit that shape are
// skipped.
func checksumFor(sums []byte, asset string) (string, error) {
	sc := bufio.NewScanner(bytes.NewReader(sums))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 2 && fields[1] == asset {
			return fields[0], nil
		}
	}
	return "", fmt.Errorf("no checksum for %s in %s", asset, checksumsFile)
}

func verifySHA256(data []byte, wantHex string) error {
	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); got != wantHex {
		return fmt.Errorf("%w: want %s, have %s", ErrChecksum, wantHex, got)
	}
	return nil
}

// replaceExecutable stages the new binary next to the old one, checks
// the staged copy still hashes to wantSum, then renames it over the
// target so the swap is atomic on one filesystem. The old file's mode
// is preserved.
func replaceExecutable(path string, data []byte, wantSum [32]byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	staging, err := os.MkdirTemp(filepath.Dir(path), ".astrarium-update-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	staged := filepath.Join(staging, filepath.Base(path)+".new")
	if err := os.WriteFile(staged, data, 0o600); err != nil {
		return fmt.Errorf("stage binary: %w", err)
	}

	onDisk, err := os.ReadFile(staged)
	if err != nil {
		return fmt.Errorf("read staged binary: %w", err)
	}
	if sha256.Sum256(onDisk) != wantSum {
		return fmt.Errorf("%w: staged binary changed on disk", ErrChecksum)
	}

	if err := os.Rename(staged, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(path, info.Mode()); err != nil {
		return fmt.Errorf("restore mode: %w", err)
	}
	return nil
}
