package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thisdougb/framemetrics/internal/config"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

const (
	DumpsSubdir  = "framemetrics"
	MetricsExt   = ".mtx"
	UnknownLabel = "Unknown"
)

// FileName returns "{appLabel}_{subjectType}_{variant}.mtx".
func FileName(appLabel, subjectType, variant string) string {
	return fmt.Sprintf("%s_%s_%s%s",
		cleanName(appLabel),
		cleanName(subjectType),
		cleanName(variant),
		MetricsExt)
}

// cleanName NFC normalizes s and replaces path separators, so a label
// can never point outside the output directory.
func cleanName(s string) string {
	s = norm.NFC.String(s)
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, s)
}

func resolveAppLabel(ctx context.Context, app AppContext) string {
	if app == nil {
		config.LogError(ctx, "no app context, using placeholder label")
		return UnknownLabel
	}

	label, err := app.AppLabel()
	if err != nil {
		config.LogError(ctx, "failed to resolve app label", zap.Error(err))
		return UnknownLabel
	}
	if strings.TrimSpace(label) == "" {
		return UnknownLabel
	}
	return label
}

// resolveOutputDir returns <storage root>/framemetrics and tries to create
// it. A failure is logged only; writers retry the mkdir on open.
func resolveOutputDir(ctx context.Context, app AppContext) string {
	var root string
	if app != nil {
		r, err := app.StorageRoot()
		if err != nil {
			config.LogError(ctx, "failed to resolve storage root, using temp dir", zap.Error(err))
		} else {
			root = r
		}
	}
	if root == "" {
		root = os.TempDir()
	}

	dir := filepath.Join(root, DumpsSubdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		config.LogError(ctx, "failed to create output directory", zap.String("dir", dir), zap.Error(err))
	}
	return dir
}
