package report

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/agentstation/rostermatch/pkg/constants"
	"github.com/agentstation/rostermatch/pkg/errors"
	"github.com/agentstation/rostermatch/pkg/logging"
)

// Write replaces the file at path with content.
//
// The content goes to a temp file in the same directory which is then
// renamed over path, so readers never see a half-written report. An
// advisory lock on path+".lock" keeps two concurrent runs apart; the lock
// file itself is left in place.
func Write(ctx context.Context, path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	lockPath := path + constants.LockSuffix
	lock := flock.New(lockPath)

	lockCtx, cancel := context.WithTimeout(ctx, constants.LockTimeout)
	defer cancel()

	ok, err := lock.TryLockContext(lockCtx, constants.LockRetryDelay)
	if err != nil || !ok {
		if err == nil || errors.Is(err, context.DeadlineExceeded) {
			err = errors.ErrLocked
		}
		return errors.WrapIO("lock", lockPath, err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("lock", lockPath).Msg("Failed to release report lock")
		}
	}()

	tempFile, err := os.CreateTemp(dir, ".report_*.md")
	if err != nil {
		return errors.WrapIO("create", "temp file", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.WriteString(content); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return errors.WrapIO("write", tempPath, err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapIO("write", tempPath, err)
	}
	if err := os.Chmod(tempPath, constants.FilePermissions); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapIO("chmod", tempPath, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapIO("rename", path, err)
	}

	logging.Ctx(ctx).Debug().Str("path", path).Int("bytes", len(content)).Msg("Report written")
	return nil
}
