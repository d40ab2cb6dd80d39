// Package backup copies files off the main loop on a bounded pool of
// workers. Jobs are fire-and-forget; completion is reported through a
// callback.
//
// Two jobs targeting the same destination are not serialized against each
// other.
package backup

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/mesh-intelligence/tlog/internal/logging"
)

// DefaultWorkers bounds the pool when the configuration does not.
const DefaultWorkers = 2

// Result describes a finished job.
type Result struct {
	JobID uuid.UUID
	Src   string
	Dest  string
	Bytes int64
	Err   error
}

// Pool runs copy jobs with at most a fixed number in flight.
type Pool struct {
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	logger *zap.SugaredLogger
}

// NewPool creates a pool running up to workers jobs at once.
func NewPool(workers int, logger *zap.SugaredLogger) *Pool {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Pool{
		sem:    semaphore.NewWeighted(int64(workers)),
		logger: logging.OrNop(logger),
	}
}

// Copy schedules a copy of src into destDir and returns the job ID at once.
// done, if non-nil, is called from the worker goroutine when the job ends.
func (p *Pool) Copy(src, destDir string, done func(Result)) uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		// Acquire only fails on a cancelled context.
		_ = p.sem.Acquire(context.Background(), 1)
		defer p.sem.Release(1)

		res := Result{JobID: id, Src: src}
		res.Dest, res.Bytes, res.Err = CopyFile(src, destDir)
		if res.Err != nil {
			p.logger.Errorw("backup failed", "job", id, "src", src, "err", res.Err)
		} else {
			p.logger.Infow("backup finished", "job", id, "dest", res.Dest,
				"size", humanize.Bytes(uint64(res.Bytes)))
		}
		if done != nil {
			done(res)
		}
	}()
	return id
}

// Wait blocks until every scheduled job has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// CopyFile copies src to destDir/basename(src), overwriting any existing
// file. The permission bits and modification time of src are kept. A
// destination that is src itself is refused and left untouched.
func CopyFile(src, destDir string) (dest string, n int64, err error) {
	in, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "open backup source")
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat backup source")
	}
	if info.IsDir() {
		return "", 0, errors.Errorf("backup source %s is a directory", src)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", 0, errors.Wrap(err, "create backup directory")
	}
	dest = filepath.Join(destDir, filepath.Base(src))
	if destInfo, err := os.Stat(dest); err == nil && os.SameFile(info, destInfo) {
		return "", 0, errors.Errorf("backup destination %s is the source", dest)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return "", 0, errors.Wrap(err, "create backup file")
	}
	n, err = io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", 0, errors.Wrapf(err, "copy %s", src)
	}

	if err := os.Chmod(dest, info.Mode().Perm()); err != nil {
		return "", 0, errors.Wrap(err, "set backup mode")
	}
	if err := os.Chtimes(dest, info.ModTime(), info.ModTime()); err != nil {
		return "", 0, errors.Wrap(err, "set backup times")
	}
	return dest, n, nil
}
