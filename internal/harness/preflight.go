package harness

import (
	"context"

	"github.com/shirou/gopsutil/v4/disk"

	"modelcheck/internal/common/fsutil"
	"modelcheck/pkg/types"
)

// lowDiskBytes is the free-space level below which preflight warns.
const lowDiskBytes = 64 << 20

// Preflight probes the output directory. It never changes the run status; a
// missing directory still surfaces later as io_error on the first save.
func (r *Runner) Preflight(ctx context.Context) types.PreflightReport {
	rep := types.PreflightReport{OutputDir: r.cfg.OutputDir, DirExists: fsutil.IsDir(r.cfg.OutputDir)}
	if !rep.DirExists {
		rep.Error = "output directory does not exist"
		r.log.Warn().Str("output_dir", r.cfg.OutputDir).Msg("preflight: output directory does not exist")
		return rep
	}
	dir := r.cfg.OutputDir
	if dir == "" {
		dir = "."
	}
	u, err := disk.UsageWithContext(ctx, dir)
	if err != nil {
		rep.Error = err.Error()
		r.log.Debug().Err(err).Str("output_dir", dir).Msg("preflight: disk usage unavailable")
		return rep
	}
	rep.FreeBytes = u.Free
	if u.Free < lowDiskBytes {
		r.log.Warn().Uint64("free_bytes", u.Free).Str("output_dir", dir).Msg("preflight: low disk space")
	}
	return rep
}
