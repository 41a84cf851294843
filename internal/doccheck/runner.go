package doccheck

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultJobs is the concurrent file limit when none is given.
const DefaultJobs = 4

// Check runs the checker over paths concurrently, preserving input order in
// the returned reports. An unreadable file fails the whole run.
func Check(ctx context.Context, paths []string, req Requirements, jobs int) ([]Report, error) {
	if jobs <= 0 {
		jobs = DefaultJobs
	}

	reports := make([]Report, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rep, err := CheckFile(path, req)
			if err != nil {
				return err
			}
			reports[i] = rep
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// Passed reports whether every file met the requirements.
func Passed(reports []Report) bool {
	for _, r := range reports {
		if !r.Passed() {
			return false
		}
	}
	return true
}
