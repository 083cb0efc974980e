package repo

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// StampLayout is the timestamp embedded in backup artifact names,
// e.g. sales_20260131T040500Z.tar.gz.gpg.
const StampLayout = "20060102T150405Z"

// Retention selects stale backup artifacts for deletion. The policy keeps
// the newest artifact of each calendar bucket (month or year) forever and
// offers everything else older than the keep window as a deletion
// candidate.
type Retention struct {
	Logger *slog.Logger
}

// EndOfMonthCandidates returns artifacts in dir older than keep that are
// not the last backup of their month.
func (r *Retention) EndOfMonthCandidates(dir string, now time.Time, keep time.Duration) ([]string, error) {
	return r.candidates(dir, now, keep, "200601")
}

// EndOfYearCandidates returns artifacts in dir older than keep that are
// not the last backup of their year.
func (r *Retention) EndOfYearCandidates(dir string, now time.Time, keep time.Duration) ([]string, error) {
	return r.candidates(dir, now, keep, "2006")
}

// candidates walks dir recursively so each database's subdirectory keeps
// its own newest-per-bucket artifact.
func (r *Retention) candidates(dir string, now time.Time, keep time.Duration, bucketLayout string) ([]string, error) {
	type artifact struct {
		path  string
		stamp time.Time
	}
	newest := make(map[string]artifact)
	var all []artifact

	err := filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if entry.IsDir() {
			return nil
		}
		stamp, ok := parseStamp(entry.Name())
		if !ok {
			r.Logger.Debug("skipping unstamped file", "name", entry.Name())
			return nil
		}
		a := artifact{path: path, stamp: stamp}
		all = append(all, a)

		bucket := filepath.Dir(path) + "|" + stamp.Format(bucketLayout)
		if current, ok := newest[bucket]; !ok || a.stamp.After(current.stamp) {
			newest[bucket] = a
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	kept := make(map[string]bool, len(newest))
	for _, a := range newest {
		kept[a.path] = true
	}

	cutoff := now.Add(-keep)
	var candidates []string
	for _, a := range all {
		if !kept[a.path] && a.stamp.Before(cutoff) {
			candidates = append(candidates, a.path)
		}
	}
	sort.Strings(candidates)
	return candidates, nil
}

// parseStamp extracts the timestamp from an artifact name of the form
// <database>_<stamp>[.suffixes].
func parseStamp(name string) (time.Time, bool) {
	idx := strings.LastIndex(name, "_")
	if idx < 0 || len(name) < idx+1+len(StampLayout) {
		return time.Time{}, false
	}
	raw := name[idx+1 : idx+1+len(StampLayout)]
	stamp, err := time.Parse(StampLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return stamp, true
}
