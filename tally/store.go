// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"cmp"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/danielhkuo/tallyboard/models"
)

// Namespaces of the four mappings. Each candidate's day buckets live in their
// own namespace, derived by seriesNamespace and recorded under nsCharts.
const (
	nsCandidates = "c"
	nsVoters     = "vr"
	nsTotals     = "vd"
	nsCharts     = "ct"
)

// Config holds the election-wide settings of a Store.
type Config struct {
	// PrivilegedCallers may back-fill chart data with CastVoteAt.
	// An empty list disables back-filling.
	PrivilegedCallers []string
}

// IsPrivileged reports whether callerID is on the privileged allowlist.
func (c Config) IsPrivileged(callerID string) bool {
	if callerID == "" {
		return false
	}
	return slices.Contains(c.PrivilegedCallers, callerID)
}

// Caller is the per-call context supplied by the host: who is calling and
// what time it is.
type Caller struct {
	VoterID string
	Now     time.Time
}

// Store is the tally for one election. Every operation runs in a single
// backend transaction and validates before it writes, so a failed call
// leaves no trace.
type Store struct {
	backend Backend
	cfg     Config
	logger  *slog.Logger
}

func New(backend Backend, cfg Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, cfg: cfg, logger: logger}
}

func (s *Store) Close() error {
	return s.backend.Close()
}

// RegisterCandidate adds a candidate with a zero total and an empty series.
func (s *Store) RegisterCandidate(ctx context.Context, c models.Candidate) error {
	if c.CandidateID == "" {
		return fmt.Errorf("%w: candidate_id is required", ErrInvalidArgument)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}

	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode candidate: %w", err)
	}

	err = s.backend.Update(ctx, func(tx Tx) error {
		_, exists, err := tx.Get(nsCandidates, c.CandidateID)
		if err != nil {
			return fmt.Errorf("failed to read candidate: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: %q", ErrDuplicateCandidate, c.CandidateID)
		}

		if err := tx.Put(nsCandidates, c.CandidateID, raw); err != nil {
			return fmt.Errorf("failed to write candidate: %w", err)
		}
		if err := tx.Put(nsTotals, c.CandidateID, formatCount(0)); err != nil {
			return fmt.Errorf("failed to write vote total: %w", err)
		}
		if err := tx.Put(nsCharts, c.CandidateID, []byte(seriesNamespace(c.CandidateID))); err != nil {
			return fmt.Errorf("failed to write chart series: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("candidate registered", "candidate_id", c.CandidateID, "name", c.Name)
	return nil
}

// CandidateStats returns one candidate with its total. A candidate without a
// total is reported as an internal inconsistency rather than as zero.
func (s *Store) CandidateStats(ctx context.Context, candidateID string) (models.CandidateStats, error) {
	var stats models.CandidateStats
	err := s.backend.View(ctx, func(tx Tx) error {
		c, ok, err := readCandidate(tx, candidateID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %q", ErrCandidateNotFound, candidateID)
		}

		total, ok, err := s.readTotal(tx, candidateID)
		if err != nil {
			return err
		}
		if !ok {
			return s.inconsistent("vote total missing", candidateID)
		}

		stats = models.CandidateStats{CandidateID: c.CandidateID, Name: c.Name, TotalVote: total}
		return nil
	})
	return stats, err
}

// ListCandidates returns every candidate in registration order. Unlike
// CandidateStats, a missing total reads as zero.
func (s *Store) ListCandidates(ctx context.Context) ([]models.CandidateStats, error) {
	list := []models.CandidateStats{}
	err := s.backend.View(ctx, func(tx Tx) error {
		candidates, err := scanCandidates(tx)
		if err != nil {
			return err
		}
		for _, c := range candidates {
			total, _, err := s.readTotal(tx, c.CandidateID)
			if err != nil {
				return err
			}
			list = append(list, models.CandidateStats{
				CandidateID: c.CandidateID,
				Name:        c.Name,
				TotalVote:   total,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// CastVote records the caller's single vote and counts it in the day bucket
// of caller.Now.
func (s *Store) CastVote(ctx context.Context, caller Caller, candidateID string) error {
	if caller.VoterID == "" {
		return fmt.Errorf("%w: voter id is required", ErrInvalidArgument)
	}
	day := DayStartMillis(caller.Now)

	err := s.backend.Update(ctx, func(tx Tx) error {
		_, voted, err := tx.Get(nsVoters, caller.VoterID)
		if err != nil {
			return fmt.Errorf("failed to read voter record: %w", err)
		}
		if voted {
			return fmt.Errorf("%w: %q", ErrAlreadyVoted, caller.VoterID)
		}

		v, err := s.prepareVote(tx, candidateID, day)
		if err != nil {
			return err
		}
		if err := v.apply(tx); err != nil {
			return err
		}
		if err := tx.Put(nsVoters, caller.VoterID, []byte(candidateID)); err != nil {
			return fmt.Errorf("failed to write voter record: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("vote cast", "voter_id", caller.VoterID, "candidate_id", candidateID, "day", day)
	return nil
}

// CastVoteAt counts one vote for candidateID in the bucket keyed exactly by
// timestamp. It is reserved for privileged callers back-filling history:
// the timestamp is not truncated and no voter record is read or written,
// so it may be repeated freely.
func (s *Store) CastVoteAt(ctx context.Context, caller Caller, candidateID string, timestamp int64) error {
	if !s.cfg.IsPrivileged(caller.VoterID) {
		return fmt.Errorf("%w: %q may not back-fill votes", ErrUnauthorized, caller.VoterID)
	}

	err := s.backend.Update(ctx, func(tx Tx) error {
		v, err := s.prepareVote(tx, candidateID, timestamp)
		if err != nil {
			return err
		}
		return v.apply(tx)
	})
	if err != nil {
		return err
	}

	s.logger.Info("vote back-filled", "caller", caller.VoterID, "candidate_id", candidateID, "timestamp", timestamp)
	return nil
}

// CheckVoted returns the candidate voterID voted for. An unknown voter is not
// an error: ok is false.
func (s *Store) CheckVoted(ctx context.Context, voterID string) (candidate models.Candidate, ok bool, err error) {
	err = s.backend.View(ctx, func(tx Tx) error {
		candidateID, voted, err := tx.Get(nsVoters, voterID)
		if err != nil {
			return fmt.Errorf("failed to read voter record: %w", err)
		}
		if !voted {
			return nil
		}

		c, found, err := readCandidate(tx, string(candidateID))
		if err != nil {
			return err
		}
		if !found {
			s.logger.Warn("voter record points at unknown candidate",
				"voter_id", voterID,
				"candidate_id", string(candidateID),
			)
			return nil
		}
		candidate, ok = c, true
		return nil
	})
	if err != nil {
		return models.Candidate{}, false, err
	}
	return candidate, ok, nil
}

// Chart returns every candidate's daily series in registration order, with
// points sorted by timestamp.
func (s *Store) Chart(ctx context.Context) ([]models.CandidateChart, error) {
	charts := []models.CandidateChart{}
	err := s.backend.View(ctx, func(tx Tx) error {
		candidates, err := scanCandidates(tx)
		if err != nil {
			return err
		}
		for _, c := range candidates {
			series, ok, err := tx.Get(nsCharts, c.CandidateID)
			if err != nil {
				return fmt.Errorf("failed to read chart series: %w", err)
			}
			if !ok {
				return s.inconsistent("chart series missing", c.CandidateID)
			}

			points, err := s.readSeries(tx, string(series), c.CandidateID)
			if err != nil {
				return err
			}
			charts = append(charts, models.CandidateChart{
				CandidateID: c.CandidateID,
				Name:        c.Name,
				Data:        points,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return charts, nil
}

// pendingVote is a validated vote that has not been written yet.
type pendingVote struct {
	candidateID string
	total       int64
	series      string
	bucket      string
	count       int64
}

// prepareVote runs the candidate and series checks and reads everything the
// vote will change. It never writes.
func (s *Store) prepareVote(tx Tx, candidateID string, bucket int64) (pendingVote, error) {
	total, ok, err := s.readTotal(tx, candidateID)
	if err != nil {
		return pendingVote{}, err
	}
	if !ok {
		return pendingVote{}, fmt.Errorf("%w: %q", ErrCandidateNotFound, candidateID)
	}

	series, ok, err := tx.Get(nsCharts, candidateID)
	if err != nil {
		return pendingVote{}, fmt.Errorf("failed to read chart series: %w", err)
	}
	if !ok {
		return pendingVote{}, s.inconsistent("chart series missing", candidateID)
	}

	key := strconv.FormatInt(bucket, 10)
	count, _, err := s.readCount(tx, string(series), key, candidateID)
	if err != nil {
		return pendingVote{}, err
	}

	return pendingVote{
		candidateID: candidateID,
		total:       total,
		series:      string(series),
		bucket:      key,
		count:       count,
	}, nil
}

func (v pendingVote) apply(tx Tx) error {
	if err := tx.Put(nsTotals, v.candidateID, formatCount(v.total+1)); err != nil {
		return fmt.Errorf("failed to write vote total: %w", err)
	}
	if err := tx.Put(v.series, v.bucket, formatCount(v.count+1)); err != nil {
		return fmt.Errorf("failed to write day bucket: %w", err)
	}
	return nil
}

func (s *Store) readTotal(tx Tx, candidateID string) (int64, bool, error) {
	return s.readCount(tx, nsTotals, candidateID, candidateID)
}

func (s *Store) readCount(tx Tx, ns, key, candidateID string) (int64, bool, error) {
	raw, ok, err := tx.Get(ns, key)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read %s/%s: %w", ns, key, err)
	}
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, false, s.inconsistent("unreadable counter", candidateID)
	}
	return n, true, nil
}

func (s *Store) readSeries(tx Tx, series, candidateID string) ([]models.ChartPoint, error) {
	points := []models.ChartPoint{}
	err := tx.Scan(series, func(key string, value []byte) error {
		x, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return s.inconsistent("unreadable bucket key", candidateID)
		}
		y, err := strconv.ParseInt(string(value), 10, 64)
		if err != nil {
			return s.inconsistent("unreadable bucket count", candidateID)
		}
		points = append(points, models.ChartPoint{X: x, Y: y})
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(points, func(a, b models.ChartPoint) int {
		return cmp.Compare(a.X, b.X)
	})
	return points, nil
}

// inconsistent logs and returns an ErrInternalInconsistency for candidateID.
func (s *Store) inconsistent(what, candidateID string) error {
	s.logger.Error("tally store is inconsistent", "problem", what, "candidate_id", candidateID)
	return fmt.Errorf("%w: %s for candidate %q", ErrInternalInconsistency, what, candidateID)
}

func readCandidate(tx Tx, candidateID string) (models.Candidate, bool, error) {
	raw, ok, err := tx.Get(nsCandidates, candidateID)
	if err != nil {
		return models.Candidate{}, false, fmt.Errorf("failed to read candidate: %w", err)
	}
	if !ok {
		return models.Candidate{}, false, nil
	}
	var c models.Candidate
	if err := json.Unmarshal(raw, &c); err != nil {
		return models.Candidate{}, false, fmt.Errorf("failed to decode candidate %q: %w", candidateID, err)
	}
	return c, true, nil
}

func scanCandidates(tx Tx) ([]models.Candidate, error) {
	var candidates []models.Candidate
	err := tx.Scan(nsCandidates, func(key string, value []byte) error {
		var c models.Candidate
		if err := json.Unmarshal(value, &c); err != nil {
			return fmt.Errorf("failed to decode candidate %q: %w", key, err)
		}
		candidates = append(candidates, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

// seriesNamespace names the namespace holding a candidate's day buckets.
func seriesNamespace(candidateID string) string {
	sum := sha256.Sum256([]byte(candidateID))
	return nsCharts + "/" + hex.EncodeToString(sum[:])
}

func formatCount(n int64) []byte {
	return strconv.AppendInt(nil, n, 10)
}
