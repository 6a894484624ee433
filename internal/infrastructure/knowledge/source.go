// Package knowledge implements the usage capability on top of the macOS
// Knowledge database (knowledgeC.db), which records per-app and per-website
// foreground time.
package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stake-tracker/internal/domain/usage"

	_ "modernc.org/sqlite"
)

// Apple reference dates are seconds since 2001-01-01 UTC
const appleEpochOffset = 978307200

// Source reads usage measurements from a Knowledge database file
type Source struct {
	path string
}

// New creates a Knowledge usage source. An empty path falls back to the
// default location under the user's library.
func New(path string) *Source {
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, "Library", "Application Support", "Knowledge", "knowledgeC.db")
		}
	}

	return &Source{path: path}
}

// Usage returns the minutes the target app or domain was in use within
// [start, end). A missing or unreadable database reports ErrUnavailable:
// the database belongs to the OS and requires Full Disk Access to read.
func (s *Source) Usage(ctx context.Context, target string, start, end time.Time) (float64, error) {
	if _, err := os.Stat(s.path); err != nil {
		return 0, fmt.Errorf("%w: %v", usage.ErrUnavailable, err)
	}

	db, err := sql.Open("sqlite", s.path+"?mode=ro")
	if err != nil {
		return 0, fmt.Errorf("%w: open knowledge db: %v", usage.ErrUnavailable, err)
	}
	defer db.Close()

	query := `
		SELECT
			ZOBJECT.ZVALUESTRING,
			ZSTRUCTUREDMETADATA.Z_DKDIGITALHEALTHMETADATAKEY__WEBDOMAIN,
			(ZOBJECT.ZENDDATE - ZOBJECT.ZSTARTDATE)
		FROM ZOBJECT
			LEFT JOIN ZSTRUCTUREDMETADATA
				ON ZOBJECT.ZSTRUCTUREDMETADATA = ZSTRUCTUREDMETADATA.Z_PK
		WHERE ZSTREAMNAME IN ('/app/usage', '/app/webUsage')
		  AND (ZOBJECT.ZSTARTDATE + ?) >= ?
		  AND (ZOBJECT.ZSTARTDATE + ?) < ?
	`

	rows, err := db.QueryContext(ctx, query,
		appleEpochOffset, start.Unix(), appleEpochOffset, end.Unix())
	if err != nil {
		return 0, fmt.Errorf("%w: query knowledge db: %v", usage.ErrUnavailable, err)
	}
	defer rows.Close()

	appSeconds := make(map[string]float64)
	domainSeconds := make(map[string]float64)

	for rows.Next() {
		var (
			app     sql.NullString
			domain  sql.NullString
			seconds sql.NullFloat64
		)

		if err := rows.Scan(&app, &domain, &seconds); err != nil {
			return 0, fmt.Errorf("%w: scan knowledge row: %v", usage.ErrUnavailable, err)
		}

		if !seconds.Valid || seconds.Float64 <= 0 {
			continue
		}

		if app.Valid && app.String != "" {
			appSeconds[SimplifyAppName(app.String)] += seconds.Float64
		}

		if domain.Valid && domain.String != "" {
			domainSeconds[SimplifyDomainName(domain.String)] += seconds.Float64
		}
	}

	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("%w: iterate knowledge rows: %v", usage.ErrUnavailable, err)
	}

	total := lookupSeconds(appSeconds, target) + lookupSeconds(domainSeconds, target)

	return total / 60, nil
}

func lookupSeconds(seconds map[string]float64, target string) float64 {
	for name, sec := range seconds {
		if strings.EqualFold(name, target) {
			return sec
		}
	}
	return 0
}
